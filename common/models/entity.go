package models

// Kind selects one of the two linked entity categories
type Kind string

const (
	KindPattern                Kind = "pattern"
	KindSolutionImplementation Kind = "solution_implementation"
)

// Valid reports whether k is a known entity kind
func (k Kind) Valid() bool {
	return k == KindPattern || k == KindSolutionImplementation
}

// Opposite returns the kind on the other side of a relationship
func (k Kind) Opposite() Kind {
	if k == KindPattern {
		return KindSolutionImplementation
	}
	return KindPattern
}

// Record is implemented by every decoded discussion the store caches
type Record interface {
	Base() *Discussion
}

// Entity is a pattern or a solution implementation
type Entity interface {
	Record
	EntityKind() Kind
	Links() []int
}

// Pattern is a discussion in the pattern category.
// RelationshipNumbers holds relationship discussion numbers in document order.
type Pattern struct {
	Discussion
	IconURL             string `json:"icon_url"`
	Description         string `json:"description"`
	ReferenceURL        string `json:"reference_url"`
	RelationshipNumbers []int  `json:"relationship_numbers"`
}

func (p *Pattern) Base() *Discussion { return &p.Discussion }
func (p *Pattern) EntityKind() Kind  { return KindPattern }
func (p *Pattern) Links() []int      { return p.RelationshipNumbers }

// SolutionImplementation is a discussion in the solution implementation category
type SolutionImplementation struct {
	Discussion
	ReferenceURL        string `json:"reference_url"`
	Description         string `json:"description"`
	RelationshipNumbers []int  `json:"relationship_numbers"`
}

func (s *SolutionImplementation) Base() *Discussion { return &s.Discussion }
func (s *SolutionImplementation) EntityKind() Kind  { return KindSolutionImplementation }
func (s *SolutionImplementation) Links() []int      { return s.RelationshipNumbers }

// Relationship links one pattern to one solution implementation by number
type Relationship struct {
	Discussion
	PatternNumber  int `json:"pattern_number"`
	SolutionNumber int `json:"solution_number"`
}

func (r *Relationship) Base() *Discussion { return &r.Discussion }

// Opposite returns the endpoint number on the other side of source.
// The second value is false when source is not an endpoint.
func (r *Relationship) Opposite(source int) (int, Kind, bool) {
	switch source {
	case r.PatternNumber:
		return r.SolutionNumber, KindSolutionImplementation, true
	case r.SolutionNumber:
		return r.PatternNumber, KindPattern, true
	}
	return 0, "", false
}

// ListPage is a cached page of a category listing
type ListPage struct {
	Items    []DiscussionRef `json:"items"`
	PageInfo PageInfo        `json:"page_info"`
}
