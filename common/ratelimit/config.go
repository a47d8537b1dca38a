package ratelimit

// Mutation is a write route class, weighted by how many discussion writes it triggers
type Mutation string

const (
	MutationComment      Mutation = "comment"      // one comment write
	MutationEntity       Mutation = "entity"       // one discussion create
	MutationRelationship Mutation = "relationship" // one create plus two body patches
)

// MutationConfig defines the cost charged against a user's quota
type MutationConfig struct {
	Mutation    Mutation
	Cost        int64  // Units consumed per request
	Description string // Human-readable description
}

// DefaultMutationConfigs holds the cost of each mutation class
var DefaultMutationConfigs = map[Mutation]MutationConfig{
	MutationComment: {
		Mutation:    MutationComment,
		Cost:        1,
		Description: "Add a comment - 1 unit",
	},
	MutationEntity: {
		Mutation:    MutationEntity,
		Cost:        1,
		Description: "Create a pattern or solution implementation - 1 unit",
	},
	MutationRelationship: {
		Mutation:    MutationRelationship,
		Cost:        3,
		Description: "Create a relationship and link both endpoints - 3 units",
	},
}

// WindowSeconds is the length of every rate limit window
const WindowSeconds = 60

// CostOf returns the cost of a mutation class
func CostOf(m Mutation) int64 {
	if config, exists := DefaultMutationConfigs[m]; exists {
		return config.Cost
	}
	// Fallback to the most expensive class
	return DefaultMutationConfigs[MutationRelationship].Cost
}

// GetAllMutations returns all configured classes for documentation/API responses
func GetAllMutations() []MutationConfig {
	return []MutationConfig{
		DefaultMutationConfigs[MutationComment],
		DefaultMutationConfigs[MutationEntity],
		DefaultMutationConfigs[MutationRelationship],
	}
}
