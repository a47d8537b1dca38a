package store

import (
	"context"
	"fmt"

	"github.com/lyzr/patternatlas/common/codec"
	"github.com/lyzr/patternatlas/common/models"
)

// DecodePattern builds a pattern from a raw discussion
func DecodePattern(d models.Discussion) *models.Pattern {
	f := codec.DecodePattern(d.Body)
	return &models.Pattern{
		Discussion:          d,
		IconURL:             f.IconURL,
		Description:         f.Description,
		ReferenceURL:        f.ReferenceURL,
		RelationshipNumbers: f.RelationshipNumbers,
	}
}

// DecodeSolutionImplementation builds a solution implementation from a raw discussion
func DecodeSolutionImplementation(d models.Discussion) *models.SolutionImplementation {
	f := codec.DecodeSolution(d.Body)
	return &models.SolutionImplementation{
		Discussion:          d,
		Description:         f.Description,
		ReferenceURL:        f.ReferenceURL,
		RelationshipNumbers: f.RelationshipNumbers,
	}
}

// DecodeRelationship builds a relationship from a raw discussion.
// The second value is false when the body does not name both endpoints.
func DecodeRelationship(d models.Discussion) (*models.Relationship, bool) {
	f := codec.DecodeRelationship(d.Body)
	if !f.Valid {
		return nil, false
	}
	return &models.Relationship{
		Discussion:     d,
		PatternNumber:  f.PatternNumber,
		SolutionNumber: f.SolutionNumber,
	}, true
}

// load serves number from c or fetches, decodes and appends it.
// Concurrent loads of the same key share one fetch.
func load[T models.Record](
	ctx context.Context,
	s *Store,
	c *collection[T],
	kind string,
	number int,
	includeComments bool,
	decode func(models.Discussion) (T, bool),
) (T, error) {
	var zero T

	s.mu.RLock()
	cached, ok := c.find(number)
	s.mu.RUnlock()
	s.metrics.CacheLookup(kind, ok)
	if ok {
		return cached, nil
	}

	v, err := s.shared(ctx, fmt.Sprintf("%s:%d", kind, number), func(ctx context.Context) (any, error) {
		s.mu.RLock()
		cached, ok := c.find(number)
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}

		d, err := s.fetchDetail(ctx, number, includeComments)
		if err != nil {
			return nil, err
		}

		entity, valid := decode(*d)
		if !valid {
			s.metrics.InvalidRelationship()
			s.log.WithKind(kind).WithNumber(number).Warn("discarding discussion with undecodable body")
			return nil, models.ErrNotFound
		}

		// Another call may have stored this number while we were fetching.
		s.mu.Lock()
		defer s.mu.Unlock()
		return c.appendIfAbsent(entity), nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// GetPattern returns the pattern with number, fetching it on a cache miss
func (s *Store) GetPattern(ctx context.Context, number int) (*models.Pattern, error) {
	return load(ctx, s, &s.patterns, string(models.KindPattern), number, false,
		func(d models.Discussion) (*models.Pattern, bool) { return DecodePattern(d), true })
}

// GetSolutionImplementation returns the solution implementation with number
func (s *Store) GetSolutionImplementation(ctx context.Context, number int) (*models.SolutionImplementation, error) {
	return load(ctx, s, &s.solutions, string(models.KindSolutionImplementation), number, false,
		func(d models.Discussion) (*models.SolutionImplementation, bool) {
			return DecodeSolutionImplementation(d), true
		})
}

// GetEntityByNumber dispatches to GetPattern or GetSolutionImplementation
func (s *Store) GetEntityByNumber(ctx context.Context, kind models.Kind, number int) (models.Entity, error) {
	switch kind {
	case models.KindPattern:
		p, err := s.GetPattern(ctx, number)
		if err != nil {
			return nil, err
		}
		return p, nil
	case models.KindSolutionImplementation:
		si, err := s.GetSolutionImplementation(ctx, number)
		if err != nil {
			return nil, err
		}
		return si, nil
	}
	return nil, fmt.Errorf("unknown entity kind %q", kind)
}

// GetRelationshipByNumber returns the relationship with number. Discussions
// whose body does not decode to two positive numbers are reported as
// models.ErrNotFound and never cached.
func (s *Store) GetRelationshipByNumber(ctx context.Context, number int) (*models.Relationship, error) {
	return load(ctx, s, &s.relationships, "relationship", number, true, DecodeRelationship)
}

// UpsertPattern replaces or prepends p and keeps the first list page in step
func (s *Store) UpsertPattern(p *models.Pattern) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.patterns.upsert(p) {
		s.spliceFirstPageLocked(models.KindPattern, p.Discussion)
	}
}

// UpsertSolutionImplementation replaces or prepends si and keeps the first list page in step
func (s *Store) UpsertSolutionImplementation(si *models.SolutionImplementation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.solutions.upsert(si) {
		s.spliceFirstPageLocked(models.KindSolutionImplementation, si.Discussion)
	}
}

// UpsertRelationship replaces or prepends r
func (s *Store) UpsertRelationship(r *models.Relationship) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relationships.upsert(r)
}

// UpsertEntity dispatches on the entity's kind
func (s *Store) UpsertEntity(e models.Entity) {
	switch v := e.(type) {
	case *models.Pattern:
		s.UpsertPattern(v)
	case *models.SolutionImplementation:
		s.UpsertSolutionImplementation(v)
	}
}

// Patterns returns the cached patterns, most recently created first
func (s *Store) Patterns() []*models.Pattern {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.patterns.snapshot()
}

// SolutionImplementations returns the cached solution implementations
func (s *Store) SolutionImplementations() []*models.SolutionImplementation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.solutions.snapshot()
}

// Relationships returns the cached relationships
func (s *Store) Relationships() []*models.Relationship {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.relationships.snapshot()
}
