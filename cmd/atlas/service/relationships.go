package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lyzr/patternatlas/common/codec"
	"github.com/lyzr/patternatlas/common/events"
	"github.com/lyzr/patternatlas/common/models"
	"github.com/lyzr/patternatlas/common/store"
	"github.com/lyzr/patternatlas/common/validation"
)

// CreateRelationship creates the linking discussion and lists it on both endpoints.
// When linking an endpoint fails the relationship stays created and is returned with the error.
func (s *KnowledgeBaseService) CreateRelationship(ctx context.Context, in validation.CreateRelationshipInput) (*models.Relationship, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	pattern, err := s.store.GetPattern(ctx, in.PatternNumber)
	if err != nil {
		return nil, fmt.Errorf("pattern %d: %w", in.PatternNumber, err)
	}
	solution, err := s.store.GetSolutionImplementation(ctx, in.SolutionNumber)
	if err != nil {
		return nil, fmt.Errorf("solution implementation %d: %w", in.SolutionNumber, err)
	}

	title := fmt.Sprintf("%s - %s", pattern.Title, solution.Title)
	body := codec.EncodeRelationship(pattern.Number, solution.Number)

	d, err := s.store.CreateDiscussion(ctx, s.store.Categories().Relationship, title, body)
	if err != nil {
		return nil, err
	}

	rel, ok := store.DecodeRelationship(*d)
	if !ok {
		return nil, fmt.Errorf("relationship discussion %d was stored with an unreadable body", d.Number)
	}
	s.store.UpsertRelationship(rel)

	log := s.log.WithKind("relationship").WithNumber(rel.Number)
	log.Info("created relationship", "pattern", rel.PatternNumber, "solution", rel.SolutionNumber)
	s.publish(ctx, events.RelationshipCreated, map[string]any{
		"number":          rel.Number,
		"pattern_number":  rel.PatternNumber,
		"solution_number": rel.SolutionNumber,
	})

	if err := s.linkEndpoint(ctx, models.KindPattern, rel.PatternNumber, rel.Number); err != nil {
		return rel, fmt.Errorf("relationship %d created but linking pattern %d failed: %w", rel.Number, rel.PatternNumber, err)
	}
	if err := s.linkEndpoint(ctx, models.KindSolutionImplementation, rel.SolutionNumber, rel.Number); err != nil {
		return rel, fmt.Errorf("relationship %d created but linking solution implementation %d failed: %w", rel.Number, rel.SolutionNumber, err)
	}

	return rel, nil
}

// linkEndpoint adds relationshipNumber to an entity body, persists it and caches the confirmed body
func (s *KnowledgeBaseService) linkEndpoint(ctx context.Context, kind models.Kind, number, relationshipNumber int) error {
	// Re-read so the patch applies to the latest cached body
	e, err := s.store.GetEntityByNumber(ctx, kind, number)
	if err != nil {
		return err
	}
	base := e.Base()

	updated, changed := codec.LinkRelationship(kind, base.Body, relationshipNumber)
	if !changed {
		s.metrics.PatchNoop()
		s.log.WithKind(string(kind)).WithNumber(number).Debug("relationship already listed", "relationship", relationshipNumber)
		return nil
	}

	d, err := s.store.UpdateDiscussionBody(ctx, base.ID, updated)
	if err != nil {
		return err
	}

	confirmed := *d
	if confirmed.Number == 0 {
		confirmed.Number = base.Number
	}

	switch kind {
	case models.KindPattern:
		s.store.UpsertPattern(store.DecodePattern(confirmed))
	case models.KindSolutionImplementation:
		s.store.UpsertSolutionImplementation(store.DecodeSolutionImplementation(confirmed))
	}

	s.publish(ctx, events.EntityLinked, map[string]any{
		"kind":         kind,
		"number":       number,
		"relationship": relationshipNumber,
	})
	return nil
}

// GetRelationship returns a relationship by number
func (s *KnowledgeBaseService) GetRelationship(ctx context.Context, number int) (*models.Relationship, error) {
	return s.store.GetRelationshipByNumber(ctx, number)
}

// ListRelationships returns the relationships listed on an entity, in body order
func (s *KnowledgeBaseService) ListRelationships(ctx context.Context, kind models.Kind, number int) ([]*models.Relationship, error) {
	e, err := s.GetEntity(ctx, kind, number)
	if err != nil {
		return nil, err
	}
	return s.store.RelationshipsOf(ctx, e)
}

// ResolveLinkedEntity returns the endpoint of a relationship opposite sourceNumber
func (s *KnowledgeBaseService) ResolveLinkedEntity(ctx context.Context, relationshipNumber, sourceNumber int) (models.Entity, error) {
	rel, err := s.store.GetRelationshipByNumber(ctx, relationshipNumber)
	if err != nil {
		return nil, err
	}

	other, kind, ok := rel.Opposite(sourceNumber)
	if !ok {
		return nil, fmt.Errorf("%w: %d is not linked by relationship %d", ErrNotEndpoint, sourceNumber, relationshipNumber)
	}

	e, err := s.store.GetEntityByNumber(ctx, kind, other)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%s %d: %w", kind, other, err)
	}
	return e, err
}
