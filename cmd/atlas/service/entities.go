package service

import (
	"context"
	"fmt"

	"github.com/lyzr/patternatlas/common/codec"
	"github.com/lyzr/patternatlas/common/events"
	"github.com/lyzr/patternatlas/common/models"
	"github.com/lyzr/patternatlas/common/store"
	"github.com/lyzr/patternatlas/common/validation"
)

// CreatePattern encodes and creates a pattern discussion, then caches the decoded result
func (s *KnowledgeBaseService) CreatePattern(ctx context.Context, in validation.CreatePatternInput) (*models.Pattern, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	body := codec.EncodePattern(codec.PatternInput{
		Title:        in.Title,
		Description:  in.Description,
		ReferenceURL: in.ReferenceURL,
		IconURL:      in.IconURL,
	})

	d, err := s.store.CreateDiscussion(ctx, s.store.Categories().Pattern, in.Title, body)
	if err != nil {
		return nil, err
	}

	p := store.DecodePattern(*d)
	s.store.UpsertPattern(p)

	s.log.WithKind(string(models.KindPattern)).WithNumber(p.Number).Info("created pattern")
	s.publish(ctx, events.PatternCreated, map[string]any{"number": p.Number, "title": p.Title})

	return p, nil
}

// CreateSolutionImplementation encodes and creates a solution implementation discussion
func (s *KnowledgeBaseService) CreateSolutionImplementation(ctx context.Context, in validation.CreateSolutionInput) (*models.SolutionImplementation, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	body := codec.EncodeSolution(codec.SolutionInput{
		Title:        in.Title,
		Description:  in.Description,
		SolutionsURL: in.SolutionsURL,
	})

	d, err := s.store.CreateDiscussion(ctx, s.store.Categories().SolutionImplementation, in.Title, body)
	if err != nil {
		return nil, err
	}

	si := store.DecodeSolutionImplementation(*d)
	s.store.UpsertSolutionImplementation(si)

	s.log.WithKind(string(models.KindSolutionImplementation)).WithNumber(si.Number).Info("created solution implementation")
	s.publish(ctx, events.SolutionImplementationCreated, map[string]any{"number": si.Number, "title": si.Title})

	return si, nil
}

// GetEntity returns a pattern or solution implementation by number
func (s *KnowledgeBaseService) GetEntity(ctx context.Context, kind models.Kind, number int) (models.Entity, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	return s.store.GetEntityByNumber(ctx, kind, number)
}

// ListPage returns one page of a category listing
func (s *KnowledgeBaseService) ListPage(ctx context.Context, kind models.Kind, cursor string) (*models.ListPage, error) {
	return s.store.GetListPage(ctx, kind, cursor)
}

// DescriptionHTML renders the entity's description
func (s *KnowledgeBaseService) DescriptionHTML(e models.Entity) string {
	var description string
	switch v := e.(type) {
	case *models.Pattern:
		description = v.Description
	case *models.SolutionImplementation:
		description = v.Description
	}
	if description == "" {
		return ""
	}

	html, err := s.renderer.Render(description)
	if err != nil {
		s.log.Warn("failed to render description", "number", e.Base().Number, "error", err)
		return ""
	}
	return html
}
