package store

import (
	"context"
	"errors"

	"github.com/lyzr/patternatlas/common/models"
)

// CreateDiscussion creates a discussion in the named category.
// The returned record carries the body the host actually stored.
func (s *Store) CreateDiscussion(ctx context.Context, category, title, body string) (*models.Discussion, error) {
	ids, err := s.IDs(ctx)
	if err != nil {
		return nil, err
	}
	categoryID, err := s.CategoryID(ctx, category)
	if err != nil {
		return nil, err
	}

	s.setErr("")
	d, err := s.svc.CreateDiscussion(ctx, title, body, categoryID, ids.RepositoryID)
	if err != nil {
		return nil, s.fail(err, "failed to create discussion in %q", category)
	}
	return d, nil
}

// UpdateDiscussionBody replaces a discussion body and returns the confirmed record
func (s *Store) UpdateDiscussionBody(ctx context.Context, discussionID, body string) (*models.Discussion, error) {
	s.setErr("")
	d, err := s.svc.UpdateDiscussionBody(ctx, discussionID, body)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, s.fail(err, "failed to update discussion %s", discussionID)
	}
	return d, nil
}

// FetchComments loads one page of comments on a discussion
func (s *Store) FetchComments(ctx context.Context, discussionID string, pageSize int, cursor string) (*models.CommentPage, error) {
	s.setErr("")
	page, err := s.svc.FetchDiscussionComments(ctx, discussionID, pageSize, cursor)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, s.fail(err, "failed to load comments for %s", discussionID)
	}
	return page, nil
}

// AddComment posts a comment on a discussion
func (s *Store) AddComment(ctx context.Context, discussionID, body string) (*models.Comment, error) {
	s.setErr("")
	c, err := s.svc.CreateDiscussionComment(ctx, discussionID, body)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, s.fail(err, "failed to add comment to %s", discussionID)
	}
	return c, nil
}
