package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyzr/patternatlas/common/logger"
	"github.com/lyzr/patternatlas/common/models"
)

// writableDiscussions adds recorded writes on top of fakeDiscussions
type writableDiscussions struct {
	*fakeDiscussions
	createdIn []string
	writeErr  error
}

func (w *writableDiscussions) CreateDiscussion(ctx context.Context, title, body, categoryID, repositoryID string) (*models.Discussion, error) {
	if w.writeErr != nil {
		return nil, w.writeErr
	}
	w.createdIn = append(w.createdIn, categoryID+"@"+repositoryID)
	return &models.Discussion{ID: "D_new", Number: 50, Title: title, Body: body}, nil
}

func (w *writableDiscussions) UpdateDiscussionBody(ctx context.Context, discussionID, body string) (*models.Discussion, error) {
	if w.writeErr != nil {
		return nil, w.writeErr
	}
	return &models.Discussion{ID: discussionID, Body: body}, nil
}

func TestCreateDiscussionResolvesCategory(t *testing.T) {
	w := &writableDiscussions{fakeDiscussions: newFakeDiscussions()}
	s := New(w, logger.Discard())
	ctx := context.Background()

	d, err := s.CreateDiscussion(ctx, DefaultCategories.Relationship, "A - B", "body")
	require.NoError(t, err)
	assert.Equal(t, 50, d.Number)
	assert.Equal(t, []string{"cat-relationship@repo-1"}, w.createdIn)

	_, err = s.CreateDiscussion(ctx, "Unknown", "x", "y")
	require.Error(t, err)
	assert.Len(t, w.createdIn, 1)
}

func TestWriteFailuresAreRecorded(t *testing.T) {
	w := &writableDiscussions{fakeDiscussions: newFakeDiscussions()}
	s := New(w, logger.Discard())
	ctx := context.Background()

	_, err := s.IDs(ctx)
	require.NoError(t, err)

	w.writeErr = errors.New("secondary rate limit")
	_, err = s.CreateDiscussion(ctx, DefaultCategories.Pattern, "t", "b")
	require.Error(t, err)
	assert.Contains(t, s.Err(), "secondary rate limit")

	w.writeErr = models.ErrNotFound
	_, err = s.UpdateDiscussionBody(ctx, "D_gone", "b")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, s.Err(), "a new call clears the previous error and not-found is not recorded")

	w.writeErr = nil
	d, err := s.UpdateDiscussionBody(ctx, "D_1", "patched")
	require.NoError(t, err)
	assert.Equal(t, "patched", d.Body)
}
