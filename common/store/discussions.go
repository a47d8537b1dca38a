package store

import (
	"context"
	"errors"
	"time"

	"github.com/lyzr/patternatlas/common/metrics"
	"github.com/lyzr/patternatlas/common/models"
)

// DiscussionService is the external discussion host the store reads through.
// FetchDiscussionDetail returns models.ErrNotFound when no record exists.
type DiscussionService interface {
	FetchRepositoryIdentifiers(ctx context.Context) (*models.RepositoryIDs, error)
	FetchDiscussionList(ctx context.Context, categoryID, cursor string, pageSize int) (*models.DiscussionList, error)
	FetchDiscussionDetail(ctx context.Context, number int, includeComments bool) (*models.Discussion, error)
	FetchDiscussionComments(ctx context.Context, discussionID string, pageSize int, cursor string) (*models.CommentPage, error)
	CreateDiscussion(ctx context.Context, title, body, categoryID, repositoryID string) (*models.Discussion, error)
	UpdateDiscussionBody(ctx context.Context, discussionID, body string) (*models.Discussion, error)
	CreateDiscussionComment(ctx context.Context, discussionID, body string) (*models.Comment, error)
}

// Instrument wraps svc so every call is counted and timed
func Instrument(svc DiscussionService, m *metrics.Metrics) DiscussionService {
	if m == nil {
		return svc
	}
	return &instrumented{next: svc, m: m}
}

type instrumented struct {
	next DiscussionService
	m    *metrics.Metrics
}

func (i *instrumented) observe(op string, started time.Time, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, models.ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	i.m.ExternalCall(op, outcome, started)
}

func (i *instrumented) FetchRepositoryIdentifiers(ctx context.Context) (*models.RepositoryIDs, error) {
	started := time.Now()
	ids, err := i.next.FetchRepositoryIdentifiers(ctx)
	i.observe("fetch_repository_identifiers", started, err)
	return ids, err
}

func (i *instrumented) FetchDiscussionList(ctx context.Context, categoryID, cursor string, pageSize int) (*models.DiscussionList, error) {
	started := time.Now()
	list, err := i.next.FetchDiscussionList(ctx, categoryID, cursor, pageSize)
	i.observe("fetch_list", started, err)
	return list, err
}

func (i *instrumented) FetchDiscussionDetail(ctx context.Context, number int, includeComments bool) (*models.Discussion, error) {
	started := time.Now()
	d, err := i.next.FetchDiscussionDetail(ctx, number, includeComments)
	i.observe("fetch_detail", started, err)
	return d, err
}

func (i *instrumented) FetchDiscussionComments(ctx context.Context, discussionID string, pageSize int, cursor string) (*models.CommentPage, error) {
	started := time.Now()
	page, err := i.next.FetchDiscussionComments(ctx, discussionID, pageSize, cursor)
	i.observe("fetch_comments", started, err)
	return page, err
}

func (i *instrumented) CreateDiscussion(ctx context.Context, title, body, categoryID, repositoryID string) (*models.Discussion, error) {
	started := time.Now()
	d, err := i.next.CreateDiscussion(ctx, title, body, categoryID, repositoryID)
	i.observe("create_discussion", started, err)
	return d, err
}

func (i *instrumented) UpdateDiscussionBody(ctx context.Context, discussionID, body string) (*models.Discussion, error) {
	started := time.Now()
	d, err := i.next.UpdateDiscussionBody(ctx, discussionID, body)
	i.observe("update_discussion_body", started, err)
	return d, err
}

func (i *instrumented) CreateDiscussionComment(ctx context.Context, discussionID, body string) (*models.Comment, error) {
	started := time.Now()
	c, err := i.next.CreateDiscussionComment(ctx, discussionID, body)
	i.observe("create_comment", started, err)
	return c, err
}
