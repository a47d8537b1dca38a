package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyzr/patternatlas/common/cache"
	"github.com/lyzr/patternatlas/common/events"
	"github.com/lyzr/patternatlas/common/logger"
	"github.com/lyzr/patternatlas/common/models"
	"github.com/lyzr/patternatlas/common/store"
	inputs "github.com/lyzr/patternatlas/common/validation"
)

// fakeHost is an in-memory discussion host with write support
type fakeHost struct {
	mu          sync.Mutex
	next        int
	discussions map[int]*models.Discussion
	comments    map[string][]models.Comment

	commentFetches int
	updates        int
	failUpdateOn   string
	failWrites     error
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		next:        100,
		discussions: make(map[int]*models.Discussion),
		comments:    make(map[string][]models.Comment),
	}
}

func (f *fakeHost) byID(id string) *models.Discussion {
	for _, d := range f.discussions {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (f *fakeHost) FetchRepositoryIdentifiers(ctx context.Context) (*models.RepositoryIDs, error) {
	return &models.RepositoryIDs{
		RepositoryID: "repo",
		CategoryIDs: map[string]string{
			store.DefaultCategories.Pattern:                "cat-p",
			store.DefaultCategories.SolutionImplementation: "cat-s",
			store.DefaultCategories.Relationship:           "cat-r",
		},
	}, nil
}

func (f *fakeHost) FetchDiscussionList(ctx context.Context, categoryID, cursor string, pageSize int) (*models.DiscussionList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := &models.DiscussionList{}
	for _, d := range f.discussions {
		if d.Category.ID == categoryID {
			list.Items = append(list.Items, models.DiscussionRef{ID: d.ID, Number: d.Number, Title: d.Title})
		}
	}
	return list, nil
}

func (f *fakeHost) FetchDiscussionDetail(ctx context.Context, number int, includeComments bool) (*models.Discussion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.discussions[number]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeHost) FetchDiscussionComments(ctx context.Context, discussionID string, pageSize int, cursor string) (*models.CommentPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commentFetches++
	if f.byID(discussionID) == nil {
		return nil, models.ErrNotFound
	}
	return &models.CommentPage{Nodes: append([]models.Comment(nil), f.comments[discussionID]...)}, nil
}

func (f *fakeHost) CreateDiscussion(ctx context.Context, title, body, categoryID, repositoryID string) (*models.Discussion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites != nil {
		return nil, f.failWrites
	}
	f.next++
	d := &models.Discussion{
		ID:       fmt.Sprintf("D_%d", f.next),
		Number:   f.next,
		Title:    title,
		Body:     body,
		Category: models.Category{ID: categoryID},
	}
	f.discussions[d.Number] = d
	cp := *d
	return &cp, nil
}

func (f *fakeHost) UpdateDiscussionBody(ctx context.Context, discussionID, body string) (*models.Discussion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdateOn == discussionID {
		return nil, errors.New("update rejected")
	}
	d := f.byID(discussionID)
	if d == nil {
		return nil, models.ErrNotFound
	}
	f.updates++
	d.Body = body
	cp := *d
	return &cp, nil
}

func (f *fakeHost) CreateDiscussionComment(ctx context.Context, discussionID, body string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byID(discussionID) == nil {
		return nil, models.ErrNotFound
	}
	c := models.Comment{ID: fmt.Sprintf("C_%d", len(f.comments[discussionID])+1), Body: body}
	f.comments[discussionID] = append(f.comments[discussionID], c)
	return &c, nil
}

// recordingPublisher keeps every event type it receives
type recordingPublisher struct {
	mu    sync.Mutex
	types []string
	err   error
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, e.Type)
	return p.err
}

func (p *recordingPublisher) seen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.types...)
}

func newTestService(t *testing.T, host *fakeHost, pub events.Publisher) (*KnowledgeBaseService, *cache.MemoryCache) {
	t.Helper()
	log := logger.Discard()
	comments := cache.NewMemoryCache(log)
	t.Cleanup(func() { comments.Close() })

	st := store.New(host, log)
	svc := NewKnowledgeBaseService(st, pub, Options{Comments: comments, CommentTTL: time.Minute}, log)
	return svc, comments
}

func createPair(t *testing.T, svc *KnowledgeBaseService) (*models.Pattern, *models.SolutionImplementation) {
	t.Helper()
	ctx := context.Background()

	p, err := svc.CreatePattern(ctx, inputs.CreatePatternInput{
		Title:        "Circuit Breaker",
		Description:  "Stop calling a failing dependency.",
		ReferenceURL: "https://example.com/cb",
	})
	require.NoError(t, err)

	si, err := svc.CreateSolutionImplementation(ctx, inputs.CreateSolutionInput{
		Title:        "Hystrix",
		Description:  "Netflix library.",
		SolutionsURL: "https://github.com/Netflix/Hystrix",
	})
	require.NoError(t, err)
	return p, si
}

func TestCreatePatternDecodesAndCaches(t *testing.T) {
	host := newFakeHost()
	pub := &recordingPublisher{}
	svc, _ := newTestService(t, host, pub)

	p, si := createPair(t, svc)
	assert.Equal(t, "Circuit Breaker", p.Title)
	assert.Equal(t, "Stop calling a failing dependency.", p.Description)
	assert.Equal(t, "https://example.com/cb", p.ReferenceURL)
	assert.Equal(t, "https://github.com/Netflix/Hystrix", si.ReferenceURL)
	assert.Equal(t, "cat-p", host.discussions[p.Number].Category.ID)

	got, err := svc.GetEntity(context.Background(), models.KindPattern, p.Number)
	require.NoError(t, err)
	assert.Same(t, p, got)

	assert.Equal(t, []string{events.PatternCreated, events.SolutionImplementationCreated}, pub.seen())
}

func TestCreatePatternRejectsInvalidInput(t *testing.T) {
	host := newFakeHost()
	svc, _ := newTestService(t, host, nil)

	_, err := svc.CreatePattern(context.Background(), inputs.CreatePatternInput{Title: "only title"})
	require.Error(t, err)

	var verrs validation.Errors
	assert.True(t, errors.As(err, &verrs))
	assert.Empty(t, host.discussions)
}

func TestCreateRelationshipLinksBothEndpoints(t *testing.T) {
	host := newFakeHost()
	pub := &recordingPublisher{}
	svc, _ := newTestService(t, host, pub)
	p, si := createPair(t, svc)
	ctx := context.Background()

	rel, err := svc.CreateRelationship(ctx, inputs.CreateRelationshipInput{PatternNumber: p.Number, SolutionNumber: si.Number})
	require.NoError(t, err)
	assert.Equal(t, p.Number, rel.PatternNumber)
	assert.Equal(t, si.Number, rel.SolutionNumber)
	assert.Equal(t, "Circuit Breaker - Hystrix", rel.Title)
	assert.Equal(t, "cat-r", host.discussions[rel.Number].Category.ID)

	assert.Contains(t, host.discussions[p.Number].Body, fmt.Sprintf("#%d", rel.Number))
	assert.Contains(t, host.discussions[si.Number].Body, fmt.Sprintf("#%d", rel.Number))

	rels, err := svc.ListRelationships(ctx, models.KindPattern, p.Number)
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, rel.Number, rels[0].Number)

	rels, err = svc.ListRelationships(ctx, models.KindSolutionImplementation, si.Number)
	require.NoError(t, err)
	require.Len(t, rels, 1)

	assert.Equal(t, []string{
		events.PatternCreated,
		events.SolutionImplementationCreated,
		events.RelationshipCreated,
		events.EntityLinked,
		events.EntityLinked,
	}, pub.seen())
}

func TestLinkEndpointIsIdempotent(t *testing.T) {
	host := newFakeHost()
	svc, _ := newTestService(t, host, nil)
	p, si := createPair(t, svc)
	ctx := context.Background()

	rel, err := svc.CreateRelationship(ctx, inputs.CreateRelationshipInput{PatternNumber: p.Number, SolutionNumber: si.Number})
	require.NoError(t, err)
	updates := host.updates

	require.NoError(t, svc.linkEndpoint(ctx, models.KindPattern, p.Number, rel.Number))
	assert.Equal(t, updates, host.updates)
	assert.Equal(t, 1, strings.Count(host.discussions[p.Number].Body, fmt.Sprintf("#%d", rel.Number)))
}

func TestCreateRelationshipMissingEndpoint(t *testing.T) {
	host := newFakeHost()
	svc, _ := newTestService(t, host, nil)
	p, _ := createPair(t, svc)

	_, err := svc.CreateRelationship(context.Background(), inputs.CreateRelationshipInput{PatternNumber: p.Number, SolutionNumber: 999})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Len(t, host.discussions, 2)
}

func TestCreateRelationshipReportsLinkFailure(t *testing.T) {
	host := newFakeHost()
	svc, _ := newTestService(t, host, nil)
	p, si := createPair(t, svc)
	host.failUpdateOn = si.ID

	rel, err := svc.CreateRelationship(context.Background(), inputs.CreateRelationshipInput{PatternNumber: p.Number, SolutionNumber: si.Number})
	require.Error(t, err)
	require.NotNil(t, rel)
	assert.Contains(t, err.Error(), "linking solution implementation")

	got, err := svc.GetRelationship(context.Background(), rel.Number)
	require.NoError(t, err)
	assert.Same(t, rel, got)
}

func TestResolveLinkedEntity(t *testing.T) {
	host := newFakeHost()
	svc, _ := newTestService(t, host, nil)
	p, si := createPair(t, svc)
	ctx := context.Background()

	rel, err := svc.CreateRelationship(ctx, inputs.CreateRelationshipInput{PatternNumber: p.Number, SolutionNumber: si.Number})
	require.NoError(t, err)

	e, err := svc.ResolveLinkedEntity(ctx, rel.Number, p.Number)
	require.NoError(t, err)
	assert.Equal(t, models.KindSolutionImplementation, e.EntityKind())
	assert.Equal(t, si.Number, e.Base().Number)

	e, err = svc.ResolveLinkedEntity(ctx, rel.Number, si.Number)
	require.NoError(t, err)
	assert.Equal(t, models.KindPattern, e.EntityKind())

	_, err = svc.ResolveLinkedEntity(ctx, rel.Number, 4242)
	assert.ErrorIs(t, err, ErrNotEndpoint)

	_, err = svc.ResolveLinkedEntity(ctx, 4242, p.Number)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCommentsAreCachedUntilNewComment(t *testing.T) {
	host := newFakeHost()
	pub := &recordingPublisher{}
	svc, _ := newTestService(t, host, pub)
	p, _ := createPair(t, svc)
	ctx := context.Background()

	page, err := svc.ListComments(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Empty(t, page.Nodes)

	_, err = svc.ListComments(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, host.commentFetches)

	c, err := svc.AddComment(ctx, inputs.AddCommentInput{DiscussionID: p.ID, Body: "works for us"})
	require.NoError(t, err)
	assert.Equal(t, "works for us", c.Body)

	page, err = svc.ListComments(ctx, p.ID, "")
	require.NoError(t, err)
	require.Len(t, page.Nodes, 1)
	assert.Equal(t, 2, host.commentFetches)
	assert.Contains(t, pub.seen(), events.CommentCreated)
}

func TestAddCommentValidationAndNotFound(t *testing.T) {
	host := newFakeHost()
	svc, _ := newTestService(t, host, nil)
	ctx := context.Background()

	_, err := svc.AddComment(ctx, inputs.AddCommentInput{DiscussionID: "D_1", Body: "  "})
	require.Error(t, err)

	_, err = svc.AddComment(ctx, inputs.AddCommentInput{DiscussionID: "D_missing", Body: "hi"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	host := newFakeHost()
	pub := &recordingPublisher{err: errors.New("redis down")}
	svc, _ := newTestService(t, host, pub)

	_, err := svc.CreatePattern(context.Background(), inputs.CreatePatternInput{
		Title:        "Retry",
		Description:  "Try again.",
		ReferenceURL: "https://example.com/retry",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{events.PatternCreated}, pub.seen())
}

func TestDescriptionHTML(t *testing.T) {
	host := newFakeHost()
	svc, _ := newTestService(t, host, nil)
	p, _ := createPair(t, svc)

	html := svc.DescriptionHTML(p)
	assert.Contains(t, html, "<p>Stop calling a failing dependency.</p>")
	assert.Empty(t, svc.DescriptionHTML(&models.Pattern{}))
}
