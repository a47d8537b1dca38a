// Package store caches decoded discussions for one application session.
//
// Lookups by number and list pages by cursor are served from memory when
// possible. Entities are only ever added or replaced whole, never removed.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lyzr/patternatlas/common/logger"
	"github.com/lyzr/patternatlas/common/metrics"
	"github.com/lyzr/patternatlas/common/models"
)

// DefaultPageSize is the number of items per list page
const DefaultPageSize = 10

// DefaultFetchTimeout bounds one shared fetch from the discussion service
const DefaultFetchTimeout = 30 * time.Second

// firstPageKey is the page-cache key for the first page. Real cursors are never empty.
const firstPageKey = "\x00first"

// Categories names the discussion categories each record type lives in
type Categories struct {
	Pattern                string
	SolutionImplementation string
	Relationship           string
}

// DefaultCategories are the category names used when none are configured
var DefaultCategories = Categories{
	Pattern:                "Patterns",
	SolutionImplementation: "Solution Implementations",
	Relationship:           "Pattern - Solution Implementation Mapping",
}

// Name returns the category name for an entity kind
func (c Categories) Name(kind models.Kind) string {
	if kind == models.KindSolutionImplementation {
		return c.SolutionImplementation
	}
	return c.Pattern
}

// Store is the session-wide entity cache
type Store struct {
	svc        DiscussionService
	log        *logger.Logger
	metrics    *metrics.Metrics
	pageSize   int
	categories Categories

	group        singleflight.Group
	fetchTimeout time.Duration

	mu            sync.RWMutex
	ids           *models.RepositoryIDs
	patterns      collection[*models.Pattern]
	solutions     collection[*models.SolutionImplementation]
	relationships collection[*models.Relationship]
	pages         map[models.Kind]map[string]*models.ListPage
	cursors       map[models.Kind]string
	lastErr       string
}

// Option configures a Store
type Option func(*Store)

// WithPageSize sets the list page size
func WithPageSize(size int) Option {
	return func(s *Store) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithCategories sets the category names
func WithCategories(c Categories) Option {
	return func(s *Store) {
		s.categories = c
	}
}

// WithFetchTimeout bounds each shared fetch. Fetches outlive the callers that start them.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithMetrics records cache lookups and dropped records
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// New creates an empty store reading through svc
func New(svc DiscussionService, log *logger.Logger, opts ...Option) *Store {
	s := &Store{
		svc:        svc,
		log:        log,
		pageSize:     DefaultPageSize,
		categories:   DefaultCategories,
		fetchTimeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetLocked()
	return s
}

// PageSize returns the configured list page size
func (s *Store) PageSize() int {
	return s.pageSize
}

// Categories returns the configured category names
func (s *Store) Categories() Categories {
	return s.categories
}

// Reset drops every cached value, including the repository identifiers
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.log.Info("store reset")
}

func (s *Store) resetLocked() {
	s.ids = nil
	s.patterns = collection[*models.Pattern]{}
	s.solutions = collection[*models.SolutionImplementation]{}
	s.relationships = collection[*models.Relationship]{}
	s.pages = map[models.Kind]map[string]*models.ListPage{
		models.KindPattern:                {},
		models.KindSolutionImplementation: {},
	}
	s.cursors = map[models.Kind]string{}
	s.lastErr = ""
}

// Err returns the message of the most recent failed external call, or ""
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) setErr(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}

// shared runs fn once per key for all concurrent callers. fn gets a context
// detached from the callers' cancellation so its result is always merged; a
// caller whose own context ends stops waiting and gets ctx.Err().
func (s *Store) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := s.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		return fn(fctx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// fail records err as the session error and returns it wrapped.
// A cancelled caller is not a session failure.
func (s *Store) fail(err error, format string, args ...any) error {
	wrapped := fmt.Errorf(format+": %w", append(args, err)...)
	if errors.Is(err, context.Canceled) {
		return wrapped
	}
	s.setErr(wrapped.Error())
	s.log.Warn("discussion service call failed", "error", wrapped)
	return wrapped
}

// IDs returns the repository and category identifiers, fetching them once
func (s *Store) IDs(ctx context.Context) (*models.RepositoryIDs, error) {
	s.mu.RLock()
	ids := s.ids
	s.mu.RUnlock()
	if ids != nil {
		return ids, nil
	}

	v, err := s.shared(ctx, "ids", func(ctx context.Context) (any, error) {
		s.setErr("")
		fetched, err := s.svc.FetchRepositoryIdentifiers(ctx)
		if err != nil {
			return nil, s.fail(err, "failed to load repository identifiers")
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.ids == nil {
			s.ids = fetched
		}
		return s.ids, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.RepositoryIDs), nil
}

// CategoryID resolves the category id for a configured category name
func (s *Store) CategoryID(ctx context.Context, name string) (string, error) {
	ids, err := s.IDs(ctx)
	if err != nil {
		return "", err
	}
	id := ids.CategoryID(name)
	if id == "" {
		return "", fmt.Errorf("unknown discussion category %q", name)
	}
	return id, nil
}

// fetchDetail loads one discussion. Not-found is returned as-is and is not
// recorded as a session error.
func (s *Store) fetchDetail(ctx context.Context, number int, includeComments bool) (*models.Discussion, error) {
	s.setErr("")
	d, err := s.svc.FetchDiscussionDetail(ctx, number, includeComments)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, s.fail(err, "failed to load discussion %d", number)
	}
	if d == nil {
		return nil, models.ErrNotFound
	}
	return d, nil
}
