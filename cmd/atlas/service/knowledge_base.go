package service

import (
	"context"
	"errors"
	"time"

	"github.com/lyzr/patternatlas/common/cache"
	"github.com/lyzr/patternatlas/common/events"
	"github.com/lyzr/patternatlas/common/logger"
	"github.com/lyzr/patternatlas/common/markdown"
	"github.com/lyzr/patternatlas/common/metrics"
	"github.com/lyzr/patternatlas/common/models"
	"github.com/lyzr/patternatlas/common/store"
)

// ErrNotEndpoint is returned when an entity is not one side of a relationship
var ErrNotEndpoint = errors.New("entity is not an endpoint of this relationship")

const publishTimeout = 2 * time.Second

// Options configures optional collaborators of the knowledge base service
type Options struct {
	// Comments caches comment pages; nil disables caching
	Comments        cache.Cache
	CommentTTL      time.Duration
	CommentPageSize int
	Metrics         *metrics.Metrics
	Renderer        *markdown.Renderer
}

// KnowledgeBaseService is the mutation and query surface over the entity store
type KnowledgeBaseService struct {
	store    *store.Store
	events   events.Publisher
	comments cache.Cache
	renderer *markdown.Renderer
	metrics  *metrics.Metrics
	log      *logger.Logger

	commentTTL      time.Duration
	commentPageSize int
}

// NewKnowledgeBaseService creates a new knowledge base service
func NewKnowledgeBaseService(st *store.Store, publisher events.Publisher, opts Options, log *logger.Logger) *KnowledgeBaseService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if opts.Renderer == nil {
		opts.Renderer = markdown.NewRenderer(markdown.Options{})
	}
	if opts.CommentPageSize <= 0 {
		opts.CommentPageSize = 20
	}
	if opts.CommentTTL <= 0 {
		opts.CommentTTL = 2 * time.Minute
	}

	return &KnowledgeBaseService{
		store:           st,
		events:          publisher,
		comments:        opts.Comments,
		renderer:        opts.Renderer,
		metrics:         opts.Metrics,
		log:             log,
		commentTTL:      opts.CommentTTL,
		commentPageSize: opts.CommentPageSize,
	}
}

// Store exposes the underlying entity store
func (s *KnowledgeBaseService) Store() *store.Store {
	return s.store
}

// RepositoryIDs returns the repository and category identifiers
func (s *KnowledgeBaseService) RepositoryIDs(ctx context.Context) (*models.RepositoryIDs, error) {
	return s.store.IDs(ctx)
}

// publish sends an event and only logs failures
func (s *KnowledgeBaseService) publish(ctx context.Context, eventType string, data map[string]any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.events.Publish(ctx, events.New(eventType, data)); err != nil {
		s.log.Warn("failed to publish event", "type", eventType, "error", err)
	}
}
