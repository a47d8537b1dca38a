package container

import (
	"github.com/lyzr/patternatlas/cmd/atlas/service"
	"github.com/lyzr/patternatlas/common/bootstrap"
	"github.com/lyzr/patternatlas/common/clients"
	"github.com/lyzr/patternatlas/common/events"
	"github.com/lyzr/patternatlas/common/markdown"
	"github.com/lyzr/patternatlas/common/ratelimit"
	"github.com/lyzr/patternatlas/common/store"
)

// Container holds all initialized services (singleton pattern)
type Container struct {
	// Components
	Components *bootstrap.Components

	// Clients
	GitHub *clients.GitHubClient

	// Infrastructure
	Store       *store.Store
	Events      events.Publisher
	RateLimiter *ratelimit.RateLimiter // nil when redis is disabled

	// Services
	KnowledgeBase *service.KnowledgeBaseService
}

// NewContainer initializes all services once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	cfg := components.Config

	// GitHub discussion client, instrumented for the metrics registry
	github := clients.NewGitHubClient(clients.GitHubClientConfig{
		Endpoint:     cfg.GitHub.Endpoint,
		Token:        cfg.GitHub.Token,
		Owner:        cfg.GitHub.Owner,
		Repo:         cfg.GitHub.Repo,
		Timeout:      cfg.GitHub.Timeout,
		CommentLimit: cfg.Store.CommentPageSize,
	}, components.Logger)

	st := store.New(
		store.Instrument(github, components.Metrics),
		components.Logger,
		store.WithPageSize(cfg.Store.PageSize),
		store.WithCategories(store.Categories{
			Pattern:                cfg.GitHub.PatternCategory,
			SolutionImplementation: cfg.GitHub.SolutionImplementationCategory,
			Relationship:           cfg.GitHub.RelationshipCategory,
		}),
		store.WithFetchTimeout(cfg.GitHub.Timeout),
		store.WithMetrics(components.Metrics),
	)

	// Events and rate limiting need redis
	var publisher events.Publisher = events.NoopPublisher{}
	var limiter *ratelimit.RateLimiter
	if components.Redis != nil {
		publisher = events.NewRedisPublisher(components.Redis, cfg.Redis.Channel, components.Logger)
		limiter = ratelimit.NewRateLimiter(components.Redis.GetUnderlying(), components.Logger)
	}

	kb := service.NewKnowledgeBaseService(st, publisher, service.Options{
		Comments:        components.Cache,
		CommentTTL:      cfg.Cache.CommentTTL,
		CommentPageSize: cfg.Store.CommentPageSize,
		Metrics:         components.Metrics,
		Renderer:        markdown.NewRenderer(markdown.Options{HardWraps: true}),
	}, components.Logger)

	return &Container{
		Components:    components,
		GitHub:        github,
		Store:         st,
		Events:        publisher,
		RateLimiter:   limiter,
		KnowledgeBase: kb,
	}, nil
}
