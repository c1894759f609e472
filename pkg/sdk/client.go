package inkwell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/inkwell/internal/db/redis"
	"github.com/kailas-cloud/inkwell/internal/domain"
	"github.com/kailas-cloud/inkwell/internal/firestore"
	"github.com/kailas-cloud/inkwell/internal/metrics"
	"github.com/kailas-cloud/inkwell/internal/query"
	authorrepo "github.com/kailas-cloud/inkwell/internal/repository/author"
	"github.com/kailas-cloud/inkwell/internal/repository/authorcache"
	categoryrepo "github.com/kailas-cloud/inkwell/internal/repository/category"
	commentrepo "github.com/kailas-cloud/inkwell/internal/repository/comment"
	postrepo "github.com/kailas-cloud/inkwell/internal/repository/post"
	"github.com/kailas-cloud/inkwell/internal/repository/querycache"
	subscriberrepo "github.com/kailas-cloud/inkwell/internal/repository/subscriber"
	authoruc "github.com/kailas-cloud/inkwell/internal/usecase/author"
	categoryuc "github.com/kailas-cloud/inkwell/internal/usecase/category"
	commentuc "github.com/kailas-cloud/inkwell/internal/usecase/comment"
	healthuc "github.com/kailas-cloud/inkwell/internal/usecase/health"
	outlineuc "github.com/kailas-cloud/inkwell/internal/usecase/outline"
	postuc "github.com/kailas-cloud/inkwell/internal/usecase/post"
	sitemapuc "github.com/kailas-cloud/inkwell/internal/usecase/sitemap"
	subscribeuc "github.com/kailas-cloud/inkwell/internal/usecase/subscribe"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultTimeout          = 10 * time.Second
	defaultRetries          = 3
	defaultCacheTTL         = time.Minute
	defaultAuthorCacheSize  = 1000
	defaultAuthorCacheTTL   = 5 * time.Minute
)

// Internal interfaces, replaced by fakes in tests.
type queryExecutor interface {
	Get(ctx context.Context, b *query.Builder) ([]domain.Record, error)
	First(ctx context.Context, b *query.Builder) (domain.Record, error)
	Count(ctx context.Context, b *query.Builder) (int, error)
}

type postUseCase interface {
	Recent(ctx context.Context, limit int, after *time.Time) ([]domain.Post, error)
	ByCategory(ctx context.Context, category string, limit int, after *time.Time) ([]domain.Post, error)
	ByAuthor(ctx context.Context, authorID string, limit int) ([]domain.Post, error)
	Popular(ctx context.Context, limit int) ([]domain.Post, error)
	BySlug(ctx context.Context, slug string) (domain.Post, error)
	Search(ctx context.Context, term string, limit int) ([]domain.Post, error)
	Stats(ctx context.Context) (postuc.Stats, error)
}

type commentUseCase interface {
	ForPost(ctx context.Context, slug string) ([]domain.Comment, error)
	Add(ctx context.Context, c domain.Comment) (domain.Comment, error)
}

type categoryUseCase interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type authorUseCase interface {
	Get(ctx context.Context, id string) (domain.Author, error)
}

type subscribeUseCase interface {
	Subscribe(ctx context.Context, email string) error
}

type outlineUseCase interface {
	Prepare(format outlineuc.Format, content string) (outlineuc.Result, error)
	ForPost(ctx context.Context, slug string) (outlineuc.Result, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the inkwell SDK entry point.
type Client struct {
	fs      *firestore.Client
	store   *dbRedis.Store
	authors *authorcache.Resolver

	exec         queryExecutor
	postRepo     *postrepo.Repo
	categoryRepo *categoryrepo.Repo
	postSvc      postUseCase
	commentSvc   commentUseCase
	categorySvc  categoryUseCase
	authorSvc    authorUseCase
	subscribeSvc subscribeUseCase
	outlineSvc   outlineUseCase
	healthSvc    healthUseCase
	obs          *observer
}

// New creates an inkwell Client. With WithRedis the provided context is
// used for the cache readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		timeout:         defaultTimeout,
		maxRetries:      defaultRetries,
		cacheTTL:        defaultCacheTTL,
		authorCacheSize: defaultAuthorCacheSize,
		authorCacheTTL:  defaultAuthorCacheTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.projectID == "" {
		return nil, errors.New("inkwell: project id required (use WithProject)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	fs, err := firestore.NewClient(firestore.Config{
		ProjectID:  cfg.projectID,
		Database:   cfg.database,
		APIKey:     cfg.apiKey,
		BaseURL:    cfg.baseURL,
		Timeout:    cfg.timeout,
		MaxRetries: cfg.maxRetries,
		HTTPClient: cfg.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("inkwell: %w", err)
	}

	var store *dbRedis.Store
	if len(cfg.redisAddrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.redisAddrs,
			Password: cfg.redisPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("inkwell: create cache: %w", err)
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("inkwell: cache not ready: %w", err)
		}
	}

	c, err := wireClient(fs, store, cfg)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	c.obs = obs
	return c, nil
}

func wireClient(fs *firestore.Client, store *dbRedis.Store, cfg *clientConfig) (*Client, error) {
	logger := zap.NewNop()

	var runner query.Runner = fs
	if store != nil {
		runner = querycache.New(fs, store, cfg.cacheTTL, metrics.QueryCacheTotal, logger)
	}

	authors, err := authorcache.New(
		query.NewAuthorLookup(runner, logger),
		cfg.authorCacheSize, cfg.authorCacheTTL, metrics.AuthorCacheTotal,
	)
	if err != nil {
		return nil, fmt.Errorf("inkwell: %w", err)
	}
	exec := query.NewExecutor(runner, logger, query.WithAuthorResolver(authors))

	posts := postrepo.New(exec)
	comments := commentrepo.New(exec, fs)
	categories := categoryrepo.New(exec)

	// Pass a nil interface, not a typed nil, when no summarizer is set.
	var summarizer postuc.Summarizer
	var summarizerHealth healthuc.SummarizerChecker
	if cfg.summarizer != nil {
		summarizer = cfg.summarizer
		if hc, ok := cfg.summarizer.(healthuc.SummarizerChecker); ok {
			summarizerHealth = hc
		}
	}
	var cache healthuc.Pinger
	if store != nil {
		cache = store
	}

	postSvc := postuc.New(posts, comments, categories, summarizer, logger)

	return &Client{
		fs:           fs,
		store:        store,
		authors:      authors,
		exec:         exec,
		postRepo:     posts,
		categoryRepo: categories,
		postSvc:      postSvc,
		commentSvc:   commentuc.New(comments, postSvc),
		categorySvc:  categoryuc.New(categories),
		authorSvc:    authoruc.New(authorrepo.New(authors)),
		subscribeSvc: subscribeuc.New(subscriberrepo.New(fs)),
		outlineSvc:   outlineuc.New(postSvc, outlineuc.Config{Levels: cfg.levels}, logger),
		healthSvc:    healthuc.New(fs, cache, summarizerHealth),
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.authors != nil {
		c.authors.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks Firestore connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.fs.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Health checks the health of all configured components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// Query starts a query against a collection.
func (c *Client) Query(collection string) *Query {
	return &Query{b: query.New(collection), exec: c.exec, obs: c.obs}
}

// Posts returns the post service.
func (c *Client) Posts() *PostService {
	return &PostService{svc: c.postSvc, obs: c.obs}
}

// Comments returns the comment service.
func (c *Client) Comments() *CommentService {
	return &CommentService{svc: c.commentSvc, obs: c.obs}
}

// Categories lists all categories.
func (c *Client) Categories(ctx context.Context) (_ []Category, err error) {
	defer func(start time.Time) { c.obs.observe("categories.list", CollectionCategories, start, err) }(time.Now())
	cats, err := c.categorySvc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Author returns an author by id.
func (c *Client) Author(ctx context.Context, id string) (_ Author, err error) {
	defer func(start time.Time) { c.obs.observe("authors.get", CollectionAdmins, start, err) }(time.Now())
	a, err := c.authorSvc.Get(ctx, id)
	if err != nil {
		return Author{}, fmt.Errorf("get author: %w", err)
	}
	return a, nil
}

// Subscribe adds an email address to the newsletter.
func (c *Client) Subscribe(ctx context.Context, email string) (err error) {
	defer func(start time.Time) { c.obs.observe("subscribers.add", CollectionSubscribers, start, err) }(time.Now())
	if err := c.subscribeSvc.Subscribe(ctx, email); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	return nil
}

// Outline returns the outline service.
func (c *Client) Outline() *OutlineService {
	return &OutlineService{svc: c.outlineSvc, obs: c.obs}
}

// SitemapConfig describes the site for Sitemap.
type SitemapConfig = sitemapuc.Config

// Sitemap renders the sitemap of published posts and categories.
func (c *Client) Sitemap(ctx context.Context, cfg SitemapConfig) (_ []byte, err error) {
	defer func(start time.Time) { c.obs.observe("sitemap.generate", "", start, err) }(time.Now())
	out, err := sitemapuc.New(c.postRepo, c.categoryRepo, cfg).Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("sitemap: %w", err)
	}
	return out, nil
}
