package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/inkwell/internal/config"
	dbRedis "github.com/kailas-cloud/inkwell/internal/db/redis"
	"github.com/kailas-cloud/inkwell/internal/firestore"
	logpkg "github.com/kailas-cloud/inkwell/internal/logger"
	"github.com/kailas-cloud/inkwell/internal/metrics"
	engine "github.com/kailas-cloud/inkwell/internal/outline"
	"github.com/kailas-cloud/inkwell/internal/query"
	authorrepo "github.com/kailas-cloud/inkwell/internal/repository/author"
	"github.com/kailas-cloud/inkwell/internal/repository/authorcache"
	budgetrepo "github.com/kailas-cloud/inkwell/internal/repository/budget"
	categoryrepo "github.com/kailas-cloud/inkwell/internal/repository/category"
	commentrepo "github.com/kailas-cloud/inkwell/internal/repository/comment"
	postrepo "github.com/kailas-cloud/inkwell/internal/repository/post"
	"github.com/kailas-cloud/inkwell/internal/repository/querycache"
	subscriberrepo "github.com/kailas-cloud/inkwell/internal/repository/subscriber"
	chiTransport "github.com/kailas-cloud/inkwell/internal/transport/chi"
	openaiSum "github.com/kailas-cloud/inkwell/internal/transport/openai"
	authoruc "github.com/kailas-cloud/inkwell/internal/usecase/author"
	categoryuc "github.com/kailas-cloud/inkwell/internal/usecase/category"
	commentuc "github.com/kailas-cloud/inkwell/internal/usecase/comment"
	healthuc "github.com/kailas-cloud/inkwell/internal/usecase/health"
	outlineuc "github.com/kailas-cloud/inkwell/internal/usecase/outline"
	postuc "github.com/kailas-cloud/inkwell/internal/usecase/post"
	sitemapuc "github.com/kailas-cloud/inkwell/internal/usecase/sitemap"
	subscribeuc "github.com/kailas-cloud/inkwell/internal/usecase/subscribe"
	"github.com/kailas-cloud/inkwell/internal/usecase/summary"
	"github.com/kailas-cloud/inkwell/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, env, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cfg, env)
	},
}

func serve(cfg config.Config, env string) error {
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting inkwell API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("project_id", cfg.Firestore.ProjectID),
		zap.Bool("cache", cfg.Cache.Enabled()),
		zap.Bool("summarizer", cfg.Summarizer.Enabled()),
	)

	// Register metrics explicitly (no init())
	metrics.Register()

	fs, err := firestore.NewClient(firestore.Config{
		ProjectID:  cfg.Firestore.ProjectID,
		Database:   cfg.Firestore.Database,
		APIKey:     cfg.Firestore.APIKey,
		BaseURL:    cfg.Firestore.BaseURL,
		Timeout:    cfg.Firestore.Timeout(),
		MaxRetries: cfg.Firestore.MaxRetries,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("create firestore client: %w", err)
	}

	ctx := context.Background()

	// Pass nil interfaces (not typed nil pointers!) for optional components.
	var runner query.Runner = fs
	var cachePinger healthuc.Pinger
	var budgetCounters summary.Counters
	if cfg.Cache.Enabled() {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			return fmt.Errorf("create cache store: %w", err)
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			return fmt.Errorf("cache not ready: %w", err)
		}
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))

		runner = querycache.New(fs, store, time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.QueryCacheTotal, logger)
		cachePinger = store
		budgetCounters = budgetrepo.New(store, budgetrepo.DefaultDailyTTL, budgetrepo.DefaultMonthlyTTL)
	}

	authors, err := authorcache.New(
		query.NewAuthorLookup(runner, logger),
		cfg.Cache.AuthorCacheSize,
		time.Duration(cfg.Cache.AuthorCacheTTLSec)*time.Second,
		metrics.AuthorCacheTotal,
	)
	if err != nil {
		return fmt.Errorf("create author cache: %w", err)
	}
	defer authors.Close()

	exec := query.NewExecutor(runner, logger, query.WithAuthorResolver(authors))

	var summarizer postuc.Summarizer
	var summarizerHealth healthuc.SummarizerChecker
	if cfg.Summarizer.Enabled() {
		s := openaiSum.NewSummarizer(&openaiSum.Config{
			APIKey:    cfg.Summarizer.APIKey,
			BaseURL:   cfg.Summarizer.BaseURL,
			Model:     cfg.Summarizer.Model,
			MaxTokens: cfg.Summarizer.MaxTokens,
			Logger:    logger,
		})
		budget := summary.NewBudget(cfg.Summarizer.Model, summary.Limits{
			Daily:   cfg.Summarizer.Budget.DailyTokenLimit,
			Monthly: cfg.Summarizer.Budget.MonthlyTokenLimit,
		}, summary.Action(cfg.Summarizer.Budget.Action), logger)
		if budgetCounters != nil {
			budget.WithStore(ctx, budgetCounters)
		}
		budgeted := summary.NewBudgeted(s, cfg.Summarizer.Model, budget, logger)
		summarizer = budgeted
		summarizerHealth = budgeted
		logger.Info("Summarizer enabled",
			zap.String("model", cfg.Summarizer.Model),
			zap.Int64("daily_token_limit", cfg.Summarizer.Budget.DailyTokenLimit),
			zap.Int64("monthly_token_limit", cfg.Summarizer.Budget.MonthlyTokenLimit),
			zap.String("budget_action", cfg.Summarizer.Budget.Action),
		)
	}

	// Repositories
	posts := postrepo.New(exec)
	comments := commentrepo.New(exec, fs)
	categories := categoryrepo.New(exec)

	// Use cases
	postSvc := postuc.New(posts, comments, categories, summarizer, logger)
	outlineSvc := outlineuc.New(postSvc, outlineuc.Config{
		Levels:      cfg.Outline.Levels,
		UpdateEvent: cfg.Outline.UpdateEvent,
		Title:       cfg.Outline.Title,
		CSSClass:    cfg.Outline.CSSClass,
	}, logger)
	outlineSvc.Emitter().On(cfg.Outline.UpdateEvent, func(payload any) {
		if out, ok := payload.(engine.Outline); ok {
			logger.Debug("Outline rebuilt", zap.Int("headings", len(out.Headings)))
		}
	})

	server := chiTransport.NewServer(chiTransport.Services{
		Posts:      postSvc,
		Comments:   commentuc.New(comments, postSvc),
		Categories: categoryuc.New(categories),
		Authors:    authoruc.New(authorrepo.New(authors)),
		Subscribe:  subscribeuc.New(subscriberrepo.New(fs)),
		Outline:    outlineSvc,
		Sitemap: sitemapuc.New(posts, categories, sitemapuc.Config{
			Hostname: cfg.Site.Hostname,
			Name:     cfg.Site.Name,
			Language: cfg.Site.Language,
		}),
		Health: healthuc.New(fs, cachePinger, summarizerHealth),
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-quit:
		logger.Info("Received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
