package main

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/kailas-cloud/inkwell/internal/config"
	inkwell "github.com/kailas-cloud/inkwell/pkg/sdk"
)

// newClient builds an SDK client from the loaded configuration.
func newClient(ctx context.Context, cfg config.Config) (*inkwell.Client, error) {
	opts := []inkwell.Option{
		inkwell.WithProject(cfg.Firestore.ProjectID),
		inkwell.WithDatabase(cfg.Firestore.Database),
		inkwell.WithAPIKey(cfg.Firestore.APIKey),
		inkwell.WithBaseURL(cfg.Firestore.BaseURL),
		inkwell.WithTimeout(cfg.Firestore.Timeout()),
		inkwell.WithRetries(cfg.Firestore.MaxRetries),
		inkwell.WithAuthorCache(cfg.Cache.AuthorCacheSize, time.Duration(cfg.Cache.AuthorCacheTTLSec)*time.Second),
		inkwell.WithOutlineLevels(cfg.Outline.Levels...),
		inkwell.WithLogger(cliLogger()),
	}
	if cfg.Cache.Enabled() {
		opts = append(opts, inkwell.WithRedis(cfg.Cache.Addrs[0], cfg.Cache.Password, time.Duration(cfg.Cache.TTLSec)*time.Second))
	}
	return inkwell.New(ctx, opts...)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
