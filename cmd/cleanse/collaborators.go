package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/turbot/tailpipe-cleanse/alert"
	"github.com/turbot/tailpipe-cleanse/config"
	"github.com/turbot/tailpipe-cleanse/handler"
	"github.com/turbot/tailpipe-cleanse/object_store"
	"github.com/turbot/tailpipe-cleanse/rate_limiter"
)

// newHandler loads the config and builds the handler with its store and publisher
func newHandler(ctx context.Context, configPath string) (*handler.Handler, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	publisher, err := newPublisher(ctx, cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return handler.NewHandler(store, publisher, cfg), nil
}

func newStore(ctx context.Context, cfg *config.Config) (object_store.Store, error) {
	switch *cfg.Store.Type {
	case config.StoreS3:
		return object_store.NewS3Store(ctx, cfg.Aws)
	case config.StoreGcs:
		return object_store.NewGcsStore(ctx, cfg.Gcp)
	case config.StoreFile:
		return object_store.NewFileStore(*cfg.Store.Root)
	default:
		return nil, fmt.Errorf("unsupported store type '%s'", *cfg.Store.Type)
	}
}

func newPublisher(ctx context.Context, cfg *config.Config) (alert.Publisher, error) {
	var publisher alert.Publisher = alert.LogPublisher{}
	if cfg.AlertEnabled() && *cfg.Alert.Publisher == config.PublisherSns {
		sns, err := alert.NewSnsPublisher(ctx, cfg.Aws)
		if err != nil {
			return nil, err
		}
		publisher = sns
	} else if *cfg.Alert.Publisher == config.PublisherSns {
		slog.Warn("No alert topic configured, alerts will only be logged")
	}

	limiter := cfg.AlertLimiter()
	if limiter.FillRate > 0 {
		l := rate_limiter.NewLimiter(limiter)
		slog.Info("Throttling alerts", "limiter", l.String())
		publisher = alert.NewLimitedPublisher(publisher, l)
	}
	return publisher, nil
}
