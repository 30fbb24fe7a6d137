package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/pipeline"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/reasoning"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/resilience"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/store"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/internal/worker"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/pkg/anthropic"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/pkg/geocode"
	"github.com/Sandro3110/inteligencia-de-mercado-sub006/pkg/receitaws"
)

// env bundles the wired application components a command needs.
type env struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
	Manager  *worker.Manager
}

func (e *env) Close() {
	_ = e.Store.Close()
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "mercado.db"
		}
		s, err := store.NewSQLite(dsn)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initEnv wires the store, reasoning gateway, geocoder and optional
// registry client into a pipeline and worker manager.
func initEnv(ctx context.Context) (*env, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}

	var api anthropic.Client
	if cfg.Anthropic.Key != "" {
		api = anthropic.NewClient(cfg.Anthropic.Key)
	}

	retry := resilience.DefaultRetryConfig()
	if cfg.Pipeline.RetryMaxAttempts > 0 {
		retry.MaxAttempts = cfg.Pipeline.RetryMaxAttempts
	}

	gateway := reasoning.NewClaudeGateway(api, reasoning.ClaudeGatewayConfig{
		Model:     cfg.Anthropic.Model,
		MaxTokens: cfg.Anthropic.MaxTokens,
		Retry:     retry,
	})

	geoOpts := []geocode.Option{
		geocode.WithBaseURL(cfg.Geocode.BaseURL),
		geocode.WithUserAgent(cfg.Geocode.UserAgent),
	}
	if cfg.Geocode.RateLimit > 0 {
		geoOpts = append(geoOpts, geocode.WithRateLimit(cfg.Geocode.RateLimit))
	}
	if cfg.Geocode.GoogleKey != "" {
		geoOpts = append(geoOpts, geocode.WithGoogleAPIKey(cfg.Geocode.GoogleKey))
	}
	geocoder := geocode.NewClient(geoOpts...)

	var registry receitaws.Client
	if cfg.Registry.Enabled {
		registry = receitaws.NewClient(receitaws.WithBaseURL(cfg.Registry.BaseURL))
	}

	p := pipeline.New(cfg.Pipeline, st, gateway, geocoder, registry)

	return &env{
		Store:    st,
		Pipeline: p,
		Manager:  worker.NewManager(st, p),
	}, nil
}
