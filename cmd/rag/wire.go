package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/config"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/generation/openai"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/logger"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/ranking"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/service"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/session"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/store"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/summarizer"
)

// components is everything a command needs, built once from config.
type components struct {
	cfg     *config.AppConfig
	zap     *zap.Logger
	log     logger.Logger
	store   *store.Store
	ranker  *ranking.Ranker
	service *service.Service
	closers []func() error
}

func (c *components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.log.WithError(err).Warn("close failed", nil)
		}
	}
	_ = c.zap.Sync()
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		cfg, _, err := config.LoadDefault()
		return cfg, err
	}
	return config.Load(path)
}

func build(ctx context.Context, cfgPath string, overrides ...func(*config.AppConfig)) (*components, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	for _, o := range overrides {
		o(cfg)
	}
	zl := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	c := &components{cfg: cfg, zap: zl, log: logger.NewZapAdapter(zl)}

	records, err := loadRecords(ctx, cfg.Dataset)
	if err != nil {
		return nil, err
	}
	c.store, err = store.New(records)
	if err != nil {
		return nil, fmt.Errorf("build record store: %w", err)
	}
	c.ranker, err = ranking.New(c.store, ranking.Options{
		ImpactK:   cfg.Ranking.ImpactK,
		SemanticK: cfg.Ranking.SemanticK,
	})
	if err != nil {
		return nil, fmt.Errorf("build ranking index: %w", err)
	}
	stats := c.ranker.Stats()
	c.log.Info("dataset indexed", map[string]interface{}{
		"source":          cfg.Dataset.Source,
		"records":         c.store.Len(),
		"vocabulary_size": stats.VocabularySize,
	})

	gen := openai.NewClient(openai.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKeyEnv:   cfg.LLM.APIKeyEnv,
		Model:       cfg.LLM.Model,
		Timeout:     cfg.LLM.Timeout(),
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		TopP:        cfg.LLM.TopP,
	}, nil)
	if !gen.Configured() {
		c.log.Warn("no generation API key configured, chat will return the fallback answer", map[string]interface{}{
			"api_key_env": cfg.LLM.APIKeyEnv,
		})
	}

	c.service = service.New(service.Options{
		Store:         c.store,
		Ranker:        c.ranker,
		Generator:     gen,
		Sessions:      c.sessions(ctx),
		Summarizer:    summarizer.NewFrequencySummarizer(),
		Logger:        c.log,
		Timeout:       cfg.LLM.Timeout(),
		Model:         gen.Model(),
		APIConfigured: gen.Configured(),
	})
	return c, nil
}

func loadRecords(ctx context.Context, cfg config.DatasetConfig) ([]domain.Nonprofit, error) {
	switch cfg.Source {
	case "postgres":
		db, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return store.LoadPostgres(ctx, db)
	case "file", "":
		return store.LoadFile(cfg.Path)
	default:
		return nil, errors.New("unknown dataset source: " + cfg.Source)
	}
}

// sessions picks the configured history backend. An unreachable redis falls
// back to memory so chat keeps working.
func (c *components) sessions(ctx context.Context) domain.SessionStore {
	sc := c.cfg.Session
	if sc.Type == "redis" {
		client := session.NewRedisClient(session.RedisOptions{
			Address:  sc.Redis.Address,
			Password: sc.Redis.Password,
			DB:       sc.Redis.DB,
		})
		rs := session.NewRedisStore(client, sc.TTL(), sc.MaxTurns)
		err := rs.Ping(ctx)
		if err == nil {
			c.closers = append(c.closers, client.Close)
			c.log.Info("using redis session store", map[string]interface{}{"address": sc.Redis.Address})
			return rs
		}
		_ = client.Close()
		c.log.WithError(err).Warn("redis unavailable, using in-memory sessions", nil)
	}
	return session.NewMemoryStore(sc.TTL(), sc.MaxTurns)
}
