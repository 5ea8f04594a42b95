package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbonduro/plantcare/internal/ai"
	"github.com/vbonduro/plantcare/internal/ai/claude"
	"github.com/vbonduro/plantcare/internal/ai/gemini"
	"github.com/vbonduro/plantcare/internal/ai/stub"
	"github.com/vbonduro/plantcare/internal/config"
	"github.com/vbonduro/plantcare/internal/db"
	"github.com/vbonduro/plantcare/internal/photostore"
	"github.com/vbonduro/plantcare/internal/photostore/local"
	"github.com/vbonduro/plantcare/internal/photostore/objstore"
	"github.com/vbonduro/plantcare/internal/session"
	"github.com/vbonduro/plantcare/internal/session/redisstore"
	"github.com/vbonduro/plantcare/internal/store"
)

func newGateway(cfg *config.Config, logger *slog.Logger) ai.Gateway {
	switch cfg.AIBackend {
	case config.AIStub:
		logger.Info("using stub AI backend")
		return stub.New()
	case config.AIClaude:
		logger.Info("using Claude AI backend", "model", cfg.ClaudeModel)
		return claude.NewClient(cfg.ClaudeModel)
	default:
		logger.Info("using Gemini AI backend",
			"chat_model", cfg.GeminiChatModel, "vision_model", cfg.GeminiVisionModel)
		return gemini.NewClient(cfg.GeminiBaseURL, cfg.GeminiChatModel, cfg.GeminiVisionModel)
	}
}

// openSessionStore returns the flag store for cfg and a func that releases it.
func openSessionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (session.Store, func(), error) {
	if cfg.SessionBackend == config.SessionRedis {
		rs := redisstore.New(cfg.RedisAddr, cfg.RedisPassword)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, nil, err
		}
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
		return rs, func() {
			if err := rs.Close(); err != nil {
				logger.Error("failed to close redis", "error", err)
			}
		}, nil
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Info("using sqlite session store", "path", cfg.DBPath)
	return store.NewFlagStore(database), func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}, nil
}

func openPhotoStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (photostore.PhotoStore, error) {
	if cfg.PhotoBackend == config.PhotoMinio {
		s, err := objstore.New(objstore.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("using object photo store", "endpoint", cfg.MinioEndpoint, "bucket", cfg.MinioBucket)
		return s, nil
	}

	s, err := local.New(cfg.PhotoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize photo store: %w", err)
	}
	logger.Info("using local photo store", "path", cfg.PhotoPath)
	return s, nil
}
