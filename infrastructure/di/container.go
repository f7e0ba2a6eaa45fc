// Package di wires application dependencies with plain provider functions.
package di

import (
	"context"

	"go.uber.org/zap"

	"familytree-backend/application/ports"
	"familytree-backend/application/store"
	domainconfig "familytree-backend/domain/config"
	"familytree-backend/domain/services"
	"familytree-backend/domain/services/layout"
	"familytree-backend/infrastructure/ai/gemini"
	"familytree-backend/infrastructure/config"
	"familytree-backend/infrastructure/persistence/localfile"
	"familytree-backend/infrastructure/persistence/supabase"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	Store  *store.FamilyStore
	Remote ports.TreeRepository
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideSnapshotStore creates the local snapshot store
func ProvideSnapshotStore(cfg *config.Config) ports.SnapshotStore {
	return localfile.NewSnapshotStore(cfg.SnapshotPath)
}

// ProvideTreeRepository creates the Supabase repository when configured.
// Without credentials the remote capability is absent and remote
// operations fail at call time, not at startup.
func ProvideTreeRepository(cfg *config.Config, logger *zap.Logger) (ports.TreeRepository, error) {
	if !cfg.HasSupabase() {
		logger.Warn("Supabase not configured; remote persistence disabled")
		return nil, nil
	}
	return supabase.NewTreeRepository(cfg.SupabaseURL, cfg.SupabaseKey, logger)
}

// ProvideTreeExtractor creates the Gemini extractor when configured
func ProvideTreeExtractor(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.TreeExtractor, error) {
	if !cfg.HasGemini() {
		logger.Warn("Gemini not configured; AI import disabled")
		return nil, nil
	}
	return gemini.NewExtractor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
}

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	remote, err := ProvideTreeRepository(cfg, logger)
	if err != nil {
		return nil, err
	}

	extractor, err := ProvideTreeExtractor(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	domainCfg := domainconfig.DefaultDomainConfig()
	familyStore := store.NewFamilyStore(
		domainCfg,
		services.NewRelationshipBuilder(domainCfg),
		layout.NewEngine(domainCfg),
		ProvideSnapshotStore(cfg),
		remote,
		extractor,
		logger,
	)

	return &Container{
		Config: cfg,
		Logger: logger,
		Store:  familyStore,
		Remote: remote,
	}, nil
}
