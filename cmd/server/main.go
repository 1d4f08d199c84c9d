// Package main provides the game backend binary: a JSON HTTP API over the
// combat engine with PostgreSQL persistence.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/questdeck/questdeck/internal/config"
	"github.com/questdeck/questdeck/internal/game/action"
	"github.com/questdeck/questdeck/internal/game/catalog"
	"github.com/questdeck/questdeck/internal/game/dice"
	"github.com/questdeck/questdeck/internal/httpapi"
	"github.com/questdeck/questdeck/internal/observability"
	"github.com/questdeck/questdeck/internal/server"
	"github.com/questdeck/questdeck/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	contentDir := flag.String("content", "", "path to item YAML directory; overrides config")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	cryptoSrc := dice.NewCryptoSource()
	diceRoller := dice.NewLoggedRoller(cryptoSrc, logger)

	// Load the item catalog.
	itemsDir := cfg.Game.ContentDir
	if *contentDir != "" {
		itemsDir = *contentDir
	}
	catStart := time.Now()
	defs, err := catalog.LoadItems(itemsDir)
	if err != nil {
		logger.Fatal("loading item catalog", zap.Error(err))
	}
	registry, err := catalog.NewRegistry(defs)
	if err != nil {
		logger.Fatal("building item registry", zap.Error(err))
	}
	logger.Info("item catalog loaded",
		zap.Int("items", registry.Len()),
		zap.Duration("elapsed", time.Since(catStart)),
	)

	// Connect to PostgreSQL.
	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)

	gameRepo := postgres.NewGameRepository(pool.DB())
	charRepo := postgres.NewCharacterRepository(pool.DB())
	mapRepo := postgres.NewMapRepository(pool.DB())

	actionSvc := action.NewService(charRepo, diceRoller, logger, cfg.Game.BasicAttackCost)

	apiHandler := httpapi.NewHandler(
		logger, gameRepo, charRepo, mapRepo, actionSvc, pool, registry,
		cfg.Game.DefaultMaxActionPoints,
	)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("http", server.NewHTTPService(logger, cfg.Server, apiHandler.Routes()))
	lifecycle.Add("postgres", &server.FuncService{
		StartFn: func() error {
			for {
				time.Sleep(30 * time.Second)
				if err := pool.Health(ctx, 5*time.Second); err != nil {
					logger.Warn("database health check failed", zap.Error(err))
				}
			}
		},
		StopFn: func() {
			pool.Close()
		},
	})

	logger.Info("server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("http_addr", cfg.Server.Addr()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
