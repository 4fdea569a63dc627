package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"equityscore/pkg/api/score"
	"equityscore/pkg/core/config"
	"equityscore/pkg/core/dcf"
	"equityscore/pkg/core/pipeline"
	"equityscore/pkg/core/rules"
	"equityscore/pkg/core/store"
	"equityscore/pkg/logger"
	"equityscore/pkg/provider"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	// Load falls back to the built-in defaults when the file is unusable.
	cfg, err := config.Load(*configPath)
	log := logger.New(cfg.LogLevel, false)
	if err != nil {
		log.Warn().Err(err).Msg("config file not loaded, using defaults")
	}

	registry := rules.DefaultRegistry()
	if cfg.RuleTables != "" {
		if err := registry.LoadHJSON(cfg.RuleTables); err != nil {
			log.Fatal().Err(err).Str("path", cfg.RuleTables).Msg("failed to load rule tables")
		}
	}

	scenarios := cfg.Scenarios
	if len(scenarios) == 0 {
		scenarios = dcf.DefaultScenarios()
	}

	analyzer := pipeline.NewAnalyzer(buildProvider(cfg), registry, scenarios, cfg.Currency, log)

	var repo *store.ScorecardRepo
	if cfg.DatabaseURL != "" {
		if err := store.InitDB(context.Background(), cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("database init failed")
		}
		defer store.Close()
		repo = store.NewScorecardRepo()
		analyzer.SetRepository(repo)
	} else {
		log.Info().Msg("DATABASE_URL not set, persistence disabled")
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	score.NewHandler(analyzer, repo, log).Routes(r)

	log.Info().Str("addr", *addr).Msg("api server starting")
	if err := http.ListenAndServe(*addr, r); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}

func buildProvider(cfg config.Config) provider.Provider {
	if cfg.Provider.FixtureDir != "" {
		return provider.NewDirProvider(cfg.Provider.FixtureDir)
	}
	return provider.NewHTTPProvider(cfg.Provider.BaseURL, cfg.Provider.RequestsPerSecond, cfg.Provider.CacheDir)
}
