package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/fpl-fixture-difficulty/external/understat"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/config"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/difficulty"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/fixture"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/domain/gameweek"
	repocache "github.com/riskibarqy/fpl-fixture-difficulty/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/interfaces/httpapi"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/platform/cache"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/platform/logging"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/platform/resilience"
	"github.com/riskibarqy/fpl-fixture-difficulty/internal/usecase"
)

type App struct {
	server     *http.Server
	difficulty *usecase.DifficultyService
	horizons   []int
	logger     *logging.Logger
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	source, err := newFixtureSource(cfg, logger)
	if err != nil {
		return nil, err
	}

	axis, err := difficulty.ParseAxisStrategy(cfg.AxisStrategy)
	if err != nil {
		return nil, fmt.Errorf("axis strategy: %w", err)
	}

	difficultySvc := usecase.NewDifficultyService(source, usecase.DifficultyServiceConfig{
		TeamCount:      cfg.LeagueTeamCount,
		DefaultAxis:    axis,
		CacheTTL:       cfg.CacheTTL,
		CacheEnabled:   cfg.CacheEnabled,
		PrewarmWorkers: cfg.PrewarmWorkers,
	}, logger.With("component", "difficulty"))

	handler := httpapi.NewHandler(difficultySvc, logger.With("component", "httpapi"))
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	return &App{
		server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		difficulty: difficultySvc,
		horizons:   cfg.PrewarmHorizons,
		logger:     logger,
	}, nil
}

func (a *App) Server() *http.Server {
	return a.server
}

// Prewarm fills the table cache for the configured horizons. Failures are logged only.
func (a *App) Prewarm(ctx context.Context) {
	result, err := a.difficulty.Prewarm(ctx, a.horizons)
	if err != nil {
		a.logger.WarnContext(ctx, "prewarm difficulty tables failed", "error", err)
		return
	}
	if result.Requested == 0 {
		return
	}
	a.logger.InfoContext(ctx, "difficulty tables prewarmed",
		"requested", result.Requested,
		"warmed", result.Warmed,
		"failed", result.Failed,
	)
}

// Refresh reloads the fixture source, drops cached tables and prewarms again.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.difficulty.Refresh(ctx); err != nil {
		return err
	}
	a.Prewarm(ctx)
	return nil
}

func newFixtureSource(cfg config.Config, logger *logging.Logger) (fixture.Repository, error) {
	var source fixture.Repository
	switch cfg.FeedSource {
	case config.FeedSourceFile:
		repo, err := memory.NewFixtureRepositoryFromFile(cfg.FeedFile)
		if err != nil {
			return nil, fmt.Errorf("load fixture feed file: %w", err)
		}
		source = repo
	case config.FeedSourceUnderstat:
		calendar, err := loadCalendar(cfg.GameweekCalendarFile)
		if err != nil {
			return nil, err
		}
		windows := calendar.Windows()
		logger.Info("gameweek calendar loaded",
			"path", cfg.GameweekCalendarFile,
			"windows", len(windows),
			"first_gw", windows[0].Gameweek,
			"last_gw", windows[len(windows)-1].Gameweek,
		)
		client := understat.NewClient(understat.ClientConfig{
			BaseURL:    cfg.UnderstatBaseURL,
			League:     cfg.UnderstatLeague,
			Season:     cfg.UnderstatSeason,
			Timeout:    cfg.UnderstatTimeout,
			MaxRetries: cfg.UnderstatMaxRetries,
			RateLimit:  cfg.UnderstatRateLimit,
			Logger:     logger.With("component", "understat"),
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.UnderstatCircuitEnabled,
				FailureThreshold: cfg.UnderstatCircuitFailureCount,
				OpenTimeout:      cfg.UnderstatCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.UnderstatCircuitHalfOpenMaxReq,
			},
		})
		source = usecase.NewFeedService(client, calendar, logger.With("component", "feed"))
	default:
		return nil, fmt.Errorf("unsupported feed source %q", cfg.FeedSource)
	}

	if !cfg.CacheEnabled {
		return source, nil
	}
	return repocache.NewFixtureRepository(source, cache.NewStore[fixture.LeagueFixtures](cfg.CacheTTL)), nil
}

func loadCalendar(path string) (*gameweek.Calendar, error) {
	if strings.TrimSpace(path) == "" {
		return gameweek.Default(), nil
	}
	calendar, err := gameweek.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load gameweek calendar: %w", err)
	}
	return calendar, nil
}
