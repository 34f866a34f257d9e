package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/cvgen"
	"portfolio-backend/internal/cvrender"
	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/services/health"
	"portfolio-backend/internal/shared/config"
	"portfolio-backend/internal/shared/server"
	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/storage/db"
	"portfolio-backend/internal/shared/telemetry"
	"portfolio-backend/internal/tempstore"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	PortfolioRepo    portfolio.Repo
	PortfolioService *portfolio.Service
	Renderer         *cvrender.Engine
	Store            *tempstore.Store
	Sessions         *cvgen.Registry
	PortfolioHandler *portfolio.Handler
	CVHandler        *cvgen.Handler
	Health           *health.Service
}

// Build prepares shared dependencies and the router. The temporary store is
// not sweeping until Start is called.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	repo, err := buildRepo(cfg, sqlDB)
	if err != nil {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}

	app := &App{
		Config:        cfg,
		DB:            sqlDB,
		PortfolioRepo: repo,
		Renderer:      cvrender.NewEngine(),
	}
	app.Store = tempstore.New(tempstore.Options{
		TTL:              cfg.CV.TempTTL,
		SweepInterval:    cfg.CV.SweepInterval,
		HandleLifetime:   cfg.CV.HandleLifetime,
		ForceRevokeDelay: cfg.CV.ForceRevokeDelay,
		AfterSweep:       func(int) { app.Sessions.Prune() },
	})
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		Health:           app.Health,
		PortfolioHandler: app.PortfolioHandler,
		CVHandler:        app.CVHandler,
		Limiter:          middleware.NewRateLimiter(nil),
	})

	return app, nil
}

// Start begins the periodic sweep of the temporary store. Idle sessions are
// pruned after each sweep.
func (a *App) Start(ctx context.Context) {
	a.Store.Start(ctx)
}

// Close stops background work and releases the database.
func (a *App) Close() error {
	a.Store.Stop()
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		telemetry.Info("bootstrap.database_skipped", map[string]any{"reason": "DATABASE_URL empty"})
		return nil, nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database_fallback", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.migrations_fallback", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildRepo(cfg config.Config, sqlDB *sql.DB) (portfolio.Repo, error) {
	if sqlDB != nil {
		return &portfolio.PGRepo{DB: sqlDB}, nil
	}
	content, err := LoadContent(cfg.ContentFile)
	if err != nil {
		return nil, err
	}
	return portfolio.NewMemoryRepo(content), nil
}

// LoadContent reads the content document at path, or the embedded default
// when path is empty.
func LoadContent(path string) (portfolio.Content, error) {
	if strings.TrimSpace(path) == "" {
		return portfolio.DefaultContent()
	}
	content, err := portfolio.LoadContentFile(path)
	if err != nil {
		return portfolio.Content{}, fmt.Errorf("load content %s: %w", path, err)
	}
	return content, nil
}

func buildServices(app *App) {
	app.PortfolioService = &portfolio.Service{Repo: app.PortfolioRepo}
	app.Sessions = cvgen.NewRegistry(func() *cvgen.Orchestrator {
		return cvgen.New(cvgen.Deps{
			Source:     app.PortfolioService,
			Renderer:   app.Renderer,
			Store:      app.Store,
			FilePrefix: app.Config.CV.FilePrefix,
		})
	}, app.Config.CV.SessionIdleTTL, nil)

	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}
	app.Health = health.NewService(pinger, app.Store, app.Sessions)
	app.PortfolioHandler = portfolio.NewHandler(app.PortfolioService)
	app.CVHandler = cvgen.NewHandler(app.Sessions, app.Store)
}

// ErrNoDatabase is returned by commands that need DATABASE_URL.
var ErrNoDatabase = errors.New("DATABASE_URL is required")

// OpenDatabase connects with migration pool settings for CLI commands.
func OpenDatabase(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, ErrNoDatabase
	}
	return db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
}
