package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/structa/structa-backend/internal/db"
	"github.com/structa/structa-backend/internal/logger"
	"github.com/structa/structa-backend/internal/observability"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients

	otelShutdown func(context.Context) error
	stopMetrics  context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
	})
	metrics := observability.Init(log)
	var stopMetrics context.CancelFunc
	if observability.Enabled() {
		metricsCtx, cancel := context.WithCancel(context.Background())
		stopMetrics = cancel
		metrics.StartServer(metricsCtx, log, cfg.MetricsAddr)
	}

	clientset := wireClients(log)
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clientset)
	handlerset := wireHandlers(log, serviceset)
	middlewareset := wireMiddleware(log, serviceset)
	router := wireRouter(cfg, handlerset, middlewareset)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clientset,
		otelShutdown: otelShutdown,
		stopMetrics:  stopMetrics,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Starting HTTP server", "addr", a.Cfg.HTTPAddr)
	return a.Router.Run(a.Cfg.HTTPAddr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.stopMetrics != nil {
		a.stopMetrics()
		a.stopMetrics = nil
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("OTel shutdown failed", "error", err)
		}
		a.otelShutdown = nil
	}
	if a.Clients.BlueprintCache != nil {
		if err := a.Clients.BlueprintCache.Close(); err != nil {
			a.Log.Warn("Blueprint cache close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
