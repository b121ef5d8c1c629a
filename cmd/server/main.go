package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/catalog_api/internal/config"
	"github.com/Skotchmaster/catalog_api/internal/db"
	"github.com/Skotchmaster/catalog_api/internal/events"
	"github.com/Skotchmaster/catalog_api/internal/handlers"
	"github.com/Skotchmaster/catalog_api/internal/logging"
	authmw "github.com/Skotchmaster/catalog_api/internal/middleware/auth"
	"github.com/Skotchmaster/catalog_api/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/catalog_api/internal/middleware/logging"
	"github.com/Skotchmaster/catalog_api/internal/repo"
	"github.com/Skotchmaster/catalog_api/internal/search"
	"github.com/Skotchmaster/catalog_api/internal/service"
	httpserver "github.com/Skotchmaster/catalog_api/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	gdb, err := db.Open(startCtx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		logger.Error("db init failed", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(startCtx, gdb); err != nil {
		logger.Error("db migrate failed", "error", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		logger.Info("kafka publisher enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	r := repo.New(gdb)
	catalog := &service.CatalogService{Repo: r, Events: publisher}
	if cfg.Search.URL != "" {
		esClient, err := search.NewClient(startCtx, search.Config{
			URL:      cfg.Search.URL,
			User:     cfg.Search.User,
			Password: cfg.Search.Password,
			Index:    cfg.Search.Index,
		})
		if err != nil {
			logger.Warn("search index disabled", "url", cfg.Search.URL, "error", err)
		} else {
			catalog.Index = search.NewIndexer(esClient, cfg.Search.Index)
			logger.Info("search index enabled", "index", cfg.Search.Index)
		}
	}

	users := &service.UserService{Repo: r, Events: publisher, MinPasswordScore: cfg.MinPasswordScore}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.Secure(), loggingmw.RequestLogger(logger))
	if cfg.CSRFEnabled {
		csrfCfg := csrf.DefaultConfig()
		csrfCfg.Secure = cfg.CookieSecure
		csrfCfg.SkipPaths = []string{"/auth/login", "/auth/register"}
		e.Use(csrf.Middleware(csrfCfg))
	}

	httpserver.Register(e, &httpserver.Deps{
		Guard:         authmw.NewGuard(cfg.JWT.Secret, httpserver.Policy()),
		HealthHandler: &handlers.HealthHandler{DB: gdb},
		AuthHandler: &handlers.AuthHandler{
			Svc:          &service.AuthService{Users: users, JWTSecret: cfg.JWT.Secret, TokenTTL: cfg.JWT.TTL},
			CookieSecure: cfg.CookieSecure,
		},
		UserHandler:     &handlers.UserHandler{Svc: users},
		ProductHandler:  &handlers.ProductHandler{Svc: catalog},
		SearchHandler:   &handlers.SearchHandler{Svc: catalog},
		CategoryHandler: &handlers.CategoryHandler{Svc: &service.CategoryService{Repo: r, Events: publisher, Index: catalog.Index}},
		TagHandler:      &handlers.TagHandler{Svc: &service.TagService{Repo: r, Events: publisher, Index: catalog.Index}},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		logger.Warn("force exit")
		os.Exit(1)
	}()

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db close error", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
