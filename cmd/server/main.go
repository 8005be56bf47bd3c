package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pawfinder/backend/internal/config"
	"github.com/pawfinder/backend/internal/es"
	"github.com/pawfinder/backend/internal/events"
	"github.com/pawfinder/backend/internal/handlers"
	"github.com/pawfinder/backend/internal/logging"
	authmw "github.com/pawfinder/backend/internal/middleware/auth"
	loggingmw "github.com/pawfinder/backend/internal/middleware/logging"
	"github.com/pawfinder/backend/internal/service/auth"
	"github.com/pawfinder/backend/internal/service/token"
	httpserver "github.com/pawfinder/backend/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	tokenService := &token.TokenService{
		JWTSecret:     []byte(configuration.JWT_SECRET),
		RefreshSecret: []byte(configuration.REFRESH_SECRET),
		AccessTTL:     configuration.AccessTTL,
		RefreshTTL:    configuration.RefreshTTL,
	}
	authService := &auth.AuthService{
		DB:         db,
		Tokens:     tokenService,
		BcryptCost: configuration.BcryptCost,
	}

	var producer *events.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = events.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	var searchHandler *handlers.SearchHandler
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		searchHandler = &handlers.SearchHandler{ES: esClient, Index: "posts"}
	} else {
		logger.Info("search disabled, ES_URL not set")
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		Gateway:        authmw.NewGateway(tokenService),
		AuthHandler:    &handlers.AuthHandler{Svc: authService, Producer: producer},
		PostHandler:    &handlers.PostHandler{DB: db, Producer: producer},
		CommentHandler: &handlers.CommentHandler{DB: db, Producer: producer},
		UserHandler:    &handlers.UserHandler{DB: db},
		FileHandler:    &handlers.FileHandler{UploadDir: configuration.UPLOAD_DIR, BaseURL: configuration.PUBLIC_BASE_URL},
		SearchHandler:  searchHandler,
		UploadDir:      configuration.UPLOAD_DIR,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	} else {
		logger.Error("db() error", "error", err)
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
