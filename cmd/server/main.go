package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/online_course/internal/events"
	"github.com/Skotchmaster/online_course/internal/httpserver"
	"github.com/Skotchmaster/online_course/internal/middleware"
	"github.com/Skotchmaster/online_course/internal/repo"
	"github.com/Skotchmaster/online_course/internal/service"
	"github.com/Skotchmaster/online_course/internal/session"
	"github.com/Skotchmaster/online_course/internal/stream"
	"github.com/Skotchmaster/online_course/pkg/authclient"
	"github.com/Skotchmaster/online_course/pkg/config"
	pkgdb "github.com/Skotchmaster/online_course/pkg/db"
	"github.com/Skotchmaster/online_course/pkg/logging"
	loggingmw "github.com/Skotchmaster/online_course/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	if !cfg.Stream.SigningConfigured() {
		logger.Warn("stream signing key not configured; playback urls will fail")
	}
	if !cfg.Stream.APIConfigured() {
		logger.Warn("stream api not configured; video metadata will fail")
	}

	publisher := events.NewPublisher(cfg.KafkaBrokers)

	auth := authclient.NewClient(cfg.Auth.URL, cfg.Auth.AnonKey)
	refresher := &session.Refresher{
		Provider:     auth,
		JWTSecret:    cfg.Auth.JWTSecret,
		CookieSecure: cfg.CookieSecure,
	}

	store := &repo.GormRepo{DB: db}
	courses := &service.CourseService{Repo: store}
	videos := &service.VideoService{
		Repo:   store,
		Signer: stream.NewSigner(cfg.Stream),
		Meta:   stream.NewClient(cfg.Stream),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Secure())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(loggingmw.RequestLogger(logger))
	if len(cfg.CORSOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     cfg.CORSOrigins,
			AllowCredentials: true,
		}))
	}

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:   &httpserver.AuthHTTP{Auth: auth, Events: publisher, CookieSecure: cfg.CookieSecure},
		CourseHandler: &httpserver.CourseHTTP{Svc: courses},
		VideoHandler:  &httpserver.VideoHTTP{Svc: videos, Events: publisher},
		Session:       middleware.NewSessionMiddleware(refresher),
		DB:            store,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db close", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("event publisher close", "error", err)
	}

	logger.Info("stopped")
}
