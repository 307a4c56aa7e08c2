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

	"github.com/mberezin/shop_backend/internal/config"
	"github.com/mberezin/shop_backend/internal/httpserver"
	"github.com/mberezin/shop_backend/internal/logging"
	"github.com/mberezin/shop_backend/internal/mail"
	"github.com/mberezin/shop_backend/internal/mykafka"
	"github.com/mberezin/shop_backend/internal/repo"
	"github.com/mberezin/shop_backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	prod := mykafka.NewProducer(cfg.KafkaAddress)
	if prod == nil {
		logger.Warn("kafka disabled, events will be dropped")
	}

	mailer := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	jwtSecret := []byte(cfg.JWTSecret)
	r := repo.NewGormRepo(db)

	if err := r.DeleteExpiredRefreshTokens(context.Background(), time.Now()); err != nil {
		logger.Warn("expired token sweep failed", "error", err)
	}

	deps := httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Repo:       r,
				Mail:       mailer,
				JWTSecret:  jwtSecret,
				AdminEmail: cfg.AdminEmail,
				AppURL:     cfg.AppURL,
			},
			Producer: prod,
		},
		ProductHandler:  &httpserver.ProductHTTP{Svc: &service.CatalogService{Repo: r}, Producer: prod},
		CategoryHandler: &httpserver.CategoryHTTP{Svc: &service.CategoryService{Repo: r}},
		CartHandler:     &httpserver.CartHTTP{Svc: &service.CartService{Repo: r}, Producer: prod},
		ReviewHandler:   &httpserver.ReviewHTTP{Svc: &service.ReviewService{Repo: r}, Producer: prod},
		JWTSecret:       jwtSecret,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(logging.RequestLogger(logger))

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
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
	logger.Info("server started", "addr", cfg.HTTPAddr)

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
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
