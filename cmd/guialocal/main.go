// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Guia Local directory server.
// It loads configuration, connects to services, starts the open-now worker
// and serves the JSON API with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Bundled zone database so APP_TIMEZONE resolves on minimal images.
	_ "time/tzdata"

	"guialocal/internal/cache"
	"guialocal/internal/config"
	"guialocal/internal/database"
	"guialocal/internal/handlers"
	"guialocal/internal/middleware"
	"guialocal/internal/router"
	"guialocal/internal/session"
	"guialocal/internal/storage"
	"guialocal/internal/store"
	"guialocal/internal/worker"
)

func main() {
	// Text logs in development, JSON everywhere else.
	var logHandler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	if os.Getenv("APP_ENV") == "" || os.Getenv("APP_ENV") == "development" {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(logHandler))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"timezone", cfg.Timezone,
		"client_moderation", cfg.ClientModeration,
		"session_ttl", cfg.SessionTTL,
	)

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// The status catalog must exist in every environment; the admin account
	// and starter categories only fill empty tables.
	if err := database.Seed(db); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	valkeyClient, err := cache.ConnectValkey(context.Background(), cache.ValkeyOptions{
		Host:     cfg.ValkeyHost,
		Port:     cfg.ValkeyPort,
		Password: cfg.ValkeyPassword,
		DB:       cfg.ValkeyDB,
	})
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, cfg.SessionTTL, secureCookies)

	categoryStore := store.NewCategoryStore(db)
	menuStore := store.NewMenuStore(db)
	listingStore := store.NewListingStore(db)
	statusStore := store.NewListingStatusStore(db)
	userStore := store.NewUserStore(db)
	settingStore := store.NewSiteSettingStore(db)
	modLogStore := store.NewModerationLogStore(db)

	// Photo uploads stay off until object storage is configured.
	var photoStorage handlers.PhotoStorage
	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		slog.Error("failed to configure object storage", "error", err)
		os.Exit(1)
	}
	if storageClient == nil {
		slog.Warn("object storage not configured, photo uploads disabled")
	} else {
		photoStorage = storageClient
		slog.Info("object storage configured", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	}

	respCache := cache.NewResponseCache(valkeyClient, cache.DefaultResponseTTL)
	openNow := cache.NewOpenNowIndex(valkeyClient)

	h := router.Handlers{
		Public: handlers.NewPublic(categoryStore, menuStore, listingStore, statusStore, openNow, respCache, cfg.Location()),
		Auth:   handlers.NewAuth(sessionStore, userStore),
		Client: handlers.NewClient(categoryStore, listingStore, statusStore, userStore, settingStore, modLogStore, respCache, photoStorage, cfg.ClientModeration),
		Admin:  handlers.NewAdmin(categoryStore, menuStore, listingStore, statusStore, userStore, settingStore, modLogStore, respCache, photoStorage, cfg.ClientModeration),
		Photos: handlers.NewPhotos(photoStorage),
	}

	// Five sign-in attempts per minute per client address.
	loginLimiter := middleware.NewRateLimiter(valkeyClient, "login", 5, time.Minute)

	r := router.New(sessionStore, secureCookies, loginLimiter, h)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.NewOpenNow(listingStore, openNow, cfg.Location(), cfg.OpenNowInterval).Run(workerCtx)
	}()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      middleware.CORS(cfg.CORSOrigins)(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	<-workerDone

	slog.Info("server stopped gracefully")
}
