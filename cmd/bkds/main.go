package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"bkds/internal/bot"
	"bkds/internal/cache"
	"bkds/internal/catalog"
	"bkds/internal/config"
	"bkds/internal/icons"
	"bkds/internal/insight"
	"bkds/internal/loader"
	"bkds/internal/preview"
	"bkds/internal/scraper"
	"bkds/internal/server"
	"bkds/internal/speech"
	"bkds/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	level, _ := logrus.ParseLevel(cfg.LogLevel) // validated by config
	log.SetLevel(level)

	log.WithFields(logrus.Fields{
		"data_dir":      cfg.DataDir,
		"images_dir":    cfg.ImagesDir,
		"badgerdb_path": cfg.BadgerDBPath,
		"cache_ttl":     cfg.CacheTTL.String(),
	}).Info("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Initialize Components ---
	log.Info("Initializing components...")

	store := cache.New(cache.WithLogger(log))
	ld := loader.New(os.DirFS(cfg.DataDir), os.DirFS(cfg.ImagesDir), log)

	iconSvc := icons.NewService(store, ld, icons.RandomPicker{}, cfg.SearchTerms, cfg.CacheTTL, log)
	insightSvc := insight.NewService(store, ld, iconSvc, log, insight.WithTTL(cfg.CacheTTL))
	catalogSvc := catalog.NewService(store, ld, cfg.CacheTTL, cfg.HeaderCacheTTL, log)

	// Database
	repo, err := storage.NewBadgerRepository(cfg.BadgerDBPath, log)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		log.Info("Closing database...")
		if err := repo.Close(); err != nil {
			log.WithError(err).Error("Error closing database")
		}
	}()

	// Text-to-speech is optional; without credentials only existing narrations are served.
	var synth speech.Synthesizer
	if g, err := speech.NewGoogleSynthesizer(ctx, cfg.TTSCredentialsFile); err != nil {
		log.WithError(err).Warn("Text-to-speech disabled")
	} else {
		synth = g
	}
	speechSvc := speech.NewService(synth, repo, cfg.AudioDir, log)

	deps := server.Deps{
		Insights: insightSvc,
		Icons:    iconSvc,
		Catalog:  catalogSvc,
		Speech:   speechSvc,
		Cache:    store,
		Audio:    os.DirFS(cfg.AudioDir),
	}

	maxAge := max(cfg.CacheTTL, cfg.HeaderCacheTTL)
	if cfg.LinkPreviewEnabled {
		deps.Preview = preview.NewService(scraper.NewRodScraper(0, log), iconSvc, store, preview.DefaultTTL, log)
		maxAge = max(maxAge, preview.DefaultTTL)
		log.Info("Link previews enabled")
	}

	go store.RunJanitor(ctx, cfg.CacheSweepInterval, maxAge)

	// Bot Handler
	if cfg.TelegramBotToken != "" {
		botHandler, err := bot.NewHandler(cfg.TelegramBotToken, insightSvc, speechSvc, log)
		if err != nil {
			log.Fatalf("Failed to initialize Telegram bot handler: %v", err)
		}
		go botHandler.Start(ctx)
	}

	// --- Application Startup ---
	httpServer := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           server.New(deps, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ServerAddr).Info("BKDS is listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// --- Wait for Shutdown Signal ---
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			log.WithError(err).Error("HTTP server failed")
		}
	}

	// --- Graceful Shutdown ---
	log.Info("Shutting down BKDS...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	}

	log.Info("BKDS shut down gracefully.")
}
