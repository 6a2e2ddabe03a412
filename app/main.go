package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amerello/lead-radar/app/analyzer"
	"github.com/amerello/lead-radar/app/api"
	"github.com/amerello/lead-radar/app/cfg"
	"github.com/amerello/lead-radar/app/config"
	"github.com/amerello/lead-radar/app/database"
	"github.com/amerello/lead-radar/app/ghl"
	"github.com/amerello/lead-radar/app/scraper"
	"github.com/amerello/lead-radar/app/service"
	"github.com/amerello/lead-radar/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Lead Radar server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("Connected to database", "path", appCfg.DBPath)

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations applied", "version", version, "dirty", dirty)

	leadRepo := database.NewLeadRepository(db)
	jobRepo := database.NewJobRepository(db)

	campaignCache := config.NewCampaignCache(appCfg.CampaignsDir)
	if err := campaignCache.Run(); err != nil {
		slog.Error("Failed to load campaigns", "error", err)
		os.Exit(1)
	}
	slog.Info("Campaigns loaded", "count", campaignCache.GetCampaignCount())

	httpClient := &http.Client{Timeout: 30 * time.Second}

	prober := analyzer.NewHTTPProber(httpClient, appCfg.UserAgent, time.Duration(appCfg.ProbeTimeout)*time.Second)
	mapsScraper := scraper.NewSerpAPIScraper(httpClient, appCfg.SerpAPIKey)
	exporter := ghl.NewClient(httpClient, appCfg.GHLAPIKey, appCfg.GHLLocationID, appCfg.GHLWorkflowID)

	leadService := service.NewLeadService(leadRepo, prober, exporter)

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(campaignCache, jobRepo, leadService, mapsScraper)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(leadService, jobRepo, campaignCache, mapsScraper, scheduler)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
