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

	"github.com/gorilla/mux"

	"github.com/mdi/siteplan/internal/config"
	"github.com/mdi/siteplan/internal/engine"
	"github.com/mdi/siteplan/internal/export"
	mw "github.com/mdi/siteplan/internal/middleware"
	"github.com/mdi/siteplan/internal/session"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := session.NewManager(engine.Options{
		ViewportWidth:        cfg.ViewportWidth,
		ViewportHeight:       cfg.ViewportHeight,
		MaxImperviousPercent: cfg.MaxImperviousPercent,
		PickRadius:           cfg.PickRadius,
		LengthUnit:           cfg.LengthUnit,
		AreaUnit:             cfg.AreaUnit,
	})

	hub := session.NewHub()
	go hub.Run(ctx)

	sessionHandler := session.NewHandler(manager, hub, cfg.AssetDir, cfg.Origins())
	exportHandler := export.NewHandler(manager, export.NewComposer(cfg.FirmName, cfg.AreaUnit), cfg.ExportFilename)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	sessionHandler.Routes(r)
	r.HandleFunc("/api/sessions/{sessionId}/export.png", exportHandler.ExportPNG).Methods("GET", "OPTIONS")

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
