package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/vrsandeep/koma-go/internal/api"
	"github.com/vrsandeep/koma-go/internal/config"
	"github.com/vrsandeep/koma-go/internal/core"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// The app does not exist yet when the first change can arrive.
	var current atomic.Pointer[core.App]
	cfg, err := config.Watch(func(cfg *config.Config) {
		if app := current.Load(); app != nil {
			app.ApplyConfig(cfg)
		}
	})
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the core application components
	core.RegisterGateways(cfg)
	app, err := core.NewWithConfig(cfg, version)
	if err != nil {
		log.Fatalf("Fatal error during application setup: %v", err)
	}
	defer app.Close()
	current.Store(app)

	appCtx, stop := context.WithCancel(context.Background())
	defer stop()
	app.Start(appCtx)

	// Warm the catalog so the first request is served from memory.
	go func() {
		if err := app.Catalog().LoadIfNeeded(appCtx); err != nil {
			log.Printf("Warning: initial catalog load failed: %v", err)
		}
	}()

	// Setup the API server
	server := api.NewServer(app)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: server.Router(),
	}
	// --- Graceful Shutdown ---
	// Start the server in a goroutine so it doesn't block.
	go func() {
		log.Printf("Starting web server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %v", err)
		}
	}()

	// Wait for an interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	stop()

	// Create a context with a timeout to allow existing connections to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
