package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/De27vin/M210-inventory-app/internal/auth"
	"github.com/De27vin/M210-inventory-app/internal/config"
	"github.com/De27vin/M210-inventory-app/internal/handlers"
	"github.com/De27vin/M210-inventory-app/internal/metrics"
	"github.com/De27vin/M210-inventory-app/internal/middleware"
	"github.com/De27vin/M210-inventory-app/internal/store"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	db := store.NewPostgres(cfg.DSN())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("failed to prepare database: %v", err)
	}
	cancel()

	directory := auth.NewDirectory(cfg.LDAPHost, cfg.LDAPBaseDN)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	metrics.Register(db)

	h := &handlers.Handler{
		Store:   db,
		Auth:    directory,
		Tokens:  tokens,
		Version: version,
		Commit:  commit,
	}

	mux := http.NewServeMux()

	// Health check — no auth
	mux.HandleFunc("GET /healthz", h.Health)

	// Prometheus metrics — no auth
	mux.Handle("GET /metrics", metrics.Handler())

	// API docs — no auth
	mux.HandleFunc("GET /openapi.yaml", handlers.OpenAPISpec)
	mux.HandleFunc("GET /docs", handlers.Docs)

	// Login — no auth, issues the bearer token
	mux.Handle("POST /login", metrics.Middleware("/login", http.HandlerFunc(h.Login)))

	// Inventory CRUD — bearer token required. The second delete route is
	// kept for clients of the original API.
	protected := func(pattern string, fn http.HandlerFunc) http.Handler {
		return metrics.Middleware(pattern, middleware.TokenAuth(tokens, fn))
	}
	mux.Handle("GET /inventory", protected("/inventory", h.ListInventory))
	mux.Handle("POST /inventory", protected("/inventory", h.CreateInventory))
	mux.Handle("GET /inventory/{id}", protected("/inventory/{id}", h.GetInventory))
	mux.Handle("DELETE /inventory/{id}", protected("/inventory/{id}", h.DeleteInventory))
	mux.Handle("DELETE /inventory/delete/{id}", protected("/inventory/delete/{id}", h.DeleteInventory))
	mux.Handle("PATCH /inventory/modify/{id}", protected("/inventory/modify/{id}", h.UpdateInventory))

	skip := func(r *http.Request) bool {
		return r.URL.Path == "/healthz" || r.URL.Path == "/metrics"
	}
	handler := middleware.CORS(middleware.RequestLogger(slog.Default(), skip, mux))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}
