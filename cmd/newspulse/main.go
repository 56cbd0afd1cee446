package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"newspulse/internal/app"
	"newspulse/internal/config"
	"newspulse/internal/logger"
	"newspulse/internal/metrics"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer a.Close()

	// First cycle runs eagerly so the cache is warm before the first tick.
	a.TriggerRefresh()

	go func() {
		ticker := time.NewTicker(cfg.RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.Refresh(ctx)
			}
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/news", newsHandler(a))
	mux.HandleFunc("/search", searchHandler(a))
	mux.HandleFunc("/refresh", refreshHandler(a))
	mux.HandleFunc("/keywords", keywordsHandler(a))
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/metrics", metricsHandler)

	server := &http.Server{Addr: ":" + cfg.Port, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Info("serving", "port", cfg.Port, "refresh_interval", cfg.RefreshInterval)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func newsHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regions, updatedAt := a.Snapshot(r.URL.Query().Get("region"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"regions":     regions,
			"last_update": updatedAt.Format(time.RFC3339),
		})
	}
}

func searchHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing query parameter q"})
			return
		}

		k := 0
		if raw := r.URL.Query().Get("k"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil {
				k = v
			}
		}

		items, err := a.Search(r.Context(), q, k)
		if err != nil {
			logger.Error("search failed", "query", q, "error", err)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "search unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"query":   q,
			"results": items,
		})
	}
}

func refreshHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.TriggerRefresh()
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh triggered"})
	}
}

func keywordsHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, a.Keywords())
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := http.StatusOK
	text := "ok"
	if !stats["is_healthy"].(bool) {
		status = http.StatusServiceUnavailable
		text = "error"
	}

	writeJSON(w, status, map[string]interface{}{
		"status":     text,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	})
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, metrics.Global.GetStats())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
