package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/CuteLittleSky/LimboAuth/internal/api/handler"
	"github.com/CuteLittleSky/LimboAuth/internal/api/middleware"
	"github.com/CuteLittleSky/LimboAuth/internal/config"
	"github.com/CuteLittleSky/LimboAuth/internal/dependencies/clock"
	"github.com/CuteLittleSky/LimboAuth/internal/storage"
)

// RouterConfig holds configuration for the admin API router
type RouterConfig struct {
	Logger     *slog.Logger
	Store      storage.RecordStore
	Settings   config.Settings
	Clock      clock.Clock
	AdminToken string
}

// NewRouter creates a new admin API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	recordHandler := handler.NewRecordHandler(cfg.Store, cfg.Settings, cfg.Clock)

	authMiddleware := middleware.Auth(cfg.AdminToken)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Record admin routes (all require the admin token)
	records := api.PathPrefix("/records").Subrouter()
	records.Use(authMiddleware)
	records.HandleFunc("/{name}", recordHandler.Get).Methods(http.MethodGet)
	records.HandleFunc("/{name}/password", recordHandler.SetPassword).Methods(http.MethodPut)
	records.HandleFunc("/{name}/totp", recordHandler.DeleteTotp).Methods(http.MethodDelete)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
