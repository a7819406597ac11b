package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mkarpov/giftcircle/internal/api/handler"
	"github.com/mkarpov/giftcircle/internal/api/middleware"
	"github.com/mkarpov/giftcircle/internal/broadcast"
	"github.com/mkarpov/giftcircle/internal/services/admin"
	"github.com/mkarpov/giftcircle/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	Orchestrator *session.Orchestrator
	AdminService *admin.Service
	Hub          *broadcast.Hub
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.Orchestrator, cfg.Hub, cfg.Logger)
	adminHandler := handler.NewAdminHandler(cfg.AdminService, cfg.Hub, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.Orchestrator)
	adminAuthMiddleware := middleware.AdminAuth(cfg.AdminService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Admission routes (no auth: these are how a session is obtained)
	api.HandleFunc("/login", sessionHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/reconnect", sessionHandler.Reconnect).Methods(http.MethodPost)

	// Participant routes
	participant := api.NewRoute().Subrouter()
	participant.Use(authMiddleware)
	participant.HandleFunc("/events", sessionHandler.Events).Methods(http.MethodGet)
	participant.HandleFunc("/gift/send", sessionHandler.SendGift).Methods(http.MethodPost)
	participant.HandleFunc("/gift/confirm", sessionHandler.ConfirmGift).Methods(http.MethodPost)
	participant.HandleFunc("/referrals", sessionHandler.GenerateReferral).Methods(http.MethodPost)
	participant.HandleFunc("/chat", sessionHandler.Chat).Methods(http.MethodPost)
	participant.HandleFunc("/logout", sessionHandler.Logout).Methods(http.MethodPost)

	// Operator login (no auth)
	api.HandleFunc("/admin/login", adminHandler.Login).Methods(http.MethodPost)

	// Operator routes
	adm := api.PathPrefix("/admin").Subrouter()
	adm.Use(adminAuthMiddleware)
	adm.HandleFunc("/logout", adminHandler.Logout).Methods(http.MethodPost)
	adm.HandleFunc("/events", adminHandler.Events).Methods(http.MethodGet)
	adm.HandleFunc("/tables/first", adminHandler.CreateFirstTable).Methods(http.MethodPost)
	adm.HandleFunc("/tables/{id}/join", adminHandler.JoinTable).Methods(http.MethodPost)
	adm.HandleFunc("/tables/{id}/participants/{pid}", adminHandler.RemoveParticipant).Methods(http.MethodDelete)
	adm.HandleFunc("/tables/{id}/referrals", adminHandler.GenerateReferral).Methods(http.MethodPost)
	adm.HandleFunc("/tables/{id}/chat", adminHandler.Chat).Methods(http.MethodPost)
	adm.HandleFunc("/tables/{id}/gift/confirm", adminHandler.ConfirmGift).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
