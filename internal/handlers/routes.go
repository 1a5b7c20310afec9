package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// Auth routes (public)
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/logout", h.handleLogout)
	r.Get("/auth/me", h.handleMe)

	// Admin API (admin-eligible sessions)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAdmin)

		// WebSocket subscription
		r.Get("/ws", h.Hub.ServeWs)

		// Queue
		r.Get("/api/photobooth/queue", h.handleGetQueue)
		r.Post("/api/photobooth/queue", h.handleCreateEntry)
		r.Post("/api/photobooth/queue/{id}/photograph", h.handlePhotograph)
		r.Post("/api/photobooth/queue/{id}/done", h.handleDone)
		r.Post("/api/photobooth/queue/{id}/cancel", h.handleCancel)
		r.Post("/api/photobooth/queue/{id}/force", h.handleForce)

		// Pricing (read side; writes are super admin only)
		r.Get("/api/photobooth/pricing", h.handleGetPricing)
	})

	// Super admin API
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireSuperAdmin)

		r.Put("/api/photobooth/pricing", h.handleUpdatePricing)

		r.Get("/api/photobooth/admins", h.handleGetAdmins)
		r.Put("/api/photobooth/admins", h.handleUpdateAdmins)
		r.Get("/api/admin/super-admins", h.handleGetSuperAdmins)
		r.Put("/api/admin/super-admins", h.handleUpdateSuperAdmins)

		r.Get("/api/photobooth/spreadsheet-config", h.handleGetSpreadsheetConfig)
		r.Put("/api/photobooth/spreadsheet-config", h.handleUpdateSpreadsheetConfig)
		r.Get("/api/photobooth/test-connection", h.handleTestConnection)

		r.Post("/api/photobooth/reset", h.handleResetQueue)
		r.Get("/api/admin/console-qr", h.handleConsoleQR)
	})

	return r
}
