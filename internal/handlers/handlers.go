package handlers

import (
	"github.com/humed/photoqueue/internal/auth"
	"github.com/humed/photoqueue/internal/services"
	"github.com/humed/photoqueue/internal/websocket"
)

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Queue  services.QueueServicer
	Config services.ConfigServicer
	Auth   *auth.Auth
	Hub    *websocket.Hub
	Log    HTTPLogger
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	queue services.QueueServicer,
	config services.ConfigServicer,
	adminAuth *auth.Auth,
	hub *websocket.Hub,
	log HTTPLogger,
) *Handlers {
	return &Handlers{
		Queue:  queue,
		Config: config,
		Auth:   adminAuth,
		Hub:    hub,
		Log:    log,
	}
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }
