package services

import (
	"context"

	"github.com/humed/photoqueue/internal/models"
)

// QueueServicer defines the interface for queue operations
type QueueServicer interface {
	Snapshot(ctx context.Context) (models.Snapshot, error)
	Create(ctx context.Context, name, className string, photoCount int) (*models.QueueEntry, error)
	Advance(ctx context.Context, id string) (*models.QueueEntry, error)
	MarkDone(ctx context.Context, id string, method models.PaymentMethod) (*models.QueueEntry, error)
	Cancel(ctx context.Context, id string) (*models.QueueEntry, error)
	Force(ctx context.Context, id, action string, method models.PaymentMethod) (*models.QueueEntry, error)
	Reset(ctx context.Context) error
	SetBroadcaster(b Broadcaster)
}

// ConfigServicer defines the interface for configuration operations
type ConfigServicer interface {
	GetPricing(ctx context.Context) (models.Pricing, error)
	SetPricing(ctx context.Context, p models.Pricing) error
	GetAdmins(ctx context.Context) ([]string, error)
	SetAdmins(ctx context.Context, admins []string) error
	GetSuperAdmins(ctx context.Context) ([]string, error)
	SetSuperAdmins(ctx context.Context, actor string, superAdmins []string) error
	GetSpreadsheetConfig(ctx context.Context) (models.SpreadsheetConfig, error)
	SetSpreadsheetConfig(ctx context.Context, cfg models.SpreadsheetConfig) error
	TestConnection(ctx context.Context) (bool, string)
	SetBroadcaster(b Broadcaster)
}

// Broadcaster defines the interface for pushing state changes to
// connected consoles
type Broadcaster interface {
	BroadcastQueue(snapshot models.Snapshot)
	BroadcastPricing(pricing models.Pricing)
}

// Ensure concrete types implement interfaces
var (
	_ QueueServicer  = (*QueueService)(nil)
	_ ConfigServicer = (*ConfigService)(nil)
)
