package app

import (
	"context"
	"sync"

	"github.com/humed/photoqueue/internal/services"
)

// MembershipStore resolves admin membership for login checks. It is
// handed to the auth layer before the config service exists and bound
// to the live service during app construction. Lookups before Bind
// report empty lists.
type MembershipStore struct {
	mu     sync.RWMutex
	config services.ConfigServicer
}

// NewMembershipStore creates an unbound membership store
func NewMembershipStore() *MembershipStore {
	return &MembershipStore{}
}

// Bind attaches the store to the config service
func (m *MembershipStore) Bind(config services.ConfigServicer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = config
}

// GetAdmins returns the admin membership list
func (m *MembershipStore) GetAdmins(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	config := m.config
	m.mu.RUnlock()

	if config == nil {
		return nil, nil
	}
	return config.GetAdmins(ctx)
}

// GetSuperAdmins returns the super admin membership list
func (m *MembershipStore) GetSuperAdmins(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	config := m.config
	m.mu.RUnlock()

	if config == nil {
		return nil, nil
	}
	return config.GetSuperAdmins(ctx)
}
