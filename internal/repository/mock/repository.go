package mock

import (
	"context"

	"github.com/humed/photoqueue/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without manipulating the
// underlying database.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.GetSettingError = errors.New("database error")
//	svc := services.NewConfigService(log, mockRepo, nil)
//	_, err := svc.GetPricing(ctx)
//	// err will now contain the injected error
type Repository struct {
	repository.SettingsRepository

	GetSettingError    error
	SetSettingError    error
	DeleteSettingError error
}

// NewRepository creates a mock wrapping the given repository
func NewRepository(real repository.SettingsRepository) *Repository {
	return &Repository{SettingsRepository: real}
}

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.SettingsRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.SettingsRepository.SetSetting(ctx, key, value)
}

func (m *Repository) DeleteSetting(ctx context.Context, key string) error {
	if m.DeleteSettingError != nil {
		return m.DeleteSettingError
	}
	return m.SettingsRepository.DeleteSetting(ctx, key)
}
