package sheets

import (
	"context"
	"sync"

	"github.com/humed/photoqueue/internal/models"
)

// MockClient is a test double that records calls and returns injected errors
type MockClient struct {
	mu sync.Mutex

	AppendEntryError    error
	TestConnectionError error

	AppendedEntries     []models.QueueEntry
	AppendedConfigs     []models.SpreadsheetConfig
	TestConnectionCalls int
}

// NewMockClient creates a new MockClient
func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) AppendEntry(ctx context.Context, cfg models.SpreadsheetConfig, entry models.QueueEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendEntryError != nil {
		return m.AppendEntryError
	}
	m.AppendedEntries = append(m.AppendedEntries, entry)
	m.AppendedConfigs = append(m.AppendedConfigs, cfg)
	return nil
}

func (m *MockClient) TestConnection(ctx context.Context, cfg models.SpreadsheetConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TestConnectionCalls++
	return m.TestConnectionError
}

// Appended returns a copy of the entries recorded so far
func (m *MockClient) Appended() []models.QueueEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.QueueEntry, len(m.AppendedEntries))
	copy(out, m.AppendedEntries)
	return out
}

// Ensure MockClient implements Client
var _ Client = (*MockClient)(nil)
