package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/humed/photoqueue/internal/errors"
	"github.com/humed/photoqueue/internal/logger"
	"github.com/humed/photoqueue/internal/models"
	"github.com/humed/photoqueue/internal/pricing"
	"github.com/humed/photoqueue/pkg/sheets"
)

// Force actions accepted by Force
const (
	ForcePhotograph = "photograph"
	ForceDone       = "done"
	ForceCancel     = "cancel"
)

// QueueService is the single authoritative holder of queue state.
// All mutations run under one mutex so the at-most-one-photographing
// invariant and the append-only creation order hold no matter how many
// admin consoles fire requests concurrently. State is in-memory only;
// a reset or restart starts from an empty queue while pricing and
// membership survive in the config store.
type QueueService struct {
	log         logger.Logger
	config      ConfigServicer
	sheets      sheets.Client
	broadcaster Broadcaster

	mu      sync.Mutex
	entries []*models.QueueEntry
	current string // id of the entry being photographed, "" if none
	version uint64
}

// NewQueueService creates a new QueueService
func NewQueueService(log logger.Logger, config ConfigServicer, sheetsClient sheets.Client) *QueueService {
	return &QueueService{log: log, config: config, sheets: sheetsClient}
}

// SetBroadcaster sets the broadcaster for pushing snapshots to consoles
func (s *QueueService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Snapshot returns a full copy of the queue state. Read-only and
// idempotent; consoles call it on connect and whenever they want to
// reconcile with the authoritative state.
func (s *QueueService) Snapshot(ctx context.Context) (models.Snapshot, error) {
	p, err := s.config.GetPricing(ctx)
	if err != nil {
		return models.Snapshot{}, errors.Wrap(err, errors.ErrInternal, "failed to load pricing")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(p), nil
}

// Create validates and appends a new waiting entry. The price is
// computed from the pricing table in effect right now and stored on the
// entry, so later price changes leave it untouched.
func (s *QueueService) Create(ctx context.Context, name, className string, photoCount int) (*models.QueueEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("name is required")
	}
	if photoCount < 2 || photoCount%2 != 0 {
		return nil, errors.Validation("photo count must be an even number of at least 2")
	}

	p, err := s.config.GetPricing(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load pricing")
	}

	entry := &models.QueueEntry{
		ID:         uuid.NewString(),
		Name:       name,
		ClassName:  strings.TrimSpace(className),
		PhotoCount: photoCount,
		Price:      pricing.Calculate(photoCount, p),
		State:      models.StateWaiting,
		CreatedAt:  time.Now(),
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	snap := s.bumpLocked(p)
	out := *entry
	s.mu.Unlock()

	s.log.Info("Queue entry created", "id", out.ID, "name", out.Name, "photos", out.PhotoCount, "price", out.Price)
	s.publish(snap)
	return &out, nil
}

// Advance moves a waiting entry into the photographing slot. Rejected
// with a conflict while any other entry holds the slot; the caller is
// expected to retry after the slot frees up, not to queue the request.
func (s *QueueService) Advance(ctx context.Context, id string) (*models.QueueEntry, error) {
	p, err := s.config.GetPricing(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load pricing")
	}

	s.mu.Lock()
	entry := s.findLocked(id)
	if entry == nil {
		s.mu.Unlock()
		return nil, errors.NotFoundf("queue entry %s not found", id)
	}
	if entry.State != models.StateWaiting {
		s.mu.Unlock()
		return nil, errors.Conflictf("entry is %s, only waiting entries can be photographed", entry.State)
	}
	if s.current != "" {
		s.mu.Unlock()
		return nil, errors.Conflict("another entry is already being photographed")
	}

	entry.State = models.StatePhotographing
	s.current = entry.ID
	snap := s.bumpLocked(p)
	out := *entry
	s.mu.Unlock()

	s.log.Info("Entry now photographing", "id", out.ID, "name", out.Name)
	s.publish(snap)
	return &out, nil
}

// MarkDone finishes the currently photographing entry and records how
// it paid. Clearing the slot frees it for the next Advance.
func (s *QueueService) MarkDone(ctx context.Context, id string, method models.PaymentMethod) (*models.QueueEntry, error) {
	if !method.Valid() {
		return nil, errors.Validationf("invalid payment method %q", method)
	}
	p, err := s.config.GetPricing(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load pricing")
	}

	s.mu.Lock()
	entry := s.findLocked(id)
	if entry == nil {
		s.mu.Unlock()
		return nil, errors.NotFoundf("queue entry %s not found", id)
	}
	if entry.State.Terminal() {
		s.mu.Unlock()
		return nil, errors.Conflictf("entry is already %s", entry.State)
	}
	if s.current != entry.ID {
		s.mu.Unlock()
		return nil, errors.Conflict("entry is not currently being photographed")
	}

	entry.State = models.StateDone
	entry.PaymentMethod = method
	s.current = ""
	snap := s.bumpLocked(p)
	out := *entry
	s.mu.Unlock()

	s.log.Info("Entry done", "id", out.ID, "name", out.Name, "payment", out.PaymentMethod)
	s.publish(snap)
	s.export(ctx, out)
	return &out, nil
}

// Cancel terminates an entry from waiting or photographing
func (s *QueueService) Cancel(ctx context.Context, id string) (*models.QueueEntry, error) {
	p, err := s.config.GetPricing(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load pricing")
	}

	s.mu.Lock()
	entry := s.findLocked(id)
	if entry == nil {
		s.mu.Unlock()
		return nil, errors.NotFoundf("queue entry %s not found", id)
	}
	if entry.State.Terminal() {
		s.mu.Unlock()
		return nil, errors.Conflictf("entry is already %s", entry.State)
	}

	if s.current == entry.ID {
		s.current = ""
	}
	entry.State = models.StateCancelled
	snap := s.bumpLocked(p)
	out := *entry
	s.mu.Unlock()

	s.log.Info("Entry cancelled", "id", out.ID, "name", out.Name)
	s.publish(snap)
	return &out, nil
}

// Force applies an administrator override, moving an entry to
// photographing, done, or cancelled outside the normal head-of-queue
// order. The at-most-one-photographing invariant still holds: a forced
// photograph is rejected while the slot is occupied. A forced done is
// allowed straight from waiting, for walk-ups photographed before their
// turn was ever called.
func (s *QueueService) Force(ctx context.Context, id, action string, method models.PaymentMethod) (*models.QueueEntry, error) {
	switch action {
	case ForcePhotograph, ForceDone, ForceCancel:
	default:
		return nil, errors.Validationf("unknown force action %q", action)
	}
	if action == ForceDone && !method.Valid() {
		return nil, errors.Validationf("invalid payment method %q", method)
	}

	p, err := s.config.GetPricing(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load pricing")
	}

	s.mu.Lock()
	entry := s.findLocked(id)
	if entry == nil {
		s.mu.Unlock()
		return nil, errors.NotFoundf("queue entry %s not found", id)
	}
	if entry.State.Terminal() {
		s.mu.Unlock()
		return nil, errors.Conflictf("entry is already %s", entry.State)
	}

	exported := false
	switch action {
	case ForcePhotograph:
		if entry.State != models.StateWaiting {
			s.mu.Unlock()
			return nil, errors.Conflictf("entry is %s, only waiting entries can be photographed", entry.State)
		}
		if s.current != "" {
			s.mu.Unlock()
			return nil, errors.Conflict("another entry is already being photographed")
		}
		entry.State = models.StatePhotographing
		s.current = entry.ID

	case ForceDone:
		if s.current == entry.ID {
			s.current = ""
		}
		entry.State = models.StateDone
		entry.PaymentMethod = method
		exported = true

	case ForceCancel:
		if s.current == entry.ID {
			s.current = ""
		}
		entry.State = models.StateCancelled
	}

	snap := s.bumpLocked(p)
	out := *entry
	s.mu.Unlock()

	s.log.Info("Force action applied", "id", out.ID, "action", action, "state", out.State)
	s.publish(snap)
	if exported {
		s.export(ctx, out)
	}
	return &out, nil
}

// Reset discards all entries and clears the photographing slot.
// Pricing, membership, and spreadsheet config are unaffected, as is
// anything already exported.
func (s *QueueService) Reset(ctx context.Context) error {
	p, err := s.config.GetPricing(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to load pricing")
	}

	s.mu.Lock()
	count := len(s.entries)
	s.entries = nil
	s.current = ""
	snap := s.bumpLocked(p)
	s.mu.Unlock()

	s.log.Info("Queue reset", "discarded", count)
	s.publish(snap)
	return nil
}

// findLocked returns the entry with the given id. Caller holds mu.
func (s *QueueService) findLocked(id string) *models.QueueEntry {
	for _, e := range s.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// bumpLocked increments the version and builds the snapshot to
// broadcast. Caller holds mu.
func (s *QueueService) bumpLocked(p models.Pricing) models.Snapshot {
	s.version++
	return s.snapshotLocked(p)
}

// snapshotLocked copies the queue state. Caller holds mu.
func (s *QueueService) snapshotLocked(p models.Pricing) models.Snapshot {
	queue := make([]models.QueueEntry, len(s.entries))
	for i, e := range s.entries {
		queue[i] = *e
	}

	var current *string
	if s.current != "" {
		id := s.current
		current = &id
	}

	return models.Snapshot{
		Version:                s.version,
		Queue:                  queue,
		CurrentlyPhotographing: current,
		Pricing:                p,
	}
}

// publish fans the snapshot out to every connected console
func (s *QueueService) publish(snap models.Snapshot) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastQueue(snap)
	}
}

// export writes a finished entry to the spreadsheet. Best effort: the
// queue mutation has already committed, so failures are logged and
// never rolled back.
func (s *QueueService) export(ctx context.Context, entry models.QueueEntry) {
	if s.sheets == nil {
		return
	}
	cfg, err := s.config.GetSpreadsheetConfig(ctx)
	if err != nil {
		s.log.Warn("Spreadsheet export skipped, config unavailable", "entry_id", entry.ID, "error", err)
		return
	}
	if err := s.sheets.AppendEntry(ctx, cfg, entry); err != nil {
		s.log.Warn("Spreadsheet export failed", "entry_id", entry.ID, "error", err)
		return
	}
	s.log.Debug("Entry exported to spreadsheet", "entry_id", entry.ID)
}
