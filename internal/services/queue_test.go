package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	apperrors "github.com/humed/photoqueue/internal/errors"
	"github.com/humed/photoqueue/internal/logger"
	"github.com/humed/photoqueue/internal/models"
	"github.com/humed/photoqueue/internal/testutil"
	"github.com/humed/photoqueue/pkg/sheets"
)

// captureBroadcaster records broadcast snapshots for assertions
type captureBroadcaster struct {
	snapshots []models.Snapshot
	pricing   []models.Pricing
}

func (c *captureBroadcaster) BroadcastQueue(snap models.Snapshot) {
	c.snapshots = append(c.snapshots, snap)
}

func (c *captureBroadcaster) BroadcastPricing(p models.Pricing) {
	c.pricing = append(c.pricing, p)
}

func newTestQueue(t *testing.T) (*QueueService, *ConfigService, *sheets.MockClient) {
	t.Helper()
	log := logger.New()
	repo := testutil.NewTestRepository(t)
	sheetsClient := sheets.NewMockClient()
	config := NewConfigService(log, repo, sheetsClient)
	queue := NewQueueService(log, config, sheetsClient)
	return queue, config, sheetsClient
}

func assertKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var appErr *apperrors.Error
	if !stderrors.As(err, &appErr) {
		t.Fatalf("expected *errors.Error, got %T: %v", err, err)
	}
	if appErr.Kind != kind {
		t.Errorf("expected kind %v, got %v (%v)", kind, appErr.Kind, err)
	}
}

func TestQueueService_Create(t *testing.T) {
	queue, _, _ := newTestQueue(t)
	ctx := context.Background()

	entry, err := queue.Create(ctx, "  Siti  ", " 7A ", 6)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if entry.ID == "" {
		t.Error("expected generated id")
	}
	if entry.Name != "Siti" {
		t.Errorf("expected trimmed name 'Siti', got %q", entry.Name)
	}
	if entry.ClassName != "7A" {
		t.Errorf("expected trimmed class '7A', got %q", entry.ClassName)
	}
	if entry.State != models.StateWaiting {
		t.Errorf("expected waiting state, got %s", entry.State)
	}
	// 6 photos = one 4-bundle + one 2-bundle at default prices
	if entry.Price != 28000 {
		t.Errorf("expected price 28000, got %d", entry.Price)
	}
	if entry.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestQueueService_Create_Validation(t *testing.T) {
	queue, _, _ := newTestQueue(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		entryName  string
		photoCount int
	}{
		{"empty name", "", 2},
		{"whitespace name", "   ", 4},
		{"zero photos", "Budi", 0},
		{"odd photos", "Budi", 5},
		{"single photo", "Budi", 1},
		{"negative photos", "Budi", -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := queue.Create(ctx, tt.entryName, "", tt.photoCount)
			assertKind(t, err, apperrors.ErrValidation)
		})
	}
}

func TestQueueService_Create_PriceFrozenAcrossPricingChange(t *testing.T) {
	queue, config, _ := newTestQueue(t)
	ctx := context.Background()

	before, err := queue.Create(ctx, "Budi", "", 4)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := config.SetPricing(ctx, models.Pricing{Bundle2: 20000, Bundle4: 36000}); err != nil {
		t.Fatalf("set pricing failed: %v", err)
	}

	after, err := queue.Create(ctx, "Siti", "", 4)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if before.Price != 18000 {
		t.Errorf("expected old price 18000, got %d", before.Price)
	}
	if after.Price != 36000 {
		t.Errorf("expected new price 36000, got %d", after.Price)
	}

	// The earlier entry keeps its quoted price in the snapshot too
	snap, err := queue.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if snap.Queue[0].Price != 18000 {
		t.Errorf("expected frozen price 18000 in snapshot, got %d", snap.Queue[0].Price)
	}
}

func TestQueueService_Advance(t *testing.T) {
	queue, _, _ := newTestQueue(t)
	ctx := context.Background()

	entry, _ := queue.Create(ctx, "Budi", "", 2)

	advanced, err := queue.Advance(ctx, entry.ID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if advanced.State != models.StatePhotographing {
		t.Errorf("expected photographing state, got %s", advanced.State)
	}

	snap, _ := queue.Snapshot(ctx)
	if snap.CurrentlyPhotographing == nil || *snap.CurrentlyPhotographing != entry.ID {
		t.Error("expected entry to hold the photographing slot")
	}
}

func TestQueueService_Advance_NotFound(t *testing.T) {
	queue, _, _ := newTestQueue(t)

	_, err := queue.Advance(context.Background(), "no-such-id")
	assertKind(t, err, apperrors.ErrNotFound)
}

func TestQueueService_Advance_SlotOccupied(t *testing.T) {
	queue, _, _ := newTestQueue(t)
	ctx := context.Background()

	first, _ := queue.Create(ctx, "Budi", "", 2)
	second, _ := queue.Create(ctx, "Siti", "", 2)

	if _, err := queue.Advance(ctx, first.ID); err != nil {
		t.Fatalf("first advance failed: %v", err)
	}

	_, err := queue.Advance(ctx, second.ID)
	assertKind(t, err, apperrors.ErrConflict)

	// Slot frees up once the first entry finishes
	if _, err := queue.MarkDone(ctx, first.ID, models.PaymentQRIS); err != nil {
		t.Fatalf("mark done failed: %v", err)
	}
	if _, err := queue.Advance(ctx, second.ID); err != nil {
		t.Fatalf("expected advance to succeed after slot freed, got: %v", err)
	}
}

func TestQueueService_Advance_NonWaitingRejected(t *testing.T) {
	queue, _, _ := newTestQueue(t)
	ctx := context.Background()

	entry, _ := queue.Create(ctx, "Budi", "", 2)
	queue.Advance(ctx, entry.ID)
	queue.MarkDone(ctx, entry.ID, models.PaymentCash)

	_, err := queue.Advance(ctx, entry.ID)
	assertKind(t, err, apperrors.ErrConflict)
}

func TestQueueService_MarkDone(t *testing.T) {
	queue, _, sheetsClient := newTestQueue(t)
	ctx := context.Background()

	entry, _ := queue.Create(ctx, "Budi", "7B", 4)
	queue.Advance(ctx, entry.ID)

	done, err := queue.MarkDone(ctx, entry.ID, models.PaymentQRIS)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if done.State != models.StateDone {
		t.Errorf("expected done state, got %s", done.State)
	}
	if done.PaymentMethod != models.PaymentQRIS {
		t.Errorf("expected qris payment, got %s", done.PaymentMethod)
	}

	snap, _ := queue.Snapshot(ctx)
	if snap.CurrentlyPhotographing != nil {
		t.Error("expected photographing slot to be cleared")
	}

	appended := sheetsClient.Appended()
	if len(appended) != 1 {
		t.Fatalf("expected 1 exported entry, got %d", len(appended))
	}
	if appended[0].ID != entry.ID {
		t.Errorf("expected exported entry %s, got %s", entry.ID, appended[0].ID)
	}
}

func TestQueueService_MarkDone_InvalidPaymentMethod(t *testing.T) {
	queue, _, _ := newTestQueue(t)
	ctx := context.Background()

	entry, _ := queue.Create(ctx, "Budi", "", 2)
	queue.Advance(ctx, entry.ID)

	_, err := queue.MarkDone(ctx, entry.ID, "transfer")
	assertKind(t, err, apperrors.ErrValidation)
}

func TestQueueService_MarkDone_NotPhotographing(t *testing.T) {
	queue, _, _ := newTestQueue(t)
	ctx := context.Background()

	entry, _ := queue.Create(ctx, "Budi", "", 2)

	// Still waiting, never advanced
	_, err := queue.MarkDone(ctx, entry.ID, models.PaymentCash)
	assertKind(t, err, apperrors.ErrConflict)
}

func TestQueueService_MarkDone_ExportFailureStillDone(t *testing.T) {
	queue, _, sheetsClient := newTestQueue(t)
	ctx := context.Background()

	sheetsClient.AppendEntryError = fmt.Errorf("exporter unreachable")

	entry, _ := queue.Create(ctx, "Budi", "", 2)
	queue.Advance(ctx, entry.ID)

	done, err := queue.MarkDone(ctx, entry.ID, models.PaymentCash)
	if err != nil {
		t.Fatalf("expected export failure to be swallowed, got: %v", err)
	}
	if done.State != models.StateDone {
		t.Errorf("expected done state despite export failure, got %s", done.State)
	}
}

func TestQueueService_Cancel_Waiting(t *testing.T) {
	queue, _, _ := newTestQueue(t)
	ctx := context.Background()

	entry, _ := queue.Create(ctx, "Budi", "", 2)

	cancelled, err := queue.Cancel(ctx, entry.ID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cancelled.State != models.StateCancelled {
		t.Errorf("expected cancelled state, got %s", cancelled.State)
	}
}

func TestQueueService_Cancel_PhotographingFreesSlot(t *testing.T) {
	queue, _, _ := newTestQueue(t)
	ctx := context.Background()

	first, _ := queue.Create(ctx, "Budi", "", 2)
	second, _ := queue.Create(ctx, "Siti", "", 2)
	queue.Advance(ctx, first.ID)

	if _, err := queue.Cancel(ctx, first.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if _, err := queue.Advance(ctx, second.ID); err != nil {
		t.Fatalf("expected slot to be free after cancel, got: %v", err)
	}
}

func TestQueueService_Cancel_TerminalRejected(t *testing.T) {
	queue, _, _ := newTestQueue(t)
	ctx := context.Background()

	entry, _ := queue.Create(ctx, "Budi", "", 2)
	queue.Cancel(ctx, entry.ID)

	_, err := queue.Cancel(ctx, entry.ID)
	assertKind(t, err, apperrors.ErrConflict)
}

func TestQueueService_Force_UnknownAction(t *testing.T) {
	queue, _, _ := newTestQueue(t)
	ctx := context.Background()

	entry, _ := queue.Create(ctx, "Budi", "", 2)

	_, err := queue.Force(ctx, entry.ID, "skip", "")
	assertKind(t, err, apperrors.ErrValidation)
}

func TestQueueService_Force_DoneFromWaiting(t *testing.T) {
	queue, _, sheetsClient := newTestQueue(t)
	ctx := context.Background()

	entry, _ := queue.Create(ctx, "Budi", "", 2)

	done, err := queue.Force(ctx, entry.ID, ForceDone, models.PaymentCash)
	if err != nil {
		t.Fatalf("expected forced done from waiting to succeed, got: %v", err)
	}
	if done.State != models.StateDone {
		t.Errorf("expected done state, got %s", done.State)
	}
	if len(sheetsClient.Appended()) != 1 {
		t.Error("expected forced done to export the entry")
	}
}

func TestQueueService_Force_DoneRequiresPaymentMethod(t *testing.T) {
	queue, _, _ := newTestQueue(t)
	ctx := context.Background()

	entry, _ := queue.Create(ctx, "Budi", "", 2)

	_, err := queue.Force(ctx, entry.ID, ForceDone, "")
	assertKind(t, err, apperrors.ErrValidation)
}

func TestQueueService_Force_PhotographRespectsSlot(t *testing.T) {
	queue, _, _ := newTestQueue(t)
	ctx := context.Background()

	first, _ := queue.Create(ctx, "Budi", "", 2)
	second, _ := queue.Create(ctx, "Siti", "", 2)
	queue.Advance(ctx, first.ID)

	_, err := queue.Force(ctx, second.ID, ForcePhotograph, "")
	assertKind(t, err, apperrors.ErrConflict)
}

func TestQueueService_Force_CancelPhotographingFreesSlot(t *testing.T) {
	queue, _, _ := newTestQueue(t)
	ctx := context.Background()

	first, _ := queue.Create(ctx, "Budi", "", 2)
	second, _ := queue.Create(ctx, "Siti", "", 2)
	queue.Advance(ctx, first.ID)

	if _, err := queue.Force(ctx, first.ID, ForceCancel, ""); err != nil {
		t.Fatalf("force cancel failed: %v", err)
	}

	if _, err := queue.Advance(ctx, second.ID); err != nil {
		t.Fatalf("expected slot to be free after force cancel, got: %v", err)
	}
}

func TestQueueService_Force_TerminalRejected(t *testing.T) {
	queue, _, _ := newTestQueue(t)
	ctx := context.Background()

	entry, _ := queue.Create(ctx, "Budi", "", 2)
	queue.Force(ctx, entry.ID, ForceCancel, "")

	_, err := queue.Force(ctx, entry.ID, ForceDone, models.PaymentCash)
	assertKind(t, err, apperrors.ErrConflict)
}

func TestQueueService_Reset(t *testing.T) {
	queue, config, _ := newTestQueue(t)
	ctx := context.Background()

	if err := config.SetPricing(ctx, models.Pricing{Bundle2: 15000, Bundle4: 25000}); err != nil {
		t.Fatalf("set pricing failed: %v", err)
	}

	entry, _ := queue.Create(ctx, "Budi", "", 2)
	queue.Advance(ctx, entry.ID)
	queue.Create(ctx, "Siti", "", 4)

	if err := queue.Reset(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	snap, _ := queue.Snapshot(ctx)
	if len(snap.Queue) != 0 {
		t.Errorf("expected empty queue after reset, got %d entries", len(snap.Queue))
	}
	if snap.CurrentlyPhotographing != nil {
		t.Error("expected photographing slot cleared after reset")
	}

	// Pricing survives the reset
	p, err := config.GetPricing(ctx)
	if err != nil {
		t.Fatalf("get pricing failed: %v", err)
	}
	if p.Bundle2 != 15000 || p.Bundle4 != 25000 {
		t.Errorf("expected pricing to survive reset, got %+v", p)
	}
}

func TestQueueService_SnapshotVersionMonotonic(t *testing.T) {
	queue, _, _ := newTestQueue(t)
	ctx := context.Background()

	var last uint64
	check := func() {
		t.Helper()
		snap, err := queue.Snapshot(ctx)
		if err != nil {
			t.Fatalf("snapshot failed: %v", err)
		}
		if snap.Version < last {
			t.Errorf("version went backwards: %d -> %d", last, snap.Version)
		}
		last = snap.Version
	}

	check()
	entry, _ := queue.Create(ctx, "Budi", "", 2)
	check()
	queue.Advance(ctx, entry.ID)
	check()
	queue.MarkDone(ctx, entry.ID, models.PaymentQRIS)
	check()
	queue.Reset(ctx)
	check()

	if last == 0 {
		t.Error("expected version to have advanced past zero")
	}
}

func TestQueueService_BroadcastsOnMutation(t *testing.T) {
	queue, _, _ := newTestQueue(t)
	ctx := context.Background()

	capture := &captureBroadcaster{}
	queue.SetBroadcaster(capture)

	entry, _ := queue.Create(ctx, "Budi", "", 2)
	queue.Advance(ctx, entry.ID)
	queue.MarkDone(ctx, entry.ID, models.PaymentCash)

	if len(capture.snapshots) != 3 {
		t.Fatalf("expected 3 broadcasts, got %d", len(capture.snapshots))
	}
	for i := 1; i < len(capture.snapshots); i++ {
		if capture.snapshots[i].Version <= capture.snapshots[i-1].Version {
			t.Errorf("broadcast versions not increasing: %d then %d",
				capture.snapshots[i-1].Version, capture.snapshots[i].Version)
		}
	}
}

// TestQueueService_EventDay walks through a realistic afternoon: several
// registrations, one normal flow, one cancellation, one walk-up forced
// straight to done.
func TestQueueService_EventDay(t *testing.T) {
	queue, _, sheetsClient := newTestQueue(t)
	ctx := context.Background()

	budi, _ := queue.Create(ctx, "Budi", "7A", 2)
	siti, _ := queue.Create(ctx, "Siti", "8B", 6)
	rina, _ := queue.Create(ctx, "Rina", "9C", 4)

	// Budi goes first and pays with QRIS
	queue.Advance(ctx, budi.ID)
	queue.MarkDone(ctx, budi.ID, models.PaymentQRIS)

	// Siti changes her mind while waiting
	queue.Cancel(ctx, siti.ID)

	// Rina was photographed during a lull before being called
	queue.Force(ctx, rina.ID, ForceDone, models.PaymentCash)

	snap, err := queue.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if len(snap.Queue) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(snap.Queue))
	}

	states := map[string]models.EntryState{}
	for _, e := range snap.Queue {
		states[e.Name] = e.State
	}
	if states["Budi"] != models.StateDone {
		t.Errorf("expected Budi done, got %s", states["Budi"])
	}
	if states["Siti"] != models.StateCancelled {
		t.Errorf("expected Siti cancelled, got %s", states["Siti"])
	}
	if states["Rina"] != models.StateDone {
		t.Errorf("expected Rina done, got %s", states["Rina"])
	}
	if snap.CurrentlyPhotographing != nil {
		t.Error("expected empty photographing slot at end of day")
	}
	if len(sheetsClient.Appended()) != 2 {
		t.Errorf("expected 2 exports (Budi and Rina), got %d", len(sheetsClient.Appended()))
	}
}
