package repository_test

import (
	"context"
	"testing"

	"github.com/humed/photoqueue/internal/repository"
)

func newTestRepo(t *testing.T) *repository.Repository {
	t.Helper()
	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSettingRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SetSetting(ctx, "pricing", `{"bundle2":10000,"bundle4":18000}`); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}

	value, err := repo.GetSetting(ctx, "pricing")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if value != `{"bundle2":10000,"bundle4":18000}` {
		t.Errorf("unexpected value: %q", value)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetSetting(context.Background(), "missing")
	if err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetSettingOverwrites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SetSetting(ctx, "admins", `["31037"]`); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := repo.SetSetting(ctx, "admins", `["31037","31042"]`); err != nil {
		t.Fatalf("second SetSetting failed: %v", err)
	}

	value, err := repo.GetSetting(ctx, "admins")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if value != `["31037","31042"]` {
		t.Errorf("expected overwritten value, got %q", value)
	}
}

func TestDeleteSetting(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SetSetting(ctx, "temp", "x"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := repo.DeleteSetting(ctx, "temp"); err != nil {
		t.Fatalf("DeleteSetting failed: %v", err)
	}
	if _, err := repo.GetSetting(ctx, "temp"); err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing key is not an error
	if err := repo.DeleteSetting(ctx, "never-existed"); err != nil {
		t.Errorf("DeleteSetting on missing key failed: %v", err)
	}
}

func TestPing(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
