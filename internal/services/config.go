package services

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/humed/photoqueue/internal/errors"
	"github.com/humed/photoqueue/internal/logger"
	"github.com/humed/photoqueue/internal/models"
	"github.com/humed/photoqueue/internal/repository"
	"github.com/humed/photoqueue/pkg/sheets"
)

// Settings keys
const (
	keyPricing           = "pricing"
	keyAdmins            = "admins"
	keySuperAdmins       = "super_admins"
	keySpreadsheetConfig = "spreadsheet_config"
)

// DefaultPricing is used until a super admin saves a price table
var DefaultPricing = models.Pricing{Bundle2: 10000, Bundle4: 18000}

// DefaultSpreadsheetConfig matches the layout of the event's recap sheet
var DefaultSpreadsheetConfig = models.SpreadsheetConfig{
	SheetName: "Sheet1",
	StartRow:  2,
	Columns: models.ColumnMap{
		Nama:       "B",
		Kelas:      "C",
		JumlahFoto: "D",
		Done:       "H",
		Qris:       "J",
		Cash:       "K",
	},
}

var columnLetterRe = regexp.MustCompile(`^[A-Z]{1,2}$`)

// ConfigService owns the pricing table, membership sets, and export
// configuration. Values persist in the settings repository as JSON so
// they survive server restarts; the queue itself does not.
type ConfigService struct {
	log         logger.Logger
	repo        repository.SettingsRepository
	sheets      sheets.Client
	broadcaster Broadcaster
}

// NewConfigService creates a new ConfigService
func NewConfigService(log logger.Logger, repo repository.SettingsRepository, sheetsClient sheets.Client) *ConfigService {
	return &ConfigService{log: log, repo: repo, sheets: sheetsClient}
}

// SetBroadcaster sets the broadcaster for pushing config changes to consoles
func (s *ConfigService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// GetPricing returns the current bundle price table
func (s *ConfigService) GetPricing(ctx context.Context) (models.Pricing, error) {
	var p models.Pricing
	found, err := s.getJSON(ctx, keyPricing, &p)
	if err != nil {
		return models.Pricing{}, err
	}
	if !found {
		return DefaultPricing, nil
	}
	return p, nil
}

// SetPricing replaces the bundle price table. Both bundle prices must be
// supplied and positive; there is no partial update. Entries created
// before the change keep their frozen price.
func (s *ConfigService) SetPricing(ctx context.Context, p models.Pricing) error {
	if p.Bundle2 <= 0 || p.Bundle4 <= 0 {
		return errors.Validation("bundle prices must be greater than zero")
	}
	if err := s.setJSON(ctx, keyPricing, p); err != nil {
		return err
	}

	s.log.Info("Pricing updated", "bundle2", p.Bundle2, "bundle4", p.Bundle4)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastPricing(p)
	}
	return nil
}

// GetAdmins returns the administrator identifier list
func (s *ConfigService) GetAdmins(ctx context.Context) ([]string, error) {
	return s.getList(ctx, keyAdmins)
}

// SetAdmins replaces the administrator identifier list
func (s *ConfigService) SetAdmins(ctx context.Context, admins []string) error {
	cleaned, err := cleanIdentifiers(admins)
	if err != nil {
		return err
	}
	if err := s.setJSON(ctx, keyAdmins, cleaned); err != nil {
		return err
	}
	s.log.Info("Admin list updated", "count", len(cleaned))
	return nil
}

// GetSuperAdmins returns the super administrator identifier list
func (s *ConfigService) GetSuperAdmins(ctx context.Context) ([]string, error) {
	return s.getList(ctx, keySuperAdmins)
}

// SetSuperAdmins replaces the super administrator identifier list.
// The acting super admin must remain in the new list; removing yourself
// would lock everyone out of this panel.
func (s *ConfigService) SetSuperAdmins(ctx context.Context, actor string, superAdmins []string) error {
	cleaned, err := cleanIdentifiers(superAdmins)
	if err != nil {
		return err
	}
	if !containsIdentifier(cleaned, actor) {
		return errors.Conflict("cannot remove yourself from super admins")
	}
	if err := s.setJSON(ctx, keySuperAdmins, cleaned); err != nil {
		return err
	}
	s.log.Info("Super admin list updated", "count", len(cleaned))
	return nil
}

// GetSpreadsheetConfig returns the export destination configuration
func (s *ConfigService) GetSpreadsheetConfig(ctx context.Context) (models.SpreadsheetConfig, error) {
	var cfg models.SpreadsheetConfig
	found, err := s.getJSON(ctx, keySpreadsheetConfig, &cfg)
	if err != nil {
		return models.SpreadsheetConfig{}, err
	}
	if !found {
		return DefaultSpreadsheetConfig, nil
	}
	return cfg, nil
}

// SetSpreadsheetConfig replaces the export destination configuration
func (s *ConfigService) SetSpreadsheetConfig(ctx context.Context, cfg models.SpreadsheetConfig) error {
	cfg.SpreadsheetID = strings.TrimSpace(cfg.SpreadsheetID)
	cfg.SheetName = strings.TrimSpace(cfg.SheetName)
	if cfg.SheetName == "" {
		return errors.Validation("sheet name must not be empty")
	}
	if cfg.StartRow < 1 {
		return errors.Validation("start row must be at least 1")
	}

	columns := []*string{
		&cfg.Columns.Nama, &cfg.Columns.Kelas, &cfg.Columns.JumlahFoto,
		&cfg.Columns.Done, &cfg.Columns.Qris, &cfg.Columns.Cash,
	}
	for _, col := range columns {
		*col = strings.ToUpper(strings.TrimSpace(*col))
		if !columnLetterRe.MatchString(*col) {
			return errors.Validationf("invalid column letter %q", *col)
		}
	}

	if err := s.setJSON(ctx, keySpreadsheetConfig, cfg); err != nil {
		return err
	}
	s.log.Info("Spreadsheet config updated", "spreadsheet_id", cfg.SpreadsheetID, "sheet", cfg.SheetName)
	return nil
}

// TestConnection checks whether the export destination is reachable.
// Best effort: a failure is reported as a message, never an error that
// would block queue operation.
func (s *ConfigService) TestConnection(ctx context.Context) (bool, string) {
	cfg, err := s.GetSpreadsheetConfig(ctx)
	if err != nil {
		return false, "failed to load spreadsheet config: " + err.Error()
	}
	if s.sheets == nil {
		return false, "no spreadsheet client configured"
	}
	if err := s.sheets.TestConnection(ctx, cfg); err != nil {
		return false, err.Error()
	}
	return true, "connection ok"
}

// getJSON loads and unmarshals a JSON settings value.
// Returns found=false when the key has never been written.
func (s *ConfigService) getJSON(ctx context.Context, key string, target interface{}) (bool, error) {
	value, err := s.repo.GetSetting(ctx, key)
	if err == repository.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(value), target); err != nil {
		return false, errors.Wrap(err, errors.ErrInternal, "corrupt setting "+key)
	}
	return true, nil
}

// setJSON marshals and stores a JSON settings value
func (s *ConfigService) setJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Internal(err)
	}
	return s.repo.SetSetting(ctx, key, string(data))
}

func (s *ConfigService) getList(ctx context.Context, key string) ([]string, error) {
	var list []string
	found, err := s.getJSON(ctx, key, &list)
	if err != nil {
		return nil, err
	}
	if !found {
		return []string{}, nil
	}
	return list, nil
}

// cleanIdentifiers trims identifiers and rejects empty entries
func cleanIdentifiers(ids []string) ([]string, error) {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, errors.Validation("identifiers must not be empty")
		}
		cleaned = append(cleaned, id)
	}
	return cleaned, nil
}

func containsIdentifier(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
