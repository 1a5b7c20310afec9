// Package sheets provides a client for the spreadsheet export service
// that records finished photo queue entries.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/humed/photoqueue/internal/logger"
	"github.com/humed/photoqueue/internal/models"
)

// Client defines the interface for spreadsheet export operations
type Client interface {
	// AppendEntry writes one finished entry to the configured sheet
	AppendEntry(ctx context.Context, cfg models.SpreadsheetConfig, entry models.QueueEntry) error
	// TestConnection checks that the export service can reach the
	// configured spreadsheet
	TestConnection(ctx context.Context, cfg models.SpreadsheetConfig) error
}

// appendRequest is the wire format of an append call
type appendRequest struct {
	Action        string            `json:"action"`
	SpreadsheetID string            `json:"spreadsheetId"`
	SheetName     string            `json:"sheetName"`
	StartRow      int               `json:"startRow"`
	Cells         map[string]string `json:"cells,omitempty"`
}

// response is the export service's reply
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HTTPClient is a real HTTP client for the export service
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a new export client
func NewHTTPClient(baseURL string, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

// NewHTTPClientWithHTTPClient creates a new export client with a custom http.Client
func NewHTTPClientWithHTTPClient(baseURL string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{baseURL: baseURL, httpClient: httpClient, log: log}
}

// BaseURL returns the configured export service URL
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// AppendEntry writes one finished entry to the configured sheet.
// The entry's fields are placed into the column letters from the config;
// the payment method marks exactly one of the qris/cash columns.
func (c *HTTPClient) AppendEntry(ctx context.Context, cfg models.SpreadsheetConfig, entry models.QueueEntry) error {
	cells := map[string]string{
		cfg.Columns.Nama:       entry.Name,
		cfg.Columns.Kelas:      entry.ClassName,
		cfg.Columns.JumlahFoto: strconv.Itoa(entry.PhotoCount),
		cfg.Columns.Done:       "TRUE",
	}
	switch entry.PaymentMethod {
	case models.PaymentQRIS:
		cells[cfg.Columns.Qris] = "TRUE"
	case models.PaymentCash:
		cells[cfg.Columns.Cash] = "TRUE"
	}

	return c.doRequest(ctx, appendRequest{
		Action:        "append",
		SpreadsheetID: cfg.SpreadsheetID,
		SheetName:     cfg.SheetName,
		StartRow:      cfg.StartRow,
		Cells:         cells,
	})
}

// TestConnection checks that the export service can reach the configured spreadsheet
func (c *HTTPClient) TestConnection(ctx context.Context, cfg models.SpreadsheetConfig) error {
	return c.doRequest(ctx, appendRequest{
		Action:        "ping",
		SpreadsheetID: cfg.SpreadsheetID,
		SheetName:     cfg.SheetName,
		StartRow:      cfg.StartRow,
	})
}

// doRequest posts a JSON request to the export service and checks the
// success flag in its reply
func (c *HTTPClient) doRequest(ctx context.Context, reqBody appendRequest) error {
	if c.baseURL == "" {
		return fmt.Errorf("export service URL is not configured")
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	c.log.Debug("Export request", "url", c.baseURL, "action", reqBody.Action, "sheet", reqBody.SheetName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to export service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("Export response", "status", resp.StatusCode, "body", string(body))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("export service returned status %d: %s", resp.StatusCode, string(body))
	}

	var res response
	if err := json.Unmarshal(body, &res); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if !res.Success {
		return fmt.Errorf("export service error: %s", res.Message)
	}

	return nil
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)
