package handlers

import (
	"net/http"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/humed/photoqueue/internal/auth"
	"github.com/humed/photoqueue/internal/models"
)

// handleGetPricing returns the current price table
func (h *Handlers) handleGetPricing(w http.ResponseWriter, r *http.Request) {
	pricing, err := h.Config.GetPricing(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, PricingResponse{Pricing: pricing})
}

// handleUpdatePricing replaces the price table. New prices apply to
// entries registered after this call; existing entries keep the price
// they were quoted.
func (h *Handlers) handleUpdatePricing(w http.ResponseWriter, r *http.Request) {
	var req PricingUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	pricing := models.Pricing{Bundle2: req.Bundle2, Bundle4: req.Bundle4}
	if err := h.Config.SetPricing(r.Context(), pricing); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, PricingResponse{Pricing: pricing})
}

// handleGetAdmins returns the admin membership list
func (h *Handlers) handleGetAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.Config.GetAdmins(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, AdminsResponse{Admins: admins})
}

// handleUpdateAdmins replaces the admin membership list
func (h *Handlers) handleUpdateAdmins(w http.ResponseWriter, r *http.Request) {
	var req AdminsUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Config.SetAdmins(r.Context(), req.Admins); err != nil {
		respondError(w, err)
		return
	}

	admins, err := h.Config.GetAdmins(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, AdminsResponse{Admins: admins})
}

// handleGetSuperAdmins returns the super admin membership list
func (h *Handlers) handleGetSuperAdmins(w http.ResponseWriter, r *http.Request) {
	superAdmins, err := h.Config.GetSuperAdmins(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, SuperAdminsResponse{SuperAdmins: superAdmins})
}

// handleUpdateSuperAdmins replaces the super admin list. The caller
// must remain on the new list so the set can never lock itself out.
func (h *Handlers) handleUpdateSuperAdmins(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		respondError(w, Unauthorized("Not logged in"))
		return
	}

	var req SuperAdminsUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Config.SetSuperAdmins(r.Context(), identity.ID, req.SuperAdmins); err != nil {
		respondError(w, err)
		return
	}

	superAdmins, err := h.Config.GetSuperAdmins(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, SuperAdminsResponse{SuperAdmins: superAdmins})
}

// handleGetSpreadsheetConfig returns the export configuration
func (h *Handlers) handleGetSpreadsheetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Config.GetSpreadsheetConfig(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, SpreadsheetConfigResponse{Spreadsheet: cfg})
}

// handleUpdateSpreadsheetConfig replaces the export configuration
func (h *Handlers) handleUpdateSpreadsheetConfig(w http.ResponseWriter, r *http.Request) {
	var cfg models.SpreadsheetConfig
	if err := decodeJSON(r, &cfg); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Config.SetSpreadsheetConfig(r.Context(), cfg); err != nil {
		respondError(w, err)
		return
	}

	saved, err := h.Config.GetSpreadsheetConfig(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, SpreadsheetConfigResponse{Spreadsheet: saved})
}

// handleTestConnection probes the spreadsheet exporter. Failure is
// reported in the body, not as an HTTP error, so the console can show
// the message verbatim.
func (h *Handlers) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	success, message := h.Config.TestConnection(r.Context())
	respondOK(w, TestConnectionResponse{Success: success, Message: message})
}

// handleResetQueue clears the queue for a new event day
func (h *Handlers) handleResetQueue(w http.ResponseWriter, r *http.Request) {
	if err := h.Queue.Reset(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Queue reset")
}

// handleConsoleQR renders a QR code pointing phones at the dashboard
func (h *Handlers) handleConsoleQR(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	url := scheme + "://" + r.Host + "/dashboard"

	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
