package handlers

import (
	"github.com/humed/photoqueue/internal/auth"
	"github.com/humed/photoqueue/internal/models"
)

// UserResponse wraps the caller's identity
type UserResponse struct {
	User *auth.Identity `json:"user"`
}

// PricingResponse wraps the price table
type PricingResponse struct {
	Pricing models.Pricing `json:"pricing"`
}

// AdminsResponse wraps the admin list
type AdminsResponse struct {
	Admins []string `json:"admins"`
}

// SuperAdminsResponse wraps the super admin list
type SuperAdminsResponse struct {
	SuperAdmins []string `json:"superAdmins"`
}

// SpreadsheetConfigResponse wraps the export configuration
type SpreadsheetConfigResponse struct {
	Spreadsheet models.SpreadsheetConfig `json:"spreadsheet"`
}

// TestConnectionResponse is the result of an export connectivity test
type TestConnectionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
