package handlers

// LoginRequest represents an operator login
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// QueueCreateRequest represents a request to register a visitor.
// Field names follow the console's form fields.
type QueueCreateRequest struct {
	Nama       string `json:"nama"`
	Kelas      string `json:"kelas"`
	JumlahFoto int    `json:"jumlahFoto"`
}

// DoneRequest represents a request to finish the current entry
type DoneRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

// ForceRequest represents an administrator override
type ForceRequest struct {
	Action        string `json:"action"`
	PaymentMethod string `json:"paymentMethod"`
}

// PricingUpdateRequest represents a full replacement of the price table
type PricingUpdateRequest struct {
	Bundle2 int64 `json:"bundle2"`
	Bundle4 int64 `json:"bundle4"`
}

// AdminsUpdateRequest represents a full replacement of the admin list
type AdminsUpdateRequest struct {
	Admins []string `json:"admins"`
}

// SuperAdminsUpdateRequest represents a full replacement of the super admin list
type SuperAdminsUpdateRequest struct {
	SuperAdmins []string `json:"superAdmins"`
}
