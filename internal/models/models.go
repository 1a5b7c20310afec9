package models

import "time"

// EntryState is the lifecycle state of a queue entry
type EntryState string

const (
	StateWaiting       EntryState = "waiting"
	StatePhotographing EntryState = "photographing"
	StateDone          EntryState = "done"
	StateCancelled     EntryState = "cancelled"
)

// Terminal reports whether the state admits no further transitions
func (s EntryState) Terminal() bool {
	return s == StateDone || s == StateCancelled
}

// PaymentMethod identifies how a finished entry paid
type PaymentMethod string

const (
	PaymentQRIS PaymentMethod = "qris"
	PaymentCash PaymentMethod = "cash"
)

// Valid reports whether the payment method is one of the known methods
func (m PaymentMethod) Valid() bool {
	return m == PaymentQRIS || m == PaymentCash
}

// QueueEntry represents one registrant in the photo queue.
// Price is frozen at creation time so later pricing changes never
// affect entries already in the queue.
type QueueEntry struct {
	ID            string        `json:"id"`
	Name          string        `json:"nama"`
	ClassName     string        `json:"kelas,omitempty"`
	PhotoCount    int           `json:"jumlahFoto"`
	Price         int64         `json:"price"`
	State         EntryState    `json:"status"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// Pricing holds the bundle price table. Amounts are whole rupiah.
type Pricing struct {
	Bundle2 int64 `json:"bundle2"`
	Bundle4 int64 `json:"bundle4"`
}

// Snapshot is a full point-in-time copy of the queue authority state.
// Version increases with every mutation; clients discard snapshots
// older than the last one they applied.
type Snapshot struct {
	Version                uint64       `json:"version"`
	Queue                  []QueueEntry `json:"queue"`
	CurrentlyPhotographing *string      `json:"currentlyPhotographing"`
	Pricing                Pricing      `json:"pricing"`
}

// ColumnMap assigns a spreadsheet column letter to each exported field
type ColumnMap struct {
	Nama       string `json:"nama"`
	Kelas      string `json:"kelas"`
	JumlahFoto string `json:"jumlahFoto"`
	Done       string `json:"done"`
	Qris       string `json:"qris"`
	Cash       string `json:"cash"`
}

// SpreadsheetConfig addresses the export destination
type SpreadsheetConfig struct {
	SpreadsheetID string    `json:"spreadsheetId"`
	SheetName     string    `json:"sheetName"`
	StartRow      int       `json:"startRow"`
	Columns       ColumnMap `json:"columns"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
