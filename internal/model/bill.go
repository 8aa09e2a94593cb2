package model

import "time"

// BillIssued is published after an entry is committed and consumed by the
// reminder worker.
type BillIssued struct {
	TransactionID int64     `json:"transaction_id"`
	CustomerID    int64     `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	Item          string    `json:"item"`
	Total         float64   `json:"total"`
	Tier          string    `json:"tier"`
	Tone          string    `json:"tone"`
	ShareLink     string    `json:"share_link"`
	IssuedAt      time.Time `json:"issued_at"`
}
