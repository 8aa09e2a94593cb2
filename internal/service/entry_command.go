package service

import (
	"time"

	"github.com/Behyna/hisabkitab/internal/risk"
)

type EntryCommand struct {
	CustomerName string
	Item         string
	Quantity     float64
	PricePerUnit float64
}

type EntryResult struct {
	TransactionID int64     `json:"transaction_id"`
	CustomerID    int64     `json:"customer_id"`
	Total         float64   `json:"total"`
	Tier          risk.Tier `json:"tier"`
	Tone          risk.Tone `json:"tone"`
	Bill          string    `json:"bill"`
	ShareLink     string    `json:"share_link"`
	Report        string    `json:"report"`
	Timestamp     time.Time `json:"timestamp"`
}
