package v1

import (
	"github.com/Behyna/hisabkitab/internal/service"
)

type HomeResponse struct {
	Status string `json:"status"`
	Engine string `json:"engine"`
}

// EntryResponse is flat so clients can read total and bill without
// unwrapping a result envelope.
type EntryResponse struct {
	Success       bool    `json:"success"`
	Message       string  `json:"message,omitempty"`
	TransactionID int64   `json:"transaction_id"`
	CustomerID    int64   `json:"customer_id"`
	Total         float64 `json:"total"`
	Tier          string  `json:"tier"`
	Risk          string  `json:"risk"`
	Tone          string  `json:"tone"`
	Bill          string  `json:"bill"`
	WhatsAppLink  string  `json:"whatsapp_link"`
	Report        string  `json:"report"`
	TrackID       string  `json:"x_track_id,omitempty"`
}

func newEntryResponse(result service.EntryResult, message, trackID string) EntryResponse {
	return EntryResponse{
		Success:       true,
		Message:       message,
		TransactionID: result.TransactionID,
		CustomerID:    result.CustomerID,
		Total:         result.Total,
		Tier:          result.Tier.String(),
		Risk:          result.Tier.String(),
		Tone:          result.Tone.String(),
		Bill:          result.Bill,
		WhatsAppLink:  result.ShareLink,
		Report:        result.Report,
		TrackID:       trackID,
	}
}
