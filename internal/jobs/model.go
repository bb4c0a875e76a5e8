package jobs

import (
	"time"

	"cartaporte-backend/internal/shipment"
)

// Job tracks one uploaded transport document through extraction, review, and
// issuance. Data is nil until the first extraction attempt persists a model
// (even a failed attempt stores the empty model for manual capture).
type Job struct {
	ID           string                 `json:"id"`
	Status       Status                 `json:"status"`
	Owner        string                 `json:"owner"`
	StoragePath  string                 `json:"-"`
	FileType     string                 `json:"fileType"`
	Data         *shipment.ShipmentData `json:"data,omitempty"`
	IssuanceID   string                 `json:"issuanceId,omitempty"`
	IssuanceUUID string                 `json:"issuanceUuid,omitempty"`
	ErrorMessage string                 `json:"errorMessage,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}
