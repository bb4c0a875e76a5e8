package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"cartaporte-backend/internal/llm"
	"cartaporte-backend/internal/shared/storage/object"
	"cartaporte-backend/internal/shared/telemetry"
	"cartaporte-backend/internal/shipment"
)

// maxDocumentBytes bounds how much of a stored document is read. Transport
// documents are a few pages; anything larger is not worth a model call.
const maxDocumentBytes = 20 << 20

// Orchestrator runs the extraction pipeline: load the stored document,
// prepare it for the model, call the model, validate and normalize the
// result.
type Orchestrator struct {
	store  object.ObjectStore
	client llm.Client
}

// New creates an orchestrator over the given object store and model client.
func New(store object.ObjectStore, client llm.Client) *Orchestrator {
	return &Orchestrator{store: store, client: client}
}

// Extract produces the shipment model for a stored document. On any failure
// it returns the empty model alongside the error so the caller always has a
// reviewable value to persist.
func (o *Orchestrator) Extract(ctx context.Context, storagePath, fileType string) (shipment.ShipmentData, error) {
	rc, err := o.store.Open(ctx, storagePath)
	if err != nil {
		return shipment.Empty(), fmt.Errorf("open document: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxDocumentBytes+1))
	if err != nil {
		return shipment.Empty(), fmt.Errorf("read document: %w", err)
	}
	if len(data) > maxDocumentBytes {
		return shipment.Empty(), fmt.Errorf("document exceeds %d bytes", maxDocumentBytes)
	}

	content, err := prepareContent(fileType, data)
	if err != nil {
		return shipment.Empty(), fmt.Errorf("prepare document: %w", err)
	}

	raw, err := o.client.ExtractShipment(ctx, llm.ExtractInput{
		Text:          content.text,
		FileBase64:    content.base64,
		FileMediaType: content.mediaType,
	})
	if err != nil {
		return shipment.Empty(), fmt.Errorf("model extraction: %w", err)
	}

	if err := validateShipmentJSON(raw); err != nil {
		telemetry.Warn("extraction output rejected", map[string]any{"error": err.Error()})
		return shipment.Empty(), err
	}

	var d shipment.ShipmentData
	if err := json.Unmarshal(raw, &d); err != nil {
		return shipment.Empty(), fmt.Errorf("decode shipment: %w", err)
	}

	normalize(&d)
	return d, nil
}
