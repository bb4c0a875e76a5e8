package llm

import (
	"context"
	"encoding/json"
)

// ExtractInput carries the prepared document content for one extraction call.
// Exactly one of Text or FileBase64 is set: Text for documents reduced to
// plain text, FileBase64 plus FileMediaType for documents sent as images.
type ExtractInput struct {
	Text          string
	FileBase64    string
	FileMediaType string
}

// Client asks a language model to read a transport document and return the
// shipment fields as a JSON object. Implementations return the raw model
// output; validation and normalization happen at the caller.
type Client interface {
	ExtractShipment(ctx context.Context, input ExtractInput) (json.RawMessage, error)
}
