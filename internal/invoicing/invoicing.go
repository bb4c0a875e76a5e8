package invoicing

import (
	"context"

	"cartaporte-backend/internal/cartaporte"
)

// Issuance identifies a stamped invoice at the provider. UUID is the fiscal
// folio assigned by the tax authority; ID is the provider's own record key
// used for later retrieval.
type Issuance struct {
	ID   string
	UUID string
}

// Client is the invoicing provider boundary. Issue stamps a Carta Porte
// document; the download methods fetch the rendered artifacts for an issued
// invoice; Catalog proxies the provider's code catalogs for review dropdowns.
type Client interface {
	Issue(ctx context.Context, doc cartaporte.Document) (Issuance, error)
	DownloadPDF(ctx context.Context, issuanceID string) ([]byte, error)
	DownloadXML(ctx context.Context, issuanceID string) ([]byte, error)
	Catalog(ctx context.Context, name string) ([]byte, error)
}
