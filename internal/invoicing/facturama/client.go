package facturama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cartaporte-backend/internal/cartaporte"
	"cartaporte-backend/internal/invoicing"
	"cartaporte-backend/internal/shared/telemetry"
)

const (
	productionBaseURL = "https://api.facturama.mx"
	sandboxBaseURL    = "https://apisandbox.facturama.mx"
)

// Client talks to the Facturama API-Lite endpoints using basic auth.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// New creates a client against the sandbox or production environment.
func New(username, password string, sandbox bool) *Client {
	baseURL := productionBaseURL
	if sandbox {
		baseURL = sandboxBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// NewWithBaseURL is for tests against a local server.
func NewWithBaseURL(username, password, baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type issueResponse struct {
	ID         string `json:"Id"`
	Complement struct {
		TaxStamp struct {
			UUID string `json:"Uuid"`
		} `json:"TaxStamp"`
	} `json:"Complement"`
}

// apiError is the provider's error envelope. Message carries the headline;
// ModelState has per-field validation details when stamping is rejected.
type apiError struct {
	Message    string              `json:"Message"`
	ModelState map[string][]string `json:"ModelState"`
}

func (e *apiError) detail() string {
	if len(e.ModelState) == 0 {
		return e.Message
	}
	var parts []string
	for field, msgs := range e.ModelState {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, ", "))
}

// Issue stamps the document. A response without a fiscal UUID counts as a
// failure even on HTTP 200: an invoice that was not stamped does not exist.
func (c *Client) Issue(ctx context.Context, doc cartaporte.Document) (invoicing.Issuance, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return invoicing.Issuance{}, fmt.Errorf("facturama: marshal document: %w", err)
	}

	body, status, err := c.do(ctx, http.MethodPost, "/api-lite/3/cfdis", bytes.NewReader(payload))
	if err != nil {
		return invoicing.Issuance{}, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return invoicing.Issuance{}, c.asError(status, body)
	}

	var parsed issueResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return invoicing.Issuance{}, fmt.Errorf("facturama: decode issue response: %w", err)
	}
	if parsed.ID == "" || parsed.Complement.TaxStamp.UUID == "" {
		return invoicing.Issuance{}, fmt.Errorf("facturama: response missing id or fiscal uuid")
	}

	telemetry.Info("invoice stamped", map[string]any{
		"issuanceId": parsed.ID,
		"uuid":       parsed.Complement.TaxStamp.UUID,
	})
	return invoicing.Issuance{ID: parsed.ID, UUID: parsed.Complement.TaxStamp.UUID}, nil
}

// DownloadPDF fetches the rendered PDF for an issued invoice.
func (c *Client) DownloadPDF(ctx context.Context, issuanceID string) ([]byte, error) {
	return c.download(ctx, "pdf", issuanceID)
}

// DownloadXML fetches the stamped XML for an issued invoice.
func (c *Client) DownloadXML(ctx context.Context, issuanceID string) ([]byte, error) {
	return c.download(ctx, "xml", issuanceID)
}

type downloadResponse struct {
	Content string `json:"Content"`
}

func (c *Client) download(ctx context.Context, format, issuanceID string) ([]byte, error) {
	path := fmt.Sprintf("/api/Cfdi/%s/issuedLite/%s", format, url.PathEscape(issuanceID))
	body, status, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.asError(status, body)
	}

	var parsed downloadResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("facturama: decode download response: %w", err)
	}
	content, err := base64.StdEncoding.DecodeString(parsed.Content)
	if err != nil {
		return nil, fmt.Errorf("facturama: decode %s content: %w", format, err)
	}
	return content, nil
}

// Catalog returns the provider catalog as raw JSON for the API to pass
// through.
func (c *Client) Catalog(ctx context.Context, name string) ([]byte, error) {
	path := "/catalogs/" + url.PathEscape(name)
	body, status, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.asError(status, body)
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("facturama: build request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("facturama: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 20<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("facturama: read response: %w", err)
	}
	return data, resp.StatusCode, nil
}

func (c *Client) asError(status int, body []byte) error {
	var parsed apiError
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return fmt.Errorf("facturama: status %d: %s", status, parsed.detail())
	}
	return fmt.Errorf("facturama: status %d", status)
}
