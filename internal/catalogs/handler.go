package catalogs

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"cartaporte-backend/internal/invoicing"
	"cartaporte-backend/internal/shared/server/respond"
)

// catalogName keeps the proxy from forwarding arbitrary path segments.
var catalogName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]{0,63}$`)

// Handler serves code catalogs: embedded ones directly, the rest proxied
// from the invoicing provider.
type Handler struct {
	provider invoicing.Client
}

// NewHandler creates a catalog handler. provider may be nil when no
// invoicing credentials are configured; only embedded catalogs work then.
func NewHandler(provider invoicing.Client) *Handler {
	return &Handler{provider: provider}
}

// Register mounts the catalog route on the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/catalogs/:name", h.get)
}

func (h *Handler) get(c *gin.Context) {
	name := c.Param("name")
	if !catalogName.MatchString(name) {
		respond.Error(c, http.StatusBadRequest, "bad_request", "invalid catalog name", nil)
		return
	}

	if entries := Local(name); entries != nil {
		respond.OK(c, gin.H{"name": name, "entries": entries})
		return
	}

	if h.provider == nil {
		respond.Error(c, http.StatusNotFound, "not_found", "unknown catalog "+name, nil)
		return
	}

	raw, err := h.provider.Catalog(c.Request.Context(), name)
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "provider_error", "catalog fetch failed", err.Error())
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}
