package jobs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cartaporte-backend/internal/shared/server/respond"
)

// Handler exposes the job pipeline over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates a handler over the service.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the job routes on the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.list)
	rg.GET("/jobs/:id", h.get)
	rg.POST("/jobs/:id/extract", h.extract)
	rg.PATCH("/jobs/:id/fields", h.updateFields)
	rg.POST("/jobs/:id/ready", h.markReady)
	rg.POST("/jobs/:id/emit", h.emit)
	rg.GET("/jobs/:id/download/:kind", h.download)
}

type listResponse struct {
	Jobs []*Job `json:"jobs"`
}

func (h *Handler) list(c *gin.Context) {
	jobs, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if jobs == nil {
		jobs = []*Job{}
	}
	respond.OK(c, listResponse{Jobs: jobs})
}

func (h *Handler) get(c *gin.Context) {
	job, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, job)
}

func (h *Handler) extract(c *gin.Context) {
	job, err := h.svc.Extract(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, job)
}

type updateFieldsRequest struct {
	Updates []FieldUpdate `json:"updates"`
}

func (h *Handler) updateFields(c *gin.Context) {
	var req updateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "invalid request body", err.Error())
		return
	}
	job, err := h.svc.UpdateFields(c.Request.Context(), c.Param("id"), req.Updates)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, job)
}

func (h *Handler) markReady(c *gin.Context) {
	job, err := h.svc.MarkReady(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, job)
}

func (h *Handler) emit(c *gin.Context) {
	job, err := h.svc.Emit(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, job)
}

func (h *Handler) download(c *gin.Context) {
	data, contentType, err := h.svc.Download(c.Request.Context(), c.Param("id"), c.Param("kind"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

// writeError maps service errors onto the error envelope.
func writeError(c *gin.Context, err error) {
	var stateErr *StateError
	var validationErr *ValidationError

	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
	case errors.Is(err, ErrConflict):
		respond.Error(c, http.StatusConflict, "conflict", "job was modified concurrently, re-read and retry", nil)
	case errors.As(err, &stateErr):
		respond.Error(c, http.StatusConflict, "invalid_state", stateErr.Error(), map[string]any{
			"status": string(stateErr.Status),
		})
	case errors.As(err, &validationErr):
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", validationErr.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}
