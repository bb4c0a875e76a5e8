package uploads

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cartaporte-backend/internal/jobs"
	"cartaporte-backend/internal/shared/server/respond"
	"cartaporte-backend/internal/shared/storage/object"
	"cartaporte-backend/internal/shared/telemetry"
)

// maxUploadBytes caps the multipart body. Transport documents are small;
// anything bigger is a mistake or abuse.
const maxUploadBytes = 20 << 20

// acceptedTypes are the media types the extraction pipeline can process.
var acceptedTypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"text/plain": true,
	"text/csv":   true,
}

// Handler receives document uploads and opens a job for each.
type Handler struct {
	store object.ObjectStore
	svc   *jobs.Service
}

// NewHandler creates an upload handler.
func NewHandler(store object.ObjectStore, svc *jobs.Service) *Handler {
	return &Handler{store: store, svc: svc}
}

// Register mounts the upload route on the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/uploads", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "multipart field 'file' is required", err.Error())
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "could not read upload", nil)
		return
	}
	defer f.Close()

	// Type-gate before anything touches the store, so a rejected upload
	// leaves nothing behind. Sniffed type beats the client header, except
	// when sniffing is too generic to be useful (xlsx looks like a plain
	// zip).
	var sniff [512]byte
	n, readErr := io.ReadFull(f, sniff[:])
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "could not read upload", nil)
		return
	}
	fileType := http.DetectContentType(sniff[:n])
	if declared := fileHeader.Header.Get("Content-Type"); declared != "" {
		if fileType == "application/zip" || fileType == "application/octet-stream" {
			fileType = declared
		}
	}
	if i := strings.Index(fileType, ";"); i >= 0 {
		fileType = strings.TrimSpace(fileType[:i])
	}

	if !acceptedTypes[fileType] {
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_type",
			"unsupported document type "+fileType, nil)
		return
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "could not read upload", nil)
		return
	}

	storageKey, size, _, err := h.store.Save(c.Request.Context(), fileHeader.Filename, f)
	if err != nil {
		telemetry.Error("upload store failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "could not store upload", nil)
		return
	}

	job, err := h.svc.CreateFromUpload(c.Request.Context(), storageKey, fileType)
	if err != nil {
		telemetry.Error("job create failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "could not create job", nil)
		return
	}

	telemetry.Info("document uploaded", map[string]any{
		"jobId":     job.ID,
		"fileType":  fileType,
		"sizeBytes": size,
	})
	respond.JSON(c, http.StatusCreated, job)
}
