package jobs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"cartaporte-backend/internal/invoicing"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).Register(r.Group("/api/v1"))
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return resp.Error.Code
}

func TestGetJobNotFound(t *testing.T) {
	svc := newTestService(&fakeExtractor{}, &fakeIssuer{})
	r := newTestRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/api/v1/jobs/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if code := decodeErrorCode(t, w); code != "not_found" {
		t.Errorf("code = %q", code)
	}
}

func TestListJobsEmpty(t *testing.T) {
	svc := newTestService(&fakeExtractor{}, &fakeIssuer{})
	r := newTestRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/api/v1/jobs", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"jobs":[]`) {
		t.Errorf("empty list not an array: %s", w.Body.String())
	}
}

func TestPipelineOverHTTP(t *testing.T) {
	extractor := &fakeExtractor{data: reviewedData()}
	issuer := &fakeIssuer{issuance: invoicing.Issuance{ID: "abc123", UUID: "uuid-1"}, pdf: []byte("%PDF")}
	svc := newTestService(extractor, issuer)
	r := newTestRouter(svc)

	job := createJob(t, svc)
	base := "/api/v1/jobs/" + job.ID

	// Emit before review is a state conflict.
	w := doRequest(t, r, http.MethodPost, base+"/emit", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("premature emit status = %d, want 409", w.Code)
	}
	if code := decodeErrorCode(t, w); code != "invalid_state" {
		t.Errorf("code = %q", code)
	}

	w = doRequest(t, r, http.MethodPost, base+"/extract", "")
	if w.Code != http.StatusOK {
		t.Fatalf("extract status = %d: %s", w.Code, w.Body.String())
	}

	// Second extract is rejected without another model call.
	w = doRequest(t, r, http.MethodPost, base+"/extract", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("double extract status = %d, want 409", w.Code)
	}

	w = doRequest(t, r, http.MethodPatch, base+"/fields",
		`{"updates":[{"path":"receptor.nombre","value":"Editado SA"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("patch status = %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Editado SA") {
		t.Errorf("edit not reflected: %s", w.Body.String())
	}

	w = doRequest(t, r, http.MethodPatch, base+"/fields",
		`{"updates":[{"path":"no.such.path","value":"x"}]}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad path status = %d, want 422", w.Code)
	}

	w = doRequest(t, r, http.MethodPost, base+"/ready", "")
	if w.Code != http.StatusOK {
		t.Fatalf("ready status = %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(t, r, http.MethodPost, base+"/emit", "")
	if w.Code != http.StatusOK {
		t.Fatalf("emit status = %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "uuid-1") {
		t.Errorf("issuance uuid missing: %s", w.Body.String())
	}

	w = doRequest(t, r, http.MethodGet, base+"/download/pdf", "")
	if w.Code != http.StatusOK {
		t.Fatalf("download status = %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/pdf" || w.Body.String() != "%PDF" {
		t.Errorf("download = %q %q", w.Header().Get("Content-Type"), w.Body.String())
	}
}

func TestPatchFieldsBadBody(t *testing.T) {
	svc := newTestService(&fakeExtractor{}, &fakeIssuer{})
	r := newTestRouter(svc)
	job := createJob(t, svc)

	w := doRequest(t, r, http.MethodPatch, "/api/v1/jobs/"+job.ID+"/fields", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestPatchFieldsEmptyUpdates(t *testing.T) {
	extractor := &fakeExtractor{data: reviewedData()}
	svc := newTestService(extractor, &fakeIssuer{})
	r := newTestRouter(svc)
	job := createJob(t, svc)
	if _, err := svc.Extract(context.Background(), job.ID); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	w := doRequest(t, r, http.MethodPatch, "/api/v1/jobs/"+job.ID+"/fields", `{"updates":[]}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}
