package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/talent-crm/internal/extractor"
	"github.com/justsurfingit/talent-crm/internal/models"
	"github.com/justsurfingit/talent-crm/internal/services"
)

type fakeIngester struct {
	cand     *models.Candidate
	err      error
	gotName  string
	gotBytes []byte
}

func (f *fakeIngester) Ingest(_ context.Context, fileName string, data []byte) (*models.Candidate, error) {
	f.gotName = fileName
	f.gotBytes = data
	return f.cand, f.err
}

func newTestRouter(ing ResumeIngester, maxUpload int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(Handlers{
		Jobs:       &JobHandler{},
		Companies:  &CompanyHandler{},
		Candidates: NewCandidateHandler(nil, ing, maxUpload),
		Deals:      &DealHandler{},
		Interviews: &InterviewHandler{},
	}, nil)
}

func multipartRequest(t *testing.T, field, name string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/candidates/resume", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&fakeIngester{}, 1024).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestUploadResume(t *testing.T) {
	email := "ada@example.com"
	tests := []struct {
		name     string
		ingester *fakeIngester
		want     int
		wantBody string
	}{
		{"created", &fakeIngester{cand: &models.Candidate{Base: models.Base{ID: 7}, Name: "Ada", Email: &email}}, http.StatusCreated, `"name":"Ada"`},
		{"unsupported", &fakeIngester{err: services.ErrUnsupportedFile}, http.StatusUnsupportedMediaType, "PDF"},
		{"extraction failed", &fakeIngester{err: errors.Join(errors.New("extract resume text"), extractor.ErrExtractionFailed)}, http.StatusUnprocessableEntity, "could not extract text from resume"},
		{"internal", &fakeIngester{err: errors.New("db down")}, http.StatusInternalServerError, "db down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := multipartRequest(t, "resume", "ada.pdf", []byte("%PDF-1.4 body"))
			newTestRouter(tt.ingester, 1024).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Fatalf("expected body to contain %q, got %s", tt.wantBody, rec.Body.String())
			}
			if tt.ingester.gotName != "ada.pdf" || string(tt.ingester.gotBytes) != "%PDF-1.4 body" {
				t.Fatalf("ingester got %q / %q", tt.ingester.gotName, tt.ingester.gotBytes)
			}
		})
	}
}

func TestUploadResume_ResumeTextNotExposed(t *testing.T) {
	ing := &fakeIngester{cand: &models.Candidate{Name: "Ada", ResumeText: "secret full text"}}
	rec := httptest.NewRecorder()
	newTestRouter(ing, 1024).ServeHTTP(rec, multipartRequest(t, "resume", "a.pdf", []byte("%PDF")))

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := body["resume_text"]; ok || strings.Contains(rec.Body.String(), "secret full text") {
		t.Fatalf("resume text leaked: %s", rec.Body.String())
	}
}

func TestUploadResume_MissingFile(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&fakeIngester{}, 1024).ServeHTTP(rec, multipartRequest(t, "other", "a.pdf", []byte("%PDF")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUploadResume_TooLarge(t *testing.T) {
	ing := &fakeIngester{}
	rec := httptest.NewRecorder()
	newTestRouter(ing, 16).ServeHTTP(rec, multipartRequest(t, "resume", "a.pdf", bytes.Repeat([]byte("x"), 64)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
	if ing.gotBytes != nil {
		t.Fatalf("oversized file reached the ingester")
	}
}

func TestInvalidIDs(t *testing.T) {
	r := newTestRouter(&fakeIngester{}, 1024)
	for _, path := range []string{"/api/v1/jobs/abc", "/api/v1/candidates/0"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, rec.Code)
		}
	}
}

func TestDealStage_RequiresStage(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/deals/3/stage", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	newTestRouter(&fakeIngester{}, 1024).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestJobAI_WithoutLLM(t *testing.T) {
	r := newTestRouter(&fakeIngester{}, 1024)
	for _, path := range []string{"/api/v1/jobs/extract", "/api/v1/jobs/describe"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: expected 503, got %d", path, rec.Code)
		}
	}
}
