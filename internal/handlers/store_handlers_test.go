package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/talent-crm/internal/database"
	"github.com/justsurfingit/talent-crm/internal/models"
	"github.com/justsurfingit/talent-crm/internal/services"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newStoreRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db, err := database.Open(gormlite.Open(filepath.Join(t.TempDir(), "crm.db")), zap.NewNop())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	gin.SetMode(gin.TestMode)
	r := NewRouter(Handlers{
		Jobs:       NewJobHandler(nil, services.NewJobService(db)),
		Companies:  NewCompanyHandler(services.NewCompanyService(db)),
		Candidates: NewCandidateHandler(services.NewCandidateService(db, zap.NewNop()), &fakeIngester{}, 1024),
		Deals:      NewDealHandler(services.NewDealService(db, zap.NewNop())),
		Interviews: &InterviewHandler{},
	}, nil)
	return r, db
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateCompany_BlankName(t *testing.T) {
	r, db := newStoreRouter(t)

	if rec := postJSON(r, "/api/v1/companies", `{"company_name":"Acme","website":"acme.example"}`); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	for _, path := range []string{"/api/v1/companies", "/api/v1/jobs"} {
		body := `{"company_name":"   ","website":"evil.example","role_title":"Engineer","description":"x"}`
		if rec := postJSON(r, path, body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d: %s", path, rec.Code, rec.Body.String())
		}
	}

	var acme models.Company
	if err := db.Where("name = ?", "Acme").First(&acme).Error; err != nil {
		t.Fatal(err)
	}
	if acme.Website != "acme.example" {
		t.Fatalf("existing company was modified: %+v", acme)
	}
}

func TestListActivities(t *testing.T) {
	r, db := newStoreRouter(t)

	cand, err := services.NewCandidateService(db, zap.NewNop()).SaveFromResume(context.Background(),
		&models.Candidate{Name: "Ada", ResumeFileName: "ada.pdf", ResumePages: 1})
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/candidates/"+strconv.FormatUint(uint64(cand.ID), 10)+"/activities", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var acts []models.Activity
	if err := json.Unmarshal(rec.Body.Bytes(), &acts); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(acts) != 1 || acts[0].Kind != models.ActivityResumeUploaded {
		t.Fatalf("unexpected activities %+v", acts)
	}

	for _, path := range []string{
		"/api/v1/candidates/999/activities",
		"/api/v1/jobs/999/activities",
		"/api/v1/deals/999/activities",
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}
