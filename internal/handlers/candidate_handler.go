package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/talent-crm/internal/dtos"
	"github.com/justsurfingit/talent-crm/internal/extractor"
	"github.com/justsurfingit/talent-crm/internal/models"
	"github.com/justsurfingit/talent-crm/internal/services"
)

// ResumeIngester is satisfied by services.ResumeService.
type ResumeIngester interface {
	Ingest(ctx context.Context, fileName string, data []byte) (*models.Candidate, error)
}

type CandidateHandler struct {
	Candidates     *services.CandidateService
	Resumes        ResumeIngester
	MaxUploadBytes int64
}

func NewCandidateHandler(candidates *services.CandidateService, resumes ResumeIngester, maxUploadBytes int64) *CandidateHandler {
	return &CandidateHandler{
		Candidates:     candidates,
		Resumes:        resumes,
		MaxUploadBytes: maxUploadBytes,
	}
}

func (h *CandidateHandler) CreateCandidate(c *gin.Context) {
	var req dtos.CandidateRequest
	if !bindJSON(c, &req) {
		return
	}
	cand, err := h.Candidates.CreateCandidate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Failed to create candidate", err)
		return
	}
	c.JSON(http.StatusCreated, cand)
}

func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	out, err := h.Candidates.ListCandidates(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, "Failed to list candidates", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cand, err := h.Candidates.GetCandidate(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to load candidate", err)
		return
	}
	c.JSON(http.StatusOK, cand)
}

func (h *CandidateHandler) ListActivities(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	out, err := h.Candidates.ListActivities(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to load activities", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// UploadResume is the POST /candidates/resume endpoint. It expects a
// multipart form with the PDF in the "resume" field.
func (h *CandidateHandler) UploadResume(c *gin.Context) {
	// multipart framing adds a little on top of the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+64<<10)

	fh, err := c.FormFile("resume")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "resume file is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing resume file: " + err.Error()})
		return
	}
	if fh.Size > h.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "resume file is too large"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable resume file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable resume file"})
		return
	}

	cand, err := h.Resumes.Ingest(c.Request.Context(), fh.Filename, data)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, cand)
	case errors.Is(err, services.ErrUnsupportedFile):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
	case errors.Is(err, extractor.ErrExtractionFailed), errors.Is(err, extractor.ErrInputTooLarge):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not extract text from resume"})
	default:
		respondError(c, "Failed to process resume", err)
	}
}
