package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/justsurfingit/talent-crm/internal/dtos"
	"github.com/justsurfingit/talent-crm/internal/extractor"
	"github.com/justsurfingit/talent-crm/internal/models"
	"go.uber.org/zap"
)

var ErrUnsupportedFile = errors.New("only PDF resumes are supported")

type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

type ResumeParser interface {
	ParseResume(ctx context.Context, text string) (*dtos.ParsedResume, error)
}

type CandidateWriter interface {
	SaveFromResume(ctx context.Context, c *models.Candidate) (*models.Candidate, error)
}

// ResumeService turns an uploaded PDF into a candidate record.
type ResumeService struct {
	extractor  TextExtractor
	parser     ResumeParser
	candidates CandidateWriter
	pageCount  func([]byte) (int, error)
	log        *zap.Logger
}

// NewResumeService wires the ingestion pipeline. parser may be nil, in
// which case candidates are stored with the raw text only.
func NewResumeService(ext TextExtractor, parser ResumeParser, candidates CandidateWriter, log *zap.Logger) *ResumeService {
	return &ResumeService{
		extractor:  ext,
		parser:     parser,
		candidates: candidates,
		pageCount:  extractor.PageCount,
		log:        log,
	}
}

// Ingest extracts the resume text, asks the LLM for structured fields and
// stores the candidate. Only a failed extraction or store aborts the upload.
func (s *ResumeService) Ingest(ctx context.Context, fileName string, data []byte) (*models.Candidate, error) {
	if !isPDF(fileName, data) {
		return nil, ErrUnsupportedFile
	}

	log := s.log.With(zap.String("upload_id", uuid.NewString()), zap.String("file", fileName))

	text, err := s.extractor.Extract(ctx, data)
	if err != nil {
		log.Warn("resume text extraction failed", zap.Int("bytes", len(data)), zap.Error(err))
		return nil, fmt.Errorf("extract resume text: %w", err)
	}

	pages, err := s.pageCount(data)
	if err != nil {
		log.Debug("page count unavailable", zap.Error(err))
	}

	cand := &models.Candidate{
		Name:           strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName)),
		Status:         models.CandidateNew,
		ResumeFileName: filepath.Base(fileName),
		ResumePages:    pages,
		ResumeText:     text,
	}

	if s.parser != nil {
		parsed, err := s.parser.ParseResume(ctx, text)
		if err != nil {
			log.Warn("resume parsing failed, storing raw text only", zap.Error(err))
		} else {
			applyParsed(cand, parsed)
		}
	}

	saved, err := s.candidates.SaveFromResume(ctx, cand)
	if err != nil {
		return nil, fmt.Errorf("save candidate: %w", err)
	}
	log.Info("resume ingested", zap.Uint("candidate_id", saved.ID), zap.Int("pages", pages))
	return saved, nil
}

func applyParsed(c *models.Candidate, p *dtos.ParsedResume) {
	if name := strings.TrimSpace(p.Name); name != "" {
		c.Name = name
	}
	c.Email = normalizeEmail(p.Email)
	c.Phone = strings.TrimSpace(p.Phone)
	c.Location = strings.TrimSpace(p.Location)
	c.Summary = strings.TrimSpace(p.Summary)
	c.Skills = joinSkills(p.Skills)
}

func isPDF(fileName string, data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF")) || strings.EqualFold(filepath.Ext(fileName), ".pdf")
}
