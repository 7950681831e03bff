package services

import (
	"context"
	"errors"
	"testing"

	"github.com/justsurfingit/talent-crm/internal/dtos"
	"github.com/justsurfingit/talent-crm/internal/extractor"
	"github.com/justsurfingit/talent-crm/internal/models"
	"go.uber.org/zap"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) Extract(context.Context, []byte) (string, error) { return f.text, f.err }

type fakeParser struct {
	parsed *dtos.ParsedResume
	err    error
}

func (f fakeParser) ParseResume(context.Context, string) (*dtos.ParsedResume, error) {
	return f.parsed, f.err
}

type fakeWriter struct {
	saved *models.Candidate
	err   error
}

func (f *fakeWriter) SaveFromResume(_ context.Context, c *models.Candidate) (*models.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	c.ID = 42
	f.saved = c
	return c, nil
}

func newTestResumeService(ext TextExtractor, parser ResumeParser, w CandidateWriter) *ResumeService {
	svc := NewResumeService(ext, parser, w, zap.NewNop())
	svc.pageCount = func([]byte) (int, error) { return 2, nil }
	return svc
}

func TestIngest_RejectsNonPDF(t *testing.T) {
	w := &fakeWriter{}
	svc := newTestResumeService(fakeExtractor{text: "x"}, nil, w)
	_, err := svc.Ingest(context.Background(), "resume.docx", []byte("PK\x03\x04"))
	if !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
	if w.saved != nil {
		t.Fatalf("nothing should be stored")
	}
}

func TestIngest_ExtractionFailureIsSurfaced(t *testing.T) {
	w := &fakeWriter{}
	svc := newTestResumeService(fakeExtractor{err: extractor.ErrExtractionFailed}, nil, w)
	_, err := svc.Ingest(context.Background(), "scan.pdf", []byte("%PDF-1.4"))
	if !errors.Is(err, extractor.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
	if w.saved != nil {
		t.Fatalf("nothing should be stored after failed extraction")
	}
}

func TestIngest_AppliesParsedFields(t *testing.T) {
	w := &fakeWriter{}
	parser := fakeParser{parsed: &dtos.ParsedResume{
		Name:   " Grace Hopper ",
		Email:  "Grace@Example.com",
		Skills: []string{"COBOL", " cobol", "Compilers", ""},
	}}
	svc := newTestResumeService(fakeExtractor{text: "resume body"}, parser, w)

	c, err := svc.Ingest(context.Background(), "uploads/grace.pdf", []byte("%PDF-1.7"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != 42 || c.Name != "Grace Hopper" {
		t.Fatalf("unexpected candidate %+v", c)
	}
	if c.Email == nil || *c.Email != "grace@example.com" {
		t.Fatalf("email not normalised: %v", c.Email)
	}
	if c.Skills != "COBOL,Compilers" {
		t.Fatalf("unexpected skills %q", c.Skills)
	}
	if c.ResumeText != "resume body" || c.ResumePages != 2 || c.ResumeFileName != "grace.pdf" {
		t.Fatalf("resume fields not set: %+v", c)
	}
}

func TestIngest_ParserFailureKeepsRawText(t *testing.T) {
	w := &fakeWriter{}
	svc := newTestResumeService(fakeExtractor{text: "raw"}, fakeParser{err: errors.New("llm down")}, w)

	c, err := svc.Ingest(context.Background(), "jdoe.PDF", []byte("garbage"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "jdoe" || c.Email != nil || c.ResumeText != "raw" {
		t.Fatalf("unexpected fallback candidate %+v", c)
	}
}

func TestIngest_StoreError(t *testing.T) {
	w := &fakeWriter{err: errors.New("db down")}
	svc := newTestResumeService(fakeExtractor{text: "raw"}, nil, w)
	if _, err := svc.Ingest(context.Background(), "a.pdf", []byte("%PDF")); err == nil {
		t.Fatalf("expected store error")
	}
}
