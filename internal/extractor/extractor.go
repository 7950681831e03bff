// Package extractor recovers plain text from PDF resumes.
//
// Extraction runs an ordered chain of strategies, from the structured PDF
// parser down to heuristic scrapers over the raw bytes. The first strategy
// that produces usable text wins. Intermediate failures are logged and
// swallowed; only total exhaustion is reported to the caller.
package extractor

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// MinTextLength is the minimum number of characters a heuristic strategy
// must recover before its output is trusted.
const MinTextLength = 100

// DefaultMaxInputBytes bounds the size of a single document.
const DefaultMaxInputBytes = 20 << 20

var (
	// ErrExtractionFailed is returned when no strategy recovered usable text.
	ErrExtractionFailed = errors.New("could not extract text from document")
	// ErrInputTooLarge is returned before any strategy runs when the
	// document exceeds the configured size bound.
	ErrInputTooLarge = errors.New("document exceeds maximum input size")

	errNoText   = errors.New("no text recovered")
	errTooShort = errors.New("recovered text below confidence threshold")
)

// Strategy is one step of the extraction chain.
type Strategy interface {
	Name() string
	Extract(doc *Document) (string, error)
}

// Result carries the recovered text and the strategy that produced it.
type Result struct {
	Text     string
	Strategy string
}

// Extractor runs strategies in order until one succeeds. It holds no
// per-call state and is safe for concurrent use.
type Extractor struct {
	logger        *zap.Logger
	strategies    []Strategy
	minChars      int
	maxInputBytes int
}

type Option func(*Extractor)

// WithMinTextLength overrides the confidence threshold of the built-in
// heuristic strategies.
func WithMinTextLength(n int) Option {
	return func(e *Extractor) {
		e.minChars = n
	}
}

// WithMaxInputBytes overrides DefaultMaxInputBytes. Non-positive values
// are ignored.
func WithMaxInputBytes(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxInputBytes = n
		}
	}
}

// WithStrategies replaces the default chain.
func WithStrategies(strategies ...Strategy) Option {
	return func(e *Extractor) {
		e.strategies = strategies
	}
}

// New builds an Extractor with the default chain: structured parse,
// stream/text-object scrape, readable ASCII.
func New(logger *zap.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Extractor{
		logger:        logger,
		minChars:      MinTextLength,
		maxInputBytes: DefaultMaxInputBytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.strategies == nil {
		e.strategies = DefaultStrategies(e.minChars)
	}
	return e
}

// DefaultStrategies returns the standard chain using minChars as the
// threshold for the heuristic steps.
func DefaultStrategies(minChars int) []Strategy {
	return []Strategy{
		StructuredStrategy{},
		MarkerStrategy{MinChars: minChars},
		ASCIIStrategy{MinChars: minChars},
	}
}

// Extract returns the text recovered from data.
func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	res, err := e.ExtractResult(ctx, data)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// ExtractResult is Extract that also reports which strategy succeeded.
func (e *Extractor) ExtractResult(ctx context.Context, data []byte) (Result, error) {
	if len(data) > e.maxInputBytes {
		return Result{}, ErrInputTooLarge
	}

	doc := NewDocument(data)
	for _, s := range e.strategies {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		text, err := s.Extract(doc)
		if err != nil {
			e.logger.Debug("extraction strategy failed",
				zap.String("strategy", s.Name()),
				zap.Int("bytes", len(data)),
				zap.Error(err))
			continue
		}
		e.logger.Info("extracted document text",
			zap.String("strategy", s.Name()),
			zap.Int("bytes", len(data)),
			zap.Int("chars", len(text)))
		return Result{Text: text, Strategy: s.Name()}, nil
	}

	e.logger.Warn("all extraction strategies exhausted", zap.Int("bytes", len(data)))
	return Result{}, ErrExtractionFailed
}
