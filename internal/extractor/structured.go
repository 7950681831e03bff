package extractor

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// StructuredStrategy reads the document through its object structure with
// github.com/ledongthuc/pdf, across every page. Its output is returned as is.
type StructuredStrategy struct {
	// read overrides the parser; nil means readPlainText.
	read func([]byte) (string, error)
}

func (StructuredStrategy) Name() string { return "structured" }

func (s StructuredStrategy) Extract(doc *Document) (text string, err error) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	read := s.read
	if read == nil {
		read = readPlainText
	}
	content, err := read(doc.Bytes())
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", errNoText
	}
	return content, nil
}

func readPlainText(raw []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract plain text: %w", err)
	}

	content, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("failed to read plain text: %w", err)
	}
	return string(content), nil
}
