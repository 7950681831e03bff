package extractor

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Document wraps the raw bytes of one extraction call. The lenient text
// decoding is computed at most once and shared by the heuristic strategies.
type Document struct {
	raw     []byte
	text    string
	decoded bool
}

func NewDocument(raw []byte) *Document {
	return &Document{raw: raw}
}

// Bytes returns the original buffer. Strategies must not modify it.
func (d *Document) Bytes() []byte {
	return d.raw
}

// Text returns the buffer decoded as UTF-8, with ill-formed sequences
// replaced by U+FFFD instead of aborting.
func (d *Document) Text() string {
	if !d.decoded {
		d.text = decodeLenient(d.raw)
		d.decoded = true
	}
	return d.text
}

func decodeLenient(b []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD")
	}
	return string(out)
}
