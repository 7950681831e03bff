package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	streamRe     = regexp.MustCompile(`(?s)stream(.*?)endstream`)
	textObjectRe = regexp.MustCompile(`(?s)BT(.*?)ET`)
	literalRe    = regexp.MustCompile(`(?s)\(((?:\\.|[^\\)])*)\)`)

	octalEscapeRe = regexp.MustCompile(`\\([0-7]{1,3})`)
	anyEscapeRe   = regexp.MustCompile(`(?s)\\(.)`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// MarkerStrategy scrapes string literals out of content streams
// (stream/endstream) and text objects (BT/ET). Producers put visible text in
// either or both, so both scopes are scanned and their output accumulated.
type MarkerStrategy struct {
	MinChars int
}

func (MarkerStrategy) Name() string { return "markers" }

func (s MarkerStrategy) Extract(doc *Document) (string, error) {
	text := cleanText(unescapeLiteral(scrapeMarkers(doc.Text())))
	if text == "" {
		return "", errNoText
	}
	if len(text) < s.MinChars {
		return "", errTooShort
	}
	return text, nil
}

// ASCIIStrategy keeps whatever readable ASCII survives in the raw buffer.
type ASCIIStrategy struct {
	MinChars int
}

func (ASCIIStrategy) Name() string { return "ascii" }

func (s ASCIIStrategy) Extract(doc *Document) (string, error) {
	text := cleanText(doc.Text())
	if text == "" {
		return "", errNoText
	}
	if len(text) < s.MinChars {
		return "", errTooShort
	}
	return text, nil
}

// scrapeMarkers returns the space-joined contents of every (...) literal
// found inside stream and text-object regions, stream regions first.
func scrapeMarkers(text string) string {
	var parts []string
	for _, re := range []*regexp.Regexp{streamRe, textObjectRe} {
		for _, region := range re.FindAllStringSubmatch(text, -1) {
			parts = append(parts, literals(region[1])...)
		}
	}
	return strings.Join(parts, " ")
}

func literals(region string) []string {
	matches := literalRe.FindAllStringSubmatch(region, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// unescapeLiteral resolves PDF string escapes. Octal codes are decoded
// first; the remaining escapes are resolved in a single left-to-right pass
// so an escaped backslash is never reinterpreted.
func unescapeLiteral(s string) string {
	s = octalEscapeRe.ReplaceAllStringFunc(s, func(m string) string {
		code, err := strconv.ParseUint(m[1:], 8, 16)
		if err != nil {
			return m
		}
		return string(rune(code))
	})
	return anyEscapeRe.ReplaceAllStringFunc(s, func(m string) string {
		switch c := m[1:]; c {
		case "n":
			return "\n"
		case "r":
			return "\r"
		case "t":
			return "\t"
		default:
			return c
		}
	})
}

// cleanText drops everything outside printable ASCII (plus \n, \r, \t),
// collapses whitespace runs into one space and trims.
func cleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		if (r >= 0x20 && r <= 0x7e) || r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		return -1
	}, s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
