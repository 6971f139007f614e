// Package normalize cleans raw extracted clinical text before pattern
// matching. All transforms are best-effort and never fail; malformed input
// comes back as cleanly as it can be made.
package normalize

import (
	"regexp"
	"strings"

	"github.com/clinscan/clinscan/internal/patterns"
)

// Normalizer applies the fixed cleanup passes in order. Construct once and
// reuse; it is safe for concurrent use.
type Normalizer struct {
	lib *patterns.Library

	subwordMarker  *regexp.Regexp
	hyphenWrap     *regexp.Regexp
	controlChars   *regexp.Regexp
	multiNewline   *regexp.Regexp
	lineWhitespace *regexp.Regexp
	numberUnit     *regexp.Regexp
	ageExpr        *regexp.Regexp
	ageExprShort   *regexp.Regexp
}

// New creates a normalizer backed by the given pattern library.
func New(lib *patterns.Library) *Normalizer {
	return &Normalizer{
		lib:            lib,
		subwordMarker:  regexp.MustCompile(`##(\w)`),
		hyphenWrap:     regexp.MustCompile(`(\w)-\s*\n\s*(\w)`),
		controlChars:   regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`),
		multiNewline:   regexp.MustCompile(`\n{3,}`),
		lineWhitespace: regexp.MustCompile(`[ \t]+`),
		numberUnit:     regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)(mg|ml|mcg|g|kg|mmhg|bpm)\b`),
		ageExpr:        regexp.MustCompile(`(?i)\b(\d{1,3})\s*(?:yr|yrs|y/o|yo)\b\.?\s*(old)?`),
		ageExprShort:   regexp.MustCompile(`(?i)\b(\d{1,3})\s*years?\s*old\b`),
	}
}

// Normalize runs every cleanup pass over raw text and returns the result.
// It is deterministic and total: absence of matches is a no-op.
func (n *Normalizer) Normalize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	text := raw

	// Tokenizer artifacts from upstream NER output: "##osis" -> "osis".
	text = n.subwordMarker.ReplaceAllString(text, "$1")

	// PDF artifacts: non-breaking spaces, hyphen variants, smart quotes.
	text = strings.ReplaceAll(text, " ", " ")
	for _, hyphen := range []string{"‐", "‑", "‒", "–"} {
		text = strings.ReplaceAll(text, hyphen, "-")
	}
	text = strings.ReplaceAll(text, "—", "--")
	text = strings.ReplaceAll(text, "“", `"`)
	text = strings.ReplaceAll(text, "”", `"`)
	text = strings.ReplaceAll(text, "‘", "'")
	text = strings.ReplaceAll(text, "’", "'")
	text = n.controlChars.ReplaceAllString(text, "")

	// Line-wrap hyphenation: "hyper-\ntension" -> "hypertension".
	text = n.hyphenWrap.ReplaceAllString(text, "$1$2")

	// Whitespace: collapse runs within lines, normalize CRLF, cap blank runs.
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = n.lineWhitespace.ReplaceAllString(text, " ")
	text = n.multiNewline.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	// Clinical abbreviations, whole-word and case-insensitive.
	text = n.lib.ExpandAbbreviations(text)

	// Spacing around numeric+unit and age expressions.
	text = n.numberUnit.ReplaceAllString(text, "$1 $2")
	text = n.ageExpr.ReplaceAllString(text, "$1 years old")
	text = n.ageExprShort.ReplaceAllString(text, "$1 years old")

	return strings.TrimSpace(text)
}
