package bloodwork

import (
	"strconv"
	"strings"

	"code.sajari.com/docconv/v2"

	"github.com/clinscan/clinscan/pkg/fuzzy"
)

// extractFromText pulls the whole document text and runs the line-by-line
// pattern scan.
func (e *Extractor) extractFromText(path string) ([]BloodTestRaw, error) {
	response, err := docconv.ConvertPath(path)
	if err != nil {
		return nil, newProcessingError("text extraction failed", ErrTypeText,
			map[string]any{"error": err.Error()})
	}

	if strings.TrimSpace(response.Body) == "" {
		return nil, newProcessingError("text extraction failed", ErrTypeText,
			map[string]any{"error": "no text content found in PDF"})
	}

	results := e.parseFreeText(response.Body)
	if len(results) == 0 {
		return nil, newProcessingError("text extraction failed", ErrTypeText,
			map[string]any{"error": "no test patterns matched"})
	}

	return results, nil
}

// parseFreeText scans text line by line. Exact per-test line patterns run
// first; when none match, any number+unit token on the line has its
// preceding label fuzzy-resolved against the test vocabulary. The fuzzy
// tier recovers labels whose wording or spelling drifted from the
// canonical patterns, OCR output especially.
func (e *Extractor) parseFreeText(text string) []BloodTestRaw {
	var results []BloodTestRaw

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		matched := false

		for i := range e.lib.BloodTests {
			bt := &e.lib.BloodTests[i]

			for _, m := range bt.LinePattern().FindAllStringSubmatch(line, -1) {
				value, ok := parseNumber(m[2])
				if !ok {
					continue
				}

				results = append(results, BloodTestRaw{TestName: bt.Name, Value: value, Unit: m[3]})
				matched = true
			}
		}

		if matched {
			continue
		}

		if raw, ok := e.fuzzyLineMatch(line); ok {
			results = append(results, raw)
		}
	}

	return results
}

// fuzzyLineMatch locates the first number+unit token on the line and
// matches the text before it against the synonym vocabulary.
func (e *Extractor) fuzzyLineMatch(line string) (BloodTestRaw, bool) {
	loc := e.unitToken.FindStringSubmatchIndex(line)
	if loc == nil {
		return BloodTestRaw{}, false
	}

	label := strings.TrimSpace(line[:loc[0]])
	if label == "" {
		return BloodTestRaw{}, false
	}

	synonym, score := e.bestLabelMatch(label)
	if score < e.opts.FuzzyThreshold {
		return BloodTestRaw{}, false
	}

	value, ok := parseNumber(line[loc[2]:loc[3]])
	if !ok {
		return BloodTestRaw{}, false
	}

	return BloodTestRaw{
		TestName: e.canonical[synonym],
		Value:    value,
		Unit:     line[loc[4]:loc[5]],
	}, true
}

// bestLabelMatch scores the cleaned label and its word suffixes against
// the vocabulary, so "Serum Haemoglobin" resolves through its last word.
func (e *Extractor) bestLabelMatch(label string) (string, int) {
	words := strings.Fields(cleanLabel(label))
	if len(words) == 0 {
		return "", 0
	}

	bestName, bestScore := "", 0

	maxWords := len(words)
	if maxWords > 4 {
		maxWords = 4
	}

	for k := 1; k <= maxWords; k++ {
		candidate := strings.Join(words[len(words)-k:], " ")

		if name, score := fuzzy.BestMatch(candidate, e.vocab); score > bestScore {
			bestName, bestScore = name, score
		}
	}

	return bestName, bestScore
}

// cleanLabel drops everything but letters and spaces.
func cleanLabel(label string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z', r == ' ':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return b.String()
}

// parseNumber parses a numeric cell, stripping thousand separators.
func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return value, true
}
