package icd

import (
	"regexp"
	"sort"
	"strings"
)

var medicationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`prescribed\s+([a-z]+)`),
	regexp.MustCompile(`taking\s+([a-z]+)`),
	regexp.MustCompile(`medication:\s*([a-z]+)`),
	regexp.MustCompile(`drug:\s*([a-z]+)`),
	regexp.MustCompile(`([a-z]+)\s+\d+\s*mg\b`),
	regexp.MustCompile(`([a-z]+)\s+tablets?\b`),
}

// stopWords are capture-group hits that are grammar, not drug names.
var stopWords = map[string]bool{
	"the": true, "and": true, "with": true, "for": true, "daily": true,
	"take": true, "dose": true, "oral": true, "was": true, "been": true,
}

// Medications extracts medication names from prescription wording,
// title-cased and sorted.
func Medications(text string) []string {
	lower := strings.ToLower(text)

	found := map[string]bool{}

	for _, pattern := range medicationPatterns {
		for _, match := range pattern.FindAllStringSubmatch(lower, -1) {
			name := strings.TrimSpace(match[1])
			if len(name) <= 2 || stopWords[name] {
				continue
			}

			found[title(name)] = true
		}
	}

	medications := make([]string, 0, len(found))
	for name := range found {
		medications = append(medications, name)
	}

	sort.Strings(medications)

	return medications
}

func title(word string) string {
	if word == "" {
		return ""
	}

	return strings.ToUpper(word[:1]) + word[1:]
}

// Recommendations derives generic care advice from the detected codes and
// medications, deduplicated preserving insertion order.
func Recommendations(codes []Code, medications []string) []string {
	classes := map[string]bool{}

	for _, code := range codes {
		description := strings.ToLower(code.Description)

		switch {
		case strings.Contains(description, "diabetes"):
			classes["diabetes"] = true
		case strings.Contains(description, "hypertension"):
			classes["hypertension"] = true
		case strings.Contains(description, "heart") || strings.Contains(description, "cardiac"):
			classes["cardiac"] = true
		case strings.Contains(description, "asthma") || strings.Contains(description, "respiratory"):
			classes["respiratory"] = true
		}
	}

	var out []string

	seen := map[string]bool{}
	add := func(recs ...string) {
		for _, rec := range recs {
			if seen[rec] {
				continue
			}

			seen[rec] = true
			out = append(out, rec)
		}
	}

	if classes["diabetes"] {
		add(
			"Monitor blood glucose levels regularly",
			"Follow diabetic diet recommendations",
			"Regular exercise as advised by physician",
		)
	}

	if classes["hypertension"] {
		add(
			"Monitor blood pressure regularly",
			"Limit sodium intake",
			"Maintain healthy weight",
		)
	}

	if classes["cardiac"] {
		add(
			"Regular cardiac follow-up appointments",
			"Avoid excessive physical exertion",
			"Take medications as prescribed",
		)
	}

	if len(medications) > 0 {
		add(
			"Take all prescribed medications as directed",
			"Do not stop medications without consulting physician",
		)
	}

	return out
}
