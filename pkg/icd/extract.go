package icd

import (
	"sort"
	"strings"
)

// directMatchConfidence is assigned to codes found via the condition table.
const directMatchConfidence = 0.8

// Preprocess lowercases, collapses whitespace, and expands clinical
// shorthand so condition phrases match the table wording.
func (m *Mapper) Preprocess(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)
	text = strings.TrimSpace(m.spaceRun.ReplaceAllString(text, " "))

	for _, rule := range m.abbrevs {
		text = rule.re.ReplaceAllString(text, rule.expansion)
	}

	return text
}

// Conditions extracts the known condition phrases mentioned in text,
// sorted alphabetically. Direct substring mentions and diagnosis-phrase
// captures both count.
func (m *Mapper) Conditions(text string) []string {
	processed := m.Preprocess(text)
	if processed == "" {
		return nil
	}

	found := map[string]bool{}

	for condition := range m.conditions {
		if strings.Contains(processed, condition) {
			found[condition] = true
		}
	}

	// Diagnosis phrases catch wording the direct scan misses, e.g.
	// "diagnosed with diabetes of recent onset".
	for _, phrase := range m.phrases {
		for _, match := range phrase.FindAllStringSubmatch(processed, -1) {
			captured := strings.TrimSpace(match[1])
			for condition := range m.conditions {
				if strings.Contains(captured, condition) || strings.Contains(condition, captured) {
					found[condition] = true
				}
			}
		}
	}

	conditions := make([]string, 0, len(found))
	for condition := range found {
		conditions = append(conditions, condition)
	}

	sort.Strings(conditions)

	return conditions
}

// Identify maps the conditions mentioned in text to ICD-10 codes, sorted
// by code. Codes without a description in the loaded table are omitted.
func (m *Mapper) Identify(text string) []Code {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	codes := map[string]bool{}
	for _, condition := range m.Conditions(text) {
		codes[m.conditions[condition]] = true
	}

	result := make([]Code, 0, len(codes))

	for code := range codes {
		description, ok := m.byCode[code]
		if !ok || description == "" {
			continue
		}

		result = append(result, Code{Code: code, Description: description, Confidence: directMatchConfidence})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })

	return result
}

// Search returns up to limit table entries whose code or description
// contains the query, case-insensitive. A non-positive limit means 10.
func (m *Mapper) Search(query string, limit int) []Code {
	if limit <= 0 {
		limit = 10
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var matches []Code

	for _, entry := range m.entries {
		if strings.Contains(strings.ToLower(entry.Code), query) ||
			strings.Contains(strings.ToLower(entry.Description), query) {
			matches = append(matches, entry)
			if len(matches) == limit {
				break
			}
		}
	}

	return matches
}
