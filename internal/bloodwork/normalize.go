package bloodwork

import (
	"math"
	"strings"
)

// unitConversion rescales a value into the reference table's canonical
// unit.
type unitConversion struct {
	target string
	factor float64
}

var unitConversions = map[string]unitConversion{
	"g/L":    {target: "g/dL", factor: 0.1},
	"mmol/L": {target: "mg/dL", factor: 18.018}, // glucose
}

// normalizeResults converts units, standardizes test names, rounds values
// to two decimals, and deduplicates by canonical name keeping the first
// reading seen. Whether this yields anything decides if the producing
// method counts as successful.
func (e *Extractor) normalizeResults(raw []BloodTestRaw) []BloodTestRaw {
	if len(raw) == 0 {
		return nil
	}

	var normalized []BloodTestRaw

	seen := map[string]bool{}

	for _, r := range raw {
		value := r.Value
		unit := e.canonicalUnit(r.Unit)

		if conv, ok := unitConversions[unit]; ok {
			value *= conv.factor
			unit = conv.target
		}

		name := canonicalTestName(r.TestName)
		if name == "" || seen[name] {
			continue
		}

		seen[name] = true

		normalized = append(normalized, BloodTestRaw{
			TestName: name,
			Value:    math.Round(value*100) / 100,
			Unit:     unit,
		})
	}

	return normalized
}

// canonicalUnit fixes the casing of a recognized unit spelling, so OCR
// output like "G/DL" matches the reference table.
func (e *Extractor) canonicalUnit(unit string) string {
	unit = strings.TrimSpace(unit)

	for _, known := range e.lib.Units {
		if strings.EqualFold(unit, known) {
			return known
		}
	}

	return unit
}

// canonicalTestName standardizes a label: lowercase, runs of
// non-alphanumerics to single underscores, trimmed.
func canonicalTestName(name string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}

	return strings.Trim(out, "_")
}
