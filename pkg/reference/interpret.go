package reference

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Summary counts readings by outcome. Critical means moderate severity.
type Summary struct {
	NormalCount   int `json:"normalCount"`
	AbnormalCount int `json:"abnormalCount"`
	CriticalCount int `json:"criticalCount"`
}

// Report is the aggregate analysis of a batch of readings.
type Report struct {
	Tests           []*Result `json:"tests"`
	Summary         Summary   `json:"summary"`
	Interpretation  string    `json:"interpretation"`
	Recommendations []string  `json:"recommendations"`
}

// Analyze classifies every reading and builds the aggregate report.
// Readings for tests outside the reference table are skipped; a unit
// mismatch aborts the whole batch with InvalidUnitError.
func (t *Table) Analyze(inputs []Input, sex Sex) (*Report, error) {
	var (
		results  []*Result
		abnormal []*Result
		critical []*Result
	)

	for _, in := range inputs {
		result, err := t.Classify(in, sex)
		if err != nil {
			var unknown *UnknownTestError
			if errors.As(err, &unknown) {
				continue
			}

			return nil, err
		}

		results = append(results, result)

		if result.Status != StatusNormal {
			abnormal = append(abnormal, result)
			if result.Severity == SeverityModerate {
				critical = append(critical, result)
			}
		}
	}

	return &Report{
		Tests: results,
		Summary: Summary{
			NormalCount:   len(results) - len(abnormal),
			AbnormalCount: len(abnormal),
			CriticalCount: len(critical),
		},
		Interpretation:  interpretation(abnormal, critical),
		Recommendations: recommendations(abnormal, critical),
	}, nil
}

func interpretation(abnormal, critical []*Result) string {
	if len(abnormal) == 0 {
		return "All blood test results are within normal ranges."
	}

	var parts []string

	if n := len(critical); n > 0 {
		plural := ""
		if n > 1 {
			plural = "s"
		}

		parts = append(parts, fmt.Sprintf("Found %d test%s requiring immediate attention.", n, plural))
	}

	for _, test := range abnormal {
		statusText := "low"
		if test.Status == StatusHigh {
			statusText = "elevated"
		}

		parts = append(parts, fmt.Sprintf("%s is %s (%s %s).",
			test.TestName, statusText, strconv.FormatFloat(test.Value, 'f', -1, 64), test.Unit))
	}

	return strings.Join(parts, " ")
}

// recommendations deduplicates advisory lines preserving insertion order.
func recommendations(abnormal, critical []*Result) []string {
	if len(abnormal) == 0 {
		return []string{"Continue regular health maintenance and scheduled check-ups."}
	}

	var out []string

	seen := map[string]bool{}
	add := func(rec string) {
		if rec == "" || seen[rec] {
			return
		}

		seen[rec] = true
		out = append(out, rec)
	}

	if len(critical) > 0 {
		add("Schedule a follow-up appointment with your healthcare provider to discuss critical results.")
	}

	for _, test := range abnormal {
		if test.Suggestion == "" {
			continue
		}

		// Keep only the leading sentence of the per-test advisory.
		first, _, _ := strings.Cut(test.Suggestion, ". ")
		add(strings.TrimSuffix(first, ".") + ".")
	}

	add("Maintain a balanced diet and regular exercise routine.")
	add("Consider scheduling a follow-up test to monitor changes.")

	return out
}
