package sections

import (
	"testing"

	"github.com/clinscan/clinscan/internal/patterns"
)

func TestDiagnosisValidator(t *testing.T) {
	v := newValidators(patterns.Default())[patterns.CategoryDiagnosis]

	tests := []struct {
		item string
		want bool
	}{
		{"chronic kidney disease", true},
		{"acute appendicitis", true},
		{"type 2 diabetes mellitus", true},
		{"severe bilateral pneumonia", true},
		{"ab", false},
		{"5 mg", false},
		{"12/05/2023", false},
		{"normal", false},
		{"follow up next week", false},
	}

	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			if got := v.valid(tt.item); got != tt.want {
				t.Errorf("valid(%q) = %v, want %v", tt.item, got, tt.want)
			}
		})
	}
}

func TestTreatmentValidator(t *testing.T) {
	v := newValidators(patterns.Default())[patterns.CategoryTreatment]

	tests := []struct {
		item string
		want bool
	}{
		{"metformin 500 mg twice daily", true},
		{"atenolol", true},
		{"started on insulin", true},
		{"prescribed physical therapy", true},
		{"hypertension", false},
		{"walk", false},
		{"10 mg", false},
	}

	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			if got := v.valid(tt.item); got != tt.want {
				t.Errorf("valid(%q) = %v, want %v", tt.item, got, tt.want)
			}
		})
	}
}

func TestHistoryValidator(t *testing.T) {
	v := newValidators(patterns.Default())[patterns.CategoryHistory]

	tests := []struct {
		item string
		want bool
	}{
		{"history of smoking", true},
		{"father had a stroke", true},
		{"appendectomy 10 years ago", true},
		{"hypertension diagnosed 2015", true},
		{"metformin 500 mg twice daily", false},
		{"no", false},
	}

	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			if got := v.valid(tt.item); got != tt.want {
				t.Errorf("valid(%q) = %v, want %v", tt.item, got, tt.want)
			}
		})
	}
}

// A past-tense restated condition should score higher for history than for
// diagnosis, which is what keeps such items in the history bucket during
// reconciliation.
func TestHistoryOutscoresDiagnosisOnTemporalItems(t *testing.T) {
	vs := newValidators(patterns.Default())

	item := "History of hypertension since 2015"

	hist := vs[patterns.CategoryHistory].score(item)
	diag := vs[patterns.CategoryDiagnosis].score(item)

	if hist <= diag {
		t.Errorf("history score %d should exceed diagnosis score %d for %q", hist, diag, item)
	}
}

func TestDiagnosisOutscoresHistoryOnDiagnosticStatements(t *testing.T) {
	vs := newValidators(patterns.Default())

	item := "diagnosed with severe pneumonia"

	diag := vs[patterns.CategoryDiagnosis].score(item)
	hist := vs[patterns.CategoryHistory].score(item)

	if diag <= hist {
		t.Errorf("diagnosis score %d should exceed history score %d for %q", diag, hist, item)
	}
}
