package reference

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAnalyzeAllNormal(t *testing.T) {
	table := Default()

	report, err := table.Analyze([]Input{
		{TestName: "hemoglobin", Value: 14.5, Unit: "g/dL"},
		{TestName: "wbc", Value: 7.0, Unit: "×10³/μL"},
	}, SexMale)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if report.Summary.NormalCount != 2 || report.Summary.AbnormalCount != 0 || report.Summary.CriticalCount != 0 {
		t.Errorf("summary = %+v, want 2/0/0", report.Summary)
	}

	if report.Interpretation != "All blood test results are within normal ranges." {
		t.Errorf("interpretation = %q", report.Interpretation)
	}

	want := []string{"Continue regular health maintenance and scheduled check-ups."}
	if len(report.Recommendations) != 1 || report.Recommendations[0] != want[0] {
		t.Errorf("recommendations = %v, want %v", report.Recommendations, want)
	}
}

func TestAnalyzeCriticalResults(t *testing.T) {
	table := Default()

	report, err := table.Analyze([]Input{
		{TestName: "hemoglobin", Value: 9.0, Unit: "g/dL"},
		{TestName: "wbc", Value: 7.0, Unit: "×10³/μL"},
	}, SexMale)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if report.Summary.NormalCount != 1 || report.Summary.AbnormalCount != 1 || report.Summary.CriticalCount != 1 {
		t.Errorf("summary = %+v, want 1/1/1", report.Summary)
	}

	if !strings.Contains(report.Interpretation, "Found 1 test requiring immediate attention.") {
		t.Errorf("interpretation %q missing critical notice", report.Interpretation)
	}

	if !strings.Contains(report.Interpretation, "hemoglobin is low (9 g/dL).") {
		t.Errorf("interpretation %q missing per-test detail", report.Interpretation)
	}

	found := false
	for _, rec := range report.Recommendations {
		if rec == "Schedule a follow-up appointment with your healthcare provider to discuss critical results." {
			found = true
		}
	}

	if !found {
		t.Errorf("recommendations %v missing the follow-up appointment entry", report.Recommendations)
	}
}

func TestAnalyzeSkipsUnknownTests(t *testing.T) {
	table := Default()

	report, err := table.Analyze([]Input{
		{TestName: "vitamin_d", Value: 30, Unit: "ng/mL"},
		{TestName: "hemoglobin", Value: 14.5, Unit: "g/dL"},
	}, SexMale)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if len(report.Tests) != 1 {
		t.Errorf("got %d classified tests, want 1", len(report.Tests))
	}
}

func TestAnalyzeAbortsOnUnitMismatch(t *testing.T) {
	table := Default()

	_, err := table.Analyze([]Input{
		{TestName: "wbc", Value: 7.0, Unit: "mg/dL"},
	}, SexMale)

	var unitErr *InvalidUnitError
	if !errors.As(err, &unitErr) {
		t.Fatalf("Analyze() error = %v, want InvalidUnitError", err)
	}
}

func TestAnalyzeRecommendationsDeduplicated(t *testing.T) {
	table := Default()

	// Two abnormal readings sharing a generic advisory must not repeat it.
	report, err := table.Analyze([]Input{
		{TestName: "mcv", Value: 99, Unit: "fL"},
		{TestName: "mch", Value: 35, Unit: "pg"},
	}, SexMale)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	seen := map[string]bool{}
	for _, rec := range report.Recommendations {
		if seen[rec] {
			t.Errorf("duplicate recommendation %q", rec)
		}

		seen[rec] = true
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ranges.yaml")

	data := `ranges:
  hemoglobin:
    unit: g/dL
    by_sex:
      male: {min: 13.0, max: 17.0}
      female: {min: 11.5, max: 15.0}
    low: {mild: 10, moderate: 8}
suggestions:
  hemoglobin:
    low: "Iron panel advised."
`

	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got, err := table.Classify(Input{TestName: "hemoglobin", Value: 9.0, Unit: "g/dL"}, SexMale)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if got.Status != StatusLow || got.Severity != SeverityMild {
		t.Errorf("status/severity = %s/%s, want low/mild under overlaid thresholds", got.Status, got.Severity)
	}

	if got.Suggestion != "Iron panel advised." {
		t.Errorf("suggestion = %q, want the overlaid text", got.Suggestion)
	}

	if _, err := table.Classify(Input{TestName: "wbc", Value: 7.0, Unit: "×10³/μL"}, SexMale); err == nil {
		t.Error("overlaid ranges should fully replace the defaults")
	}
}

func TestLoadRejectsBadData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")

	data := `ranges:
  hemoglobin:
    unit: g/dL
`

	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should reject an entry with no bounds")
	}
}
