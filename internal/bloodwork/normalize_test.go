package bloodwork

import (
	"testing"

	"github.com/clinscan/clinscan/internal/patterns"
)

func newTestExtractor() *Extractor {
	return New(patterns.Default(), DefaultOptions())
}

func TestNormalizeResultsUnitConversion(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name      string
		raw       BloodTestRaw
		wantValue float64
		wantUnit  string
	}{
		{
			name:      "g/L to g/dL divides by ten",
			raw:       BloodTestRaw{TestName: "hemoglobin", Value: 135, Unit: "g/L"},
			wantValue: 13.5,
			wantUnit:  "g/dL",
		},
		{
			name:      "mmol/L to mg/dL for glucose",
			raw:       BloodTestRaw{TestName: "glucose_fasting", Value: 5.5, Unit: "mmol/L"},
			wantValue: 99.1,
			wantUnit:  "mg/dL",
		},
		{
			name:      "canonical unit unchanged",
			raw:       BloodTestRaw{TestName: "hemoglobin", Value: 14.25, Unit: "g/dL"},
			wantValue: 14.25,
			wantUnit:  "g/dL",
		},
		{
			name:      "unit casing repaired",
			raw:       BloodTestRaw{TestName: "hemoglobin", Value: 14.2, Unit: "G/DL"},
			wantValue: 14.2,
			wantUnit:  "g/dL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.normalizeResults([]BloodTestRaw{tt.raw})
			if len(got) != 1 {
				t.Fatalf("normalizeResults() = %v, want one entry", got)
			}

			if got[0].Value != tt.wantValue {
				t.Errorf("value = %v, want %v", got[0].Value, tt.wantValue)
			}

			if got[0].Unit != tt.wantUnit {
				t.Errorf("unit = %q, want %q", got[0].Unit, tt.wantUnit)
			}
		})
	}
}

func TestNormalizeResultsRoundsToTwoDecimals(t *testing.T) {
	e := newTestExtractor()

	got := e.normalizeResults([]BloodTestRaw{
		{TestName: "hemoglobin", Value: 14.23456, Unit: "g/dL"},
	})

	if got[0].Value != 14.23 {
		t.Errorf("value = %v, want 14.23", got[0].Value)
	}
}

func TestNormalizeResultsFirstWinsDedup(t *testing.T) {
	e := newTestExtractor()

	got := e.normalizeResults([]BloodTestRaw{
		{TestName: "hemoglobin", Value: 14.2, Unit: "g/dL"},
		{TestName: "Hemoglobin", Value: 9.9, Unit: "g/dL"},
		{TestName: "wbc", Value: 6.5, Unit: "K/µL"},
	})

	if len(got) != 2 {
		t.Fatalf("normalizeResults() = %v, want 2 entries", got)
	}

	if got[0].TestName != "hemoglobin" || got[0].Value != 14.2 {
		t.Errorf("first reading should win, got %+v", got[0])
	}
}

func TestCanonicalTestName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hemoglobin", "hemoglobin"},
		{"Total Cholesterol (Serum)", "total_cholesterol_serum"},
		{"WBC  Count", "wbc_count"},
		{"  Platelets  ", "platelets"},
		{"fasting-glucose", "fasting_glucose"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := canonicalTestName(tt.in); got != tt.want {
				t.Errorf("canonicalTestName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
