package reference

import (
	"errors"
	"testing"
)

func TestClassifyStatusAndSeverity(t *testing.T) {
	table := Default()

	tests := []struct {
		name         string
		in           Input
		sex          Sex
		wantStatus   Status
		wantSeverity Severity
	}{
		{
			name:         "hemoglobin normal male",
			in:           Input{TestName: "hemoglobin", Value: 14.5, Unit: "g/dL"},
			sex:          SexMale,
			wantStatus:   StatusNormal,
			wantSeverity: "",
		},
		{
			name:         "hemoglobin moderately low",
			in:           Input{TestName: "hemoglobin", Value: 9.0, Unit: "g/dL"},
			sex:          SexMale,
			wantStatus:   StatusLow,
			wantSeverity: SeverityModerate,
		},
		{
			name:         "hemoglobin mildly low",
			in:           Input{TestName: "hemoglobin", Value: 10.5, Unit: "g/dL"},
			sex:          SexMale,
			wantStatus:   StatusLow,
			wantSeverity: SeverityMild,
		},
		{
			name:         "hemoglobin barely low carries no severity",
			in:           Input{TestName: "hemoglobin", Value: 13.0, Unit: "g/dL"},
			sex:          SexMale,
			wantStatus:   StatusLow,
			wantSeverity: "",
		},
		{
			name:         "hemoglobin female range applies",
			in:           Input{TestName: "hemoglobin", Value: 12.5, Unit: "g/dL"},
			sex:          SexFemale,
			wantStatus:   StatusNormal,
			wantSeverity: "",
		},
		{
			name:         "wbc moderately high",
			in:           Input{TestName: "wbc", Value: 15.0, Unit: "×10³/μL"},
			sex:          SexMale,
			wantStatus:   StatusHigh,
			wantSeverity: SeverityModerate,
		},
		{
			name:         "cholesterol mildly high",
			in:           Input{TestName: "cholesterol_total", Value: 250, Unit: "mg/dL"},
			sex:          SexMale,
			wantStatus:   StatusHigh,
			wantSeverity: SeverityMild,
		},
		{
			name:         "glucose label canonicalized",
			in:           Input{TestName: "Glucose Fasting", Value: 85, Unit: "mg/dL"},
			sex:          SexMale,
			wantStatus:   StatusNormal,
			wantSeverity: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Classify(tt.in, tt.sex)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}

			if got.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", got.Status, tt.wantStatus)
			}

			if got.Severity != tt.wantSeverity {
				t.Errorf("severity = %q, want %q", got.Severity, tt.wantSeverity)
			}
		})
	}
}

func TestClassifyNormalRangeFromTable(t *testing.T) {
	table := Default()

	got, err := table.Classify(Input{TestName: "hemoglobin", Value: 14.5, Unit: "g/dL"}, SexMale)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if got.NormalRange != "13.5-17.5" {
		t.Errorf("normalRange = %q, want %q", got.NormalRange, "13.5-17.5")
	}
}

func TestClassifyInvalidUnit(t *testing.T) {
	table := Default()

	_, err := table.Classify(Input{TestName: "wbc", Value: 7.0, Unit: "mg/dL"}, SexMale)

	var unitErr *InvalidUnitError
	if !errors.As(err, &unitErr) {
		t.Fatalf("Classify() error = %v, want InvalidUnitError", err)
	}

	if unitErr.Want != "×10³/μL" {
		t.Errorf("expected unit = %q, want %q", unitErr.Want, "×10³/μL")
	}
}

func TestClassifyUnknownTest(t *testing.T) {
	table := Default()

	_, err := table.Classify(Input{TestName: "vitamin_d", Value: 30, Unit: "ng/mL"}, SexMale)

	var unknownErr *UnknownTestError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("Classify() error = %v, want UnknownTestError", err)
	}
}

func TestClassifyModerateSuggestionAppendsConsultation(t *testing.T) {
	table := Default()

	got, err := table.Classify(Input{TestName: "hemoglobin", Value: 9.0, Unit: "g/dL"}, SexMale)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	want := "Low hemoglobin may indicate anemia. Consider iron supplementation and dietary changes. Consultation recommended."
	if got.Suggestion != want {
		t.Errorf("suggestion = %q, want %q", got.Suggestion, want)
	}
}

// Status must be monotone in the value: walking a test's value upward never
// moves the status from high back toward low.
func TestClassifyStatusMonotonicity(t *testing.T) {
	table := Default()

	order := map[Status]int{StatusLow: 0, StatusNormal: 1, StatusHigh: 2}

	prev := -1
	for _, value := range []float64{1, 2.5, 3.9, 4.0, 7.5, 11.0, 12.5, 16, 30} {
		got, err := table.Classify(Input{TestName: "wbc", Value: value, Unit: "×10³/μL"}, SexMale)
		if err != nil {
			t.Fatalf("Classify(%v) error = %v", value, err)
		}

		if order[got.Status] < prev {
			t.Fatalf("status regressed to %s at value %v", got.Status, value)
		}

		prev = order[got.Status]
	}
}

// A severity is only ever attached to an abnormal status.
func TestClassifySeverityImpliesAbnormal(t *testing.T) {
	table := Default()

	for _, value := range []float64{2.0, 3.7, 5.0, 10.9, 11.5, 14, 20} {
		got, err := table.Classify(Input{TestName: "wbc", Value: value, Unit: "×10³/μL"}, SexMale)
		if err != nil {
			t.Fatalf("Classify(%v) error = %v", value, err)
		}

		if got.Severity != "" && got.Status == StatusNormal {
			t.Errorf("value %v: severity %q attached to normal status", value, got.Severity)
		}
	}
}
