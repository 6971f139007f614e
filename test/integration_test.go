package test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/clinscan/clinscan/internal/bloodwork"
	"github.com/clinscan/clinscan/internal/normalize"
	"github.com/clinscan/clinscan/internal/patterns"
	"github.com/clinscan/clinscan/internal/sections"
	"github.com/clinscan/clinscan/pkg/icd"
	"github.com/clinscan/clinscan/pkg/reference"
)

const sampleNarrative = `Patient is a 58yr old male diagnosed with T2DM and HTN.
Medications: Metformin 500mg twice daily, Lisinopril 10mg daily.
Medical History: hypertension since 2015, family history of cardiac disease.`

// TestIntegration_NarrativePipeline runs a clinical note through every
// narrative stage: normalization, section extraction, and ICD mapping.
func TestIntegration_NarrativePipeline(t *testing.T) {
	lib := patterns.Default()
	text := normalize.New(lib).Normalize(sampleNarrative)

	if strings.Contains(text, "T2DM") || strings.Contains(text, "500mg") {
		t.Fatalf("normalization left raw artifacts in: %q", text)
	}

	result := sections.New(lib).Extract(text)

	if !anyContains(result.Diagnosis, "type 2 diabetes mellitus") {
		t.Errorf("expected expanded diabetes diagnosis, got %v", result.Diagnosis)
	}

	if !anyContains(result.ClinicalTreatment, "metformin") {
		t.Errorf("expected metformin in treatment, got %v", result.ClinicalTreatment)
	}

	if !anyContains(result.MedicalHistory, "hypertension") {
		t.Errorf("expected hypertension in history, got %v", result.MedicalHistory)
	}

	mapper := icd.Default()

	codes := map[string]bool{}
	for _, code := range mapper.Identify(text) {
		codes[code.Code] = true
	}

	for _, want := range []string{"E11.9", "I10"} {
		if !codes[want] {
			t.Errorf("expected ICD code %s, got %v", want, codes)
		}
	}

	medications := icd.Medications(text)
	if !anyContains(medications, "metformin") || !anyContains(medications, "lisinopril") {
		t.Errorf("expected metformin and lisinopril, got %v", medications)
	}
}

// TestIntegration_BloodworkToReference feeds extracted readings straight
// into the reference classifier, the way the bloodwork command does.
func TestIntegration_BloodworkToReference(t *testing.T) {
	extractor := bloodwork.New(patterns.Default(), bloodwork.DefaultOptions())

	text := "Hemoglobin: 9.0 g/dL\nWBC: 7.5 ×10³/μL\nFasting Glucose: 132 mg/dL\n"

	extraction, err := extractor.ExtractFromText(text)
	if err != nil {
		t.Fatalf("ExtractFromText failed: %v", err)
	}

	if len(extraction.Tests) != 3 {
		t.Fatalf("expected 3 readings, got %d: %v", len(extraction.Tests), extraction.Tests)
	}

	inputs := make([]reference.Input, len(extraction.Tests))
	for i, test := range extraction.Tests {
		inputs[i] = reference.Input{TestName: test.TestName, Value: test.Value, Unit: test.Unit}
	}

	report, err := reference.Default().Analyze(inputs, reference.SexMale)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if report.Summary.NormalCount != 1 || report.Summary.AbnormalCount != 2 || report.Summary.CriticalCount != 1 {
		t.Errorf("summary = %+v, want 1 normal, 2 abnormal, 1 critical", report.Summary)
	}

	byName := map[string]*reference.Result{}
	for _, result := range report.Tests {
		byName[result.TestName] = result
	}

	hgb := byName["hemoglobin"]
	if hgb == nil || hgb.Status != reference.StatusLow || hgb.Severity != reference.SeverityModerate {
		t.Errorf("hemoglobin = %+v, want low/moderate", hgb)
	}

	glucose := byName["glucose_fasting"]
	if glucose == nil || glucose.Status != reference.StatusHigh || glucose.Severity != reference.SeverityMild {
		t.Errorf("glucose_fasting = %+v, want high/mild", glucose)
	}

	if !strings.Contains(report.Interpretation, "requiring immediate attention") {
		t.Errorf("interpretation missing critical notice: %q", report.Interpretation)
	}

	if !strings.Contains(report.Interpretation, "hemoglobin is low (9 g/dL).") {
		t.Errorf("interpretation missing hemoglobin sentence: %q", report.Interpretation)
	}

	if len(report.Recommendations) == 0 {
		t.Fatal("expected recommendations for abnormal results")
	}

	if report.Recommendations[0] != "Schedule a follow-up appointment with your healthcare provider to discuss critical results." {
		t.Errorf("unexpected first recommendation: %q", report.Recommendations[0])
	}
}

// TestIntegration_JSONShapes pins the wire field names consumers depend on.
func TestIntegration_JSONShapes(t *testing.T) {
	lib := patterns.Default()
	result := sections.New(lib).Extract("Patient diagnosed with pneumonia.")

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal sections: %v", err)
	}

	for _, key := range []string{`"diagnosis"`, `"clinical_treatment"`, `"medical_history"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("sections JSON missing key %s: %s", key, data)
		}
	}

	report, err := reference.Default().Analyze([]reference.Input{
		{TestName: "hemoglobin", Value: 14.0, Unit: "g/dL"},
	}, reference.SexMale)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	data, err = json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}

	for _, key := range []string{`"tests"`, `"summary"`, `"normalCount"`, `"interpretation"`, `"recommendations"`, `"normalRange"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("report JSON missing key %s: %s", key, data)
		}
	}
}

func anyContains(items []string, substr string) bool {
	for _, item := range items {
		if strings.Contains(strings.ToLower(item), substr) {
			return true
		}
	}

	return false
}
