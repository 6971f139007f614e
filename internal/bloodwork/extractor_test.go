package bloodwork

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeJunkPDF(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "report.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestExtractFromFileExhaustedMethods(t *testing.T) {
	e := newTestExtractor()

	_, err := e.ExtractFromFile(writeJunkPDF(t))

	var procErr *ProcessingError
	if !errors.As(err, &procErr) {
		t.Fatalf("ExtractFromFile() error = %v, want ProcessingError", err)
	}

	if procErr.ErrorType != ErrTypeExhausted {
		t.Errorf("errorType = %q, want %q", procErr.ErrorType, ErrTypeExhausted)
	}

	if procErr.Details["pdf_type"] != string(PDFTypeUnknown) {
		t.Errorf("pdf_type = %v, want %q", procErr.Details["pdf_type"], PDFTypeUnknown)
	}

	attempted, ok := procErr.Details["attempted_methods"].([]string)
	if !ok {
		t.Fatalf("attempted_methods missing from details: %v", procErr.Details)
	}

	for _, want := range []string{MethodTable, MethodText} {
		found := false
		for _, method := range attempted {
			if method == want {
				found = true
			}
		}

		if !found {
			t.Errorf("attempted methods %v missing %q", attempted, want)
		}
	}

	methodErrors, ok := procErr.Details["method_errors"].(map[string]string)
	if !ok || len(methodErrors) == 0 {
		t.Errorf("method_errors missing from details: %v", procErr.Details)
	}
}

func TestExtractFromFileMissingFile(t *testing.T) {
	e := newTestExtractor()

	_, err := e.ExtractFromFile(filepath.Join(t.TempDir(), "absent.pdf"))

	var procErr *ProcessingError
	if !errors.As(err, &procErr) {
		t.Fatalf("ExtractFromFile() error = %v, want ProcessingError", err)
	}
}

func TestExtractFromTextFullChain(t *testing.T) {
	e := newTestExtractor()

	text := `Hemoglobin: 135 g/L
Fasting Glucose: 5.5 mmol/L
Hemoglobin: 90 g/L`

	result, err := e.ExtractFromText(text)
	if err != nil {
		t.Fatalf("ExtractFromText() error = %v", err)
	}

	if !result.Success {
		t.Error("result not marked successful")
	}

	if len(result.Tests) != 2 {
		t.Fatalf("tests = %v, want 2 deduplicated readings", result.Tests)
	}

	hgb := result.Tests[0]
	if hgb.TestName != "hemoglobin" || hgb.Value != 13.5 || hgb.Unit != "g/dL" {
		t.Errorf("hemoglobin reading = %+v, want 13.5 g/dL via unit conversion", hgb)
	}

	glucose := result.Tests[1]
	if glucose.TestName != "glucose_fasting" || glucose.Value != 99.1 || glucose.Unit != "mg/dL" {
		t.Errorf("glucose reading = %+v, want 99.1 mg/dL via unit conversion", glucose)
	}
}

func TestExtractFromTextNoReadings(t *testing.T) {
	e := newTestExtractor()

	_, err := e.ExtractFromText("nothing medical here")

	var procErr *ProcessingError
	if !errors.As(err, &procErr) {
		t.Fatalf("ExtractFromText() error = %v, want ProcessingError", err)
	}

	if procErr.ErrorType != ErrTypeExhausted {
		t.Errorf("errorType = %q, want %q", procErr.ErrorType, ErrTypeExhausted)
	}
}
