// Package bloodwork extracts blood test readings from lab report PDFs
// using a strategy chain: table recovery, free-text pattern matching with
// fuzzy label resolution, and OCR for scanned documents.
package bloodwork

import "time"

// PDFType classifies how a report was produced.
type PDFType string

const (
	PDFTypeDigital PDFType = "digital"
	PDFTypeScanned PDFType = "scanned"
	PDFTypeUnknown PDFType = "unknown"
)

// Extraction method names, recorded in results and diagnostics.
const (
	MethodTable = "table_extraction"
	MethodText  = "text_extraction"
	MethodOCR   = "ocr_extraction"
)

// BloodTestRaw is one recovered reading before reference classification.
// TestName is canonical after normalization; at extraction time it is
// whatever label the source material used.
type BloodTestRaw struct {
	TestName string  `json:"testName"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit"`
}

// ExtractionResult records which strategy produced the readings, for
// diagnostics and for callers to judge extraction confidence.
type ExtractionResult struct {
	Success     bool           `json:"success"`
	Filename    string         `json:"filename,omitempty"`
	PDFType     PDFType        `json:"pdf_type"`
	MethodUsed  string         `json:"method_used"`
	Tests       []BloodTestRaw `json:"tests"`
	ProcessTime time.Duration  `json:"process_time"`
}

// Options configures the extraction chain.
type Options struct {
	// FuzzyThreshold is the minimum similarity score (0-100) for
	// resolving a free-text label against the test vocabulary.
	FuzzyThreshold int

	// DigitalTextMin is the first-page character count above which a PDF
	// counts as digital without further probing.
	DigitalTextMin int

	// OCRLastResort also runs OCR on non-scanned PDFs when every other
	// method came up empty.
	OCRLastResort bool
}

// DefaultOptions returns the standard extraction configuration.
func DefaultOptions() Options {
	return Options{
		FuzzyThreshold: 80,
		DigitalTextMin: 100,
		OCRLastResort:  true,
	}
}
