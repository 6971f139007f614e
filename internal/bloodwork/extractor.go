package bloodwork

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/clinscan/clinscan/internal/patterns"
)

// Extractor runs the extraction strategy chain over lab report PDFs.
// Stateless per call and safe for concurrent use.
type Extractor struct {
	lib  *patterns.Library
	opts Options

	// unitToken finds a number followed by a recognized unit in free
	// text. Group 1 is the value, group 2 the unit.
	unitToken *regexp.Regexp

	// vocab is the sorted synonym vocabulary for fuzzy label matching;
	// canonical maps each synonym back to its test name.
	vocab     []string
	canonical map[string]string
}

// New creates an extractor backed by the given pattern library.
func New(lib *patterns.Library, opts Options) *Extractor {
	if opts.FuzzyThreshold <= 0 {
		opts.FuzzyThreshold = DefaultOptions().FuzzyThreshold
	}

	if opts.DigitalTextMin <= 0 {
		opts.DigitalTextMin = DefaultOptions().DigitalTextMin
	}

	e := &Extractor{
		lib:       lib,
		opts:      opts,
		canonical: lib.SynonymVocabulary(),
	}

	e.vocab = make([]string, 0, len(e.canonical))
	for synonym := range e.canonical {
		e.vocab = append(e.vocab, synonym)
	}

	sort.Strings(e.vocab)

	units := append([]string(nil), lib.Units...)
	sort.Slice(units, func(i, j int) bool { return len(units[i]) > len(units[j]) })

	escaped := make([]string, 0, len(units))
	for _, u := range units {
		escaped = append(escaped, regexp.QuoteMeta(u))
	}

	e.unitToken = regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*(` + strings.Join(escaped, "|") + `)`)

	return e
}

// ExtractFromFile runs the strategy chain on a PDF: table extraction,
// then free text, then OCR for scanned documents (and as a last resort
// when configured). The first method whose normalized output is non-empty
// wins. When every method is exhausted the error is a ProcessingError
// carrying the detected PDF type and each method's failure.
func (e *Extractor) ExtractFromFile(path string) (*ExtractionResult, error) {
	start := time.Now()
	pdfType := e.detectType(path)

	type method struct {
		name string
		run  func(string) ([]BloodTestRaw, error)
	}

	methods := []method{
		{MethodTable, e.extractFromTables},
		{MethodText, e.extractFromText},
	}

	if pdfType == PDFTypeScanned || e.opts.OCRLastResort {
		methods = append(methods, method{MethodOCR, e.extractWithOCR})
	}

	attempted := make([]string, 0, len(methods))
	methodErrors := map[string]string{}

	for _, m := range methods {
		attempted = append(attempted, m.name)

		raw, err := m.run(path)
		if err != nil {
			methodErrors[m.name] = err.Error()
			continue
		}

		tests := e.normalizeResults(raw)
		if len(tests) == 0 {
			methodErrors[m.name] = "no valid readings after normalization"
			continue
		}

		return &ExtractionResult{
			Success:     true,
			Filename:    path,
			PDFType:     pdfType,
			MethodUsed:  m.name,
			Tests:       tests,
			ProcessTime: time.Since(start),
		}, nil
	}

	return nil, newProcessingError(
		"could not extract valid blood test results",
		ErrTypeExhausted,
		map[string]any{
			"pdf_type":          string(pdfType),
			"attempted_methods": attempted,
			"method_errors":     methodErrors,
		},
	)
}

// ExtractFromText runs the free-text scan over an already-extracted blob,
// for callers that obtained the document text some other way.
func (e *Extractor) ExtractFromText(text string) (*ExtractionResult, error) {
	start := time.Now()

	tests := e.normalizeResults(e.parseFreeText(text))
	if len(tests) == 0 {
		return nil, newProcessingError(
			"could not extract valid blood test results",
			ErrTypeExhausted,
			map[string]any{
				"pdf_type":          string(PDFTypeUnknown),
				"attempted_methods": []string{MethodText},
				"method_errors":     map[string]string{MethodText: "no test patterns matched"},
			},
		)
	}

	return &ExtractionResult{
		Success:     true,
		PDFType:     PDFTypeUnknown,
		MethodUsed:  MethodText,
		Tests:       tests,
		ProcessTime: time.Since(start),
	}, nil
}
