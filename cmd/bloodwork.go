package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinscan/clinscan/internal/bloodwork"
	"github.com/clinscan/clinscan/pkg/reference"
)

var (
	patientSex     string
	batchMode      bool
	numWorkers     int
	showProgress   bool
	fuzzyThreshold int
	ocrLastResort  bool
)

// bloodworkCmd represents the bloodwork command
var bloodworkCmd = &cobra.Command{
	Use:   "bloodwork [pdf-file...]",
	Short: "Extract and classify blood test results from lab report PDFs",
	Long: `Extract blood test readings from lab report PDFs and classify each
reading against clinical reference ranges.

Extraction tries a chain of strategies: table structure recovery, free
text pattern matching with fuzzy test name resolution, and OCR for
scanned reports. Recovered readings are normalized (unit conversion,
canonical naming, deduplication) and graded against sex-specific
reference ranges, producing per-test status and severity plus an
aggregate interpretation with recommendations.

Examples:
  clinscan bloodwork report.pdf
  clinscan bloodwork --sex female report.pdf
  clinscan bloodwork --batch --workers 8 reports/*.pdf
  clinscan bloodwork --output json report.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBloodwork,
}

func init() {
	rootCmd.AddCommand(bloodworkCmd)

	bloodworkCmd.Flags().StringVar(&patientSex, "sex", "male", "patient sex for reference ranges (male, female)")
	bloodworkCmd.Flags().BoolVar(&batchMode, "batch", false, "process multiple files in parallel and output a summary")
	bloodworkCmd.Flags().IntVar(&numWorkers, "workers", runtime.NumCPU(), "number of parallel workers for batch processing")
	bloodworkCmd.Flags().BoolVar(&showProgress, "progress", true, "show progress during batch processing")
	bloodworkCmd.Flags().IntVar(&fuzzyThreshold, "fuzzy-threshold", 80, "minimum similarity score (0-100) for fuzzy test name matching")
	bloodworkCmd.Flags().BoolVar(&ocrLastResort, "ocr-last-resort", true, "run OCR on digital PDFs when no other method finds readings")
}

// bloodworkReport pairs the raw extraction with its clinical analysis.
type bloodworkReport struct {
	Extraction *bloodwork.ExtractionResult `json:"extraction"`
	Analysis   *reference.Report           `json:"analysis,omitempty"`
	Error      string                      `json:"error,omitempty"`
}

func runBloodwork(cmd *cobra.Command, args []string) error {
	sex, err := parseSex(patientSex)
	if err != nil {
		return err
	}

	lib, err := loadLibrary()
	if err != nil {
		return err
	}

	table, err := loadReferenceTable()
	if err != nil {
		return err
	}

	opts := bloodwork.DefaultOptions()
	opts.FuzzyThreshold = fuzzyThreshold
	opts.OCRLastResort = ocrLastResort

	extractor := bloodwork.New(lib, opts)

	if batchMode {
		return runBloodworkBatch(extractor, table, sex, args)
	}

	for _, filename := range args {
		if !quiet {
			fmt.Fprintf(os.Stderr, "Processing %s...\n", filename)
		}

		report := processReport(extractor, table, sex, filename)
		if err := outputBloodworkReport(report); err != nil {
			return err
		}
	}

	return nil
}

// processReport runs extraction and analysis for one file, folding any
// failure into the report so batch output stays uniform.
func processReport(extractor *bloodwork.Extractor, table *reference.Table, sex reference.Sex, filename string) *bloodworkReport {
	result, err := extractor.ExtractFromFile(filename)
	if err != nil {
		return &bloodworkReport{
			Extraction: &bloodwork.ExtractionResult{Filename: filename},
			Error:      err.Error(),
		}
	}

	report := &bloodworkReport{Extraction: result}

	analysis, err := table.Analyze(toInputs(result.Tests), sex)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	report.Analysis = analysis

	return report
}

func runBloodworkBatch(extractor *bloodwork.Extractor, table *reference.Table, sex reference.Sex, filenames []string) error {
	pool := bloodwork.NewWorkerPool(extractor, numWorkers)
	pool.Start()

	tasks := make([]bloodwork.Task, len(filenames))
	for i, filename := range filenames {
		tasks[i] = bloodwork.Task{
			ID:       fmt.Sprintf("task_%d", i),
			Filename: filename,
		}
	}

	tracker := bloodwork.NewProgressTracker()

	done := make(chan struct{})
	go func() {
		defer close(done)

		for update := range pool.Progress() {
			tracker.Update(update)

			if showProgress && !quiet {
				tracker.PrintProgress()
			}
		}
	}()

	// Submission happens off the main goroutine so result draining is
	// already underway; a batch larger than the task and result buffers
	// would otherwise block SubmitTask with no consumer.
	go func() {
		pool.SubmitBatch(tasks)
		pool.Wait()
	}()

	reports := make(map[string]*bloodworkReport, len(filenames))

	for taskResult := range pool.Results() {
		if taskResult.Error != nil {
			extraction := taskResult.Result
			if extraction == nil {
				extraction = &bloodwork.ExtractionResult{Filename: taskResult.Task.Filename}
			}

			reports[taskResult.Task.Filename] = &bloodworkReport{
				Extraction: extraction,
				Error:      taskResult.Error.Error(),
			}

			continue
		}

		report := &bloodworkReport{Extraction: taskResult.Result}

		analysis, err := table.Analyze(toInputs(taskResult.Result.Tests), sex)
		if err != nil {
			report.Error = err.Error()
		} else {
			report.Analysis = analysis
		}

		reports[taskResult.Task.Filename] = report
	}

	<-done

	if showProgress && !quiet {
		fmt.Fprintln(os.Stderr)
	}

	if strings.EqualFold(output, "json") {
		ordered := make([]*bloodworkReport, 0, len(filenames))
		for _, filename := range filenames {
			if report, ok := reports[filename]; ok {
				ordered = append(ordered, report)
			}
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(ordered)
	}

	succeeded := 0

	for _, filename := range filenames {
		report, ok := reports[filename]
		if !ok {
			continue
		}

		if err := printBloodworkHuman(report); err != nil {
			return err
		}

		if report.Error == "" {
			succeeded++
		}

		fmt.Println()
	}

	fmt.Printf("📊 Batch complete: %d/%d files processed successfully\n", succeeded, len(filenames))

	return nil
}

func outputBloodworkReport(report *bloodworkReport) error {
	if strings.EqualFold(output, "json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(report)
	}

	return printBloodworkHuman(report)
}

func printBloodworkHuman(report *bloodworkReport) error {
	extraction := report.Extraction

	fmt.Printf("📄 File: %s\n", extraction.Filename)

	if report.Error != "" && report.Analysis == nil && !extraction.Success {
		fmt.Printf("❌ Error: %s\n", report.Error)
		return nil
	}

	fmt.Printf("📊 Type: %s | Method: %s | Readings: %d | Processing time: %v\n",
		extraction.PDFType, extraction.MethodUsed, len(extraction.Tests), extraction.ProcessTime)

	if report.Error != "" {
		fmt.Printf("❌ Analysis error: %s\n", report.Error)
		return nil
	}

	analysis := report.Analysis
	if analysis == nil || len(analysis.Tests) == 0 {
		fmt.Println("No readings matched the reference table.")
		return nil
	}

	fmt.Printf("\n🧪 Results (%d):\n", len(analysis.Tests))

	for _, result := range analysis.Tests {
		fmt.Printf("   %s %s: %g %s (normal %s)%s\n",
			statusBadge(result), result.TestName, result.Value, result.Unit,
			result.NormalRange, severityNote(result))
	}

	fmt.Printf("\n🩺 %s\n", analysis.Interpretation)

	if len(analysis.Recommendations) > 0 {
		fmt.Println("\n💡 Recommendations:")

		for _, rec := range analysis.Recommendations {
			fmt.Printf("   • %s\n", rec)
		}
	}

	return nil
}

func statusBadge(result *reference.Result) string {
	switch {
	case result.Status == reference.StatusNormal:
		return "✅"
	case result.Severity == reference.SeverityModerate:
		return "🚨"
	default:
		return "⚠️"
	}
}

func severityNote(result *reference.Result) string {
	if result.Status == reference.StatusNormal {
		return ""
	}

	if result.Severity == "" {
		return fmt.Sprintf(" [%s]", result.Status)
	}

	return fmt.Sprintf(" [%s, %s]", result.Status, result.Severity)
}

func parseSex(value string) (reference.Sex, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "male", "m":
		return reference.SexMale, nil
	case "female", "f":
		return reference.SexFemale, nil
	default:
		return "", fmt.Errorf("invalid sex %q (expected male or female)", value)
	}
}

func toInputs(tests []bloodwork.BloodTestRaw) []reference.Input {
	inputs := make([]reference.Input, len(tests))
	for i, test := range tests {
		inputs[i] = reference.Input{
			TestName: test.TestName,
			Value:    test.Value,
			Unit:     test.Unit,
		}
	}

	return inputs
}
