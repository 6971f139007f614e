package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv/v2"
	"github.com/spf13/cobra"

	"github.com/clinscan/clinscan/internal/normalize"
	"github.com/clinscan/clinscan/internal/sections"
)

// sectionsCmd represents the sections command
var sectionsCmd = &cobra.Command{
	Use:   "sections [file]",
	Short: "Extract diagnosis, treatment, and history sections from a clinical document",
	Long: `Extract clinical sections from a document and classify each item as
diagnosis, clinical treatment, or medical history.

The input may be a PDF (text is recovered first) or a plain text file.
Text is normalized, then classified through a cascade of header capture,
trigger phrase scanning, and entity pattern matching, with per-category
validation and cross-category reconciliation.

Examples:
  clinscan sections note.txt
  clinscan sections discharge_summary.pdf
  clinscan sections --output json note.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runSections,
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
}

func runSections(cmd *cobra.Command, args []string) error {
	filename := args[0]

	raw, err := readDocumentText(filename)
	if err != nil {
		return err
	}

	lib, err := loadLibrary()
	if err != nil {
		return err
	}

	text := normalize.New(lib).Normalize(raw)
	result := sections.New(lib).Extract(text)

	if strings.EqualFold(output, "json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(result)
	}

	fmt.Printf("📄 File: %s\n", filename)

	if result.Empty() {
		fmt.Println("No clinical sections were identified.")
		return nil
	}

	printSectionItems("🩺 Diagnosis", result.Diagnosis)
	printSectionItems("💊 Clinical Treatment", result.ClinicalTreatment)
	printSectionItems("📋 Medical History", result.MedicalHistory)

	return nil
}

func printSectionItems(heading string, items []string) {
	if len(items) == 0 {
		return
	}

	fmt.Printf("\n%s (%d):\n", heading, len(items))

	for _, item := range items {
		fmt.Printf("   • %s\n", item)
	}
}

// readDocumentText loads the input, routing PDFs through text recovery
// and everything else through a plain file read.
func readDocumentText(filename string) (string, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", filename)
	}

	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		if !quiet {
			fmt.Fprintf(os.Stderr, "Recovering text from %s...\n", filename)
		}

		response, err := docconv.ConvertPath(filename)
		if err != nil {
			return "", fmt.Errorf("failed to convert PDF file '%s': %w", filename, err)
		}

		if strings.TrimSpace(response.Body) == "" {
			return "", fmt.Errorf("no readable text found in PDF file")
		}

		return response.Body, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filename, err)
	}

	return string(data), nil
}
