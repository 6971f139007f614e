package cmd

import (
	"fmt"
	"os"
	"strings"

	"code.sajari.com/docconv/v2"
	"github.com/spf13/cobra"

	"github.com/clinscan/clinscan/internal/normalize"
)

var textOutputFile string

// textCmd represents the text command
var textCmd = &cobra.Command{
	Use:   "text [pdf-file]",
	Short: "Convert a clinical PDF to normalized plain text",
	Long: `Convert a clinical PDF document to normalized plain text.

The raw text is passed through the normalization pipeline: tokenizer
artifacts are stripped, hyphenated line wraps are rejoined, whitespace is
collapsed, medical abbreviations are expanded, and numeric values are
separated from their units. The result is the text every downstream
extractor sees.

Examples:
  clinscan text report.pdf
  clinscan text --out report.txt report.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runText,
}

func init() {
	rootCmd.AddCommand(textCmd)

	textCmd.Flags().StringVar(&textOutputFile, "out", "", "output file (default: stdout)")
}

func runText(cmd *cobra.Command, args []string) error {
	filename := args[0]

	if !quiet {
		fmt.Fprintf(os.Stderr, "Converting %s to text...\n", filename)
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filename)
	}

	response, err := docconv.ConvertPath(filename)
	if err != nil {
		return fmt.Errorf("failed to convert PDF file '%s': %w", filename, err)
	}

	if strings.TrimSpace(response.Body) == "" {
		return fmt.Errorf("no readable text found in PDF file")
	}

	lib, err := loadLibrary()
	if err != nil {
		return err
	}

	text := normalize.New(lib).Normalize(response.Body)

	if textOutputFile != "" {
		if err := os.WriteFile(textOutputFile, []byte(text+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		if !quiet {
			fmt.Fprintf(os.Stderr, "Normalized text written to %s\n", textOutputFile)
		}

		return nil
	}

	fmt.Println(text)

	return nil
}
