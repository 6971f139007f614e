package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinscan/clinscan/pkg/icd"
)

var (
	withMedications bool
	searchQuery     string
	searchLimit     int
)

// icdCmd represents the icd command
var icdCmd = &cobra.Command{
	Use:   "icd [text-file]",
	Short: "Identify ICD-10 codes from clinical narrative text",
	Long: `Identify ICD-10 codes mentioned in clinical narrative text.

Abbreviations are expanded first (HTN, T2DM, CHF, ...), then conditions
are matched by direct substring lookup and by diagnosis phrase patterns
("diagnosed with ...", "suffers from ..."). Matched codes are resolved
against the loaded code description table.

With --medications, medication names are extracted from prescription
phrasing and combined with the identified codes into care
recommendations. With --search, the code table is searched directly
instead of processing a file.

Examples:
  clinscan icd note.txt
  clinscan icd --medications note.txt
  clinscan icd --search diabetes --limit 5
  clinscan icd --output json note.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runICD,
}

func init() {
	rootCmd.AddCommand(icdCmd)

	icdCmd.Flags().BoolVar(&withMedications, "medications", false, "extract medications and generate care recommendations")
	icdCmd.Flags().StringVar(&searchQuery, "search", "", "search the code table instead of processing a file")
	icdCmd.Flags().IntVar(&searchLimit, "limit", 10, "maximum number of search results")
}

// icdReport is the marshaled result of a narrative analysis.
type icdReport struct {
	Codes           []icd.Code `json:"icdCodes"`
	Medications     []string   `json:"medications,omitempty"`
	Recommendations []string   `json:"recommendations,omitempty"`
}

func runICD(cmd *cobra.Command, args []string) error {
	mapper, err := loadMapper()
	if err != nil {
		return err
	}

	if searchQuery != "" {
		return runICDSearch(mapper)
	}

	if len(args) == 0 {
		return fmt.Errorf("requires a text file argument (or --search)")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	text := string(data)
	report := &icdReport{Codes: mapper.Identify(text)}

	if withMedications {
		report.Medications = icd.Medications(text)
		report.Recommendations = icd.Recommendations(report.Codes, report.Medications)
	}

	if strings.EqualFold(output, "json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(report)
	}

	fmt.Printf("📄 File: %s\n", args[0])

	if len(report.Codes) == 0 {
		fmt.Println("No ICD-10 codes were identified.")
	} else {
		fmt.Printf("\n🏷️  ICD-10 Codes (%d):\n", len(report.Codes))

		for _, code := range report.Codes {
			fmt.Printf("   • %s: %s (confidence %.0f%%)\n", code.Code, code.Description, code.Confidence*100)
		}
	}

	if withMedications {
		if len(report.Medications) > 0 {
			fmt.Printf("\n💊 Medications (%d):\n", len(report.Medications))

			for _, med := range report.Medications {
				fmt.Printf("   • %s\n", med)
			}
		}

		if len(report.Recommendations) > 0 {
			fmt.Println("\n💡 Recommendations:")

			for _, rec := range report.Recommendations {
				fmt.Printf("   • %s\n", rec)
			}
		}
	}

	return nil
}

func runICDSearch(mapper *icd.Mapper) error {
	results := mapper.Search(searchQuery, searchLimit)

	if strings.EqualFold(output, "json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(results)
	}

	if len(results) == 0 {
		fmt.Printf("No codes match %q.\n", searchQuery)
		return nil
	}

	fmt.Printf("🔍 Codes matching %q (%d):\n", searchQuery, len(results))

	for _, code := range results {
		fmt.Printf("   • %s: %s\n", code.Code, code.Description)
	}

	return nil
}
