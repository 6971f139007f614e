package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/clinscan/clinscan/internal/patterns"
)

var (
	showTests         bool
	showAbbreviations bool
	showHeaders       bool
)

// patternsCmd represents the patterns command
var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Inspect the loaded pattern library",
	Long: `Inspect the pattern library driving the extraction pipeline: section
headers, trigger phrases, the blood test vocabulary, abbreviation
expansions, and recognized units.

This shows the effective data after any YAML overlay from the config
file, which is useful for verifying a vocabulary change took effect.

Examples:
  clinscan patterns                       # summary of the loaded library
  clinscan patterns --tests               # blood test vocabulary table
  clinscan patterns --abbreviations       # abbreviation expansion table
  clinscan patterns --headers             # section header words
  clinscan patterns --output json         # full library as JSON`,
	RunE: runPatterns,
}

func init() {
	rootCmd.AddCommand(patternsCmd)

	patternsCmd.Flags().BoolVar(&showTests, "tests", false, "show the blood test vocabulary")
	patternsCmd.Flags().BoolVar(&showAbbreviations, "abbreviations", false, "show the abbreviation expansion table")
	patternsCmd.Flags().BoolVar(&showHeaders, "headers", false, "show section header words per category")
}

func runPatterns(cmd *cobra.Command, args []string) error {
	lib, err := loadLibrary()
	if err != nil {
		return err
	}

	if strings.EqualFold(output, "json") {
		return outputPatternsJSON(lib)
	}

	if showTests {
		return printBloodTests(lib)
	}

	if showAbbreviations {
		return printAbbreviations(lib)
	}

	if showHeaders {
		printHeaders(lib)
		return nil
	}

	printLibrarySummary(lib)

	return nil
}

func outputPatternsJSON(lib *patterns.Library) error {
	tests := make([]struct {
		Name     string   `json:"name"`
		Synonyms []string `json:"synonyms"`
		Units    []string `json:"units"`
	}, len(lib.BloodTests))

	for i, bt := range lib.BloodTests {
		tests[i].Name = bt.Name
		tests[i].Synonyms = bt.Synonyms
		tests[i].Units = bt.Units
	}

	headers := make(map[string][]string, len(lib.SectionHeaders))
	triggers := make(map[string][]string, len(lib.Triggers))

	for cat, words := range lib.SectionHeaders {
		headers[string(cat)] = words
	}

	for cat, phrases := range lib.Triggers {
		triggers[string(cat)] = phrases
	}

	payload := struct {
		SectionHeaders map[string][]string `json:"section_headers"`
		Triggers       map[string][]string `json:"triggers"`
		Abbreviations  map[string]string   `json:"abbreviations"`
		BloodTests     interface{}         `json:"blood_tests"`
		Units          []string            `json:"units"`
	}{
		SectionHeaders: headers,
		Triggers:       triggers,
		Abbreviations:  lib.Abbreviations,
		BloodTests:     tests,
		Units:          lib.Units,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(payload)
}

func printBloodTests(lib *patterns.Library) error {
	fmt.Printf("Blood Test Vocabulary (%d):\n\n", len(lib.BloodTests))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TEST\tUNITS\tSYNONYMS")
	fmt.Fprintln(w, "----\t-----\t--------")

	for _, bt := range lib.BloodTests {
		fmt.Fprintf(w, "%s\t%s\t%s\n", bt.Name, strings.Join(bt.Units, ", "), strings.Join(bt.Synonyms, ", "))
	}

	return w.Flush()
}

func printAbbreviations(lib *patterns.Library) error {
	shorthands := make([]string, 0, len(lib.Abbreviations))
	for shorthand := range lib.Abbreviations {
		shorthands = append(shorthands, shorthand)
	}

	sort.Strings(shorthands)

	fmt.Printf("Abbreviation Expansions (%d):\n\n", len(shorthands))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SHORTHAND\tEXPANSION")
	fmt.Fprintln(w, "---------\t---------")

	for _, shorthand := range shorthands {
		fmt.Fprintf(w, "%s\t%s\n", shorthand, lib.Abbreviations[shorthand])
	}

	return w.Flush()
}

func printHeaders(lib *patterns.Library) {
	for _, cat := range patterns.Categories() {
		words := lib.SectionHeaders[cat]
		if len(words) == 0 {
			continue
		}

		fmt.Printf("📋 %s (%d headers):\n", cat, len(words))

		for _, word := range words {
			fmt.Printf("   • %s\n", word)
		}

		fmt.Println()
	}
}

func printLibrarySummary(lib *patterns.Library) {
	headerCount := 0
	for _, words := range lib.SectionHeaders {
		headerCount += len(words)
	}

	triggerCount := 0
	for _, phrases := range lib.Triggers {
		triggerCount += len(phrases)
	}

	fmt.Println("Pattern Library Summary:")
	fmt.Printf("   📋 Section headers: %d (across %d categories)\n", headerCount, len(lib.SectionHeaders))
	fmt.Printf("   🎯 Trigger phrases: %d\n", triggerCount)
	fmt.Printf("   🔤 Abbreviations: %d\n", len(lib.Abbreviations))
	fmt.Printf("   🧪 Blood tests: %d\n", len(lib.BloodTests))
	fmt.Printf("   📐 Units: %d\n", len(lib.Units))
	fmt.Printf("   💊 Medication names: %d (suffixes: %d)\n", len(lib.MedicationNames), len(lib.MedicationSuffixes))
	fmt.Printf("   🩺 Condition keywords: %d\n", len(lib.ConditionKeywords))
}
