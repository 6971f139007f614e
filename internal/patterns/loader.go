package patterns

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat is the YAML shape of an external pattern data file. Every
// section is optional; an omitted section keeps the built-in defaults.
type fileFormat struct {
	Abbreviations      map[string]string   `yaml:"abbreviations"`
	SectionHeaders     map[string][]string `yaml:"section_headers"`
	Triggers           map[string][]string `yaml:"triggers"`
	ConditionKeywords  []string            `yaml:"condition_keywords"`
	MedicationSuffixes []string            `yaml:"medication_suffixes"`
	MedicationNames    []string            `yaml:"medication_names"`
	BloodTests         []bloodTestEntry    `yaml:"blood_tests"`
	Units              []string            `yaml:"units"`
	TableHeaderNames   []string            `yaml:"table_header_names"`
	TableHeaderValues  []string            `yaml:"table_header_values"`
	TableHeaderUnits   []string            `yaml:"table_header_units"`
}

type bloodTestEntry struct {
	Name     string   `yaml:"name"`
	Synonyms []string `yaml:"synonyms"`
	Units    []string `yaml:"units"`
}

// Load builds a pattern library from the defaults overlaid with the data in
// the given YAML file.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern file: %w", err)
	}

	var file fileFormat
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse pattern file %s: %w", path, err)
	}

	lib := Default()

	if len(file.Abbreviations) > 0 {
		lib.Abbreviations = file.Abbreviations
	}

	if len(file.SectionHeaders) > 0 {
		headers := make(map[Category][]string, len(file.SectionHeaders))
		for name, hs := range file.SectionHeaders {
			cat, err := parseCategory(name)
			if err != nil {
				return nil, err
			}

			headers[cat] = hs
		}

		lib.SectionHeaders = headers
	}

	if len(file.Triggers) > 0 {
		triggers := make(map[Category][]string, len(file.Triggers))
		for name, ts := range file.Triggers {
			cat, err := parseCategory(name)
			if err != nil {
				return nil, err
			}

			triggers[cat] = ts
		}

		lib.Triggers = triggers
	}

	if len(file.ConditionKeywords) > 0 {
		lib.ConditionKeywords = file.ConditionKeywords
	}

	if len(file.MedicationSuffixes) > 0 {
		lib.MedicationSuffixes = file.MedicationSuffixes
	}

	if len(file.MedicationNames) > 0 {
		lib.MedicationNames = file.MedicationNames
	}

	if len(file.BloodTests) > 0 {
		tests := make([]BloodTest, 0, len(file.BloodTests))
		for _, entry := range file.BloodTests {
			tests = append(tests, BloodTest{
				Name:     entry.Name,
				Synonyms: entry.Synonyms,
				Units:    entry.Units,
			})
		}

		lib.BloodTests = tests
	}

	if len(file.Units) > 0 {
		lib.Units = file.Units
	}

	if len(file.TableHeaderNames) > 0 {
		lib.TableHeaderNames = file.TableHeaderNames
	}

	if len(file.TableHeaderValues) > 0 {
		lib.TableHeaderValues = file.TableHeaderValues
	}

	if len(file.TableHeaderUnits) > 0 {
		lib.TableHeaderUnits = file.TableHeaderUnits
	}

	if err := validate(lib); err != nil {
		return nil, fmt.Errorf("invalid pattern file %s: %w", path, err)
	}

	compile(lib)

	return lib, nil
}

func parseCategory(name string) (Category, error) {
	switch Category(name) {
	case CategoryDiagnosis, CategoryTreatment, CategoryHistory:
		return Category(name), nil
	default:
		return "", fmt.Errorf("unknown category %q in pattern file", name)
	}
}
