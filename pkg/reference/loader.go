package reference

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat is the YAML shape of an external reference data file. Both
// sections are optional; an omitted section keeps the built-in defaults.
type fileFormat struct {
	Ranges      map[string]rangeEntry        `yaml:"ranges"`
	Suggestions map[string]map[string]string `yaml:"suggestions"`
}

type rangeEntry struct {
	Unit  string                 `yaml:"unit"`
	Min   *float64               `yaml:"min"`
	Max   *float64               `yaml:"max"`
	BySex map[string]boundsEntry `yaml:"by_sex"`
	High  *tierEntry             `yaml:"high"`
	Low   *tierEntry             `yaml:"low"`
}

type boundsEntry struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type tierEntry struct {
	Mild     float64 `yaml:"mild"`
	Moderate float64 `yaml:"moderate"`
}

// Load builds a reference table from the defaults overlaid with the data
// in the given YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference file: %w", err)
	}

	var file fileFormat
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse reference file %s: %w", path, err)
	}

	table := Default()

	if len(file.Ranges) > 0 {
		ranges := make(map[string]*Range, len(file.Ranges))
		for name, entry := range file.Ranges {
			r, err := buildRange(name, entry)
			if err != nil {
				return nil, fmt.Errorf("invalid reference file %s: %w", path, err)
			}

			ranges[canonicalName(name)] = r
		}

		table.ranges = ranges
	}

	if len(file.Suggestions) > 0 {
		suggestions := make(map[string]map[Status]string, len(file.Suggestions))
		for name, byStatus := range file.Suggestions {
			entry := make(map[Status]string, len(byStatus))
			for status, text := range byStatus {
				switch Status(status) {
				case StatusHigh, StatusLow:
					entry[Status(status)] = text
				default:
					return nil, fmt.Errorf("invalid reference file %s: unknown suggestion status %q for %s", path, status, name)
				}
			}

			suggestions[canonicalName(name)] = entry
		}

		table.suggestions = suggestions
	}

	return table, nil
}

func buildRange(name string, entry rangeEntry) (*Range, error) {
	if entry.Unit == "" {
		return nil, fmt.Errorf("test %q has no unit", name)
	}

	r := &Range{Unit: entry.Unit, High: tier(entry.High), Low: tier(entry.Low)}

	switch {
	case len(entry.BySex) > 0:
		r.BySex = make(map[Sex]Bounds, len(entry.BySex))
		for sex, b := range entry.BySex {
			switch Sex(sex) {
			case SexMale, SexFemale:
				r.BySex[Sex(sex)] = Bounds{Min: b.Min, Max: b.Max}
			default:
				return nil, fmt.Errorf("test %q has unknown sex selector %q", name, sex)
			}
		}

		if _, ok := r.BySex[SexMale]; !ok {
			return nil, fmt.Errorf("test %q sex-specific ranges must include %q", name, SexMale)
		}
	case entry.Min != nil && entry.Max != nil:
		r.Bounds = &Bounds{Min: *entry.Min, Max: *entry.Max}
	default:
		return nil, fmt.Errorf("test %q needs either min/max or by_sex ranges", name)
	}

	return r, nil
}

func tier(entry *tierEntry) *Tier {
	if entry == nil {
		return nil
	}

	return &Tier{Mild: entry.Mild, Moderate: entry.Moderate}
}
