// Package reference classifies blood test readings against a static
// reference range table: status (normal/high/low), severity tiers, advisory
// suggestions, and aggregate report interpretation.
//
// The table is immutable after construction. Default returns the built-in
// ranges; Load overlays replacement data from a YAML file.
package reference

import (
	"strconv"
	"strings"
)

// Sex selects between sex-specific reference ranges. Tests without
// sex-specific ranges ignore the selector.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Bounds is the inclusive normal range for a test.
type Bounds struct {
	Min float64
	Max float64
}

// String renders the range the way reports print it, e.g. "13.5-17.5".
func (b Bounds) String() string {
	return strconv.FormatFloat(b.Min, 'f', -1, 64) + "-" + strconv.FormatFloat(b.Max, 'f', -1, 64)
}

// Tier holds the mild and moderate severity cutoffs for one direction.
type Tier struct {
	Mild     float64
	Moderate float64
}

// Range is one reference table entry. Exactly one of Bounds or BySex is
// set. A nil High or Low tier means no severity grading in that direction.
type Range struct {
	Unit   string
	Bounds *Bounds
	BySex  map[Sex]Bounds
	High   *Tier
	Low    *Tier
}

// bounds resolves the normal range, picking the sex-specific variant when
// one exists. Male is the fallback when the selector is empty, which keeps
// the behavior of callers that never learned the patient's sex.
func (r *Range) bounds(sex Sex) Bounds {
	if r.Bounds != nil {
		return *r.Bounds
	}

	if b, ok := r.BySex[sex]; ok {
		return b
	}

	return r.BySex[SexMale]
}

// Table is the process-wide reference data set.
type Table struct {
	ranges      map[string]*Range
	suggestions map[string]map[Status]string
}

// TestNames returns the canonical names of every test in the table.
func (t *Table) TestNames() []string {
	names := make([]string, 0, len(t.ranges))
	for name := range t.ranges {
		names = append(names, name)
	}

	return names
}

// canonicalName reduces a label to the table key form: lowercase, spaces
// to underscores, parentheses stripped.
func canonicalName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "(", "")
	name = strings.ReplaceAll(name, ")", "")

	return name
}

// Default returns the built-in reference table.
func Default() *Table {
	return &Table{
		ranges: map[string]*Range{
			"hemoglobin": {
				Unit: "g/dL",
				BySex: map[Sex]Bounds{
					SexMale:   {Min: 13.5, Max: 17.5},
					SexFemale: {Min: 12.0, Max: 15.5},
				},
				High: &Tier{Mild: 18, Moderate: 20},
				Low:  &Tier{Mild: 11, Moderate: 9},
			},
			"wbc": {
				Unit:   "×10³/μL",
				Bounds: &Bounds{Min: 4.0, Max: 11.0},
				High:   &Tier{Mild: 12, Moderate: 15},
				Low:    &Tier{Mild: 3.5, Moderate: 2.5},
			},
			"platelets": {
				Unit:   "×10³/μL",
				Bounds: &Bounds{Min: 150, Max: 450},
				High:   &Tier{Mild: 500, Moderate: 700},
				Low:    &Tier{Mild: 100, Moderate: 50},
			},
			"glucose_fasting": {
				Unit:   "mg/dL",
				Bounds: &Bounds{Min: 70, Max: 100},
				High:   &Tier{Mild: 120, Moderate: 160},
				Low:    &Tier{Mild: 60, Moderate: 50},
			},
			"cholesterol_total": {
				Unit:   "mg/dL",
				Bounds: &Bounds{Min: 0, Max: 200},
				High:   &Tier{Mild: 240, Moderate: 300},
			},
			"rbc": {
				Unit:   "M/µL",
				Bounds: &Bounds{Min: 4.5, Max: 5.9},
				High:   &Tier{Mild: 6.1, Moderate: 6.5},
				Low:    &Tier{Mild: 4.0, Moderate: 3.5},
			},
			"hematocrit": {
				Unit: "%",
				BySex: map[Sex]Bounds{
					SexMale:   {Min: 41, Max: 50},
					SexFemale: {Min: 36, Max: 44},
				},
				High: &Tier{Mild: 52, Moderate: 55},
				Low:  &Tier{Mild: 34, Moderate: 30},
			},
			"mcv": {
				Unit:   "fL",
				Bounds: &Bounds{Min: 80, Max: 96},
				High:   &Tier{Mild: 98, Moderate: 102},
				Low:    &Tier{Mild: 78, Moderate: 75},
			},
			"mch": {
				Unit:   "pg",
				Bounds: &Bounds{Min: 27.5, Max: 33.2},
				High:   &Tier{Mild: 34, Moderate: 36},
				Low:    &Tier{Mild: 26, Moderate: 24},
			},
			"mchc": {
				Unit:   "g/dL",
				Bounds: &Bounds{Min: 33.4, Max: 35.5},
				High:   &Tier{Mild: 36, Moderate: 37},
				Low:    &Tier{Mild: 32, Moderate: 31},
			},
		},
		suggestions: defaultSuggestions(),
	}
}
