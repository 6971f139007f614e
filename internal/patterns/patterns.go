// Package patterns holds the static rule data driving the clinical text
// pipelines: section header vocabularies, category trigger phrases, entity
// regexes, the abbreviation expansion table, and the blood test vocabulary.
//
// The library is read-only after construction and safe for concurrent use.
// Defaults are compiled in; Load can overlay replacement data from a YAML
// file so the tuning surface stays editable without code changes.
package patterns

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Category identifies one of the clinical narrative buckets.
type Category string

const (
	CategoryDiagnosis Category = "diagnosis"
	CategoryTreatment Category = "clinical_treatment"
	CategoryHistory   Category = "medical_history"
)

// Categories lists all narrative buckets in a fixed order.
func Categories() []Category {
	return []Category{CategoryDiagnosis, CategoryTreatment, CategoryHistory}
}

// BloodTest describes one entry of the canonical lab test vocabulary.
type BloodTest struct {
	// Name is the canonical test name used as the reference table key.
	Name string
	// Synonyms are on-page label variants, most specific first.
	Synonyms []string
	// Units are accepted unit spellings for the exact line pattern.
	Units []string

	// linePattern matches "label : value unit" on a single line.
	linePattern *regexp.Regexp
}

// LinePattern returns the compiled exact-match pattern for this test.
// Group 1 is the label, group 2 the numeric value, group 3 the unit.
func (bt *BloodTest) LinePattern() *regexp.Regexp {
	return bt.linePattern
}

// Library is the process-wide pattern set, constructed once and injected
// into the pipeline components.
type Library struct {
	// Abbreviations maps a clinical shorthand to its expansion. Matching is
	// case-insensitive on whole words.
	Abbreviations map[string]string

	// SectionHeaders maps each category to the header words that open an
	// explicit section (e.g. "diagnosis:", "medications:").
	SectionHeaders map[Category][]string

	// Triggers maps each category to sentence-level trigger phrases.
	Triggers map[Category][]string

	// ConditionKeywords are substrings that mark a phrase as a medical
	// condition (disease names plus morpheme cues like "itis", "emia").
	ConditionKeywords []string

	// MedicationSuffixes are drug-name suffixes ("olol", "pril", ...).
	MedicationSuffixes []string

	// MedicationNames are common drug names recognized verbatim.
	MedicationNames []string

	// BloodTests is the canonical lab vocabulary.
	BloodTests []BloodTest

	// Units are unit spellings recognized when scavenging free text for
	// number+unit tokens.
	Units []string

	// TableHeaderNames / TableHeaderValues / TableHeaderUnits are header
	// synonyms used to resolve columns in extracted tables.
	TableHeaderNames  []string
	TableHeaderValues []string
	TableHeaderUnits  []string

	// Compiled entity patterns shared by the section extractor.
	Dosage          *regexp.Regexp
	Temporal        *regexp.Regexp
	DiagnosticVerbs *regexp.Regexp
	Qualifiers      *regexp.Regexp
	AdminVerbs      *regexp.Regexp
	FamilyHistory   *regexp.Regexp
	NumericUnitOnly *regexp.Regexp
	DateOnly        *regexp.Regexp

	// FillerPhrases are stripped from candidate items before validation.
	FillerPhrases []*regexp.Regexp

	// BulletMarkers strip leading list markers from captured items.
	BulletMarkers []*regexp.Regexp

	// anyHeader matches any known section header at the start of a line.
	anyHeader *regexp.Regexp

	// abbrev holds one compiled whole-word regex per abbreviation.
	abbrev []abbrevRule
}

type abbrevRule struct {
	re        *regexp.Regexp
	expansion string
}

// AnyHeader returns the compiled pattern matching any known section header
// at the start of a line. Group 1 is the header word, group 2 the trailing
// inline text.
func (l *Library) AnyHeader() *regexp.Regexp {
	return l.anyHeader
}

// ExpandAbbreviations applies the abbreviation table to text using
// case-insensitive whole-word substitution.
func (l *Library) ExpandAbbreviations(text string) string {
	for _, rule := range l.abbrev {
		text = rule.re.ReplaceAllString(text, rule.expansion)
	}

	return text
}

// HeaderCategory resolves a header word to its category. The boolean is
// false for unknown headers.
func (l *Library) HeaderCategory(header string) (Category, bool) {
	h := strings.ToLower(strings.TrimSpace(header))
	for cat, headers := range l.SectionHeaders {
		for _, known := range headers {
			if h == known {
				return cat, true
			}
		}
	}

	return "", false
}

// TestNames returns the canonical names of all known blood tests.
func (l *Library) TestNames() []string {
	names := make([]string, 0, len(l.BloodTests))
	for _, bt := range l.BloodTests {
		names = append(names, bt.Name)
	}

	return names
}

// SynonymVocabulary returns every known label variant paired with its
// canonical test name, for fuzzy lookup.
func (l *Library) SynonymVocabulary() map[string]string {
	vocab := make(map[string]string)
	for _, bt := range l.BloodTests {
		vocab[bt.Name] = bt.Name
		for _, syn := range bt.Synonyms {
			vocab[strings.ToLower(syn)] = bt.Name
		}
	}

	return vocab
}

// Default returns the built-in pattern library.
func Default() *Library {
	lib := &Library{
		Abbreviations: map[string]string{
			"htn":  "hypertension",
			"t2dm": "type 2 diabetes mellitus",
			"t1dm": "type 1 diabetes mellitus",
			"dm":   "diabetes mellitus",
			"cad":  "coronary artery disease",
			"chf":  "congestive heart failure",
			"copd": "chronic obstructive pulmonary disease",
			"gerd": "gastroesophageal reflux disease",
			"osa":  "obstructive sleep apnea",
			"afib": "atrial fibrillation",
			"hld":  "hyperlipidemia",
			"ckd":  "chronic kidney disease",
			"gad":  "generalized anxiety disorder",
			"mdd":  "major depressive disorder",
			"mi":   "myocardial infarction",
			"uti":  "urinary tract infection",
			"ibs":  "irritable bowel syndrome",
			"tia":  "transient ischemic attack",
		},
		SectionHeaders: map[Category][]string{
			CategoryDiagnosis: {
				"diagnosis", "diagnoses", "impression", "assessment",
				"chief complaint", "presenting problem", "clinical findings",
			},
			CategoryTreatment: {
				"treatment", "therapy", "intervention", "medication",
				"medications", "rx", "prescription", "prescriptions",
				"procedure", "procedures", "plan",
			},
			CategoryHistory: {
				"medical history", "past history", "history",
				"previous conditions", "past medical problems",
				"family history", "social history",
			},
		},
		Triggers: map[Category][]string{
			CategoryDiagnosis: {
				"diagnosed with", "diagnosis of", "presents with",
				"suffering from", "suffers from", "complains of",
				"found to have", "consistent with", "suggestive of",
			},
			CategoryTreatment: {
				"prescribed", "administered", "started on", "treated with",
				"continue", "discontinue", "underwent", "scheduled for",
				"advised to take",
			},
			CategoryHistory: {
				"history of", "previously", "in the past", "years ago",
				"known case of", "since", "chronic", "longstanding",
			},
		},
		ConditionKeywords: []string{
			"disease", "syndrome", "disorder", "infection", "failure",
			"deficiency", "insufficiency", "cancer", "carcinoma", "tumor",
			"diabetes", "hypertension", "asthma", "anemia", "pneumonia",
			"migraine", "arthritis", "fracture", "obesity", "depression",
			"anxiety", "stroke", "fibrillation", "thyroid",
			"itis", "emia", "osis", "opathy", "algia", "oma",
		},
		MedicationSuffixes: []string{
			"olol", "pril", "sartan", "statin", "mycin", "cillin",
			"azole", "dipine", "prazole", "formin", "zepam", "oxetine",
		},
		MedicationNames: []string{
			"aspirin", "metformin", "insulin", "lisinopril", "amlodipine",
			"atorvastatin", "omeprazole", "ibuprofen", "paracetamol",
			"acetaminophen", "warfarin", "levothyroxine", "albuterol",
			"prednisone", "losartan", "metoprolol", "gabapentin",
		},
		BloodTests: []BloodTest{
			{Name: "hemoglobin", Synonyms: []string{"hemoglobin", "haemoglobin", "hgb", "hb"}, Units: []string{"g/dL", "g/L", "g%"}},
			{Name: "wbc", Synonyms: []string{"white blood cells", "white blood cell count", "wbc", "leukocytes", "leucocytes"}, Units: []string{"K/µL", "×10³/μL", "10^3/µL"}},
			{Name: "platelets", Synonyms: []string{"platelets", "platelet count", "plt"}, Units: []string{"K/µL", "×10³/μL", "10^3/µL"}},
			{Name: "glucose_fasting", Synonyms: []string{"fasting glucose", "glucose fasting", "blood sugar", "fbs"}, Units: []string{"mg/dL", "mmol/L"}},
			{Name: "cholesterol_total", Synonyms: []string{"total cholesterol", "cholesterol total", "cholesterol"}, Units: []string{"mg/dL", "mmol/L"}},
			{Name: "rbc", Synonyms: []string{"red blood cells", "red blood cell count", "rbc", "erythrocytes"}, Units: []string{"M/µL", "×10⁶/μL"}},
			{Name: "hematocrit", Synonyms: []string{"hematocrit", "haematocrit", "hct", "pcv"}, Units: []string{"%"}},
			{Name: "mcv", Synonyms: []string{"mean corpuscular volume", "mcv"}, Units: []string{"fL"}},
			{Name: "mch", Synonyms: []string{"mean corpuscular hemoglobin", "mch"}, Units: []string{"pg"}},
			{Name: "mchc", Synonyms: []string{"mchc"}, Units: []string{"g/dL", "%"}},
		},
		Units: []string{
			"g/dL", "g/L", "g%", "mg/dL", "mmol/L", "K/µL", "×10³/μL",
			"10^3/µL", "M/µL", "×10⁶/μL", "fL", "pg", "%",
		},
		TableHeaderNames:  []string{"test", "parameter", "analyte", "investigation"},
		TableHeaderValues: []string{"result", "value", "reading"},
		TableHeaderUnits:  []string{"unit", "units", "reference", "range", "normal"},
	}

	compile(lib)

	return lib
}

// compile builds the derived regexes from the raw data tables.
func compile(lib *Library) {
	lib.Dosage = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:mg|ml|mcg|g|units?|iu|tablets?|capsules?)\b`)
	lib.Temporal = regexp.MustCompile(`(?i)\b(?:ago|since|history|past|chronic|childhood)\b|\b(?:19|20)\d{2}\b`)
	lib.DiagnosticVerbs = regexp.MustCompile(`(?i)\b(?:diagnosed|confirmed|suspected|indicates|revealed|detected)\b`)
	lib.Qualifiers = regexp.MustCompile(`(?i)\b(?:acute|chronic|severe|mild|moderate|stage\s+[ivx\d]+|grade\s+\d|bilateral|recurrent|diagnosed|confirmed|suspected)\b`)
	lib.AdminVerbs = regexp.MustCompile(`(?i)\b(?:prescribed|administered|started|continue|continued|discontinue|discontinued|initiated|applied|injected)\b`)
	lib.FamilyHistory = regexp.MustCompile(`(?i)\b(?:family|mother|father|sibling|brother|sister|hereditary|maternal|paternal)\b`)
	lib.NumericUnitOnly = regexp.MustCompile(`^\d+(?:\.\d+)?\s*[a-zA-Z/%]+$`)
	lib.DateOnly = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}$`)

	lib.FillerPhrases = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^patient\s+(?:was|is|has been)\s+`),
		regexp.MustCompile(`(?i)^please\s+`),
		regexp.MustCompile(`(?i)^advised\s+to\s+`),
		regexp.MustCompile(`(?i)^recommended\s+to\s+`),
		regexp.MustCompile(`(?i)\s+as\s+per\s+(?:doctor'?s?|physician'?s?)\s+(?:orders?|instructions?)$`),
		regexp.MustCompile(`(?i)^(?:patient|individual)\s+(?:reports?|states?|mentions?)\s+`),
		regexp.MustCompile(`(?i)^(?:upon|on)\s+examination[,\s]*`),
	}

	lib.BulletMarkers = []*regexp.Regexp{
		regexp.MustCompile(`^\s*[-•·*‣]\s*`),
		regexp.MustCompile(`^\s*\d+[.)]\s*`),
		regexp.MustCompile(`^\s*[a-z][.)]\s*`),
		regexp.MustCompile(`^\s*\(\d+\)\s*`),
	}

	// One flat alternation over every header word, longest first so
	// "medical history" wins over "history".
	var headers []string
	for _, hs := range lib.SectionHeaders {
		headers = append(headers, hs...)
	}

	sortByLengthDesc(headers)

	escaped := make([]string, 0, len(headers))
	for _, h := range headers {
		escaped = append(escaped, strings.ReplaceAll(regexp.QuoteMeta(h), `\ `, `\s+`))
	}

	lib.anyHeader = regexp.MustCompile(`(?i)^\s*(` + strings.Join(escaped, "|") + `)\s*[:\-]\s*(.*)$`)

	// Fixed expansion order keeps the normalizer deterministic even when
	// an overlay's expansions mention other abbreviations.
	abbrs := make([]string, 0, len(lib.Abbreviations))
	for abbr := range lib.Abbreviations {
		abbrs = append(abbrs, abbr)
	}

	sort.Strings(abbrs)

	lib.abbrev = lib.abbrev[:0]
	for _, abbr := range abbrs {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(abbr) + `\b`)
		lib.abbrev = append(lib.abbrev, abbrevRule{re: re, expansion: lib.Abbreviations[abbr]})
	}

	for i := range lib.BloodTests {
		bt := &lib.BloodTests[i]

		syns := make([]string, 0, len(bt.Synonyms))
		for _, s := range bt.Synonyms {
			syns = append(syns, strings.ReplaceAll(regexp.QuoteMeta(s), `\ `, `\s*`))
		}

		units := make([]string, 0, len(bt.Units))
		for _, u := range bt.Units {
			units = append(units, regexp.QuoteMeta(u))
		}

		bt.linePattern = regexp.MustCompile(
			`(?i)\b(` + strings.Join(syns, "|") + `)\s*:?\s*([\d,]+(?:\.\d+)?)\s*(` + strings.Join(units, "|") + `)`,
		)
	}
}

// sortByLengthDesc orders strings longest first, breaking ties
// alphabetically for deterministic regex construction.
func sortByLengthDesc(ss []string) {
	for i := 0; i < len(ss)-1; i++ {
		for j := i + 1; j < len(ss); j++ {
			if len(ss[j]) > len(ss[i]) || (len(ss[j]) == len(ss[i]) && ss[j] < ss[i]) {
				ss[i], ss[j] = ss[j], ss[i]
			}
		}
	}
}

// validate checks invariants a replacement data file must satisfy.
func validate(lib *Library) error {
	if len(lib.SectionHeaders) == 0 {
		return fmt.Errorf("pattern library requires at least one section header set")
	}

	if len(lib.BloodTests) == 0 {
		return fmt.Errorf("pattern library requires a non-empty blood test vocabulary")
	}

	for _, bt := range lib.BloodTests {
		if bt.Name == "" {
			return fmt.Errorf("blood test entry with empty canonical name")
		}

		if len(bt.Synonyms) == 0 {
			return fmt.Errorf("blood test %q has no synonyms", bt.Name)
		}
	}

	return nil
}
