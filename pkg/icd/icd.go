// Package icd maps free-text condition mentions to ICD-10 codes via
// substring and diagnosis-phrase lookup over a curated condition table.
//
// The code description table is data-driven: Load reads an external
// JSON/YAML file, Default falls back to the built-in set.
package icd

import (
	"regexp"
	"sort"
)

// Code pairs an ICD-10 code with its description. Confidence is set on
// extraction results and zero for plain table entries.
type Code struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence,omitempty"`
}

// Mapper resolves condition mentions to codes. Read-only after
// construction and safe for concurrent use.
type Mapper struct {
	entries    []Code
	byCode     map[string]string
	conditions map[string]string
	phrases    []*regexp.Regexp
	abbrevs    []abbrevRule
	spaceRun   *regexp.Regexp
}

type abbrevRule struct {
	re        *regexp.Regexp
	expansion string
}

// Default returns a mapper backed by the built-in description set.
func Default() *Mapper {
	return newMapper(builtinDescriptions())
}

func newMapper(descriptions map[string]string) *Mapper {
	m := &Mapper{
		byCode:     descriptions,
		conditions: conditionMappings(),
		spaceRun:   regexp.MustCompile(`\s+`),
	}

	m.entries = make([]Code, 0, len(descriptions))
	for code, desc := range descriptions {
		m.entries = append(m.entries, Code{Code: code, Description: desc})
	}

	sort.Slice(m.entries, func(i, j int) bool { return m.entries[i].Code < m.entries[j].Code })

	for _, pattern := range []string{
		`diagnosed with ([^.,;:\n]+)`,
		`diagnosis of ([^.,;:\n]+)`,
		`has ([^.,;:\n]+)`,
		`suffers from ([^.,;:\n]+)`,
		`history of ([^.,;:\n]+)`,
		`presents with ([^.,;:\n]+)`,
		`complains of ([^.,;:\n]+)`,
		`treated for ([^.,;:\n]+)`,
		`managing ([^.,;:\n]+)`,
		`condition: ([^.,;:\n]+)`,
	} {
		m.phrases = append(m.phrases, regexp.MustCompile(pattern))
	}

	for abbr, expansion := range map[string]string{
		"dm":   "diabetes mellitus",
		"htn":  "hypertension",
		"cad":  "coronary artery disease",
		"chf":  "congestive heart failure",
		"copd": "chronic obstructive pulmonary disease",
		"gerd": "gastroesophageal reflux disease",
		"ra":   "rheumatoid arthritis",
		"osa":  "obstructive sleep apnea",
		"afib": "atrial fibrillation",
		"hld":  "hyperlipidemia",
		"ckd":  "chronic kidney disease",
		"gad":  "generalized anxiety disorder",
		"mdd":  "major depressive disorder",
		"t2dm": "type 2 diabetes mellitus",
		"t1dm": "type 1 diabetes mellitus",
		"mi":   "myocardial infarction",
		"uti":  "urinary tract infection",
		"ibs":  "irritable bowel syndrome",
		"ms":   "multiple sclerosis",
		"tia":  "transient ischemic attack",
	} {
		m.abbrevs = append(m.abbrevs, abbrevRule{
			re:        regexp.MustCompile(`\b` + abbr + `\b`),
			expansion: expansion,
		})
	}

	return m
}

// conditionMappings is the condition-phrase to ICD-10 table, covering
// common wording variants and shorthand per condition.
func conditionMappings() map[string]string {
	return map[string]string{
		// diabetes
		"type 2 diabetes":               "E11.9",
		"diabetes type 2":               "E11.9",
		"type 2 diabetes mellitus":      "E11.9",
		"adult onset diabetes":          "E11.9",
		"type ii diabetes":              "E11.9",
		"diabetes mellitus type 2":      "E11.9",
		"non-insulin dependent diabetes": "E11.9",
		"niddm":                         "E11.9",
		"type 1 diabetes":               "E10.9",
		"diabetes type 1":               "E10.9",
		"type 1 diabetes mellitus":      "E10.9",
		"juvenile diabetes":             "E10.9",
		"insulin dependent diabetes":    "E10.9",
		"iddm":                          "E10.9",

		// hypertension
		"hypertension":             "I10",
		"high blood pressure":      "I10",
		"elevated blood pressure":  "I10",
		"essential hypertension":   "I10",
		"primary hypertension":     "I10",
		"systolic hypertension":    "I10",
		"diastolic hypertension":   "I10",

		// cardiac
		"heart failure":            "I50.9",
		"congestive heart failure": "I50.9",
		"cardiac failure":          "I50.9",
		"left heart failure":       "I50.1",
		"coronary artery disease":  "I25.9",
		"myocardial infarction":    "I21.9",
		"heart attack":             "I21.9",
		"angina":                   "I20.9",
		"chest pain":               "R06.00",

		// respiratory
		"asthma":                                "J45.909",
		"chronic asthma":                        "J45.909",
		"bronchial asthma":                      "J45.909",
		"allergic asthma":                       "J45.909",
		"chronic obstructive pulmonary disease": "J44.9",
		"emphysema":                             "J43.9",
		"chronic bronchitis":                    "J42",
		"pneumonia":                             "J18.9",
		"bronchitis":                            "J40",
		"shortness of breath":                   "R06.00",
		"dyspnea":                               "R06.00",

		// mental health
		"depression":                     "F32.9",
		"major depression":               "F32.9",
		"depressive disorder":            "F32.9",
		"major depressive disorder":      "F32.9",
		"clinical depression":            "F32.9",
		"anxiety":                        "F41.9",
		"anxiety disorder":               "F41.9",
		"generalized anxiety disorder":   "F41.1",
		"panic disorder":                 "F41.0",
		"panic attacks":                  "F41.0",
		"bipolar disorder":               "F31.9",
		"bipolar":                        "F31.9",
		"ptsd":                           "F43.10",
		"post traumatic stress disorder": "F43.10",

		// pain
		"chronic pain":          "G89.4",
		"chronic pain syndrome": "G89.4",
		"low back pain":         "M54.5",
		"lumbago":               "M54.5",
		"back pain":             "M54.5",
		"neck pain":             "M54.2",
		"headache":              "R51",
		"migraine":              "G43.909",
		"chronic migraine":      "G43.909",
		"fibromyalgia":          "M79.3",
		"arthritis":             "M19.90",
		"osteoarthritis":        "M19.90",
		"oa":                    "M19.90",
		"rheumatoid arthritis":  "M06.9",

		// metabolic
		"obesity":              "E66.9",
		"overweight":           "E66.3",
		"hyperlipidemia":       "E78.5",
		"high cholesterol":     "E78.00",
		"hypercholesterolemia": "E78.00",
		"dyslipidemia":         "E78.5",
		"metabolic syndrome":   "E88.81",

		// sleep
		"sleep apnea":             "G47.30",
		"obstructive sleep apnea": "G47.33",
		"insomnia":                "G47.00",
		"sleep disorder":          "G47.9",

		// gastrointestinal
		"gastroesophageal reflux disease": "K21.9",
		"gastroesophageal reflux":         "K21.9",
		"acid reflux":                     "K21.9",
		"heartburn":                       "K21.9",
		"peptic ulcer":                    "K27.9",
		"gastritis":                       "K29.70",
		"irritable bowel syndrome":        "K58.9",
		"constipation":                    "K59.00",
		"diarrhea":                        "K59.1",
		"nausea":                          "R11.10",
		"vomiting":                        "R11.10",

		// endocrine
		"hypothyroidism":        "E03.9",
		"hyperthyroidism":       "E05.90",
		"thyroid disorder":      "E07.9",
		"adrenal insufficiency": "E27.40",

		// renal/urinary
		"chronic kidney disease":  "N18.9",
		"kidney failure":          "N19",
		"urinary tract infection": "N39.0",
		"kidney stones":           "N20.0",
		"hematuria":               "R31.9",
		"proteinuria":             "R80.9",

		// infectious
		"covid":       "U07.1",
		"covid-19":    "U07.1",
		"coronavirus": "U07.1",
		"flu":         "J11.1",
		"influenza":   "J11.1",
		"sinusitis":   "J32.9",
		"pharyngitis": "J02.9",
		"sore throat": "J02.9",

		// skin
		"eczema":     "L30.9",
		"dermatitis": "L30.9",
		"psoriasis":  "L40.9",
		"acne":       "L70.9",
		"rash":       "R21",

		// neurological
		"seizure":                   "G40.909",
		"epilepsy":                  "G40.909",
		"stroke":                    "I63.9",
		"transient ischemic attack": "G93.1",
		"dementia":                  "F03.90",
		"alzheimer":                 "G30.9",
		"parkinson":                 "G20",
		"multiple sclerosis":        "G35",

		// eye
		"glaucoma":             "H40.9",
		"cataract":             "H25.9",
		"macular degeneration": "H35.30",
		"diabetic retinopathy": "E11.319",

		// oncology
		"cancer":          "C80.1",
		"malignancy":      "C80.1",
		"tumor":           "D49.9",
		"breast cancer":   "C50.919",
		"lung cancer":     "C78.00",
		"prostate cancer": "C61",
		"colon cancer":    "C18.9",
	}
}

func builtinDescriptions() map[string]string {
	return map[string]string{
		"E11.9":   "Type 2 diabetes mellitus without complications",
		"E10.9":   "Type 1 diabetes mellitus without complications",
		"E11.319": "Type 2 diabetes mellitus with unspecified diabetic retinopathy without macular edema",
		"I10":     "Essential (primary) hypertension",
		"I50.9":   "Heart failure, unspecified",
		"I50.1":   "Left ventricular failure, unspecified",
		"I25.9":   "Chronic ischemic heart disease, unspecified",
		"I21.9":   "Acute myocardial infarction, unspecified",
		"I20.9":   "Angina pectoris, unspecified",
		"I63.9":   "Cerebral infarction, unspecified",
		"R06.00":  "Dyspnea, unspecified",
		"J45.909": "Unspecified asthma, uncomplicated",
		"J44.9":   "Chronic obstructive pulmonary disease, unspecified",
		"J43.9":   "Emphysema, unspecified",
		"J42":     "Unspecified chronic bronchitis",
		"J18.9":   "Pneumonia, unspecified organism",
		"J40":     "Bronchitis, not specified as acute or chronic",
		"J11.1":   "Influenza with other respiratory manifestations, virus not identified",
		"J32.9":   "Chronic sinusitis, unspecified",
		"J02.9":   "Acute pharyngitis, unspecified",
		"F32.9":   "Major depressive disorder, single episode, unspecified",
		"F41.9":   "Anxiety disorder, unspecified",
		"F41.1":   "Generalized anxiety disorder",
		"F41.0":   "Panic disorder without agoraphobia",
		"F31.9":   "Bipolar disorder, unspecified",
		"F43.10":  "Post-traumatic stress disorder, unspecified",
		"F03.90":  "Unspecified dementia without behavioral disturbance",
		"G89.4":   "Chronic pain syndrome",
		"G43.909": "Migraine, unspecified, not intractable, without status migrainosus",
		"G47.30":  "Sleep apnea, unspecified",
		"G47.33":  "Obstructive sleep apnea (adult) (pediatric)",
		"G47.00":  "Insomnia, unspecified",
		"G47.9":   "Sleep disorder, unspecified",
		"G40.909": "Epilepsy, unspecified, not intractable, without status epilepticus",
		"G93.1":   "Anoxic brain damage, not elsewhere classified",
		"G30.9":   "Alzheimer's disease, unspecified",
		"G20":     "Parkinson's disease",
		"G35":     "Multiple sclerosis",
		"M54.5":   "Low back pain",
		"M54.2":   "Cervicalgia",
		"M79.3":   "Panniculitis, unspecified",
		"M19.90":  "Unspecified osteoarthritis, unspecified site",
		"M06.9":   "Rheumatoid arthritis, unspecified",
		"R51":     "Headache",
		"E66.9":   "Obesity, unspecified",
		"E66.3":   "Overweight",
		"E78.5":   "Hyperlipidemia, unspecified",
		"E78.00":  "Pure hypercholesterolemia, unspecified",
		"E88.81":  "Metabolic syndrome",
		"K21.9":   "Gastro-esophageal reflux disease without esophagitis",
		"K27.9":   "Peptic ulcer, site unspecified",
		"K29.70":  "Gastritis, unspecified, without bleeding",
		"K58.9":   "Irritable bowel syndrome without diarrhea",
		"K59.00":  "Constipation, unspecified",
		"K59.1":   "Functional diarrhea",
		"R11.10":  "Vomiting, unspecified",
		"E03.9":   "Hypothyroidism, unspecified",
		"E05.90":  "Thyrotoxicosis, unspecified without thyrotoxic crisis or storm",
		"E07.9":   "Disorder of thyroid, unspecified",
		"E27.40":  "Unspecified adrenocortical insufficiency",
		"N18.9":   "Chronic kidney disease, unspecified",
		"N19":     "Unspecified kidney failure",
		"N39.0":   "Urinary tract infection, site not specified",
		"N20.0":   "Calculus of kidney",
		"R31.9":   "Hematuria, unspecified",
		"R80.9":   "Proteinuria, unspecified",
		"U07.1":   "COVID-19",
		"L30.9":   "Dermatitis, unspecified",
		"L40.9":   "Psoriasis, unspecified",
		"L70.9":   "Acne, unspecified",
		"R21":     "Rash and other nonspecific skin eruption",
		"H40.9":   "Unspecified glaucoma",
		"H25.9":   "Unspecified age-related cataract",
		"H35.30":  "Unspecified macular degeneration",
		"C80.1":   "Malignant (primary) neoplasm, unspecified",
		"D49.9":   "Neoplasm of unspecified behavior of unspecified site",
		"C50.919": "Malignant neoplasm of unspecified site of unspecified female breast",
		"C78.00":  "Secondary malignant neoplasm of unspecified lung",
		"C61":     "Malignant neoplasm of prostate",
		"C18.9":   "Malignant neoplasm of colon, unspecified",
	}
}
