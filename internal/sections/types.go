package sections

import "github.com/clinscan/clinscan/internal/patterns"

// Sections is the structured result of classifying a clinical narrative.
// Item order within each list is first-seen order from the cascade.
type Sections struct {
	Diagnosis         []string `json:"diagnosis"`
	ClinicalTreatment []string `json:"clinical_treatment"`
	MedicalHistory    []string `json:"medical_history"`
}

// Empty reports whether no category holds any item.
func (s *Sections) Empty() bool {
	return len(s.Diagnosis) == 0 && len(s.ClinicalTreatment) == 0 && len(s.MedicalHistory) == 0
}

// Items returns the list for a category. Unknown categories yield nil.
func (s *Sections) Items(cat patterns.Category) []string {
	switch cat {
	case patterns.CategoryDiagnosis:
		return s.Diagnosis
	case patterns.CategoryTreatment:
		return s.ClinicalTreatment
	case patterns.CategoryHistory:
		return s.MedicalHistory
	default:
		return nil
	}
}

func (s *Sections) set(cat patterns.Category, items []string) {
	switch cat {
	case patterns.CategoryDiagnosis:
		s.Diagnosis = items
	case patterns.CategoryTreatment:
		s.ClinicalTreatment = items
	case patterns.CategoryHistory:
		s.MedicalHistory = items
	}
}
