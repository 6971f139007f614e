package sections

import (
	"strings"

	"github.com/clinscan/clinscan/internal/patterns"
)

// validator is a category-specific acceptance gate. valid is the boolean
// precision filter; score grades how strongly an item belongs to the
// category, for reconciliation.
type validator interface {
	valid(item string) bool
	score(item string) int
}

func newValidators(lib *patterns.Library) map[patterns.Category]validator {
	return map[patterns.Category]validator{
		patterns.CategoryDiagnosis: &diagnosisValidator{lib: lib},
		patterns.CategoryTreatment: &treatmentValidator{lib: lib},
		patterns.CategoryHistory:   &historyValidator{lib: lib},
	}
}

// rejectCommon filters fragments no category should keep: too-short
// strings, bare number+unit readings, and bare dates.
func rejectCommon(lib *patterns.Library, item string) bool {
	if len(item) < 3 {
		return true
	}

	if lib.NumericUnitOnly.MatchString(item) {
		return true
	}

	if lib.DateOnly.MatchString(item) {
		return true
	}

	switch strings.ToLower(item) {
	case "none", "nil", "no", "yes", "normal":
		return true
	}

	return false
}

func containsConditionKeyword(lib *patterns.Library, item string) bool {
	lower := strings.ToLower(item)
	for _, keyword := range lib.ConditionKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}

	return false
}

type diagnosisValidator struct {
	lib *patterns.Library
}

func (v *diagnosisValidator) valid(item string) bool {
	if rejectCommon(v.lib, item) {
		return false
	}

	return containsConditionKeyword(v.lib, item) || v.lib.Qualifiers.MatchString(item)
}

func (v *diagnosisValidator) score(item string) int {
	if rejectCommon(v.lib, item) {
		return 0
	}

	score := 0
	if containsConditionKeyword(v.lib, item) {
		score += 2
	}

	if v.lib.DiagnosticVerbs.MatchString(item) {
		score += 2
	}

	if v.lib.Qualifiers.MatchString(item) {
		score++
	}

	return score
}

type treatmentValidator struct {
	lib *patterns.Library
}

func (v *treatmentValidator) valid(item string) bool {
	if rejectCommon(v.lib, item) {
		return false
	}

	return v.lib.Dosage.MatchString(item) ||
		v.matchesMedication(item) ||
		v.lib.AdminVerbs.MatchString(item)
}

func (v *treatmentValidator) score(item string) int {
	if rejectCommon(v.lib, item) {
		return 0
	}

	score := 0
	if v.lib.Dosage.MatchString(item) {
		score += 2
	}

	if v.matchesMedication(item) {
		score += 2
	}

	if v.lib.AdminVerbs.MatchString(item) {
		score++
	}

	return score
}

// matchesMedication recognizes known drug names and drug-name suffixes on
// any word of the item.
func (v *treatmentValidator) matchesMedication(item string) bool {
	lower := strings.ToLower(item)

	for _, name := range v.lib.MedicationNames {
		if strings.Contains(lower, name) {
			return true
		}
	}

	for _, word := range strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z')
	}) {
		if len(word) < 5 {
			continue
		}

		for _, suffix := range v.lib.MedicationSuffixes {
			if strings.HasSuffix(word, suffix) {
				return true
			}
		}
	}

	return false
}

type historyValidator struct {
	lib *patterns.Library
}

func (v *historyValidator) valid(item string) bool {
	if rejectCommon(v.lib, item) {
		return false
	}

	// History entries frequently restate a diagnosis in past tense, so the
	// condition vocabulary counts as acceptance evidence here too.
	return v.lib.Temporal.MatchString(item) ||
		v.lib.FamilyHistory.MatchString(item) ||
		containsConditionKeyword(v.lib, item)
}

func (v *historyValidator) score(item string) int {
	if rejectCommon(v.lib, item) {
		return 0
	}

	score := 0
	if v.lib.Temporal.MatchString(item) {
		score += 2
	}

	if v.lib.FamilyHistory.MatchString(item) {
		score += 2
	}

	if containsConditionKeyword(v.lib, item) {
		score++
	}

	return score
}
