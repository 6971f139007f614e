package reference

// suggestion returns the advisory text for an abnormal reading. Moderate
// severity appends a consultation clause to the base text.
func (t *Table) suggestion(name string, status Status, severity Severity) string {
	byStatus, ok := t.suggestions[name]
	if !ok {
		return ""
	}

	base := byStatus[status]
	if base == "" {
		return ""
	}

	if severity == SeverityModerate {
		return base + " Consultation recommended."
	}

	return base
}

func defaultSuggestions() map[string]map[Status]string {
	return map[string]map[Status]string{
		"hemoglobin": {
			StatusHigh: "Elevated hemoglobin may indicate polycythemia. Consider further evaluation.",
			StatusLow:  "Low hemoglobin may indicate anemia. Consider iron supplementation and dietary changes.",
		},
		"wbc": {
			StatusHigh: "Elevated WBC count may indicate infection or inflammation. Monitor closely.",
			StatusLow:  "Low WBC count may indicate reduced immune function. Monitor for infections.",
		},
		"platelets": {
			StatusHigh: "Elevated platelet count may indicate thrombocytosis. Monitor for clotting risks.",
			StatusLow:  "Low platelet count may increase bleeding risk. Monitor for bruising or bleeding.",
		},
		"glucose_fasting": {
			StatusHigh: "Elevated fasting glucose may indicate pre-diabetes or diabetes. Consider dietary changes.",
			StatusLow:  "Low blood sugar may cause fatigue and dizziness. Consider regular meal timing.",
		},
		"cholesterol_total": {
			StatusHigh: "Elevated cholesterol increases cardiovascular risk. Consider dietary modifications and exercise.",
		},
		"rbc": {
			StatusHigh: "Elevated RBC count may indicate polycythemia. Further evaluation recommended.",
			StatusLow:  "Low RBC count may indicate anemia. Consider iron status evaluation.",
		},
		"hematocrit": {
			StatusHigh: "Elevated hematocrit may indicate dehydration or polycythemia.",
			StatusLow:  "Low hematocrit may indicate anemia or overhydration.",
		},
		"mcv": {
			StatusHigh: "High MCV may indicate macrocytic anemia. Check B12 and folate levels.",
			StatusLow:  "Low MCV may indicate microcytic anemia. Check iron status.",
		},
		"mch": {
			StatusHigh: "High MCH may indicate macrocytic anemia.",
			StatusLow:  "Low MCH may indicate iron deficiency.",
		},
		"mchc": {
			StatusHigh: "High MCHC may indicate hereditary spherocytosis.",
			StatusLow:  "Low MCHC may indicate iron deficiency anemia.",
		},
	}
}
