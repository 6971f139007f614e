package reference

import "fmt"

// Status is the classification of a reading against its normal range.
type Status string

const (
	StatusNormal Status = "normal"
	StatusHigh   Status = "high"
	StatusLow    Status = "low"
)

// Severity grades how far outside the normal range a reading falls. The
// empty value means abnormal but below any defined severity cutoff.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
)

// InvalidUnitError reports a reading whose unit does not match the table's
// canonical unit for the test. A mismatch almost always means the caller
// mixed up test identities, so it is a hard error rather than a skip.
type InvalidUnitError struct {
	TestName string
	Got      string
	Want     string
}

func (e *InvalidUnitError) Error() string {
	return fmt.Sprintf("invalid unit for %s: got %q, expected %q", e.TestName, e.Got, e.Want)
}

// UnknownTestError reports a test name absent from the reference table.
type UnknownTestError struct {
	TestName string
}

func (e *UnknownTestError) Error() string {
	return fmt.Sprintf("no reference range for test %q", e.TestName)
}

// Input is one reading to classify.
type Input struct {
	TestName string  `json:"testName"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit"`
}

// Result is the classified form of one reading. NormalRange always comes
// from the reference table, never from the source document.
type Result struct {
	TestName    string   `json:"testName"`
	Value       float64  `json:"value"`
	Unit        string   `json:"unit"`
	NormalRange string   `json:"normalRange"`
	Status      Status   `json:"status"`
	Severity    Severity `json:"severity,omitempty"`
	Suggestion  string   `json:"suggestion,omitempty"`
}

// Classify maps one reading to its status, severity, and suggestion.
// It returns UnknownTestError for names outside the table and
// InvalidUnitError on a unit mismatch.
func (t *Table) Classify(in Input, sex Sex) (*Result, error) {
	name := canonicalName(in.TestName)

	ref, ok := t.ranges[name]
	if !ok {
		return nil, &UnknownTestError{TestName: in.TestName}
	}

	if in.Unit != ref.Unit {
		return nil, &InvalidUnitError{TestName: in.TestName, Got: in.Unit, Want: ref.Unit}
	}

	bounds := ref.bounds(sex)
	status, severity := grade(in.Value, bounds, ref)

	result := &Result{
		TestName:    in.TestName,
		Value:       in.Value,
		Unit:        in.Unit,
		NormalRange: bounds.String(),
		Status:      status,
		Severity:    severity,
	}

	if status != StatusNormal {
		result.Suggestion = t.suggestion(name, status, severity)
	}

	return result, nil
}

// grade applies the status step function and the meets-or-exceeds (high) /
// meets-or-is-below (low) severity cutoffs.
func grade(value float64, bounds Bounds, ref *Range) (Status, Severity) {
	switch {
	case value < bounds.Min:
		return StatusLow, lowSeverity(value, ref.Low)
	case value > bounds.Max:
		return StatusHigh, highSeverity(value, ref.High)
	default:
		return StatusNormal, ""
	}
}

func highSeverity(value float64, tier *Tier) Severity {
	if tier == nil {
		return ""
	}

	switch {
	case value >= tier.Moderate:
		return SeverityModerate
	case value >= tier.Mild:
		return SeverityMild
	default:
		return ""
	}
}

func lowSeverity(value float64, tier *Tier) Severity {
	if tier == nil {
		return ""
	}

	switch {
	case value <= tier.Moderate:
		return SeverityModerate
	case value <= tier.Mild:
		return SeverityMild
	default:
		return ""
	}
}
