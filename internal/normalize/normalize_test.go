package normalize

import (
	"testing"

	"github.com/clinscan/clinscan/internal/patterns"
)

func newTestNormalizer() *Normalizer {
	return New(patterns.Default())
}

func TestNormalize(t *testing.T) {
	n := newTestNormalizer()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "   \n\t ",
			expected: "",
		},
		{
			name:     "subword markers collapse",
			input:    "nephr ##itis suspected",
			expected: "nephr itis suspected",
		},
		{
			name:     "hyphenated line wrap",
			input:    "patient has hyper- \ntension",
			expected: "patient has hypertension",
		},
		{
			name:     "whitespace collapse",
			input:    "too    many\t spaces",
			expected: "too many spaces",
		},
		{
			name:     "abbreviation expansion",
			input:    "known HTN, r/o t2dm",
			expected: "known hypertension, r/o type 2 diabetes mellitus",
		},
		{
			name:     "number unit spacing",
			input:    "metformin 500mg twice daily",
			expected: "metformin 500 mg twice daily",
		},
		{
			name:     "age expression",
			input:    "45yr old male",
			expected: "45 years old male",
		},
		{
			name:     "age expression shorthand",
			input:    "62 y/o female",
			expected: "62 years old female",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.Normalize(tc.input); got != tc.expected {
				t.Errorf("Normalize(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := newTestNormalizer()

	input := "Patient diagnosed with HTN.\nPrescribed atenolol 50mg daily.\n\n\nHistory of t2dm since 2015."

	once := n.Normalize(input)
	twice := n.Normalize(once)

	if once != twice {
		t.Errorf("normalization not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestNormalizeNeverPanicsOnJunk(t *testing.T) {
	n := newTestNormalizer()

	inputs := []string{
		"\x00\x01\x02",
		"##",
		"- \n",
		"—’“",
		"9999999yr old",
	}

	for _, input := range inputs {
		_ = n.Normalize(input)
	}
}
