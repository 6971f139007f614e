package icd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPreprocessExpandsShorthand(t *testing.T) {
	m := Default()

	got := m.Preprocess("Patient  has HTN and T2DM")
	want := "patient has hypertension and type 2 diabetes mellitus"

	if got != want {
		t.Errorf("Preprocess() = %q, want %q", got, want)
	}
}

func TestIdentify(t *testing.T) {
	m := Default()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "narrative with two conditions",
			text: "Patient diagnosed with type 2 diabetes and hypertension. Prescribed metformin and lisinopril.",
			want: []string{"E11.9", "I10"},
		},
		{
			name: "shorthand resolves through expansion",
			text: "Known case of T2DM.",
			want: []string{"E11.9"},
		},
		{
			name: "diagnosis phrase capture",
			text: "History of congestive heart failure.",
			want: []string{"I50.9"},
		},
		{
			name: "empty input",
			text: "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Identify(tt.text)

			if len(got) != len(tt.want) {
				t.Fatalf("Identify() = %v, want codes %v", got, tt.want)
			}

			for i, code := range got {
				if code.Code != tt.want[i] {
					t.Errorf("code[%d] = %s, want %s", i, code.Code, tt.want[i])
				}

				if code.Description == "" {
					t.Errorf("code %s has empty description", code.Code)
				}

				if code.Confidence != directMatchConfidence {
					t.Errorf("code %s confidence = %v, want %v", code.Code, code.Confidence, directMatchConfidence)
				}
			}
		})
	}
}

func TestIdentifySortedByCode(t *testing.T) {
	m := Default()

	got := m.Identify("Suffering from asthma, depression and chronic kidney disease.")

	for i := 1; i < len(got); i++ {
		if got[i-1].Code >= got[i].Code {
			t.Fatalf("codes not sorted: %v", got)
		}
	}

	if len(got) != 3 {
		t.Errorf("Identify() = %v, want 3 codes", got)
	}
}

func TestSearch(t *testing.T) {
	m := Default()

	got := m.Search("diabetes", 0)
	if len(got) == 0 {
		t.Fatal("Search(diabetes) returned nothing")
	}

	for _, entry := range got {
		if !strings.Contains(strings.ToLower(entry.Code), "diabetes") &&
			!strings.Contains(strings.ToLower(entry.Description), "diabetes") {
			t.Errorf("entry %v does not match the query", entry)
		}
	}

	if limited := m.Search("unspecified", 5); len(limited) > 5 {
		t.Errorf("Search() returned %d entries, limit was 5", len(limited))
	}
}

func TestMedications(t *testing.T) {
	got := Medications("Patient prescribed metformin 500mg twice daily and taking lisinopril. Aspirin 100 mg as needed.")

	want := []string{"Aspirin", "Lisinopril", "Metformin"}

	if len(got) != len(want) {
		t.Fatalf("Medications() = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("medication[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRecommendations(t *testing.T) {
	m := Default()

	codes := m.Identify("Diagnosed with type 2 diabetes and hypertension.")
	medications := []string{"Metformin"}

	got := Recommendations(codes, medications)

	for _, want := range []string{
		"Monitor blood glucose levels regularly",
		"Monitor blood pressure regularly",
		"Take all prescribed medications as directed",
	} {
		found := false
		for _, rec := range got {
			if rec == want {
				found = true
			}
		}

		if !found {
			t.Errorf("recommendations %v missing %q", got, want)
		}
	}

	seen := map[string]bool{}
	for _, rec := range got {
		if seen[rec] {
			t.Errorf("duplicate recommendation %q", rec)
		}

		seen[rec] = true
	}
}

func TestLoadCodeTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "codes.json")

	data := `[{"code": "Z99.9", "description": "Dependence on unspecified enabling machines and devices"}]`

	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := m.Search("Z99.9", 1); len(got) != 1 {
		t.Errorf("loaded code not searchable, got %v", got)
	}

	// Built-in descriptions survive underneath the overlay.
	if got := m.Identify("Diagnosed with hypertension."); len(got) != 1 || got[0].Code != "I10" {
		t.Errorf("Identify() = %v, want the built-in I10 entry", got)
	}
}
