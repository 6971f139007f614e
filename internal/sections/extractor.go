// Package sections classifies fragments of a clinical narrative into
// diagnosis, treatment, and history buckets using a cascade of
// header-anchored capture, trigger-phrase scanning, and entity patterns,
// followed by validation, deduplication, and cross-reference reconciliation.
package sections

import (
	"regexp"
	"strings"

	"github.com/clinscan/clinscan/internal/normalize"
	"github.com/clinscan/clinscan/internal/patterns"
)

// Extractor runs the classification cascade. It is stateless per call and
// safe for concurrent use.
type Extractor struct {
	lib        *patterns.Library
	norm       *normalize.Normalizer
	validators map[patterns.Category]validator

	sentenceEnd *regexp.Regexp
	itemSplit   *regexp.Regexp
	spaceRun    *regexp.Regexp
}

// New creates a section extractor backed by the given pattern library.
func New(lib *patterns.Library) *Extractor {
	return &Extractor{
		lib:         lib,
		norm:        normalize.New(lib),
		validators:  newValidators(lib),
		sentenceEnd: regexp.MustCompile(`([.!?])\s+`),
		itemSplit:   regexp.MustCompile(`[;•]\s*|\n+`),
		spaceRun:    regexp.MustCompile(`\s+`),
	}
}

// Extract classifies every meaningful fragment of text. Empty or
// whitespace-only input yields empty lists; the call never fails.
//
// All cascade stages run and their candidates are unioned: later stages
// boost recall rather than replace earlier ones. Candidates failing their
// category validator are dropped silently.
func (e *Extractor) Extract(text string) *Sections {
	result := &Sections{
		Diagnosis:         []string{},
		ClinicalTreatment: []string{},
		MedicalHistory:    []string{},
	}

	cleaned := e.norm.Normalize(text)
	if cleaned == "" {
		return result
	}

	bucket := map[patterns.Category][]string{}

	// Stage 1: header-anchored capture.
	for cat, items := range e.extractHeaderSections(cleaned) {
		bucket[cat] = append(bucket[cat], items...)
	}

	// Stages 2 and 3: sentence trigger scan and entity-pattern scan.
	sentences := e.splitSentences(cleaned)
	for _, sentence := range sentences {
		for _, cat := range patterns.Categories() {
			if e.matchesTrigger(sentence, cat) {
				bucket[cat] = append(bucket[cat], sentence)
			}
		}

		if e.lib.Dosage.MatchString(sentence) {
			bucket[patterns.CategoryTreatment] = append(bucket[patterns.CategoryTreatment], sentence)
		}

		if e.lib.Temporal.MatchString(sentence) {
			bucket[patterns.CategoryHistory] = append(bucket[patterns.CategoryHistory], sentence)
		}

		if e.lib.DiagnosticVerbs.MatchString(sentence) {
			bucket[patterns.CategoryDiagnosis] = append(bucket[patterns.CategoryDiagnosis], sentence)
		}
	}

	// Stage 4: validate, then dedup preserving first-seen order.
	for _, cat := range patterns.Categories() {
		result.set(cat, e.validateAndDedup(cat, bucket[cat]))
	}

	// Stage 5: one-shot cross-reference reconciliation.
	e.reconcile(result)

	return result
}

// extractHeaderSections captures text under explicit section headers until
// the next header or blank line, then splits the block into items.
func (e *Extractor) extractHeaderSections(text string) map[patterns.Category][]string {
	found := map[patterns.Category][]string{}

	lines := strings.Split(text, "\n")

	var (
		current   patterns.Category
		capturing bool
		block     []string
	)

	flush := func() {
		if !capturing || len(block) == 0 {
			return
		}

		for _, item := range e.splitBlock(strings.Join(block, "\n")) {
			found[current] = append(found[current], item)
		}

		block = block[:0]
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flush()
			capturing = false

			continue
		}

		if m := e.lib.AnyHeader().FindStringSubmatch(trimmed); m != nil {
			flush()

			cat, known := e.lib.HeaderCategory(m[1])
			if !known {
				capturing = false
				continue
			}

			current = cat
			capturing = true

			if rest := strings.TrimSpace(m[2]); rest != "" {
				block = append(block, rest)
			}

			continue
		}

		if capturing {
			block = append(block, trimmed)
		}
	}

	flush()

	return found
}

// splitBlock breaks a captured section body into individual items on
// bullet markers, list numbering, and sentence boundaries.
func (e *Extractor) splitBlock(block string) []string {
	var items []string

	for _, piece := range e.itemSplit.Split(block, -1) {
		for _, sentence := range e.splitSentences(piece) {
			if strings.TrimSpace(sentence) != "" {
				items = append(items, sentence)
			}
		}
	}

	return items
}

// splitSentences splits on sentence-ending punctuation followed by
// whitespace. Newlines are treated as spaces so wrapped sentences stay
// whole.
func (e *Extractor) splitSentences(text string) []string {
	flat := strings.ReplaceAll(text, "\n", " ")
	marked := e.sentenceEnd.ReplaceAllString(flat, "$1\x00")

	var sentences []string

	for _, s := range strings.Split(marked, "\x00") {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}

	return sentences
}

func (e *Extractor) matchesTrigger(sentence string, cat patterns.Category) bool {
	lower := strings.ToLower(sentence)
	for _, trigger := range e.lib.Triggers[cat] {
		if strings.Contains(lower, trigger) {
			return true
		}
	}

	return false
}

// validateAndDedup cleans each candidate, applies the category validator,
// and removes case-insensitive duplicates while preserving order.
func (e *Extractor) validateAndDedup(cat patterns.Category, cands []string) []string {
	v := e.validators[cat]

	items := []string{}
	seen := map[string]bool{}

	for _, cand := range cands {
		item := e.cleanItem(cand)
		if item == "" {
			continue
		}

		if !v.valid(item) {
			continue // precision filter, not an error
		}

		key := strings.ToLower(item)
		if seen[key] {
			continue
		}

		seen[key] = true
		items = append(items, item)
	}

	return items
}

// cleanItem strips list markers, filler phrases, trailing punctuation, and
// whitespace runs from a candidate.
func (e *Extractor) cleanItem(text string) string {
	item := strings.TrimSpace(text)

	for _, marker := range e.lib.BulletMarkers {
		item = marker.ReplaceAllString(item, "")
	}

	for _, filler := range e.lib.FillerPhrases {
		item = filler.ReplaceAllString(item, "")
	}

	item = e.spaceRun.ReplaceAllString(item, " ")
	item = strings.Trim(item, " .,:;-")

	return item
}

// tiePrecedence orders categories for score ties during reconciliation.
// History and treatment cues (temporal markers, family mentions, dosages)
// are narrower signals than condition keywords, which show up in almost
// any clinical sentence, so they take priority.
var tiePrecedence = []patterns.Category{
	patterns.CategoryHistory,
	patterns.CategoryTreatment,
	patterns.CategoryDiagnosis,
}

// reconcile assigns every retained item to exactly one category. Each
// unique item is scored once against all validators and placed under the
// single winner, so an item captured by several stages cannot survive in
// two categories. The pass runs exactly once, not to a fixpoint.
func (e *Extractor) reconcile(result *Sections) {
	winner := map[string]patterns.Category{}

	for _, cat := range patterns.Categories() {
		for _, item := range result.Items(cat) {
			key := strings.ToLower(item)
			if _, done := winner[key]; done {
				continue
			}

			winner[key] = e.primaryCategory(item, cat)
		}
	}

	resolved := &Sections{
		Diagnosis:         []string{},
		ClinicalTreatment: []string{},
		MedicalHistory:    []string{},
	}

	for _, cat := range patterns.Categories() {
		for _, item := range result.Items(cat) {
			appendUnique(resolved, winner[strings.ToLower(item)], item)
		}
	}

	*result = *resolved
}

// primaryCategory scores an item against every category in tiePrecedence
// order and returns the best fit; on equal scores the earlier category
// wins. The origin category applies only when no validator accepts the
// item at all.
func (e *Extractor) primaryCategory(item string, origin patterns.Category) patterns.Category {
	best := origin
	bestScore := -1

	for _, cat := range tiePrecedence {
		v := e.validators[cat]
		if !v.valid(item) {
			continue
		}

		if score := v.score(item); score > bestScore {
			best = cat
			bestScore = score
		}
	}

	return best
}

func appendUnique(result *Sections, cat patterns.Category, item string) {
	key := strings.ToLower(item)
	for _, existing := range result.Items(cat) {
		if strings.ToLower(existing) == key {
			return
		}
	}

	result.set(cat, append(result.Items(cat), item))
}
