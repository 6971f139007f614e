package bloodwork

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/clinscan/clinscan/pkg/fuzzy"
)

// Row grouping tolerances, in PDF points.
const (
	rowYTolerance = 2.0
	cellGapMin    = 14.0
)

// extractFromTables recovers readings from tabular layouts: text elements
// are grouped into rows by baseline, rows split into cells on horizontal
// gaps, and columns resolved by matching the header row against the
// table-header synonym lists.
func (e *Extractor) extractFromTables(path string) (results []BloodTestRaw, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = newProcessingError("table extraction failed", ErrTypeTable,
				map[string]any{"error": fmt.Sprint(r)})
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, newProcessingError("table extraction failed", ErrTypeTable,
			map[string]any{"error": err.Error()})
	}
	defer f.Close()

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		rows := groupRows(page.Content().Text)
		results = append(results, e.scanTableRows(rows)...)
	}

	if len(results) == 0 {
		return nil, newProcessingError("table extraction failed", ErrTypeTable,
			map[string]any{"error": "no recognizable tables found"})
	}

	return results, nil
}

// scanTableRows finds a header row naming the test/value columns and reads
// the rows below it. Rows lacking a resolvable name+value pair are skipped.
func (e *Extractor) scanTableRows(rows [][]string) []BloodTestRaw {
	var results []BloodTestRaw

	nameCol, valueCol, unitCol := -1, -1, -1

	for _, cells := range rows {
		if nameCol < 0 || valueCol < 0 {
			nameCol, valueCol, unitCol = e.resolveColumns(cells)
			continue
		}

		if len(cells) <= nameCol || len(cells) <= valueCol {
			continue
		}

		name := strings.TrimSpace(cells[nameCol])
		if name == "" {
			continue
		}

		value, ok := parseNumber(cells[valueCol])
		if !ok {
			continue
		}

		unit := ""
		if unitCol >= 0 && len(cells) > unitCol {
			unit = strings.TrimSpace(cells[unitCol])
		}

		results = append(results, BloodTestRaw{TestName: name, Value: value, Unit: unit})
	}

	return results
}

// resolveColumns matches header cells against the synonym lists. Exact
// containment is tried first, then a fuzzy match for OCR-mangled headers.
func (e *Extractor) resolveColumns(cells []string) (nameCol, valueCol, unitCol int) {
	nameCol, valueCol, unitCol = -1, -1, -1

	for i, cell := range cells {
		header := strings.ToLower(strings.TrimSpace(cell))
		if header == "" {
			continue
		}

		switch {
		case nameCol < 0 && e.matchesHeader(header, e.lib.TableHeaderNames):
			nameCol = i
		case valueCol < 0 && e.matchesHeader(header, e.lib.TableHeaderValues):
			valueCol = i
		case unitCol < 0 && e.matchesHeader(header, e.lib.TableHeaderUnits):
			unitCol = i
		}
	}

	if nameCol < 0 || valueCol < 0 {
		return -1, -1, -1
	}

	return nameCol, valueCol, unitCol
}

func (e *Extractor) matchesHeader(header string, synonyms []string) bool {
	for _, syn := range synonyms {
		if strings.Contains(header, syn) {
			return true
		}
	}

	_, score := fuzzy.BestMatch(header, synonyms)

	return score >= e.opts.FuzzyThreshold
}

// groupRows buckets text elements into visual rows by baseline, sorts them
// top to bottom, and splits each row into cells on horizontal gaps.
func groupRows(texts []pdf.Text) [][]string {
	type bucket struct {
		y     float64
		texts []pdf.Text
	}

	var buckets []*bucket

	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}

		placed := false

		for _, b := range buckets {
			if t.Y >= b.y-rowYTolerance && t.Y <= b.y+rowYTolerance {
				b.texts = append(b.texts, t)
				placed = true

				break
			}
		}

		if !placed {
			buckets = append(buckets, &bucket{y: t.Y, texts: []pdf.Text{t}})
		}
	}

	// PDF y grows upward, so higher baselines come first.
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].y > buckets[j].y })

	rows := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		sort.Slice(b.texts, func(i, j int) bool { return b.texts[i].X < b.texts[j].X })
		rows = append(rows, splitCells(b.texts))
	}

	return rows
}

func splitCells(texts []pdf.Text) []string {
	var (
		cells []string
		cell  strings.Builder
		prev  *pdf.Text
	)

	flush := func() {
		if s := strings.TrimSpace(cell.String()); s != "" {
			cells = append(cells, s)
		}

		cell.Reset()
	}

	for i := range texts {
		t := texts[i]

		if prev != nil && t.X-(prev.X+prev.W) > cellGapMin {
			flush()
		}

		cell.WriteString(t.S)

		prev = &texts[i]
	}

	flush()

	return cells
}
