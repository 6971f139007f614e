package bloodwork

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// detectType classifies a PDF as digital or scanned. A substantial amount
// of first-page text means digital; otherwise each page quadrant is probed
// for stray text elements before falling back to scanned. Unreadable files
// yield unknown, which does not abort extraction.
func (e *Extractor) detectType(path string) (pdfType PDFType) {
	// The pdf package panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			pdfType = PDFTypeUnknown
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return PDFTypeUnknown
	}
	defer f.Close()

	if reader.NumPage() < 1 {
		return PDFTypeUnknown
	}

	page := reader.Page(1)
	if page.V.IsNull() {
		return PDFTypeUnknown
	}

	if text, err := page.GetPlainText(nil); err == nil {
		if len(strings.TrimSpace(text)) > e.opts.DigitalTextMin {
			return PDFTypeDigital
		}
	}

	if quadrantsHaveText(page) {
		return PDFTypeDigital
	}

	return PDFTypeScanned
}

// quadrantsHaveText probes the four quarters of the page for text
// elements, catching sparse digital pages the length threshold misses.
func quadrantsHaveText(page pdf.Page) bool {
	width, height, ok := pageSize(page)
	if !ok {
		return false
	}

	midX := width / 2
	midY := height / 2

	quadrants := [4]bool{}

	for _, t := range page.Content().Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}

		i := 0
		if t.X >= midX {
			i = 1
		}

		if t.Y >= midY {
			i += 2
		}

		quadrants[i] = true
	}

	for _, found := range quadrants {
		if found {
			return true
		}
	}

	return false
}

func pageSize(page pdf.Page) (width, height float64, ok bool) {
	box := page.V.Key("MediaBox")
	if box.IsNull() || box.Len() < 4 {
		return 0, 0, false
	}

	width = box.Index(2).Float64() - box.Index(0).Float64()
	height = box.Index(3).Float64() - box.Index(1).Float64()

	return width, height, width > 0 && height > 0
}
