package bloodwork

import (
	"bytes"
	"image"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
)

// extractWithOCR rasterizes each page, binarizes the image, and runs OCR
// tuned for sparse structured text, then reuses the free-text line scan.
func (e *Extractor) extractWithOCR(path string) ([]BloodTestRaw, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, newProcessingError("ocr extraction failed", ErrTypeOCR,
			map[string]any{"error": err.Error()})
	}
	defer doc.Close()

	client := gosseract.NewClient()
	defer client.Close()

	// Lab reports are sparse label/value layouts, not prose.
	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		return nil, newProcessingError("ocr extraction failed", ErrTypeOCR,
			map[string]any{"error": err.Error()})
	}

	var text strings.Builder

	for pageNum := 0; pageNum < doc.NumPage(); pageNum++ {
		img, err := doc.Image(pageNum)
		if err != nil {
			continue
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, binarize(img)); err != nil {
			continue
		}

		if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
			continue
		}

		pageText, err := client.Text()
		if err != nil {
			continue
		}

		text.WriteString(pageText)
		text.WriteString("\n")
	}

	if strings.TrimSpace(text.String()) == "" {
		return nil, newProcessingError("ocr extraction failed", ErrTypeOCR,
			map[string]any{"error": "ocr could not extract any text"})
	}

	results := e.parseFreeText(text.String())
	if len(results) == 0 {
		return nil, newProcessingError("ocr extraction failed", ErrTypeOCR,
			map[string]any{"error": "no test patterns matched in ocr text"})
	}

	return results, nil
}

// binarize converts a page image to black and white with Otsu's threshold
// and applies a small morphological close to heal broken glyph strokes.
func binarize(img image.Image) *image.Gray {
	gray := grayscale(img)
	threshold := otsuThreshold(gray)

	bounds := gray.Bounds()
	bin := image.NewGray(bounds)

	for i, v := range gray.Pix {
		if v > threshold {
			bin.Pix[i] = 255
		} else {
			bin.Pix[i] = 0
		}
	}

	return morphologicalClose(bin)
}

func grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	bounds := img.Bounds()
	gray := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, img.At(x, y))
		}
	}

	return gray
}

// otsuThreshold picks the cut that maximizes between-class variance of
// the luminance histogram.
func otsuThreshold(gray *image.Gray) uint8 {
	var histogram [256]int
	for _, v := range gray.Pix {
		histogram[v]++
	}

	total := len(gray.Pix)
	if total == 0 {
		return 128
	}

	var sum float64
	for i, count := range histogram {
		sum += float64(i) * float64(count)
	}

	var (
		sumBack    float64
		weightBack int
		maxVar     float64
		threshold  uint8
	)

	for i, count := range histogram {
		weightBack += count
		if weightBack == 0 {
			continue
		}

		weightFore := total - weightBack
		if weightFore == 0 {
			break
		}

		sumBack += float64(i) * float64(count)

		meanBack := sumBack / float64(weightBack)
		meanFore := (sum - sumBack) / float64(weightFore)

		diff := meanBack - meanFore
		variance := float64(weightBack) * float64(weightFore) * diff * diff

		if variance > maxVar {
			maxVar = variance
			threshold = uint8(i)
		}
	}

	return threshold
}

// morphologicalClose runs a 3x3 dilation followed by a 3x3 erosion on a
// binary image, treating black (0) as foreground ink.
func morphologicalClose(bin *image.Gray) *image.Gray {
	return erode(dilate(bin))
}

func dilate(bin *image.Gray) *image.Gray {
	return applyKernel(bin, func(hasInk bool) uint8 {
		if hasInk {
			return 0
		}

		return 255
	}, true)
}

func erode(bin *image.Gray) *image.Gray {
	return applyKernel(bin, func(allInk bool) uint8 {
		if allInk {
			return 0
		}

		return 255
	}, false)
}

// applyKernel scans the 3x3 neighborhood of every pixel. With anyMode it
// reports whether any neighbor is ink; otherwise whether all are.
func applyKernel(bin *image.Gray, decide func(bool) uint8, anyMode bool) *image.Gray {
	bounds := bin.Bounds()
	out := image.NewGray(bounds)

	width := bounds.Dx()
	height := bounds.Dy()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			match := !anyMode

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= width || ny >= height {
						continue
					}

					ink := bin.Pix[ny*bin.Stride+nx] == 0
					if anyMode && ink {
						match = true
					} else if !anyMode && !ink {
						match = false
					}
				}
			}

			out.Pix[y*out.Stride+x] = decide(match)
		}
	}

	return out
}
