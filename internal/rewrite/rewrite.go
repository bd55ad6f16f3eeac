package rewrite

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var (
	// ErrLoad means the bytes do not load as a structurally valid PDF. The
	// extractor already read them once, but text extraction tolerates more
	// than a full structural load, so this is re-checked here.
	ErrLoad = errors.New("could not load PDF")
	// ErrRewrite covers drawing and serialization failures.
	ErrRewrite = errors.New("could not rewrite PDF")
)

// Overlay geometry: an opaque white region near the top of the first page,
// 50pt in from the left edge, spanning width-100pt, 80pt tall, starting
// about 100pt down from the top. This is a layout guess, not a measured
// location of the existing intro.
const (
	regionLeft   = 50.0
	regionTop    = 100.0
	regionHeight = 80.0
	fontPoints   = 12
	// Average Helvetica glyph width at 1em, used to wrap lines into the region.
	avgGlyphWidthEm = 0.5
)

// ReplaceIntro returns a new PDF with the first page's intro region
// whited out and newIntro drawn inside it. The original bytes are never
// modified.
func ReplaceIntro(original []byte, newIntro string) ([]byte, error) {
	intro := strings.TrimSpace(newIntro)
	if intro == "" {
		return nil, fmt.Errorf("%w: empty intro", ErrRewrite)
	}

	conf := newConfiguration()

	ctx, err := api.ReadContext(bytes.NewReader(original), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	dims, err := ctx.PageDims()
	if err != nil || len(dims) == 0 {
		return nil, fmt.Errorf("%w: no pages", ErrLoad)
	}
	pageWidth := dims[0].Width

	wm, err := introWatermark(intro, pageWidth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRewrite, err)
	}

	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(original), &out, []string{"1"}, wm, conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRewrite, err)
	}
	return out.Bytes(), nil
}

// introWatermark builds an opaque stamp: black 12pt Helvetica on a white
// background box anchored at the top-left overlay region.
func introWatermark(intro string, pageWidth float64) (*model.Watermark, error) {
	desc := fmt.Sprintf(
		"fontname:Helvetica, points:%d, scalefactor:1 abs, pos:tl, offset:%d -%d, aligntext:left, fillcolor:#000000, bgcolor:#FFFFFF, rot:0, margins:10, opacity:1",
		fontPoints, int(regionLeft), int(regionTop),
	)
	return api.TextWatermark(wrapText(intro, maxLineChars(pageWidth)), desc, true, false, types.POINTS)
}

// maxLineChars estimates how many 12pt Helvetica characters fit the region.
func maxLineChars(pageWidth float64) int {
	usable := pageWidth - 2*regionLeft
	if usable <= 0 {
		usable = pageWidth
	}
	n := int(usable / (fontPoints * avgGlyphWidthEm))
	if n < 20 {
		n = 20
	}
	return n
}

// wrapText folds the intro into lines of at most width characters so the
// stamp stays inside the overlay region. Words longer than a line are kept
// whole; model output never produces them in practice.
func wrapText(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}
	var (
		lines []string
		line  strings.Builder
	)
	for _, word := range words {
		if line.Len() == 0 {
			line.WriteString(word)
			continue
		}
		if line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
			continue
		}
		line.WriteString(" ")
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
