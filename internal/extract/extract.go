// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract reads the crosswalk table from fixed pages of a PDF.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/crosswalk/pkg/types"
)

// DefaultColumnGap is the horizontal gap, in points, that separates cells.
const DefaultColumnGap = 6.0

// Extractor reads the crosswalk rows from the given pages of a document.
// Implementations return a *types.ExtractionError on failure.
type Extractor interface {
	Extract(ctx context.Context, path string, pages []int) (types.RawTable, error)
}

// PDFExtractor extracts tables by position from the text layer of a PDF.
type PDFExtractor struct {
	ColumnGap float64
}

// NewPDFExtractor returns a PDFExtractor configured from cfg.
func NewPDFExtractor(cfg types.ExtractConfig) *PDFExtractor {
	gap := cfg.ColumnGap
	if gap <= 0 {
		gap = DefaultColumnGap
	}
	return &PDFExtractor{ColumnGap: gap}
}

// Extract opens the PDF at path and tabulates the requested pages in order.
func (e *PDFExtractor) Extract(ctx context.Context, path string, pages []int) (types.RawTable, error) {
	if len(pages) == 0 {
		return types.RawTable{}, &types.ExtractionError{Source: path, Err: errors.New("no pages requested")}
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return types.RawTable{}, &types.ExtractionError{Source: path, Err: fmt.Errorf("opening PDF: %w", err)}
	}
	defer f.Close()

	numPages := r.NumPage()
	collected := make([]PageLines, 0, len(pages))
	for _, n := range pages {
		if err := ctx.Err(); err != nil {
			return types.RawTable{}, err
		}
		if n < 1 || n > numPages {
			return types.RawTable{}, &types.ExtractionError{
				Source: path,
				Page:   n,
				Err:    fmt.Errorf("page out of range (document has %d pages)", numPages),
			}
		}
		lines, err := readPage(r, n)
		if err != nil {
			return types.RawTable{}, &types.ExtractionError{Source: path, Page: n, Err: err}
		}
		collected = append(collected, PageLines{Page: n, Lines: lines})
	}

	rows, err := Tabulate(collected, e.ColumnGap)
	if err != nil {
		return types.RawTable{}, &types.ExtractionError{Source: path, Err: err}
	}
	return types.RawTable{Source: path, Rows: rows}, nil
}

// readPage converts one page's text rows to Lines. The PDF reader panics on
// some malformed content streams, so that is reported as an error.
func readPage(r *pdf.Reader, n int) (lines []Line, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed page content: %v", rec)
		}
	}()

	p := r.Page(n)
	if p.V.IsNull() {
		return nil, errors.New("page has no content")
	}
	rows, err := p.GetTextByRow()
	if err != nil {
		return nil, fmt.Errorf("reading text rows: %w", err)
	}

	for _, row := range rows {
		ln := Line{Y: float64(row.Position)}
		for _, t := range row.Content {
			ln.Glyphs = append(ln.Glyphs, Glyph{X: t.X, Y: t.Y, W: t.W, S: t.S})
		}
		lines = append(lines, ln)
	}
	return lines, nil
}
