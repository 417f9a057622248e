// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/crosswalk/pkg/types"
)

// columns is the number of cells in a crosswalk record.
const columns = 3

// cellBreak joins the lines of a multi-line cell.
const cellBreak = "\r"

// ErrNoTable is returned when no line on the requested pages has the
// three-cell shape of the crosswalk table.
var ErrNoTable = errors.New("no recognizable table structure")

// Glyph is a positioned run of text on a page. X and Y are in PDF user
// space (Y grows upward) and W is the advance width of the run.
type Glyph struct {
	X, Y, W float64
	S       string
}

// Line is every glyph sharing one baseline.
type Line struct {
	Y      float64
	Glyphs []Glyph
}

// PageLines holds the lines of one page.
type PageLines struct {
	Page  int
	Lines []Line
}

// fragment is a run of glyphs with no column-sized gap inside it.
type fragment struct {
	x, end float64
	text   string
}

// maxPitchFactor bounds the vertical gap between a record and its
// continuation lines as a multiple of the page's median line pitch.
const maxPitchFactor = 2.0

// textLine is the merged fragments of one baseline.
type textLine struct {
	y     float64
	frags []fragment
}

// Tabulate turns positioned text into crosswalk records. Glyph runs closer
// than gap are merged into fragments. The first line of a page with exactly
// three fragments fixes that page's column positions; pages without such a
// line reuse the previous page's columns. A line whose first cell is empty
// continues the previous record, each cell's lines joined by a carriage
// return. A vertical gap of more than twice the page's median line pitch
// closes the current record: continuation lines after it are dropped until
// the next record starts.
func Tabulate(pages []PageLines, gap float64) ([]types.RawRow, error) {
	if gap <= 0 {
		gap = DefaultColumnGap
	}

	var (
		rows    []types.RawRow
		anchors []float64
	)
	for _, pg := range pages {
		lines := make([]textLine, 0, len(pg.Lines))
		for _, ln := range sortedLines(pg.Lines) {
			if frags := mergeFragments(ln.Glyphs, gap); len(frags) > 0 {
				lines = append(lines, textLine{y: ln.Y, frags: frags})
			}
		}

		if a := findAnchors(lines); a != nil {
			anchors = a
		}
		if anchors == nil {
			continue
		}

		cells := make([][columns]string, len(lines))
		first := -1
		for i, ln := range lines {
			cells[i] = assignCells(ln.frags, anchors)
			if first < 0 && cells[i][0] != "" {
				first = i
			}
		}
		if first < 0 {
			continue
		}
		limit := maxLineGap(lines[first:])

		var current *types.RawRow
		for i := first; i < len(lines); i++ {
			if i > first && lines[i-1].y-lines[i].y > limit {
				current = nil
			}
			c := cells[i]
			if c[0] != "" {
				rows = append(rows, types.RawRow{
					Code:        c[0],
					CWFCode:     c[1],
					Description: c[2],
					Page:        pg.Page,
				})
				current = &rows[len(rows)-1]
				continue
			}
			if current == nil {
				continue
			}
			current.CWFCode = appendLine(current.CWFCode, c[1])
			current.Description = appendLine(current.Description, c[2])
		}
	}

	if len(rows) == 0 {
		return nil, ErrNoTable
	}
	return rows, nil
}

// maxLineGap returns the largest vertical gap allowed between consecutive
// lines of a table: maxPitchFactor times the lower median pitch. With fewer
// than two pitches there is nothing to compare against and any gap passes.
func maxLineGap(lines []textLine) float64 {
	if len(lines) < 3 {
		return math.Inf(1)
	}
	pitches := make([]float64, 0, len(lines)-1)
	for i := 1; i < len(lines); i++ {
		pitches = append(pitches, lines[i-1].y-lines[i].y)
	}
	sort.Float64s(pitches)
	return maxPitchFactor * pitches[(len(pitches)-1)/2]
}

// sortedLines orders lines top to bottom.
func sortedLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Y > out[j].Y })
	return out
}

func mergeFragments(glyphs []Glyph, gap float64) []fragment {
	sorted := make([]Glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var (
		out []fragment
		cur *fragment
	)
	for _, g := range sorted {
		if g.S == "" {
			continue
		}
		if cur != nil {
			d := g.X - cur.end
			if d <= gap {
				// Glyph-level PDFs carry no space glyphs between words.
				if d > gap/3 && !strings.HasSuffix(cur.text, " ") && !strings.HasPrefix(g.S, " ") {
					cur.text += " "
				}
				cur.text += g.S
				cur.end = math.Max(cur.end, g.X+g.W)
				continue
			}
			out = append(out, *cur)
		}
		cur = &fragment{x: g.X, end: g.X + g.W, text: g.S}
	}
	if cur != nil {
		out = append(out, *cur)
	}

	kept := out[:0]
	for _, f := range out {
		f.text = strings.TrimSpace(f.text)
		if f.text != "" {
			kept = append(kept, f)
		}
	}
	return kept
}

func findAnchors(lines []textLine) []float64 {
	for _, ln := range lines {
		if len(ln.frags) == columns {
			return []float64{ln.frags[0].x, ln.frags[1].x, ln.frags[2].x}
		}
	}
	return nil
}

// assignCells places each fragment in the column whose anchor is nearest.
func assignCells(frags []fragment, anchors []float64) [columns]string {
	var cells [columns]string
	for _, f := range frags {
		best := 0
		for i := 1; i < len(anchors); i++ {
			if math.Abs(f.x-anchors[i]) < math.Abs(f.x-anchors[best]) {
				best = i
			}
		}
		if cells[best] == "" {
			cells[best] = f.text
		} else {
			cells[best] += " " + f.text
		}
	}
	return cells
}

func appendLine(cell, line string) string {
	switch {
	case line == "":
		return cell
	case cell == "":
		return line
	default:
		return cell + cellBreak + line
	}
}
