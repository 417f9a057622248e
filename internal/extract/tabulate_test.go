// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/crosswalk/pkg/types"
)

// Column positions used by the fixtures below.
const (
	colCode = 72.0
	colCWF  = 200.0
	colDesc = 320.0
)

// line builds a Line from word runs placed at the given x positions. Each
// character advances 5pt so words are contiguous.
func line(y float64, cells map[float64]string) Line {
	ln := Line{Y: y}
	for x, s := range cells {
		for i, r := range s {
			ln.Glyphs = append(ln.Glyphs, Glyph{X: x + float64(i)*5, Y: y, W: 5, S: string(r)})
		}
	}
	return ln
}

func TestTabulate_BasicRows(t *testing.T) {
	pages := []PageLines{{
		Page: 7,
		Lines: []Line{
			line(700, map[float64]string{colCode: "01", colCWF: "01", colDesc: "Spouse"}),
			line(680, map[float64]string{colCode: "18", colCWF: "02", colDesc: "Self"}),
		},
	}}

	rows, err := Tabulate(pages, 0)
	require.NoError(t, err)
	assert.Equal(t, []types.RawRow{
		{Code: "01", CWFCode: "01", Description: "Spouse", Page: 7},
		{Code: "18", CWFCode: "02", Description: "Self", Page: 7},
	}, rows)
}

func TestTabulate_LinesSortedTopToBottom(t *testing.T) {
	pages := []PageLines{{
		Page: 7,
		Lines: []Line{
			line(680, map[float64]string{colCode: "18", colCWF: "02", colDesc: "Self"}),
			line(700, map[float64]string{colCode: "01", colCWF: "01", colDesc: "Spouse"}),
		},
	}}

	rows, err := Tabulate(pages, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "01", rows[0].Code)
	assert.Equal(t, "18", rows[1].Code)
}

func TestTabulate_ContinuationJoinsWithCarriageReturn(t *testing.T) {
	pages := []PageLines{{
		Page: 7,
		Lines: []Line{
			line(700, map[float64]string{colCode: "G8", colCWF: "08", colDesc: "Other"}),
			line(690, map[float64]string{colDesc: "Relationship"}),
		},
	}}

	rows, err := Tabulate(pages, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Other\rRelationship", rows[0].Description)
	assert.Equal(t, "08", rows[0].CWFCode)
}

func TestTabulate_WordGapInsertsSpace(t *testing.T) {
	// "Son" at colDesc followed by "in" 3pt later: a word gap, not a column.
	ln := line(700, map[float64]string{colCode: "07", colCWF: "07", colDesc: "Son"})
	ln.Glyphs = append(ln.Glyphs,
		Glyph{X: colDesc + 15 + 3, Y: 700, W: 5, S: "i"},
		Glyph{X: colDesc + 15 + 3 + 5, Y: 700, W: 5, S: "n"},
	)

	rows, err := Tabulate([]PageLines{{Page: 7, Lines: []Line{ln}}}, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Son in", rows[0].Description)
}

func TestTabulate_LinesBeforeFirstRecordIgnored(t *testing.T) {
	pages := []PageLines{{
		Page: 7,
		Lines: []Line{
			line(750, map[float64]string{colDesc: "stray caption"}),
			line(700, map[float64]string{colCode: "01", colCWF: "01", colDesc: "Spouse"}),
		},
	}}

	rows, err := Tabulate(pages, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Spouse", rows[0].Description)
}

func TestTabulate_FooterBelowTableIgnored(t *testing.T) {
	pages := []PageLines{{
		Page: 7,
		Lines: []Line{
			line(700, map[float64]string{colCode: "01", colCWF: "01", colDesc: "Spouse"}),
			line(680, map[float64]string{colCode: "19", colCWF: "03", colDesc: "Child"}),
			line(40, map[float64]string{300: "Page 7"}),
		},
	}}

	rows, err := Tabulate(pages, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Child", rows[1].Description)
	assert.Equal(t, "03", rows[1].CWFCode)
}

func TestTabulate_WideGapKeepsLaterRecords(t *testing.T) {
	pages := []PageLines{{
		Page: 8,
		Lines: []Line{
			line(760, map[float64]string{colCode: "HIPAA", colCWF: "CWF", colDesc: "Code Description"}),
			line(700, map[float64]string{colCode: "G8", colCWF: "08", colDesc: "Other"}),
			line(690, map[float64]string{colDesc: "Relationship"}),
			line(680, map[float64]string{colCode: "53", colCWF: "09", colDesc: "Life Partner"}),
			line(670, map[float64]string{colCode: "32,33", colCWF: "05", colDesc: "Mother"}),
			line(400, map[float64]string{colDesc: "Revision notes follow."}),
		},
	}}

	rows, err := Tabulate(pages, 0)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Code Description", rows[0].Description)
	assert.Equal(t, "Other\rRelationship", rows[1].Description)
	assert.Equal(t, "Mother", rows[3].Description)
}

func TestMaxLineGap(t *testing.T) {
	at := func(ys ...float64) []textLine {
		out := make([]textLine, len(ys))
		for i, y := range ys {
			out[i] = textLine{y: y}
		}
		return out
	}
	assert.True(t, math.IsInf(maxLineGap(at(700, 40)), 1))
	assert.Equal(t, 40.0, maxLineGap(at(700, 680, 40)))
	assert.Equal(t, 20.0, maxLineGap(at(700, 690, 680, 670, 400)))
}

func TestTabulate_AnchorsCarryAcrossPages(t *testing.T) {
	pages := []PageLines{
		{Page: 7, Lines: []Line{
			line(700, map[float64]string{colCode: "01", colCWF: "01", colDesc: "Spouse"}),
		}},
		{Page: 8, Lines: []Line{
			// Two cells only: this page has no three-cell line of its own.
			line(700, map[float64]string{colCode: "53", colDesc: "Life Partner"}),
		}},
	}

	rows, err := Tabulate(pages, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, types.RawRow{Code: "53", Description: "Life Partner", Page: 8}, rows[1])
}

func TestTabulate_HeaderKeptAsData(t *testing.T) {
	pages := []PageLines{{
		Page: 8,
		Lines: []Line{
			line(750, map[float64]string{colCode: "HIPAA", colCWF: "CWF", colDesc: "Code Description"}),
			line(700, map[float64]string{colCode: "32,33", colCWF: "01", colDesc: "Mother"}),
		},
	}}

	rows, err := Tabulate(pages, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "HIPAA", rows[0].Code)
	assert.Equal(t, "32,33", rows[1].Code)
}

func TestTabulate_NoTable(t *testing.T) {
	pages := []PageLines{{
		Page: 7,
		Lines: []Line{
			line(700, map[float64]string{colCode: "Just a paragraph"}),
		},
	}}

	_, err := Tabulate(pages, 0)
	assert.ErrorIs(t, err, ErrNoTable)

	_, err = Tabulate(nil, 0)
	assert.ErrorIs(t, err, ErrNoTable)
}

func TestAssignCells_NearestAnchor(t *testing.T) {
	anchors := []float64{colCode, colCWF, colDesc}
	frags := []fragment{
		{x: colCode + 4, text: "7"},
		{x: colCWF - 10, text: "1"},
		{x: colDesc + 20, text: "Other self"},
	}
	cells := assignCells(frags, anchors)
	assert.Equal(t, [columns]string{"7", "1", "Other self"}, cells)
}
