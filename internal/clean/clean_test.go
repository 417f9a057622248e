// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clean

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/crosswalk/pkg/types"
)

func row(start, label string) types.CrosswalkRow {
	return types.CrosswalkRow{Start: start, Label: label, FmtName: types.FmtName, Type: types.FormatType}
}

func sampleRaw() []types.RawRow {
	return []types.RawRow{
		{Code: "HIPAA Individual\rRelationship Code", CWFCode: "CWF Patient\rRelationship Code", Description: "Code Description", Page: 7},
		{Code: "1", CWFCode: "01", Description: "Spouse", Page: 7},
		{Code: "7 ", CWFCode: "1", Description: "Other self", Page: 7},
		{Code: "G8", CWFCode: "08", Description: "Other\rRelationship", Page: 7},
		{Code: "32,33", CWFCode: "05", Description: "Mother", Page: 8},
		{Code: "53", CWFCode: "03", Description: "Life ? Partner", Page: 8},
		{Code: "HEADER-TEXT-2004", CWFCode: "-", Description: "ignore", Page: 8},
	}
}

func TestClean_EndToEnd(t *testing.T) {
	got, rep := New().Clean(sampleRaw())

	assert.Equal(t, []types.CrosswalkRow{
		row("01", "Spouse"),
		row("07", "Other self"),
		row("G8", "Other Relationship"),
		row("32", "Mother"),
		row("53", "Other"),
		row("33", "Mother"),
	}, got)

	assert.Equal(t, Report{
		Input:     7,
		Output:    6,
		Padded:    2,
		Dropped:   2,
		Relabeled: 1,
		Unwrapped: 1,
		Split:     true,
	}, rep)
}

func TestClean_OtherSelfScenario(t *testing.T) {
	got, _ := New().Clean([]types.RawRow{{Code: "7 ", CWFCode: "1", Description: "Other self"}})
	require.Len(t, got, 1)
	assert.Equal(t, types.CrosswalkRow{Start: "07", Label: "Other self", FmtName: "relcd", Type: "C"}, got[0])
}

func TestClean_HeaderTextDropped(t *testing.T) {
	got, rep := New().Clean([]types.RawRow{{Code: "HEADER-TEXT-2004", CWFCode: "-", Description: "ignore"}})
	assert.Empty(t, got)
	assert.Equal(t, 1, rep.Dropped)
}

func TestCleanRows_StartValues(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		want    string
		dropped bool
	}{
		{"single digit padded", "1", "01", false},
		{"single digit with spaces", "  9 ", "09", false},
		{"single letter padded", "A", "0A", false},
		{"two chars untouched", "18", "18", false},
		{"trimmed", " 19\t", "19", false},
		{"six chars kept", "ABCDEF", "ABCDEF", false},
		{"seven chars dropped", "ABCDEFG", "", true},
		{"long after trim dropped", "  Relationship  ", "", true},
		{"padding around short value kept", "   ABC   ", "ABC", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := New().CleanRows([]types.CrosswalkRow{row(tt.start, "label")})
			if tt.dropped {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Start)
		})
	}
}

func TestCleanRows_Labels(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{"plain", "Grandson or Granddaughter", "Grandson or Granddaughter"},
		{"question mark placeholder", "Step?son", "Other"},
		{"replacement char placeholder", "Step\uFFFDson", "Other"},
		{"placeholder wins over carriage return", "Foster\r?Child", "Other"},
		{"single carriage return", "Emancipated\rMinor", "Emancipated Minor"},
		{"every carriage return", "a\rb\rc", "a b c"},
		{"trailing carriage return kept as space", "Ward\r", "Ward "},
		{"newline untouched", "a\nb", "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := New().CleanRows([]types.CrosswalkRow{row("01", tt.label)})
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Label)
		})
	}
}

func TestCleanRows_CarriageReturnOnlyChange(t *testing.T) {
	label := "Handicapped\rDependent\r of  Insured"
	got, _ := New().CleanRows([]types.CrosswalkRow{row("01", label)})
	require.Len(t, got, 1)
	assert.NotContains(t, got[0].Label, "\r")
	assert.Equal(t, len(label), len(got[0].Label))
	assert.Equal(t, strings.ReplaceAll(label, "\r", " "), got[0].Label)
}

func TestCleanRows_SplitCompound(t *testing.T) {
	in := []types.CrosswalkRow{
		row("01", "Spouse"),
		{Start: "32,33", Label: "Mother\rFather", FmtName: types.FmtName, Type: types.FormatType},
		row("53", "Life Partner"),
	}

	got, rep := New().CleanRows(in)
	require.True(t, rep.Split)
	require.Len(t, got, 4)

	assert.Equal(t, row("32", "Mother Father"), got[1])
	assert.Equal(t, row("33", "Mother Father"), got[3])

	var codes []string
	for _, r := range got {
		codes = append(codes, r.Start)
		assert.NotEqual(t, "32,33", r.Start)
	}
	assert.Equal(t, []string{"01", "32", "53", "33"}, codes)
}

func TestCleanRows_NoCompound(t *testing.T) {
	got, rep := New().CleanRows([]types.CrosswalkRow{row("01", "Spouse")})
	assert.False(t, rep.Split)
	assert.Len(t, got, 1)
}

func TestCleanRows_Idempotent(t *testing.T) {
	c := New()
	once, _ := c.Clean(sampleRaw())
	twice, rep := c.CleanRows(once)

	assert.Equal(t, once, twice)
	assert.Equal(t, 0, rep.Padded)
	assert.Equal(t, 0, rep.Dropped)
	assert.Equal(t, 0, rep.Relabeled)
	assert.Equal(t, 0, rep.Unwrapped)
	assert.False(t, rep.Split)
}

func TestCleanRows_DoesNotMutateInput(t *testing.T) {
	in := []types.CrosswalkRow{row("1", "a\rb"), row("32,33", "x")}
	snapshot := append([]types.CrosswalkRow(nil), in...)

	New().CleanRows(in)
	assert.Equal(t, snapshot, in)
}

func TestWithNoise(t *testing.T) {
	keepAll := func(string) bool { return false }
	got, rep := New(WithNoise(keepAll)).CleanRows([]types.CrosswalkRow{row("HEADER-TEXT-2004", "ignore")})
	assert.Len(t, got, 1)
	assert.Equal(t, 0, rep.Dropped)
}

func TestIsPageNoise(t *testing.T) {
	assert.False(t, IsPageNoise(""))
	assert.False(t, IsPageNoise("32,33"))
	assert.False(t, IsPageNoise("ABCDEF"))
	assert.True(t, IsPageNoise("ABCDEFG"))
	assert.True(t, IsPageNoise("HIPAA Individual"))
}
