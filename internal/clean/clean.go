// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package clean normalizes extracted crosswalk records into relcd rows.
package clean

import (
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/crosswalk/pkg/types"
)

const (
	// maxCodeLen is the longest start value a genuine code record can have.
	maxCodeLen = 6

	// placeholderLabel replaces labels that carry an illegible glyph.
	placeholderLabel = "Other"

	// compoundCode is the one source record that encodes two codes.
	compoundCode = "32,33"
)

// placeholders are the glyphs a text layer emits for characters it could
// not map: '?' from table extractors and U+FFFD from the Go PDF reader.
const placeholders = "?\uFFFD"

// Noise reports whether a trimmed start value is a page artifact rather
// than a code.
type Noise func(start string) bool

// IsPageNoise is the default Noise predicate: any start value longer than
// six characters is running-header text repeated by the extraction pass.
func IsPageNoise(start string) bool {
	return utf8.RuneCountInString(start) > maxCodeLen
}

// Report counts what Clean changed.
type Report struct {
	Input     int
	Output    int
	Padded    int
	Dropped   int
	Relabeled int
	Unwrapped int
	Split     bool
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithNoise replaces the row deletion predicate.
func WithNoise(fn Noise) Option {
	return func(c *Cleaner) { c.noise = fn }
}

// Cleaner turns raw records into relcd rows.
type Cleaner struct {
	noise Noise
}

// New returns a Cleaner using IsPageNoise unless overridden.
func New(opts ...Option) *Cleaner {
	c := &Cleaner{noise: IsPageNoise}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Clean converts raw records. See CleanRows for the rules applied.
func (c *Cleaner) Clean(raw []types.RawRow) ([]types.CrosswalkRow, Report) {
	rows := make([]types.CrosswalkRow, len(raw))
	for i, r := range raw {
		// The CWF code column is not carried into the format table.
		rows[i] = types.CrosswalkRow{
			Start:   r.Code,
			Label:   r.Description,
			FmtName: types.FmtName,
			Type:    types.FormatType,
		}
	}
	return c.CleanRows(rows)
}

// CleanRows applies the normalization rules in order: trim and zero-pad
// start values and mark noise rows; replace labels holding a placeholder
// glyph with "Other", otherwise turn carriage returns into spaces; drop the
// marked rows; split the compound "32,33" row in two. The result is a new
// slice and CleanRows is idempotent on its own output.
func (c *Cleaner) CleanRows(in []types.CrosswalkRow) ([]types.CrosswalkRow, Report) {
	rep := Report{Input: len(in)}

	rows := make([]types.CrosswalkRow, len(in))
	copy(rows, in)
	drop := make([]bool, len(rows))

	for i := range rows {
		start := strings.TrimSpace(rows[i].Start)
		switch {
		case utf8.RuneCountInString(start) == 1:
			start = "0" + start
			rep.Padded++
		case c.noise(start):
			drop[i] = true
		}
		rows[i].Start = start

		label, change := normalizeLabel(rows[i].Label)
		switch change {
		case labelRelabeled:
			rep.Relabeled++
		case labelUnwrapped:
			rep.Unwrapped++
		}
		rows[i].Label = label
	}

	kept := make([]types.CrosswalkRow, 0, len(rows)+1)
	for i, r := range rows {
		if drop[i] {
			rep.Dropped++
			continue
		}
		kept = append(kept, r)
	}

	kept, rep.Split = splitCompound(kept)
	rep.Output = len(kept)
	return kept, rep
}

type labelChange int

const (
	labelKept labelChange = iota
	labelRelabeled
	labelUnwrapped
)

func normalizeLabel(label string) (string, labelChange) {
	if strings.ContainsAny(label, placeholders) {
		return placeholderLabel, labelRelabeled
	}
	if strings.Contains(label, "\r") {
		return strings.ReplaceAll(label, "\r", " "), labelUnwrapped
	}
	return label, labelKept
}

// splitCompound rewrites the first "32,33" row to "32" and appends a "33"
// row that copies the "32" row's label, fmtname and type.
func splitCompound(rows []types.CrosswalkRow) ([]types.CrosswalkRow, bool) {
	for i := range rows {
		if rows[i].Start != compoundCode {
			continue
		}
		first, second, _ := strings.Cut(compoundCode, ",")
		rows[i].Start = first
		extra := rows[i]
		extra.Start = second
		return append(rows, extra), true
	}
	return rows, false
}
