// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrConfirmTimeout is returned when the success marker does not appear in
// the session log before the confirmation deadline.
var ErrConfirmTimeout = errors.New("success marker not observed before timeout")

// ExtractionError reports that the source document could not be reached or
// read, or that the requested pages hold no recognizable table.
type ExtractionError struct {
	// Source is the URL or local path of the document.
	Source string
	// Page is the offending page, or 0 when the failure is not page specific.
	Page int
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("extracting %s page %d: %v", e.Source, e.Page, e.Err)
	}
	return fmt.Sprintf("extracting %s: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// WriteError reports that a destination rejected the table.
type WriteError struct {
	// Target is the spreadsheet path or the library.table name.
	Target string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Target, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
