// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Constant columns of every cleaned row.
const (
	FmtName    = "relcd"
	FormatType = "C"
)

// RawRow is one record of the crosswalk table as extracted from the PDF.
type RawRow struct {
	// Code is the HIPAA Individual Relationship Code cell.
	Code string `json:"code" yaml:"code"`

	// CWFCode is the CWF Patient Relationship Code cell. It only survives
	// into the spreadsheet copy.
	CWFCode string `json:"cwf_code" yaml:"cwf_code"`

	// Description is the code description cell. Multi-line cells keep a
	// carriage return between lines.
	Description string `json:"description" yaml:"description"`

	// Page is the 1-indexed PDF page the record started on.
	Page int `json:"page" yaml:"page"`
}

// RawTable is the extracted table in document order.
type RawTable struct {
	Source string   `json:"source" yaml:"source"`
	Rows   []RawRow `json:"rows" yaml:"rows"`
}

// SpreadsheetHeader is the column header of the spreadsheet copy.
var SpreadsheetHeader = []string{
	"HIPAA Individual Relationship Code",
	"CWF Patient Relationship Code",
	"Code Description",
}

// CrosswalkRow is one row of the relcd format table.
type CrosswalkRow struct {
	Start   string `json:"start" yaml:"start"`
	Label   string `json:"label" yaml:"label"`
	FmtName string `json:"fmtname" yaml:"fmtname"`
	Type    string `json:"type" yaml:"type"`
}

// StoreColumns lists the destination table columns in order.
var StoreColumns = []string{"start", "label", "fmtname", "type"}

// Values returns the row in StoreColumns order.
func (r CrosswalkRow) Values() []any {
	return []any{r.Start, r.Label, r.FmtName, r.Type}
}
