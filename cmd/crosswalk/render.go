// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pdiddy/crosswalk/pkg/types"
)

// visible shows carriage returns inside a cell so wrapped descriptions
// can be told apart from joined ones.
var visible = strings.NewReplacer("\r", `\r`)

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// renderRaw prints extracted records with the page each came from.
func renderRaw(w io.Writer, rows []types.RawRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"page", types.SpreadsheetHeader[0], types.SpreadsheetHeader[1], types.SpreadsheetHeader[2]})
	for _, r := range rows {
		t.AppendRow(table.Row{strconv.Itoa(r.Page), visible.Replace(r.Code), visible.Replace(r.CWFCode), visible.Replace(r.Description)})
	}
	t.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

// renderRows prints cleaned rows under the store column names.
func renderRows(w io.Writer, rows []types.CrosswalkRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}
	t := newTable(w)
	header := make(table.Row, len(types.StoreColumns))
	for i, c := range types.StoreColumns {
		header[i] = c
	}
	t.AppendHeader(header)
	for _, r := range rows {
		t.AppendRow(table.Row{r.Start, visible.Replace(r.Label), r.FmtName, r.Type})
	}
	t.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}
