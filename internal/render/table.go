// Package render turns normalized records into tables, CSV exports and
// plain-text output.
package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/splax/userscout/internal/platform"
)

// Table is a tabular view of a result set. A search with no records yields a
// Table with no columns and no rows, never an error.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Empty reports whether the table has nothing to show.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Build lays records out in the platform's column order. Columns the records
// do not carry are silently dropped from the order; numeric counts are
// formatted with thousands separators.
func Build(p platform.Platform, records []platform.Record) Table {
	if len(records) == 0 {
		return Table{}
	}

	var columns []string
	for _, col := range p.ColumnOrder() {
		for _, rec := range records {
			if rec.Has(col) {
				columns = append(columns, col)
				break
			}
		}
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = Cell(rec[col])
		}
		rows = append(rows, row)
	}
	return Table{Columns: columns, Rows: rows}
}

// Cell renders a single record value for display or export.
func Cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return FormatCount(x)
	case int:
		return FormatCount(int64(x))
	default:
		return fmt.Sprint(x)
	}
}

// FormatCount groups digits in threes: 1234567 -> "1,234,567".
func FormatCount(n int64) string {
	digits := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}
	var b strings.Builder
	b.WriteString(sign)
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// CSVFileName names the export artifact for a platform.
func CSVFileName(p platform.Platform) string {
	return fmt.Sprintf("%s_search_results.csv", p)
}

// WriteCSV emits the table as comma-separated text: a header row of column
// names, then one row per record. An empty table writes nothing.
func WriteCSV(w io.Writer, t Table) error {
	if len(t.Columns) == 0 {
		return nil
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteText renders the table with aligned columns for terminal output.
func WriteText(w io.Writer, t Table) error {
	if t.Empty() {
		_, err := fmt.Fprintln(w, "no results")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(t.Columns, "\t")); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
