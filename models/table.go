package models

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Row is a single posting keyed by column name. A missing key and a nil
// value both mean the cell is null.
type Row map[string]any

// String returns the cell rendered as text, or "" when null.
func (r Row) String(col string) string {
	v, ok := r[col]
	if !ok || v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format("2006-01-02")
	default:
		return fmt.Sprint(x)
	}
}

// Float returns the cell as a number. Null, NaN and non-numeric cells
// report ok=false.
func (r Row) Float(col string) (float64, bool) {
	v, ok := r[col]
	if !ok {
		return 0, false
	}
	f, ok := NormalizeValue(v).(float64)
	if !ok || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Table is an ordered sequence of rows plus the ordered list of columns
// any row may carry.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable returns an empty table with the given columns.
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...), Rows: make([]Row, 0)}
}

// Len returns the number of rows. A nil table has none.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the column is part of the table.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Append adds a copy of the row. Keys not yet in Columns are added after
// the existing columns, sorted by name.
func (t *Table) Append(row Row) {
	var extra []string
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = NormalizeValue(v)
		if !t.HasColumn(k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	t.Columns = append(t.Columns, extra...)
	t.Rows = append(t.Rows, out)
}

// Clone returns a deep copy of the table structure. Cell values are shared.
func (t *Table) Clone() *Table {
	if t == nil {
		return NewTable()
	}
	out := NewTable(t.Columns...)
	out.Rows = make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		c := make(Row, len(r))
		for k, v := range r {
			c[k] = v
		}
		out.Rows = append(out.Rows, c)
	}
	return out
}

// Concat stacks tables in order. Columns are the union of all inputs in
// first-seen order; cells a source did not provide stay null.
func Concat(tables ...*Table) *Table {
	out := NewTable()
	seen := make(map[string]struct{})
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out.Columns = append(out.Columns, c)
		}
		for _, r := range t.Rows {
			c := make(Row, len(r))
			for k, v := range r {
				c[k] = v
			}
			out.Rows = append(out.Rows, c)
		}
	}
	return out
}

// DropColumns returns a copy without the named columns. Names that are not
// present are ignored.
func (t *Table) DropColumns(names ...string) *Table {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}

	out := NewTable()
	if t == nil {
		return out
	}
	for _, c := range t.Columns {
		if _, ok := drop[c]; !ok {
			out.Columns = append(out.Columns, c)
		}
	}
	out.Rows = make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		c := make(Row, len(r))
		for k, v := range r {
			if _, ok := drop[k]; !ok {
				c[k] = v
			}
		}
		out.Rows = append(out.Rows, c)
	}
	return out
}

// RowKey encodes every column of the row into a comparable string. Two rows
// with equal keys are exact duplicates over the table's columns.
func (t *Table) RowKey(r Row) string {
	var b strings.Builder
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		v := r[c]
		if v == nil {
			b.WriteString("\x00")
			continue
		}
		fmt.Fprintf(&b, "%T=%v", v, v)
	}
	return b.String()
}

// NormalizeValue folds the numeric types providers hand back into float64
// so equal numbers compare equal regardless of source. NaN becomes null.
func NormalizeValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(x) {
			return nil
		}
		return x
	case float32:
		return NormalizeValue(float64(x))
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case *float64:
		if x == nil {
			return nil
		}
		return NormalizeValue(*x)
	case *string:
		if x == nil {
			return nil
		}
		return *x
	default:
		return v
	}
}
