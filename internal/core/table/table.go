// Package table holds the in-memory row/column structure that sits between the
// JSON-lines reader and the CSV writer.
package table

import (
	"slices"
	"strings"

	perr "reports/internal/platform/errors"
)

// Order decides how the union of keys is laid out as columns
type Order uint8

const (
	// FirstSeen lays columns out in order of first appearance, top to bottom and left to right
	FirstSeen Order = iota
	// Sorted lays columns out in byte-wise lexical order
	Sorted
)

// Order names as accepted on the command line
const (
	OrderFirstSeen = "first-seen"
	OrderSorted    = "sorted"
)

// String returns the command-line spelling
func (o Order) String() string {
	if o == Sorted {
		return OrderSorted
	}
	return OrderFirstSeen
}

// ParseOrder maps a command-line spelling to an Order
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", OrderFirstSeen:
		return FirstSeen, nil
	case OrderSorted:
		return Sorted, nil
	default:
		return FirstSeen, perr.WithField(perr.InvalidArgf("unknown column order %q", s), "order")
	}
}

// Field is one key/value of a record with the value already rendered as cell text
type Field struct {
	Key   string
	Value string
}

// Record is one input line, fields in source order
type Record []Field

// Table aggregates records. Columns are the union of all keys; a key missing from
// a record is an empty cell in that row. Rows keep input order
type Table struct {
	order Order
	cols  []string       // first-seen order
	index map[string]int // key -> position in cols
	rows  [][]string     // each row is as wide as cols was when it was appended
}

// New returns an empty table
func New(order Order) *Table {
	return &Table{order: order, index: make(map[string]int)}
}

// Append adds rec as the next row. A key repeated within rec keeps its last value
func (t *Table) Append(rec Record) {
	for _, f := range rec {
		if _, ok := t.index[f.Key]; !ok {
			t.index[f.Key] = len(t.cols)
			t.cols = append(t.cols, f.Key)
		}
	}
	row := make([]string, len(t.cols))
	for _, f := range rec {
		row[t.index[f.Key]] = f.Value
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of rows
func (t *Table) Len() int { return len(t.rows) }

// Width returns the number of columns
func (t *Table) Width() int { return len(t.cols) }

// Order returns the column order the table was built with
func (t *Table) Order() Order { return t.order }

// Header returns the column names in output order. The slice is a copy
func (t *Table) Header() []string {
	h := slices.Clone(t.cols)
	if t.order == Sorted {
		slices.Sort(h)
	}
	return h
}

// Each calls fn for every row in input order with cells aligned to Header.
// The row slice is reused between calls; fn must copy it to keep it.
// Iteration stops at the first error fn returns
func (t *Table) Each(fn func(row []string) error) error {
	header := t.Header()
	perm := make([]int, len(header))
	for i, name := range header {
		perm[i] = t.index[name]
	}
	out := make([]string, len(header))
	for _, row := range t.rows {
		for i, src := range perm {
			if src < len(row) {
				out[i] = row[src]
			} else {
				out[i] = ""
			}
		}
		if err := fn(out); err != nil {
			return err
		}
	}
	return nil
}
