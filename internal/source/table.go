// Package source models the raw tabular extracts the reconciler consumes and
// the declarative schema mapping that turns their free-text headers into
// canonical column names.
package source

// Row is one record of a raw table, keyed by normalized column name.
type Row map[string]string

// Table is an ordered raw extract from one of the five source systems.
// Column order and row order are preserved from the input so that
// reconciliation stays deterministic for identical inputs.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the table carries the given normalized column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn materializes an empty column if it is not already present.
func (t *Table) AddColumn(name string) {
	if t.HasColumn(name) {
		return
	}
	t.Columns = append(t.Columns, name)
	for _, row := range t.Rows {
		if _, ok := row[name]; !ok {
			row[name] = ""
		}
	}
}

// Index builds a first-match lookup from the given key column to row index.
// Duplicate keys keep the first occurrence; callers that need the fan-out
// semantics index all occurrences with IndexAll.
func (t *Table) Index(key string) map[string]int {
	idx := make(map[string]int, len(t.Rows))
	for i, row := range t.Rows {
		k := row[key]
		if k == "" {
			continue
		}
		if _, seen := idx[k]; !seen {
			idx[k] = i
		}
	}
	return idx
}

// IndexAll builds a lookup from the given key column to every row index
// carrying that key, in table order.
func (t *Table) IndexAll(key string) map[string][]int {
	idx := make(map[string][]int, len(t.Rows))
	for i, row := range t.Rows {
		k := row[key]
		if k == "" {
			continue
		}
		idx[k] = append(idx[k], i)
	}
	return idx
}
