// Package listing holds the search filters and lookup maps shared by list pages.
package listing

import "strings"

// None selects every column.
const None = "none"

type Column[T any] struct {
	ID    string
	Label string
	Value func(T) string
}

type Filter[T any] struct {
	Columns []Column[T]
}

func NewFilter[T any](cols ...Column[T]) Filter[T] {
	return Filter[T]{Columns: cols}
}

func (f Filter[T]) column(id string) (Column[T], bool) {
	for _, c := range f.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column[T]{}, false
}

// Apply keeps rows whose selected column contains query, ignoring case.
// An empty query or an unknown column keeps every row.
func (f Filter[T]) Apply(rows []T, selected, query string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rows
	}

	var cols []Column[T]
	if selected == "" || selected == None {
		cols = f.Columns
	} else {
		c, ok := f.column(selected)
		if !ok {
			return rows
		}
		cols = []Column[T]{c}
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		for _, c := range cols {
			if strings.Contains(strings.ToLower(c.Value(row)), q) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

type SelectOption struct {
	ID       string
	Label    string
	Selected bool
}

// Options lists the selector entries with None first.
func (f Filter[T]) Options(selected string) []SelectOption {
	if selected == "" {
		selected = None
	}
	out := []SelectOption{{ID: None, Label: "None", Selected: selected == None}}
	for _, c := range f.Columns {
		out = append(out, SelectOption{ID: c.ID, Label: c.Label, Selected: c.ID == selected})
	}
	return out
}

func (f Filter[T]) Placeholder(selected string) string {
	if c, ok := f.column(selected); ok {
		return "Search in " + c.Label
	}
	return "Search in All Fields"
}
