// Package funding rates a company's public funding history and owns the
// read-only lookup table of past grants and loans.
package funding

import (
	"slices"
	"sort"
)

// Entry is one funding decision received by a company.
type Entry struct {
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
	IsLoan bool    `json:"isLoan"`
}

// Data maps a business id to its funding entries.
type Data map[string][]Entry

// Table is an immutable lookup of funding entries by business id. It is safe
// for concurrent use.
type Table struct {
	entries Data
}

// NewTable copies data into a new table. Each company's entries are ordered
// by year, keeping the input order within a year.
func NewTable(data Data) *Table {
	entries := make(Data, len(data))
	for id, list := range data {
		if len(list) == 0 {
			continue
		}
		sorted := slices.Clone(list)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })
		entries[id] = sorted
	}
	return &Table{entries: entries}
}

// Lookup returns a copy of the entries for id.
func (t *Table) Lookup(id string) ([]Entry, bool) {
	if t == nil {
		return nil, false
	}
	list, ok := t.entries[id]
	if !ok {
		return nil, false
	}
	return slices.Clone(list), true
}

// Len is the number of companies in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Stats summarizes the table contents.
type Stats struct {
	Companies   int     `json:"companies"`
	Entries     int     `json:"entries"`
	Loans       int     `json:"loans"`
	TotalAmount float64 `json:"totalAmount"`
	FirstYear   int     `json:"firstYear"`
	LastYear    int     `json:"lastYear"`
}

// Stats walks the table once and returns its summary.
func (t *Table) Stats() Stats {
	var s Stats
	if t == nil {
		return s
	}
	s.Companies = len(t.entries)
	for _, list := range t.entries {
		for _, e := range list {
			s.Entries++
			s.TotalAmount += e.Amount
			if e.IsLoan {
				s.Loans++
			}
			if s.FirstYear == 0 || e.Year < s.FirstYear {
				s.FirstYear = e.Year
			}
			s.LastYear = max(s.LastYear, e.Year)
		}
	}
	return s
}

// Data returns a copy of the table contents.
func (t *Table) Data() Data {
	out := make(Data, t.Len())
	if t == nil {
		return out
	}
	for id, list := range t.entries {
		out[id] = slices.Clone(list)
	}
	return out
}
