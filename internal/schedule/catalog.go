// Package schedule holds the equipment operating-schedule reference data.
package schedule

import "strings"

// Entry is one operating schedule: how many hours per day and days per year
// a piece of equipment is expected to run.
type Entry struct {
	HoursPerDay float64
	DaysPerYear float64
}

// OperatingHoursPerYear is the schedule's total yearly operating time.
func (e Entry) OperatingHoursPerYear() float64 {
	return e.HoursPerDay * e.DaysPerYear
}

type keyedEntry struct {
	key   string // uppercase, matched as substring of the equipment label
	entry Entry
}

// Catalog maps schedule keys to operating entries. Lookup matches a key as a
// case-insensitive substring of the equipment's technical-object label; a
// label matching no key resolves to the catalog-wide mean entry, the
// deliberate "assume average equipment" fallback.
type Catalog struct {
	entries []keyedEntry
	mean    Entry
}

// New builds a catalog from ordered key/entry pairs. Earlier keys win when a
// label matches more than one.
func New(keys []string, entries []Entry) *Catalog {
	c := &Catalog{}
	var sumHours, sumDays float64
	for i, k := range keys {
		c.entries = append(c.entries, keyedEntry{key: strings.ToUpper(k), entry: entries[i]})
		sumHours += entries[i].HoursPerDay
		sumDays += entries[i].DaysPerYear
	}
	if n := float64(len(c.entries)); n > 0 {
		c.mean = Entry{HoursPerDay: sumHours / n, DaysPerYear: sumDays / n}
	}
	return c
}

// DefaultCatalog returns the plant's fixed operating schedules.
func DefaultCatalog() *Catalog {
	return New(
		[]string{"HORARIO_1", "HORARIO_2", "HORARIO_3", "HORARIO_4"},
		[]Entry{
			{HoursPerDay: 24, DaysPerYear: 364.91},
			{HoursPerDay: 16, DaysPerYear: 312.35},
			{HoursPerDay: 12, DaysPerYear: 364.91},
			{HoursPerDay: 8, DaysPerYear: 249.66},
		},
	)
}

// Lookup resolves an equipment label to its schedule entry, falling back to
// the catalog mean when no key appears in the label.
func (c *Catalog) Lookup(label string) Entry {
	upper := strings.ToUpper(label)
	for _, ke := range c.entries {
		if strings.Contains(upper, ke.key) {
			return ke.entry
		}
	}
	return c.mean
}

// OperatingHoursPerYear resolves a label and returns its yearly operating
// hours in one step.
func (c *Catalog) OperatingHoursPerYear(label string) float64 {
	return c.Lookup(label).OperatingHoursPerYear()
}

// Mean exposes the fallback entry, mostly for reporting.
func (c *Catalog) Mean() Entry {
	return c.mean
}
