package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup_SubstringMatch(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		name      string
		label     string
		wantHours float64
		wantDays  float64
	}{
		{
			name:      "key inside a longer label",
			label:     "MOLINO DE BOLAS HORARIO_1",
			wantHours: 24,
			wantDays:  364.91,
		},
		{
			name:      "case insensitive",
			label:     "bomba horario_4 linea 2",
			wantHours: 8,
			wantDays:  249.66,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := catalog.Lookup(tt.label)
			assert.InDelta(t, tt.wantHours, entry.HoursPerDay, 0.001)
			assert.InDelta(t, tt.wantDays, entry.DaysPerYear, 0.001)
		})
	}
}

func TestLookup_FallbackIsCatalogMean(t *testing.T) {
	catalog := DefaultCatalog()

	// Equipment with no recognizable schedule uses the average schedule,
	// not zero.
	entry := catalog.Lookup("COMPRESOR SIN TURNO")
	assert.InDelta(t, (24+16+12+8)/4.0, entry.HoursPerDay, 0.001)
	assert.InDelta(t, (364.91+312.35+364.91+249.66)/4.0, entry.DaysPerYear, 0.001)
	assert.Greater(t, entry.OperatingHoursPerYear(), 0.0)
}

func TestOperatingHoursPerYear(t *testing.T) {
	catalog := DefaultCatalog()
	assert.InDelta(t, 8757.84, catalog.OperatingHoursPerYear("HORARIO_1"), 0.001)
}

func TestEmptyCatalogMeanIsZero(t *testing.T) {
	catalog := New(nil, nil)
	entry := catalog.Lookup("ANYTHING")
	assert.Zero(t, entry.HoursPerDay)
	assert.Zero(t, entry.DaysPerYear)
}
