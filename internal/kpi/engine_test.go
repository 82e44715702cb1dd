package kpi

import (
	"errors"
	"math"
	"testing"

	"github.com/ecastellanos/relia/internal/common"
	"github.com/ecastellanos/relia/internal/model"
	"github.com/ecastellanos/relia/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return New(schedule.DefaultCatalog())
}

func order(id, equipment, provider, serviceType, label string, stoppage, cost float64) model.WorkOrder {
	return model.WorkOrder{
		ID:              id,
		EquipmentID:     equipment,
		Provider:        provider,
		ServiceType:     serviceType,
		TechnicalObject: label,
		StoppageHours:   stoppage,
		CostTotal:       cost,
	}
}

func TestCompute_SingleEquipmentMetrics(t *testing.T) {
	// HORARIO_1 runs 24 h/day for 364.91 days: 8757.84 operating hours.
	// Two notifications of 5 h and 3 h stoppage.
	orders := []model.WorkOrder{
		order("N1", "EQ-1", "ACME", "Mecánica", "MOLINO HORARIO_1", 5, 1200),
		order("N2", "EQ-1", "ACME", "Mecánica", "MOLINO HORARIO_1", 3, 300),
	}

	records, err := newTestEngine().Compute(orders, GroupByEquipment)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "EQ-1", rec.EntityKey)
	assert.Equal(t, 2, rec.NotificationCount)
	assert.InDelta(t, 1500.0, rec.CostTotal, 0.001)
	assert.InDelta(t, 4.0, rec.MTTRHours, 0.001)
	assert.InDelta(t, 4374.92, rec.MTBFHours, 0.001)
	assert.InDelta(t, 99.91, rec.AvailabilityPct, 0.01)
	assert.Equal(t, model.TierHigh, rec.Tier)
	require.NoError(t, rec.Validate())
}

func TestCompute_ProviderAveragesAcrossEquipment(t *testing.T) {
	// Two machines with very different operating baselines: availability by
	// provider is the mean of the per-equipment availabilities, not a
	// recomputation from pooled durations.
	orders := []model.WorkOrder{
		order("N1", "EQ-A", "ACME", "", "MOLINO HORARIO_1", 10, 100),
		order("N2", "EQ-B", "ACME", "", "BOMBA HORARIO_4", 10, 200),
	}

	records, err := newTestEngine().Compute(orders, GroupByProvider)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	availA := 8747.84 / 8757.84 * 100  // (8757.84-10)/1 vs 10 h MTTR
	availB := 1987.28 / 1997.28 * 100  // HORARIO_4: 8*249.66 = 1997.28 h
	assert.Equal(t, "ACME", rec.EntityKey)
	assert.Equal(t, 2, rec.NotificationCount)
	assert.InDelta(t, 300.0, rec.CostTotal, 0.001)
	assert.InDelta(t, 10.0, rec.MTTRHours, 0.001)
	assert.InDelta(t, (8747.84+1987.28)/2, rec.MTBFHours, 0.001)
	assert.InDelta(t, (availA+availB)/2, rec.AvailabilityPct, 0.001)
}

func TestCompute_DistinctNotificationCount(t *testing.T) {
	// The same notification fanned out over duplicate master rows counts
	// once.
	orders := []model.WorkOrder{
		order("N1", "EQ-1", "ACME", "", "HORARIO_1", 5, 500),
		order("N1", "EQ-1", "ACME", "", "HORARIO_1", 5, 0),
	}

	records, err := newTestEngine().Compute(orders, GroupByProvider)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].NotificationCount)
	assert.InDelta(t, 500.0, records[0].CostTotal, 0.001)
}

func TestCompute_ExcludesOrdersWithoutEquipment(t *testing.T) {
	orders := []model.WorkOrder{
		order("N1", "", "ACME", "", "", 5, 500),
	}

	records, err := newTestEngine().Compute(orders, GroupByProvider)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCompute_MissingGroupColumnSignalsCondition(t *testing.T) {
	orders := []model.WorkOrder{
		order("N1", "EQ-1", "", "", "HORARIO_1", 5, 500),
	}

	records, err := newTestEngine().Compute(orders, GroupByProvider)
	assert.Empty(t, records)
	require.Error(t, err)

	var missing *common.MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"provider"}, missing.Columns)
}

func TestCompute_NeverEmitsNonFiniteNumbers(t *testing.T) {
	// Stoppage exceeding the operating baseline must clamp, not go
	// negative or non-finite.
	orders := []model.WorkOrder{
		order("N1", "EQ-1", "ACME", "", "SIN HORARIO CONOCIDO", 1e7, 0),
	}

	records, err := newTestEngine().Compute(orders, GroupByProvider)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.False(t, math.IsNaN(rec.AvailabilityPct))
	assert.False(t, math.IsInf(rec.MTBFHours, 0))
	assert.GreaterOrEqual(t, rec.MTBFHours, 0.0)
	assert.GreaterOrEqual(t, rec.AvailabilityPct, 0.0)
	assert.LessOrEqual(t, rec.AvailabilityPct, 100.0)
	require.NoError(t, rec.Validate())
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		availability float64
		want         model.Tier
	}{
		{100, model.TierHigh},
		{90, model.TierHigh},
		{89.99, model.TierMedium},
		{75, model.TierMedium},
		{74.99, model.TierLow},
		{0, model.TierLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.availability), "availability %.2f", tt.availability)
	}
}

func TestCompute_DeterministicOrder(t *testing.T) {
	orders := []model.WorkOrder{
		order("N1", "EQ-1", "ZETA", "", "HORARIO_1", 1, 0),
		order("N2", "EQ-2", "ACME", "", "HORARIO_1", 1, 0),
		order("N3", "EQ-3", "BETA", "", "HORARIO_1", 1, 0),
	}

	records, err := newTestEngine().Compute(orders, GroupByProvider)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "ACME", records[0].EntityKey)
	assert.Equal(t, "BETA", records[1].EntityKey)
	assert.Equal(t, "ZETA", records[2].EntityKey)
}
