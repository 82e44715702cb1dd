package model

import (
	"fmt"
	"math"
)

// Tier is the coarse availability classification attached to a KPIRecord.
type Tier string

// Availability tiers.
const (
	TierHigh          Tier = "Alta"
	TierMedium        Tier = "Media"
	TierLow           Tier = "Baja"
	TierNotApplicable Tier = "N/A"
)

// KPIRecord holds the reliability indicators for one grouping entity
// (a provider, a service type, or a single equipment).
type KPIRecord struct {
	EntityKey         string
	Tier              Tier
	NotificationCount int
	CostTotal         float64
	MTTRHours         float64
	MTBFHours         float64
	AvailabilityPct   float64
}

// Validate enforces the numeric invariants downstream consumers rely on:
// availability stays in [0,100] and nothing is ever NaN or infinite.
func (r *KPIRecord) Validate() error {
	if r.EntityKey == "" {
		return fmt.Errorf("kpi record is missing an entity key")
	}
	for name, v := range map[string]float64{
		"cost_total":       r.CostTotal,
		"mttr_hours":       r.MTTRHours,
		"mtbf_hours":       r.MTBFHours,
		"availability_pct": r.AvailabilityPct,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("kpi field %s is not finite", name)
		}
	}
	if r.AvailabilityPct < 0 || r.AvailabilityPct > 100 {
		return fmt.Errorf("availability must be within [0,100], got %.2f", r.AvailabilityPct)
	}
	if r.MTTRHours < 0 || r.MTBFHours < 0 {
		return fmt.Errorf("mttr and mtbf must be non-negative")
	}
	return nil
}
