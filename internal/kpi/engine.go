// Package kpi computes equipment-reliability indicators over the canonical
// work-order table.
package kpi

import (
	"sort"
	"strings"

	"github.com/ecastellanos/relia/internal/common"
	"github.com/ecastellanos/relia/internal/model"
	"github.com/ecastellanos/relia/internal/schedule"
)

// GroupBy selects the grouping dimension of a KPI computation.
type GroupBy string

// Grouping dimensions.
const (
	GroupByProvider    GroupBy = "provider"
	GroupByServiceType GroupBy = "service_type"
	GroupByEquipment   GroupBy = "equipment"
)

// column names the canonical field the dimension reads.
func (g GroupBy) column() string {
	return string(g)
}

// Engine derives KPIRecords from work orders using the operating-schedule
// catalog. It is a pure computation over its inputs; nothing is cached or
// mutated.
type Engine struct {
	catalog *schedule.Catalog
}

// New creates an engine over the given schedule catalog.
func New(catalog *schedule.Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// equipmentStats accumulates pass-one metrics for a single equipment within
// one group.
type equipmentStats struct {
	ids           map[string]struct{}
	label         string
	stoppageHours float64
	cost          float64
	rows          int
}

// Compute returns one KPIRecord per entity of the chosen dimension.
//
// Work orders with no equipment id are excluded: a notification with
// unknown equipment cannot be attributed to an operating schedule. When the
// dimension's field is empty on every remaining row the computation signals
// MissingColumnsError and returns an empty set instead of inventing groups.
//
// Grouping by provider or service type is a two-pass aggregation: metrics
// are first computed per equipment, then availability and MTBF are averaged
// across each group's equipment set. Summing raw durations across machines
// with different operating-hour baselines would conflate them.
func (e *Engine) Compute(orders []model.WorkOrder, by GroupBy) ([]model.KPIRecord, error) {
	eligible := make([]model.WorkOrder, 0, len(orders))
	anyGroup := false
	for _, wo := range orders {
		if !wo.HasEquipment() {
			continue
		}
		eligible = append(eligible, wo)
		if groupKey(&wo, by) != "" {
			anyGroup = true
		}
	}
	if len(eligible) == 0 {
		return []model.KPIRecord{}, nil
	}
	if !anyGroup {
		return []model.KPIRecord{}, &common.MissingColumnsError{
			Source:  "canonical",
			Columns: []string{by.column()},
		}
	}

	// Pass 1: per (group, equipment) accumulation.
	groups := make(map[string]map[string]*equipmentStats)
	for _, wo := range eligible {
		key := groupKey(&wo, by)
		if key == "" {
			continue
		}
		equips, ok := groups[key]
		if !ok {
			equips = make(map[string]*equipmentStats)
			groups[key] = equips
		}
		st, ok := equips[wo.EquipmentID]
		if !ok {
			st = &equipmentStats{ids: make(map[string]struct{})}
			equips[wo.EquipmentID] = st
		}
		st.ids[wo.ID] = struct{}{}
		st.stoppageHours += wo.StoppageHours
		st.cost += wo.CostTotal
		st.rows++
		if st.label == "" {
			st.label = scheduleLookupLabel(&wo)
		}
	}

	// Pass 2: aggregate each group's equipment metrics.
	records := make([]model.KPIRecord, 0, len(groups))
	for key, equips := range groups {
		var (
			count         int
			cost          float64
			stoppageSum   float64
			rowCount      int
			mtbfSum       float64
			availSum      float64
			equipmentSeen int
		)
		for _, st := range equips {
			m := e.equipmentMetrics(st)
			count += len(st.ids)
			cost += st.cost
			stoppageSum += st.stoppageHours
			rowCount += st.rows
			mtbfSum += m.mtbf
			availSum += m.availability
			equipmentSeen++
		}

		rec := model.KPIRecord{
			EntityKey:         key,
			NotificationCount: count,
			CostTotal:         cost,
			MTTRHours:         safeDivide(stoppageSum, float64(rowCount)),
			MTBFHours:         safeDivide(mtbfSum, float64(equipmentSeen)),
			AvailabilityPct:   clampPct(safeDivide(availSum, float64(equipmentSeen))),
		}
		rec.Tier = TierFor(rec.AvailabilityPct)
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].EntityKey < records[j].EntityKey
	})
	return records, nil
}

type metrics struct {
	mttr         float64
	mtbf         float64
	availability float64
}

// equipmentMetrics computes pass-one MTTR/MTBF/availability for one
// equipment. Operating hours are resolved once per equipment from the
// schedule catalog, never re-summed per notification.
func (e *Engine) equipmentMetrics(st *equipmentStats) metrics {
	operating := e.catalog.OperatingHoursPerYear(st.label)
	mttr := safeDivide(st.stoppageHours, float64(st.rows))
	mtbf := safeDivide(operating-st.stoppageHours, float64(len(st.ids)))
	if mtbf < 0 {
		mtbf = 0
	}
	avail := clampPct(safeDivide(mtbf, mtbf+mttr) * 100)
	return metrics{mttr: mttr, mtbf: mtbf, availability: avail}
}

// TierFor classifies an availability percentage. These bands are the
// free-standing tier policy; the rubric's automatic availability question
// uses its own, stricter bands on purpose.
func TierFor(availabilityPct float64) model.Tier {
	switch {
	case availabilityPct >= 90:
		return model.TierHigh
	case availabilityPct >= 75:
		return model.TierMedium
	default:
		return model.TierLow
	}
}

func groupKey(wo *model.WorkOrder, by GroupBy) string {
	switch by {
	case GroupByProvider:
		return strings.TrimSpace(wo.Provider)
	case GroupByServiceType:
		return strings.TrimSpace(wo.ServiceType)
	case GroupByEquipment:
		return wo.EquipmentID
	default:
		return ""
	}
}

// scheduleLookupLabel is the text the schedule catalog matches its keys
// against: the technical-object label, with the master's schedule text
// appended when present.
func scheduleLookupLabel(wo *model.WorkOrder) string {
	return strings.TrimSpace(wo.TechnicalObject + " " + wo.ScheduleLabel)
}

// safeDivide resolves division by zero to zero. The engine never emits
// non-finite numbers to downstream consumers.
func safeDivide(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
