package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ecastellanos/relia/internal/common"
	"github.com/ecastellanos/relia/internal/model"
	"github.com/ecastellanos/relia/internal/source"
)

// Sources bundles the five raw extracts one reconciliation pass consumes.
type Sources struct {
	IW29   *source.Table
	IW39   *source.Table
	IH08   *source.Table
	IW65   *source.Table
	ZPM015 *source.Table
}

// Options controls optional business filters.
type Options struct {
	// ExcludePTBO drops rows whose status contains "PTBO" (pending
	// cancellation); those are not real work orders.
	ExcludePTBO bool
}

// Warning is a non-fatal degradation surfaced to the caller alongside the
// snapshot, mirroring what was logged.
type Warning struct {
	Source  string
	Message string
}

// DefaultCategory tags descriptions with no recognizable prefix.
const DefaultCategory = "Otros"

// categoryPrefix matches a leading two-letter uppercase prefix followed by a
// slash, e.g. "MC/Cambio de rodamiento".
var categoryPrefix = regexp.MustCompile(`^([A-Z]{2})/`)

const ptboMarker = "ptbo"

// Reconcile joins the five extracts into one canonical snapshot.
//
// Notification-scoped sources (IW39 cost, IW65 detail) are left-joined on
// notification id; the equipment master (IH08) is left-joined on equipment
// id and may fan a notification out into several rows when the master holds
// duplicate equipment keys. The real cost is attributed to the first row of
// each notification after the fan-out, the rest zeroed, so aggregation never
// double counts. IW29 is the source of truth for equipment id, stoppage
// duration and description: later joins fill gaps but never overwrite it.
func Reconcile(ctx context.Context, srcs Sources, opts Options) (*Snapshot, []Warning, error) {
	ordered := []struct {
		system source.System
		table  *source.Table
	}{
		{source.SystemIW29, srcs.IW29},
		{source.SystemIW39, srcs.IW39},
		{source.SystemIH08, srcs.IH08},
		{source.SystemIW65, srcs.IW65},
		{source.SystemZPM015, srcs.ZPM015},
	}
	for _, st := range ordered {
		if st.table == nil {
			return nil, nil, &common.SourceUnreadableError{Source: string(st.system), Err: errors.New("table absent")}
		}
	}

	fingerprint := fingerprintSources([]*source.Table{srcs.IW29, srcs.IW39, srcs.IH08, srcs.IW65, srcs.ZPM015})

	var warnings []Warning
	mapped := make(map[source.System]*source.Table, len(ordered))
	for _, st := range ordered {
		clone := cloneTable(st.table)
		if missing := source.Schemas[st.system].Apply(clone); missing != nil {
			slog.Warn("source extract is missing columns",
				"source", missing.Source,
				"columns", strings.Join(missing.Columns, ","))
			warnings = append(warnings, Warning{Source: missing.Source, Message: missing.Error()})
		}
		mapped[st.system] = clone
	}

	iw29 := mapped[source.SystemIW29]
	costByID := mapped[source.SystemIW39].Index(source.ColNotificationID)
	detailByID := mapped[source.SystemIW65].Index(source.ColNotificationID)
	masterByEquip := mapped[source.SystemIH08].IndexAll(source.ColEquipmentID)
	serviceByEquip := mapped[source.SystemZPM015].Index(source.ColEquipmentID)

	iw39Rows := mapped[source.SystemIW39].Rows
	iw65Rows := mapped[source.SystemIW65].Rows
	ih08Rows := mapped[source.SystemIH08].Rows
	zpmRows := mapped[source.SystemZPM015].Rows

	var orders []model.WorkOrder
	costAttributed := make(map[string]bool)

	for _, row := range iw29.Rows {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		id := strings.TrimSpace(row[source.ColNotificationID])
		if id == "" {
			continue
		}
		status := row[source.ColStatus]
		if opts.ExcludePTBO && strings.Contains(strings.ToLower(status), ptboMarker) {
			continue
		}

		equipID := strings.TrimSpace(row[source.ColEquipmentID])

		wo := model.WorkOrder{
			ID:               id,
			EquipmentID:      equipID,
			Status:           status,
			Description:      row[source.ColDescription],
			TechnicalObject:  row[source.ColTechnicalObject],
			StoppageHours:    parseNonNegative(row[source.ColStoppageHours]),
			NotificationDate: parseDate(row[source.ColNotificationDate]),
		}

		if i, ok := costByID[id]; ok {
			wo.Provider = strings.TrimSpace(iw39Rows[i][source.ColProvider])
			wo.CostTotal = parseNonNegative(iw39Rows[i][source.ColCostTotal])
		}
		if wo.Description == "" {
			if i, ok := detailByID[id]; ok {
				wo.Description = iw65Rows[i][source.ColDetailText]
			}
		}
		if i, ok := serviceByEquip[equipID]; ok && equipID != "" {
			wo.ServiceType = strings.TrimSpace(zpmRows[i][source.ColServiceType])
		}
		wo.DescriptionCategory = categorizeDescription(wo.Description)

		matches := masterByEquip[equipID]
		if equipID == "" || len(matches) == 0 {
			appendOrder(&orders, costAttributed, wo)
			continue
		}
		for _, mi := range matches {
			fanned := wo
			fanned.ScheduleLabel = ih08Rows[mi][source.ColScheduleLabel]
			if fanned.TechnicalObject == "" {
				fanned.TechnicalObject = ih08Rows[mi][source.ColTechnicalObject]
			}
			appendOrder(&orders, costAttributed, fanned)
		}
	}

	slog.Info("reconciliation complete",
		"rows", len(orders),
		"warnings", len(warnings),
		"fingerprint", fingerprint[:12])

	return &Snapshot{
		createdAt:   time.Now(),
		fingerprint: fingerprint,
		orders:      orders,
	}, warnings, nil
}

// appendOrder enforces the cost-attribution invariant: only the first row
// emitted for a notification id keeps the real cost.
func appendOrder(orders *[]model.WorkOrder, attributed map[string]bool, wo model.WorkOrder) {
	if attributed[wo.ID] {
		wo.CostTotal = 0
	} else {
		attributed[wo.ID] = true
	}
	*orders = append(*orders, wo)
}

// categorizeDescription derives the two-letter category tag from a leading
// "XX/" prefix, defaulting to Otros.
func categorizeDescription(description string) string {
	if m := categoryPrefix.FindStringSubmatch(strings.TrimSpace(description)); m != nil {
		return m[1]
	}
	return DefaultCategory
}

// parseNonNegative parses a numeric cell, tolerating Spanish-locale decimal
// commas and thousands separators. Unparsable or negative values resolve to
// zero, never to an error.
func parseNonNegative(cell string) float64 {
	v := strings.TrimSpace(cell)
	if v == "" {
		return 0
	}
	if strings.Contains(v, ",") {
		// "1.234,56" -> "1234.56"; a bare comma is a decimal separator.
		v = strings.ReplaceAll(v, ".", "")
		v = strings.ReplaceAll(v, ",", ".")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

var dateLayouts = []string{"02.01.2006", "2006-01-02", "02/01/2006"}

// parseDate tries the date layouts the extracts are known to use; anything
// else resolves to the zero time.
func parseDate(cell string) time.Time {
	v := strings.TrimSpace(cell)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// cloneTable deep-copies a table so schema application never mutates the
// caller's input.
func cloneTable(t *source.Table) *source.Table {
	clone := &source.Table{
		Name:    t.Name,
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]source.Row, len(t.Rows)),
	}
	for i, row := range t.Rows {
		r := make(source.Row, len(row))
		for k, v := range row {
			r[k] = v
		}
		clone.Rows[i] = r
	}
	return clone
}
