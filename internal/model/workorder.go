// Package model defines the core domain types shared across the application.
package model

import (
	"fmt"
	"time"
)

// WorkOrder is one row of the canonical maintenance table, reconciled from
// the five raw source extracts. One row per notification, except where the
// equipment-master join legitimately fans a notification out into several
// rows; cost attribution is repaired after the fan-out so that CostTotal
// sums correctly per notification.
type WorkOrder struct {
	NotificationDate    time.Time
	ID                  string
	EquipmentID         string // empty when no equipment could be resolved
	Provider            string
	ServiceType         string
	Status              string
	Description         string
	DescriptionCategory string
	TechnicalObject     string
	ScheduleLabel       string
	StoppageHours       float64
	CostTotal           float64
}

// HasEquipment reports whether the work order resolved to a known equipment.
// Orders without one stay in the canonical table but are excluded from all
// KPI computation.
func (w *WorkOrder) HasEquipment() bool {
	return w.EquipmentID != ""
}

// Validate checks the canonical-row invariants.
func (w *WorkOrder) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("work order is missing a notification id")
	}
	if w.StoppageHours < 0 {
		return fmt.Errorf("stoppage hours must be non-negative, got %.2f", w.StoppageHours)
	}
	if w.CostTotal < 0 {
		return fmt.Errorf("cost must be non-negative, got %.2f", w.CostTotal)
	}
	return nil
}
