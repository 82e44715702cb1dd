// Package reconcile joins the five raw source extracts into the canonical
// work-order table.
package reconcile

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"time"

	"github.com/ecastellanos/relia/internal/model"
	"github.com/ecastellanos/relia/internal/source"
)

// Snapshot is one immutable reconciled dataset. A new upload produces a
// wholly new snapshot; nothing mutates an existing one, so readers holding a
// previous snapshot are never corrupted mid-read.
type Snapshot struct {
	createdAt   time.Time
	fingerprint string
	orders      []model.WorkOrder
}

// WorkOrders returns a copy of the canonical rows, in reconciliation order.
func (s *Snapshot) WorkOrders() []model.WorkOrder {
	out := make([]model.WorkOrder, len(s.orders))
	copy(out, s.orders)
	return out
}

// Len returns the number of canonical rows.
func (s *Snapshot) Len() int {
	return len(s.orders)
}

// Fingerprint is a content hash over the five input tables. Identical input
// bytes yield identical fingerprints, so callers can cache reconciliation
// results keyed by it.
func (s *Snapshot) Fingerprint() string {
	return s.fingerprint
}

// CreatedAt reports when the snapshot was reconciled.
func (s *Snapshot) CreatedAt() time.Time {
	return s.createdAt
}

// fingerprintSources hashes the raw tables in a stable order: table name,
// column list, then each row's cells in sorted-key order.
func fingerprintSources(tables []*source.Table) string {
	h := sha256.New()
	for _, t := range tables {
		if t == nil {
			continue
		}
		fmt.Fprintf(h, "table:%s\n", t.Name)
		for _, c := range t.Columns {
			fmt.Fprintf(h, "col:%s\n", c)
		}
		for _, row := range t.Rows {
			keys := make([]string, 0, len(row))
			for k := range row {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(h, "%s=%s\x00", k, row[k])
			}
			fmt.Fprint(h, "\n")
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
