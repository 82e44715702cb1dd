// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/ecastellanos/relia/internal/model"
)

// SnapshotInfo describes one persisted reconciliation snapshot.
type SnapshotInfo struct {
	CreatedAt   time.Time
	Fingerprint string
	RowCount    int
}

// SnapshotRecord is a persisted snapshot with its canonical rows.
type SnapshotRecord struct {
	CreatedAt   time.Time
	Fingerprint string
	Orders      []model.WorkOrder
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Snapshot operations. Snapshots are written once and never mutated;
	// saving the same fingerprint twice is a no-op.
	SaveSnapshot(ctx context.Context, fingerprint string, createdAt time.Time, orders []model.WorkOrder) error
	GetSnapshot(ctx context.Context, fingerprint string) (*SnapshotRecord, error)
	GetLatestSnapshot(ctx context.Context) (*SnapshotRecord, error)
	ListSnapshots(ctx context.Context) ([]SnapshotInfo, error)

	// Score card operations. Re-scoring an entity supersedes its previous
	// card; superseded cards are kept, never deleted.
	SaveScoreCard(ctx context.Context, mode string, card *model.ScoreCard) error
	GetScoreCard(ctx context.Context, mode, entityID, evalContext string) (*model.ScoreCard, error)
	GetScoreCards(ctx context.Context, mode string) ([]model.ScoreCard, error)

	// Schema management.
	Migrate(ctx context.Context) error
	Close() error
}

// ReportWriter exports the computed tables for an external presentation or
// reporting collaborator.
type ReportWriter interface {
	// WriteWorkOrders exports the canonical work-order table.
	WriteWorkOrders(ctx context.Context, orders []model.WorkOrder) error
	// WriteKPI exports one KPI table for the named grouping dimension.
	WriteKPI(ctx context.Context, dimension string, records []model.KPIRecord) error
	// WriteScoreCards exports the three scorecard tables: scores by
	// question, the ranking, and the quantitative metrics.
	WriteScoreCards(ctx context.Context, cards []model.ScoreCard, records []model.KPIRecord) error
}
