package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ecastellanos/relia/internal/common"
	"github.com/ecastellanos/relia/internal/model"
	"github.com/ecastellanos/relia/internal/service"
)

// SaveSnapshot persists one reconciled snapshot with its canonical rows.
// Snapshots are immutable: saving a fingerprint that already exists is a
// no-op, which keeps repeated ingests of identical input idempotent.
func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, fingerprint string, createdAt time.Time, orders []model.WorkOrder) error {
	if fingerprint == "" {
		return fmt.Errorf("fingerprint must not be empty")
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO snapshots (fingerprint, created_at, row_count) VALUES (?, ?, ?)`,
		fingerprint, createdAt.UTC(), len(orders))
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Already persisted; the snapshot content is content-addressed.
		return tx.Commit()
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO work_orders (
		snapshot_fingerprint, seq, notification_id, equipment_id, provider,
		service_type, status, description, description_category,
		technical_object, schedule_label, notification_date, stoppage_hours,
		cost_total
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare work order insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, wo := range orders {
		var date any
		if !wo.NotificationDate.IsZero() {
			date = wo.NotificationDate.UTC()
		}
		if _, err := stmt.ExecContext(ctx,
			fingerprint, i, wo.ID, wo.EquipmentID, wo.Provider,
			wo.ServiceType, wo.Status, wo.Description, wo.DescriptionCategory,
			wo.TechnicalObject, wo.ScheduleLabel, date, wo.StoppageHours,
			wo.CostTotal,
		); err != nil {
			return fmt.Errorf("failed to save work order %s: %w", wo.ID, err)
		}
	}

	return tx.Commit()
}

// GetSnapshot loads one snapshot by fingerprint.
func (s *SQLiteStorage) GetSnapshot(ctx context.Context, fingerprint string) (*service.SnapshotRecord, error) {
	var rec service.SnapshotRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT fingerprint, created_at FROM snapshots WHERE fingerprint = ?`,
		fingerprint).Scan(&rec.Fingerprint, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	orders, err := s.loadWorkOrders(ctx, rec.Fingerprint)
	if err != nil {
		return nil, err
	}
	rec.Orders = orders
	return &rec, nil
}

// GetLatestSnapshot loads the most recently reconciled snapshot.
func (s *SQLiteStorage) GetLatestSnapshot(ctx context.Context) (*service.SnapshotRecord, error) {
	var fingerprint string
	err := s.db.QueryRowContext(ctx,
		`SELECT fingerprint FROM snapshots ORDER BY created_at DESC, fingerprint LIMIT 1`).Scan(&fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest snapshot: %w", err)
	}
	return s.GetSnapshot(ctx, fingerprint)
}

// ListSnapshots returns snapshot metadata, newest first.
func (s *SQLiteStorage) ListSnapshots(ctx context.Context) ([]service.SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fingerprint, created_at, row_count FROM snapshots ORDER BY created_at DESC, fingerprint`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var infos []service.SnapshotInfo
	for rows.Next() {
		var info service.SnapshotInfo
		if err := rows.Scan(&info.Fingerprint, &info.CreatedAt, &info.RowCount); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func (s *SQLiteStorage) loadWorkOrders(ctx context.Context, fingerprint string) ([]model.WorkOrder, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		notification_id, equipment_id, provider, service_type, status,
		description, description_category, technical_object, schedule_label,
		notification_date, stoppage_hours, cost_total
	FROM work_orders WHERE snapshot_fingerprint = ? ORDER BY seq`, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to load work orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var orders []model.WorkOrder
	for rows.Next() {
		var (
			wo   model.WorkOrder
			date sql.NullTime
		)
		if err := rows.Scan(
			&wo.ID, &wo.EquipmentID, &wo.Provider, &wo.ServiceType,
			&wo.Status, &wo.Description, &wo.DescriptionCategory,
			&wo.TechnicalObject, &wo.ScheduleLabel, &date,
			&wo.StoppageHours, &wo.CostTotal,
		); err != nil {
			return nil, fmt.Errorf("failed to scan work order: %w", err)
		}
		if date.Valid {
			wo.NotificationDate = date.Time
		}
		orders = append(orders, wo)
	}
	return orders, rows.Err()
}
