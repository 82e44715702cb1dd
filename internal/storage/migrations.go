package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Snapshots and canonical work orders",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS snapshots (
					fingerprint TEXT PRIMARY KEY,
					created_at DATETIME NOT NULL,
					row_count INTEGER NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS work_orders (
					snapshot_fingerprint TEXT NOT NULL,
					seq INTEGER NOT NULL,
					notification_id TEXT NOT NULL,
					equipment_id TEXT,
					provider TEXT,
					service_type TEXT,
					status TEXT,
					description TEXT,
					description_category TEXT,
					technical_object TEXT,
					schedule_label TEXT,
					notification_date DATETIME,
					stoppage_hours REAL NOT NULL DEFAULT 0,
					cost_total REAL NOT NULL DEFAULT 0,
					PRIMARY KEY (snapshot_fingerprint, seq),
					FOREIGN KEY (snapshot_fingerprint) REFERENCES snapshots(fingerprint)
				)`,
				`CREATE INDEX idx_work_orders_equipment ON work_orders(equipment_id)`,
				`CREATE INDEX idx_work_orders_provider ON work_orders(provider)`,
			}
			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Score cards and answers",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS score_cards (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					mode TEXT NOT NULL,
					entity_id TEXT NOT NULL,
					context TEXT NOT NULL DEFAULT '',
					total_score INTEGER NOT NULL,
					max_possible_score INTEGER NOT NULL,
					percentage REAL,
					superseded INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_score_cards_entity ON score_cards(mode, entity_id, context)`,

				`CREATE TABLE IF NOT EXISTS score_card_answers (
					score_card_id INTEGER NOT NULL,
					category TEXT NOT NULL,
					question TEXT NOT NULL,
					score INTEGER NOT NULL,
					automatic INTEGER NOT NULL DEFAULT 0,
					FOREIGN KEY (score_card_id) REFERENCES score_cards(id)
				)`,
				`CREATE INDEX idx_score_card_answers_card ON score_card_answers(score_card_id)`,
			}
			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return err
				}
			}
			return nil
		},
	},
}

// Migrate brings the database schema up to the expected version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_versions (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		description TEXT
	)`); err != nil {
		return fmt.Errorf("failed to create schema_versions table: %w", err)
	}

	var current int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_versions`).Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		tx, err := s.beginTx(ctx)
		if err != nil {
			return err
		}
		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_versions (version, description) VALUES (?, ?)`,
			m.Version, m.Description); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
		slog.Info("applied migration", "version", m.Version, "description", m.Description)
	}

	return nil
}
