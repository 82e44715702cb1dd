package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ecastellanos/relia/internal/kpi"
	"github.com/ecastellanos/relia/internal/scorecard"
	"github.com/ecastellanos/relia/internal/storage"
	"github.com/spf13/viper"
)

// openStorage opens the configured database and applies pending migrations.
func openStorage() (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "relia", "relia.db")
	}
	return storage.NewSQLiteStorage(dbPath)
}

// parseGroupBy maps the --by flag onto a grouping dimension.
func parseGroupBy(value string) (kpi.GroupBy, error) {
	switch value {
	case "provider":
		return kpi.GroupByProvider, nil
	case "service", "service-type":
		return kpi.GroupByServiceType, nil
	case "equipment":
		return kpi.GroupByEquipment, nil
	default:
		return "", fmt.Errorf("invalid grouping dimension %q (want provider, service or equipment)", value)
	}
}

// parseMode maps the --mode flag onto an evaluation mode and the dimension
// whose KPI record feeds the automatic questions.
func parseMode(value string) (scorecard.EvaluationMode, kpi.GroupBy, error) {
	switch value {
	case "providers":
		return scorecard.ModeProvidersWithinService, kpi.GroupByProvider, nil
	case "services":
		return scorecard.ModeServicesWithinProvider, kpi.GroupByServiceType, nil
	default:
		return "", "", fmt.Errorf("invalid evaluation mode %q (want providers or services)", value)
	}
}
