package main

import (
	"errors"
	"fmt"

	"github.com/ecastellanos/relia/internal/cli"
	"github.com/ecastellanos/relia/internal/common"
	"github.com/ecastellanos/relia/internal/export"
	"github.com/ecastellanos/relia/internal/kpi"
	"github.com/ecastellanos/relia/internal/schedule"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the canonical, KPI and score-card tables as CSV files",
		Long: `Write the canonical work-order table, the KPI tables and the three
score-card tables (scores by question, ranking, quantitative metrics) into a
directory, one CSV file per logical sheet.`,
		RunE: runExport,
	}

	cmd.Flags().StringP("out", "o", "relia-export", "Target directory")
	cmd.Flags().StringP("mode", "m", "providers", "Evaluation mode for score-card tables (providers, services)")

	_ = viper.BindPFlag("export.out", cmd.Flags().Lookup("out"))
	_ = viper.BindPFlag("export.mode", cmd.Flags().Lookup("mode"))

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	mode, by, err := parseMode(viper.GetString("export.mode"))
	if err != nil {
		return err
	}

	store, err := openStorage()
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() { _ = store.Close() }()
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	snap, err := store.GetLatestSnapshot(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NewUserError("no snapshot found, run 'relia ingest' first", err)
		}
		return err
	}

	writer, err := export.NewCSVWriter(viper.GetString("export.out"))
	if err != nil {
		return err
	}

	if err := writer.WriteWorkOrders(ctx, snap.Orders); err != nil {
		return err
	}

	engine := kpi.New(schedule.DefaultCatalog())
	for _, dim := range []kpi.GroupBy{kpi.GroupByProvider, kpi.GroupByServiceType, kpi.GroupByEquipment} {
		records, err := engine.Compute(snap.Orders, dim)
		if err != nil && !isMissingColumns(err) {
			return err
		}
		if err := writer.WriteKPI(ctx, string(dim), records); err != nil {
			return err
		}
	}

	cards, err := store.GetScoreCards(ctx, string(mode))
	if err != nil {
		return err
	}
	records, err := engine.Compute(snap.Orders, by)
	if err != nil && !isMissingColumns(err) {
		return err
	}
	if err := writer.WriteScoreCards(ctx, cards, records); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("✓ Exported tables to %s", viper.GetString("export.out"))))
	return nil
}
