package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ecastellanos/relia/internal/cli"
	"github.com/ecastellanos/relia/internal/common"
	"github.com/ecastellanos/relia/internal/export"
	"github.com/ecastellanos/relia/internal/kpi"
	"github.com/ecastellanos/relia/internal/schedule"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func kpiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kpi",
		Short: "Compute reliability KPIs over the latest snapshot",
		Long: `Compute notification count, total cost, MTTR, MTBF, availability and
tier per provider, service type or equipment, using the equipment
operating-schedule catalog.`,
		RunE: runKPI,
	}

	cmd.Flags().StringP("by", "b", "provider", "Grouping dimension (provider, service, equipment)")
	cmd.Flags().String("export-dir", "", "Also export the KPI table as CSV into this directory")

	_ = viper.BindPFlag("kpi.by", cmd.Flags().Lookup("by"))
	_ = viper.BindPFlag("kpi.export_dir", cmd.Flags().Lookup("export-dir"))

	return cmd
}

func runKPI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	by, err := parseGroupBy(viper.GetString("kpi.by"))
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

	engine := kpi.New(schedule.DefaultCatalog())
	records, err := engine.Compute(snap.Orders, by)
	if err != nil {
		var missing *common.MissingColumnsError
		if errors.As(err, &missing) {
			slog.Warn("KPI computation degraded", "missing", missing.Columns)
		} else {
			return err
		}
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.EntityKey,
			fmt.Sprintf("%d", r.NotificationCount),
			fmt.Sprintf("%.2f", r.CostTotal),
			fmt.Sprintf("%.2f", r.MTTRHours),
			fmt.Sprintf("%.2f", r.MTBFHours),
			fmt.Sprintf("%.2f", r.AvailabilityPct),
			string(r.Tier),
		})
	}
	fmt.Println(cli.FormatTitle(fmt.Sprintf("Reliability KPIs by %s", by)))
	fmt.Print(cli.RenderTable(
		[]string{"entity", "count", "cost", "mttr (h)", "mtbf (h)", "availability %", "tier"},
		rows))

	if dir := viper.GetString("kpi.export_dir"); dir != "" {
		writer, err := export.NewCSVWriter(dir)
		if err != nil {
			return err
		}
		if err := writer.WriteKPI(ctx, string(by), records); err != nil {
			return fmt.Errorf("failed to export KPI table: %w", err)
		}
	}

	return nil
}
