package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ecastellanos/relia/internal/cli"
	"github.com/ecastellanos/relia/internal/reconcile"
	"github.com/ecastellanos/relia/internal/source"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// sourceFiles maps each system to the file name expected inside the ingest
// directory.
var sourceFiles = []struct {
	system source.System
	file   string
}{
	{source.SystemIW29, "iw29.csv"},
	{source.SystemIW39, "iw39.csv"},
	{source.SystemIH08, "ih08.csv"},
	{source.SystemIW65, "iw65.csv"},
	{source.SystemZPM015, "zpm015.csv"},
}

func ingestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <dir>",
		Short: "Reconcile the five source extracts into a canonical snapshot",
		Long: `Load the five CSV extracts (iw29.csv, iw39.csv, ih08.csv, iw65.csv,
zpm015.csv) from a directory, reconcile them into one canonical work-order
table and persist the result as an immutable snapshot.

Re-ingesting identical files is idempotent: the snapshot is content-addressed
by a hash of the inputs.`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().Bool("include-ptbo", false, "Keep rows whose status marks a pending cancellation (PTBO)")
	cmd.Flags().Bool("dry-run", false, "Reconcile and report without saving the snapshot")

	_ = viper.BindPFlag("ingest.include_ptbo", cmd.Flags().Lookup("include-ptbo"))
	_ = viper.BindPFlag("ingest.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dir := args[0]

	slog.Info(cli.FormatTitle("Reconciling maintenance extracts"))

	bar := progressbar.Default(int64(len(sourceFiles)), "loading extracts")
	tables := make(map[source.System]*source.Table, len(sourceFiles))
	for _, sf := range sourceFiles {
		t, err := source.LoadCSVFile(sf.system, filepath.Join(dir, sf.file))
		if err != nil {
			return err
		}
		tables[sf.system] = t
		_ = bar.Add(1)
	}

	srcs := reconcile.Sources{
		IW29:   tables[source.SystemIW29],
		IW39:   tables[source.SystemIW39],
		IH08:   tables[source.SystemIH08],
		IW65:   tables[source.SystemIW65],
		ZPM015: tables[source.SystemZPM015],
	}
	opts := reconcile.Options{ExcludePTBO: !viper.GetBool("ingest.include_ptbo")}

	snapshot, warnings, err := reconcile.Reconcile(ctx, srcs, opts)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	for _, w := range warnings {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("⚠ %s: %s", w.Source, w.Message)))
	}

	if viper.GetBool("ingest.dry_run") {
		slog.Info("Dry run, snapshot not saved",
			"rows", snapshot.Len(),
			"fingerprint", snapshot.Fingerprint())
		return nil
	}

	store, err := openStorage()
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := store.SaveSnapshot(ctx, snapshot.Fingerprint(), snapshot.CreatedAt(), snapshot.WorkOrders()); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("✓ Reconciled %d work orders (snapshot %s)",
		snapshot.Len(), snapshot.Fingerprint()[:12])))
	return nil
}

func snapshotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshots",
		Short: "List persisted snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			infos, err := store.ListSnapshots(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(infos))
			for _, info := range infos {
				rows = append(rows, []string{
					info.Fingerprint[:12],
					info.CreatedAt.Format("2006-01-02 15:04"),
					fmt.Sprintf("%d", info.RowCount),
				})
			}
			fmt.Print(cli.RenderTable([]string{"snapshot", "created", "rows"}, rows))
			return nil
		},
	}
}
