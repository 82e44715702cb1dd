package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ecastellanos/relia/internal/cli"
	"github.com/ecastellanos/relia/internal/common"
	"github.com/ecastellanos/relia/internal/kpi"
	"github.com/ecastellanos/relia/internal/model"
	"github.com/ecastellanos/relia/internal/rubric"
	"github.com/ecastellanos/relia/internal/schedule"
	"github.com/ecastellanos/relia/internal/scorecard"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <entity>",
		Short: "Score one provider or service type against the rubric",
		Long: `Blend an evaluator's manual rubric answers with the automatic technical
scores derived from the entity's KPIs, and persist the resulting score card.

Manual answers come from a CSV file with category,question,score rows.
Questions left out of the file stay unscored: they count toward neither the
total nor the maximum, so an incomplete evaluation is distinguishable from a
deliberately low one.`,
		Args: cobra.ExactArgs(1),
		RunE: runScore,
	}

	cmd.Flags().StringP("mode", "m", "providers", "Evaluation mode (providers, services)")
	cmd.Flags().String("context", "", "Fixed dimension value (service type or provider name)")
	cmd.Flags().StringP("answers", "a", "", "CSV file with the evaluator's manual answers")

	_ = viper.BindPFlag("score.mode", cmd.Flags().Lookup("mode"))
	_ = viper.BindPFlag("score.context", cmd.Flags().Lookup("context"))
	_ = viper.BindPFlag("score.answers", cmd.Flags().Lookup("answers"))

	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	entityID := args[0]

	mode, by, err := parseMode(viper.GetString("score.mode"))
	if err != nil {
		return err
	}

	selections := scorecard.Selections{}
	if path := viper.GetString("score.answers"); path != "" {
		selections, err = readAnswers(path)
		if err != nil {
			return fmt.Errorf("failed to read answers: %w", err)
		}
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
	if err != nil && !isMissingColumns(err) {
		return err
	}
	rec := findRecord(records, entityID)

	aggregator := scorecard.New(rubric.Default())
	card, err := aggregator.Score(entityID, viper.GetString("score.context"), selections, rec)
	if err != nil {
		return err
	}

	if err := store.SaveScoreCard(ctx, string(mode), &card); err != nil {
		return fmt.Errorf("failed to save score card: %w", err)
	}

	pct := "N/A"
	if card.PercentageValid {
		pct = fmt.Sprintf("%.1f%%", card.Percentage)
	}
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("✓ Scored %s: %d/%d (%s), %d questions answered",
		entityID, card.TotalScore, card.MaxPossibleScore, pct, card.ScoredCount())))
	return nil
}

// readAnswers parses a category,question,score CSV into selections. A header
// row is tolerated and skipped.
func readAnswers(path string) (scorecard.Selections, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	selections := scorecard.Selections{}
	for line := 0; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		score, err := strconv.Atoi(record[2])
		if err != nil {
			if line == 0 {
				// Header row.
				continue
			}
			return nil, fmt.Errorf("line %d: invalid score %q", line+1, record[2])
		}
		selections[scorecard.SelectionKey{Category: record[0], Question: record[1]}] = score
	}
	return selections, nil
}

func findRecord(records []model.KPIRecord, entityID string) *model.KPIRecord {
	for i := range records {
		if records[i].EntityKey == entityID {
			return &records[i]
		}
	}
	return nil
}

func isMissingColumns(err error) bool {
	var missing *common.MissingColumnsError
	return errors.As(err, &missing)
}
