package main

import (
	"fmt"

	"github.com/ecastellanos/relia/internal/cli"
	"github.com/ecastellanos/relia/internal/scorecard"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func rankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Show the ranked score-card summary for one evaluation mode",
		RunE:  runRank,
	}

	cmd.Flags().StringP("mode", "m", "providers", "Evaluation mode (providers, services)")
	_ = viper.BindPFlag("rank.mode", cmd.Flags().Lookup("mode"))

	return cmd
}

func runRank(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	mode, _, err := parseMode(viper.GetString("rank.mode"))
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

	cards, err := store.GetScoreCards(ctx, string(mode))
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No score cards yet; run 'relia score' first."))
		return nil
	}

	rows := make([][]string, 0, len(cards))
	for i, card := range scorecard.Rank(cards) {
		pct := "N/A"
		if card.PercentageValid {
			pct = fmt.Sprintf("%.1f%%", card.Percentage)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			card.EntityID,
			card.Context,
			fmt.Sprintf("%d/%d", card.TotalScore, card.MaxPossibleScore),
			pct,
		})
	}
	fmt.Println(cli.FormatTitle(fmt.Sprintf("Ranking (%s)", mode)))
	fmt.Print(cli.RenderTable([]string{"#", "entity", "context", "score", "percentage"}, rows))
	return nil
}
