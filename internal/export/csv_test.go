package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/ecastellanos/relia/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteKPI(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewCSVWriter(dir)
	require.NoError(t, err)

	records := []model.KPIRecord{
		{EntityKey: "ACME", NotificationCount: 2, CostTotal: 1500, MTTRHours: 4, MTBFHours: 4374.92, AvailabilityPct: 99.91, Tier: model.TierHigh},
	}
	require.NoError(t, writer.WriteKPI(context.Background(), "provider", records))

	rows := readCSV(t, filepath.Join(dir, "kpi_provider.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, "entity", rows[0][0])
	assert.Equal(t, []string{"ACME", "2", "1500.00", "4.00", "4374.92", "99.91", "Alta"}, rows[1])
}

func TestWriteScoreCards_ThreeTables(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewCSVWriter(dir)
	require.NoError(t, err)

	cards := []model.ScoreCard{
		{
			EntityID: "BETA",
			Scores: []model.QuestionScore{
				{Category: "Calidad", Question: "Calidad del trabajo entregado", Score: 1},
			},
			TotalScore:       1,
			MaxPossibleScore: 2,
			Percentage:       50,
			PercentageValid:  true,
		},
		{
			EntityID:         "ACME",
			TotalScore:       0,
			MaxPossibleScore: 0,
		},
	}
	records := []model.KPIRecord{{EntityKey: "ACME", Tier: model.TierHigh}}

	require.NoError(t, writer.WriteScoreCards(context.Background(), cards, records))

	scores := readCSV(t, filepath.Join(dir, "scorecard_scores.csv"))
	require.Len(t, scores, 2)
	assert.Equal(t, "BETA", scores[1][0])

	ranking := readCSV(t, filepath.Join(dir, "scorecard_ranking.csv"))
	require.Len(t, ranking, 3)
	// BETA outscores ACME; the unscored card reports N/A, not zero.
	assert.Equal(t, []string{"1", "BETA", "", "1", "2", "50.00"}, ranking[1])
	assert.Equal(t, "N/A", ranking[2][5])

	metrics := readCSV(t, filepath.Join(dir, "kpi_evaluated.csv"))
	require.Len(t, metrics, 2)
	assert.Equal(t, "ACME", metrics[1][0])
}

func TestWriteWorkOrders(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewCSVWriter(dir)
	require.NoError(t, err)

	orders := []model.WorkOrder{
		{ID: "10001", EquipmentID: "EQ-1", Provider: "ACME", StoppageHours: 5, CostTotal: 1200.5},
	}
	require.NoError(t, writer.WriteWorkOrders(context.Background(), orders))

	rows := readCSV(t, filepath.Join(dir, "work_orders.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, "10001", rows[1][0])
	assert.Equal(t, "1200.50", rows[1][11])
	// Unset dates export as empty, not a zero-value timestamp.
	assert.Equal(t, "", rows[1][9])
}
