// Package export writes the computed tables for external reporting. Each
// logical sheet becomes one CSV file in the target directory; a caller that
// wants a single workbook can bundle them.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ecastellanos/relia/internal/model"
	"github.com/ecastellanos/relia/internal/scorecard"
	"github.com/ecastellanos/relia/internal/service"
)

// CSVWriter implements the service.ReportWriter interface over a directory
// of CSV files.
type CSVWriter struct {
	dir string
}

var _ service.ReportWriter = (*CSVWriter)(nil)

// NewCSVWriter creates a writer rooted at the given directory, creating it
// if needed.
func NewCSVWriter(dir string) (*CSVWriter, error) {
	if dir == "" {
		return nil, fmt.Errorf("export directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &CSVWriter{dir: dir}, nil
}

// WriteWorkOrders exports the canonical work-order table.
func (w *CSVWriter) WriteWorkOrders(ctx context.Context, orders []model.WorkOrder) error {
	rows := [][]string{{
		"notification_id", "equipment_id", "provider", "service_type",
		"status", "description", "description_category", "technical_object",
		"schedule_label", "notification_date", "stoppage_hours", "cost_total",
	}}
	for _, wo := range orders {
		date := ""
		if !wo.NotificationDate.IsZero() {
			date = wo.NotificationDate.Format("2006-01-02")
		}
		rows = append(rows, []string{
			wo.ID, wo.EquipmentID, wo.Provider, wo.ServiceType,
			wo.Status, wo.Description, wo.DescriptionCategory, wo.TechnicalObject,
			wo.ScheduleLabel, date, formatFloat(wo.StoppageHours), formatFloat(wo.CostTotal),
		})
	}
	return w.writeFile(ctx, "work_orders.csv", rows)
}

// WriteKPI exports one KPI table for the named grouping dimension.
func (w *CSVWriter) WriteKPI(ctx context.Context, dimension string, records []model.KPIRecord) error {
	rows := [][]string{{
		"entity", "notification_count", "cost_total", "mttr_hours",
		"mtbf_hours", "availability_pct", "tier",
	}}
	for _, r := range records {
		rows = append(rows, []string{
			r.EntityKey, strconv.Itoa(r.NotificationCount), formatFloat(r.CostTotal),
			formatFloat(r.MTTRHours), formatFloat(r.MTBFHours),
			formatFloat(r.AvailabilityPct), string(r.Tier),
		})
	}
	return w.writeFile(ctx, fmt.Sprintf("kpi_%s.csv", dimension), rows)
}

// WriteScoreCards exports the three scorecard tables: the per-question
// qualitative scores, the ranked summary, and the quantitative metrics of
// the evaluated entities.
func (w *CSVWriter) WriteScoreCards(ctx context.Context, cards []model.ScoreCard, records []model.KPIRecord) error {
	scores := [][]string{{"entity", "context", "category", "question", "score", "automatic"}}
	for _, card := range cards {
		for _, qs := range card.Scores {
			scores = append(scores, []string{
				card.EntityID, card.Context, qs.Category, qs.Question,
				strconv.Itoa(qs.Score), strconv.FormatBool(qs.Automatic),
			})
		}
	}
	if err := w.writeFile(ctx, "scorecard_scores.csv", scores); err != nil {
		return err
	}

	ranking := [][]string{{"rank", "entity", "context", "total_score", "max_possible_score", "percentage"}}
	for i, card := range scorecard.Rank(cards) {
		pct := "N/A"
		if card.PercentageValid {
			pct = formatFloat(card.Percentage)
		}
		ranking = append(ranking, []string{
			strconv.Itoa(i + 1), card.EntityID, card.Context,
			strconv.Itoa(card.TotalScore), strconv.Itoa(card.MaxPossibleScore), pct,
		})
	}
	if err := w.writeFile(ctx, "scorecard_ranking.csv", ranking); err != nil {
		return err
	}

	return w.WriteKPI(ctx, "evaluated", records)
}

func (w *CSVWriter) writeFile(ctx context.Context, name string, rows [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(w.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	slog.Info("exported table", "file", path, "rows", len(rows)-1)
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
