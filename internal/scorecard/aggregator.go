// Package scorecard blends manual rubric selections with KPI-derived
// automatic scores into per-entity evaluations.
package scorecard

import (
	"fmt"
	"sort"
	"time"

	"github.com/ecastellanos/relia/internal/model"
	"github.com/ecastellanos/relia/internal/rubric"
)

// EvaluationMode selects which dimension is fixed and which varies. The two
// modes share all scoring logic; only the axis labels of the resulting
// summary differ.
type EvaluationMode string

// Evaluation modes.
const (
	ModeProvidersWithinService EvaluationMode = "providers-within-service"
	ModeServicesWithinProvider EvaluationMode = "services-within-provider"
)

// SelectionKey addresses one manual rubric question.
type SelectionKey struct {
	Category string
	Question string
}

// Selections are the evaluator's chosen scores. A question absent from the
// map is unscored, which is different from a low score: it counts toward
// neither the numerator nor the denominator.
type Selections map[SelectionKey]int

// Aggregator turns selections plus a KPIRecord into score cards.
type Aggregator struct {
	catalog *rubric.Catalog
}

// New creates an aggregator over the given rubric.
func New(catalog *rubric.Catalog) *Aggregator {
	return &Aggregator{catalog: catalog}
}

// Score builds the score card for one entity. Manual questions take the
// evaluator's selection when present; automatic questions are derived from
// the KPIRecord when one exists. An invalid ordinal for a question's scale
// is rejected rather than silently clamped.
func (a *Aggregator) Score(entityID, context string, selections Selections, rec *model.KPIRecord) (model.ScoreCard, error) {
	card := model.ScoreCard{
		EntityID:  entityID,
		Context:   context,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if entityID == "" {
		return card, fmt.Errorf("entity id is required")
	}

	auto := make(map[string]model.QuestionScore)
	for _, qs := range rubric.AutoScores(rec) {
		auto[qs.Question] = qs
	}

	for _, q := range a.catalog.Questions() {
		if q.Automatic {
			if qs, ok := auto[q.Text]; ok {
				card.Scores = append(card.Scores, qs)
			}
			continue
		}
		score, ok := selections[SelectionKey{Category: q.Category, Question: q.Text}]
		if !ok {
			continue
		}
		if !q.ValidScore(score) {
			return model.ScoreCard{}, fmt.Errorf("score %d is not valid for question %q", score, q.Text)
		}
		card.Scores = append(card.Scores, model.QuestionScore{
			Category: q.Category,
			Question: q.Text,
			Score:    score,
		})
	}

	for _, qs := range card.Scores {
		card.TotalScore += qs.Score
	}
	card.MaxPossibleScore = rubric.MaxScore * len(card.Scores)
	if card.MaxPossibleScore > 0 {
		card.Percentage = float64(card.TotalScore) / float64(card.MaxPossibleScore) * 100
		card.PercentageValid = true
	}
	return card, nil
}

// Rank orders score cards by total score descending. Ties break by entity
// id ascending; the domain defines no secondary ranking field, so the
// tie-break is explicit rather than an accident of sort stability.
func Rank(cards []model.ScoreCard) []model.ScoreCard {
	ranked := make([]model.ScoreCard, len(cards))
	copy(ranked, cards)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalScore != ranked[j].TotalScore {
			return ranked[i].TotalScore > ranked[j].TotalScore
		}
		return ranked[i].EntityID < ranked[j].EntityID
	})
	return ranked
}
