package scorecard

import (
	"testing"

	"github.com/ecastellanos/relia/internal/model"
	"github.com/ecastellanos/relia/internal/rubric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAggregator() *Aggregator {
	return New(rubric.Default())
}

func highKPIRecord() *model.KPIRecord {
	return &model.KPIRecord{
		EntityKey:       "ACME",
		AvailabilityPct: 99.2,
		MTTRHours:       4,
		MTBFHours:       4374.92,
		Tier:            model.TierHigh,
	}
}

func TestScore_BlendsManualAndAutomatic(t *testing.T) {
	selections := Selections{
		{Category: rubric.CategoryCalidad, Question: "Calidad del trabajo entregado"}:      2,
		{Category: rubric.CategoryOportunidad, Question: "Tiempo de respuesta ante emergencias"}: 1,
		{Category: rubric.CategoryPrecio, Question: "Competitividad de tarifas"}:           -1,
	}

	card, err := newTestAggregator().Score("ACME", "Mecánica", selections, highKPIRecord())
	require.NoError(t, err)

	// 3 manual + 4 automatic questions scored.
	assert.Equal(t, 7, card.ScoredCount())
	assert.Equal(t, 14, card.MaxPossibleScore)
	// Manual 2+1-1 plus four automatic 2s.
	assert.Equal(t, 10, card.TotalScore)
	assert.True(t, card.PercentageValid)
	assert.InDelta(t, 100.0*10/14, card.Percentage, 0.001)
	require.NoError(t, card.Validate())
}

func TestScore_UnscoredQuestionsExcludedFromBothSides(t *testing.T) {
	// An incomplete evaluation is distinguishable from a low one: questions
	// without a selection count toward neither the total nor the maximum.
	selections := Selections{
		{Category: rubric.CategoryCalidad, Question: "Calidad del trabajo entregado"}: 0,
	}

	card, err := newTestAggregator().Score("ACME", "", selections, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, card.ScoredCount())
	assert.Equal(t, 2, card.MaxPossibleScore)
	assert.Equal(t, 0, card.TotalScore)
	assert.True(t, card.PercentageValid)
	assert.InDelta(t, 0.0, card.Percentage, 0.001)
}

func TestScore_NothingScoredIsNotApplicable(t *testing.T) {
	card, err := newTestAggregator().Score("ACME", "", Selections{}, nil)
	require.NoError(t, err)

	assert.Zero(t, card.ScoredCount())
	assert.Zero(t, card.MaxPossibleScore)
	assert.False(t, card.PercentageValid)
}

func TestScore_UnknownQuestionIgnored(t *testing.T) {
	selections := Selections{
		{Category: "Calidad", Question: "Pregunta inexistente"}: 2,
	}

	card, err := newTestAggregator().Score("ACME", "", selections, nil)
	require.NoError(t, err)
	assert.Zero(t, card.ScoredCount())
}

func TestScore_InvalidOrdinalRejected(t *testing.T) {
	selections := Selections{
		{Category: rubric.CategoryCalidad, Question: "Calidad del trabajo entregado"}: 5,
	}

	_, err := newTestAggregator().Score("ACME", "", selections, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid")
}

func TestScore_RequiresEntity(t *testing.T) {
	_, err := newTestAggregator().Score("", "", Selections{}, nil)
	require.Error(t, err)
}

func TestRank_OrdersByTotalThenEntity(t *testing.T) {
	cards := []model.ScoreCard{
		{EntityID: "GAMA", TotalScore: 10, MaxPossibleScore: 20},
		{EntityID: "BETA", TotalScore: 12, MaxPossibleScore: 20},
		{EntityID: "ACME", TotalScore: 10, MaxPossibleScore: 20},
	}

	ranked := Rank(cards)
	require.Len(t, ranked, 3)
	assert.Equal(t, "BETA", ranked[0].EntityID)
	// Ties break by entity id ascending.
	assert.Equal(t, "ACME", ranked[1].EntityID)
	assert.Equal(t, "GAMA", ranked[2].EntityID)

	// The input order is untouched.
	assert.Equal(t, "GAMA", cards[0].EntityID)
}
