package storage

import (
	"context"
	"testing"
	"time"

	"github.com/ecastellanos/relia/internal/common"
	"github.com/ecastellanos/relia/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func testOrders() []model.WorkOrder {
	return []model.WorkOrder{
		{
			ID:                  "10001",
			EquipmentID:         "EQ-1",
			Provider:            "ACME Mantenimiento",
			ServiceType:         "Mecánica",
			Status:              "LIB",
			Description:         "MC/Cambio de rodamiento",
			DescriptionCategory: "MC",
			TechnicalObject:     "MOLINO DE BOLAS",
			ScheduleLabel:       "HORARIO_1",
			NotificationDate:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			StoppageHours:       5,
			CostTotal:           1200.50,
		},
		{
			ID:            "10004",
			Description:   "Revisión general",
			StoppageHours: 2,
		},
	}
}

func TestSaveSnapshot_RoundTrip(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveSnapshot(ctx, "fp-1", created, testOrders()))

	rec, err := store.GetSnapshot(ctx, "fp-1")
	require.NoError(t, err)
	assert.Equal(t, "fp-1", rec.Fingerprint)
	require.Len(t, rec.Orders, 2)

	got := rec.Orders[0]
	want := testOrders()[0]
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Provider, got.Provider)
	assert.Equal(t, want.DescriptionCategory, got.DescriptionCategory)
	assert.InDelta(t, want.StoppageHours, got.StoppageHours, 0.001)
	assert.InDelta(t, want.CostTotal, got.CostTotal, 0.001)
	assert.True(t, want.NotificationDate.Equal(got.NotificationDate))

	// The row without an equipment keeps its null fields.
	assert.False(t, rec.Orders[1].HasEquipment())
	assert.True(t, rec.Orders[1].NotificationDate.IsZero())
}

func TestSaveSnapshot_IdempotentByFingerprint(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveSnapshot(ctx, "fp-1", created, testOrders()))
	require.NoError(t, store.SaveSnapshot(ctx, "fp-1", created.Add(time.Hour), testOrders()))

	infos, err := store.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, 2, infos[0].RowCount)
}

func TestGetLatestSnapshot(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	_, err := store.GetLatestSnapshot(ctx)
	require.ErrorIs(t, err, common.ErrNotFound)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveSnapshot(ctx, "fp-old", base, testOrders()))
	require.NoError(t, store.SaveSnapshot(ctx, "fp-new", base.Add(time.Hour), testOrders()[:1]))

	rec, err := store.GetLatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fp-new", rec.Fingerprint)
	assert.Len(t, rec.Orders, 1)
}

func testCard() model.ScoreCard {
	return model.ScoreCard{
		EntityID: "ACME Mantenimiento",
		Context:  "Mecánica",
		Scores: []model.QuestionScore{
			{Category: "Calidad", Question: "Calidad del trabajo entregado", Score: 2},
			{Category: "Desempeño Técnico", Question: "Disponibilidad del equipo", Score: 2, Automatic: true},
		},
		TotalScore:       4,
		MaxPossibleScore: 4,
		Percentage:       100,
		PercentageValid:  true,
	}
}

func TestSaveScoreCard_RoundTrip(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	card := testCard()
	require.NoError(t, store.SaveScoreCard(ctx, "providers-within-service", &card))

	got, err := store.GetScoreCard(ctx, "providers-within-service", card.EntityID, card.Context)
	require.NoError(t, err)
	assert.Equal(t, card.TotalScore, got.TotalScore)
	assert.Equal(t, card.MaxPossibleScore, got.MaxPossibleScore)
	assert.True(t, got.PercentageValid)
	assert.InDelta(t, 100.0, got.Percentage, 0.001)
	require.Len(t, got.Scores, 2)
	assert.True(t, got.Scores[1].Automatic)
}

func TestSaveScoreCard_SupersedesPrevious(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	first := testCard()
	require.NoError(t, store.SaveScoreCard(ctx, "providers-within-service", &first))

	second := testCard()
	second.Scores = second.Scores[:1]
	second.TotalScore = 2
	second.MaxPossibleScore = 2
	require.NoError(t, store.SaveScoreCard(ctx, "providers-within-service", &second))

	// Re-scoring replaces the current card for all readers.
	got, err := store.GetScoreCard(ctx, "providers-within-service", first.EntityID, first.Context)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalScore)

	cards, err := store.GetScoreCards(ctx, "providers-within-service")
	require.NoError(t, err)
	require.Len(t, cards, 1)
}

func TestSaveScoreCard_NotApplicablePercentage(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	card := model.ScoreCard{EntityID: "BETA Servicios"}
	require.NoError(t, store.SaveScoreCard(ctx, "providers-within-service", &card))

	got, err := store.GetScoreCard(ctx, "providers-within-service", "BETA Servicios", "")
	require.NoError(t, err)
	assert.False(t, got.PercentageValid)
}

func TestSaveScoreCard_RejectsInvalid(t *testing.T) {
	store := setupTestStorage(t)

	card := testCard()
	card.TotalScore = 99
	err := store.SaveScoreCard(context.Background(), "providers-within-service", &card)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid score card")
}

func TestGetScoreCard_NotFound(t *testing.T) {
	store := setupTestStorage(t)

	_, err := store.GetScoreCard(context.Background(), "providers-within-service", "nobody", "")
	require.ErrorIs(t, err, common.ErrNotFound)
}
