package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ecastellanos/relia/internal/common"
	"github.com/ecastellanos/relia/internal/model"
)

// SaveScoreCard persists a score card, superseding any current card for the
// same (mode, entity, context). Superseded cards stay in the table: an
// evaluation is never implicitly deleted, only replaced by a newer one.
func (s *SQLiteStorage) SaveScoreCard(ctx context.Context, mode string, card *model.ScoreCard) error {
	if card == nil {
		return fmt.Errorf("score card must not be nil")
	}
	if err := card.Validate(); err != nil {
		return fmt.Errorf("invalid score card: %w", err)
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE score_cards SET superseded = 1, updated_at = ? WHERE mode = ? AND entity_id = ? AND context = ? AND superseded = 0`,
		time.Now().UTC(), mode, card.EntityID, card.Context); err != nil {
		return fmt.Errorf("failed to supersede previous score card: %w", err)
	}

	var percentage any
	if card.PercentageValid {
		percentage = card.Percentage
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO score_cards (mode, entity_id, context, total_score, max_possible_score, percentage)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		mode, card.EntityID, card.Context, card.TotalScore, card.MaxPossibleScore, percentage)
	if err != nil {
		return fmt.Errorf("failed to save score card: %w", err)
	}
	cardID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to resolve score card id: %w", err)
	}

	for _, qs := range card.Scores {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO score_card_answers (score_card_id, category, question, score, automatic)
			 VALUES (?, ?, ?, ?, ?)`,
			cardID, qs.Category, qs.Question, qs.Score, qs.Automatic); err != nil {
			return fmt.Errorf("failed to save answer %q: %w", qs.Question, err)
		}
	}

	return tx.Commit()
}

// GetScoreCard loads the current (non-superseded) card for one entity.
func (s *SQLiteStorage) GetScoreCard(ctx context.Context, mode, entityID, evalContext string) (*model.ScoreCard, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, entity_id, context, total_score, max_possible_score, percentage, created_at, updated_at
		 FROM score_cards
		 WHERE mode = ? AND entity_id = ? AND context = ? AND superseded = 0
		 ORDER BY id DESC LIMIT 1`,
		mode, entityID, evalContext)

	card, cardID, err := scanScoreCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadAnswers(ctx, cardID, card); err != nil {
		return nil, err
	}
	return card, nil
}

// GetScoreCards loads every current card for one evaluation mode, ordered by
// entity id.
func (s *SQLiteStorage) GetScoreCards(ctx context.Context, mode string) ([]model.ScoreCard, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, entity_id, context, total_score, max_possible_score, percentage, created_at, updated_at
		 FROM score_cards WHERE mode = ? AND superseded = 0 ORDER BY entity_id, context`,
		mode)
	if err != nil {
		return nil, fmt.Errorf("failed to load score cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		cards []model.ScoreCard
		ids   []int64
	)
	for rows.Next() {
		card, cardID, err := scanScoreCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *card)
		ids = append(ids, cardID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		if err := s.loadAnswers(ctx, id, &cards[i]); err != nil {
			return nil, err
		}
	}
	return cards, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScoreCard(row rowScanner) (*model.ScoreCard, int64, error) {
	var (
		card       model.ScoreCard
		cardID     int64
		percentage sql.NullFloat64
	)
	err := row.Scan(&cardID, &card.EntityID, &card.Context, &card.TotalScore,
		&card.MaxPossibleScore, &percentage, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("failed to scan score card: %w", err)
	}
	if percentage.Valid {
		card.Percentage = percentage.Float64
		card.PercentageValid = true
	}
	return &card, cardID, nil
}

func (s *SQLiteStorage) loadAnswers(ctx context.Context, cardID int64, card *model.ScoreCard) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, question, score, automatic FROM score_card_answers
		 WHERE score_card_id = ? ORDER BY rowid`, cardID)
	if err != nil {
		return fmt.Errorf("failed to load answers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var qs model.QuestionScore
		if err := rows.Scan(&qs.Category, &qs.Question, &qs.Score, &qs.Automatic); err != nil {
			return fmt.Errorf("failed to scan answer: %w", err)
		}
		card.Scores = append(card.Scores, qs)
	}
	return rows.Err()
}
