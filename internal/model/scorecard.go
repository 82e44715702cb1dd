package model

import (
	"fmt"
	"time"
)

// QuestionScore is one answered rubric question inside a score card.
// Automatic scores come from the KPI engine; manual ones from an evaluator.
type QuestionScore struct {
	Category  string
	Question  string
	Score     int
	Automatic bool
}

// ScoreCard is the combined qualitative and quantitative evaluation of one
// entity (a provider or a service type). Unanswered manual questions are
// simply absent from Scores: an incomplete evaluation is distinguishable
// from a deliberately low one.
type ScoreCard struct {
	CreatedAt        time.Time
	UpdatedAt        time.Time
	EntityID         string
	Context          string // the fixed dimension of the evaluation mode
	Scores           []QuestionScore
	TotalScore       int
	MaxPossibleScore int
	Percentage       float64
	PercentageValid  bool // false when no question has been scored
}

// ScoredCount returns how many questions carry a score.
func (s *ScoreCard) ScoredCount() int {
	return len(s.Scores)
}

// Validate checks the scorecard bound invariants.
func (s *ScoreCard) Validate() error {
	if s.EntityID == "" {
		return fmt.Errorf("score card is missing an entity id")
	}
	if s.TotalScore > s.MaxPossibleScore {
		return fmt.Errorf("total score %d exceeds maximum %d", s.TotalScore, s.MaxPossibleScore)
	}
	if s.MaxPossibleScore != 2*len(s.Scores) {
		return fmt.Errorf("maximum score %d does not match %d scored questions", s.MaxPossibleScore, len(s.Scores))
	}
	if s.PercentageValid && (s.Percentage < -100 || s.Percentage > 100) {
		return fmt.Errorf("percentage out of range: %.2f", s.Percentage)
	}
	return nil
}
