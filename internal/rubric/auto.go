package rubric

import "github.com/ecastellanos/relia/internal/model"

// Texts of the automatic Desempeño Técnico questions.
const (
	QuestionAvailability = "Disponibilidad del equipo"
	QuestionMTTR         = "Tiempo medio de reparación (MTTR)"
	QuestionMTBF         = "Tiempo medio entre fallas (MTBF)"
	QuestionTier         = "Clasificación general del equipo"
)

// AutoAvailabilityScore bands an availability percentage for the automatic
// rubric question. These bands (98/75) are intentionally stricter than the
// free-standing tier bands (90/75); the two policies coexist in the domain
// and must not be unified.
func AutoAvailabilityScore(availabilityPct float64) int {
	switch {
	case availabilityPct >= 98:
		return 2
	case availabilityPct >= 75:
		return 1
	default:
		return 0
	}
}

// AutoMTTRScore bands mean time to repair: shorter repairs score higher.
func AutoMTTRScore(mttrHours float64) int {
	switch {
	case mttrHours <= 8:
		return 2
	case mttrHours <= 24:
		return 1
	default:
		return 0
	}
}

// AutoMTBFScore bands mean time between failures: longer uptime scores
// higher.
func AutoMTBFScore(mtbfHours float64) int {
	switch {
	case mtbfHours >= 1000:
		return 2
	case mtbfHours >= 500:
		return 1
	default:
		return 0
	}
}

// AutoTierScore maps the availability tier onto the ordinal scale.
func AutoTierScore(tier model.Tier) int {
	switch tier {
	case model.TierHigh:
		return 2
	case model.TierMedium:
		return 1
	default:
		return 0
	}
}

// AutoScores derives the four automatic question scores from a KPIRecord.
// A nil record yields no scores: without KPI data the technical questions
// stay unanswered rather than silently zero.
func AutoScores(rec *model.KPIRecord) []model.QuestionScore {
	if rec == nil {
		return nil
	}
	return []model.QuestionScore{
		{Category: CategoryTecnico, Question: QuestionAvailability, Score: AutoAvailabilityScore(rec.AvailabilityPct), Automatic: true},
		{Category: CategoryTecnico, Question: QuestionMTTR, Score: AutoMTTRScore(rec.MTTRHours), Automatic: true},
		{Category: CategoryTecnico, Question: QuestionMTBF, Score: AutoMTBFScore(rec.MTBFHours), Automatic: true},
		{Category: CategoryTecnico, Question: QuestionTier, Score: AutoTierScore(rec.Tier), Automatic: true},
	}
}
