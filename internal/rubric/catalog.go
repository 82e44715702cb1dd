// Package rubric holds the fixed evaluation rubric: categories, questions,
// and the ordinal score scales, loaded once at startup and never mutated.
package rubric

// Evaluation categories.
const (
	CategoryCalidad     = "Calidad"
	CategoryOportunidad = "Oportunidad"
	CategoryPrecio      = "Precio"
	CategoryPostventa   = "Postventa"
	CategoryTecnico     = "Desempeño Técnico"
)

// MaxScore is the highest ordinal value of every question; the scorecard
// maximum is always MaxScore times the number of scored questions.
const MaxScore = 2

// Question is one rubric question with its discrete score scale.
type Question struct {
	Category  string
	Text      string
	Bands     map[int]string
	Automatic bool
}

var manualBands = map[int]string{
	2:  "Supera lo esperado",
	1:  "Cumple",
	0:  "Cumple parcialmente",
	-1: "No cumple",
}

// Catalog is the immutable rubric configuration.
type Catalog struct {
	questions []Question
}

// Default returns the fixed evaluation rubric. The Desempeño Técnico
// questions are automatic: their score comes from the matching KPIRecord,
// not from an evaluator.
func Default() *Catalog {
	manual := func(category, text string) Question {
		return Question{Category: category, Text: text, Bands: manualBands}
	}
	return &Catalog{questions: []Question{
		manual(CategoryCalidad, "Calidad del trabajo entregado"),
		manual(CategoryCalidad, "Cumplimiento de especificaciones técnicas"),
		manual(CategoryCalidad, "Reincidencia de fallas tras la intervención"),
		manual(CategoryCalidad, "Calidad de los repuestos utilizados"),
		manual(CategoryCalidad, "Orden y limpieza al cierre del trabajo"),

		manual(CategoryOportunidad, "Cumplimiento de fechas comprometidas"),
		manual(CategoryOportunidad, "Tiempo de respuesta ante emergencias"),
		manual(CategoryOportunidad, "Disponibilidad de personal calificado"),
		manual(CategoryOportunidad, "Entrega oportuna de informes"),

		manual(CategoryPrecio, "Competitividad de tarifas"),
		manual(CategoryPrecio, "Transparencia en la cotización"),
		manual(CategoryPrecio, "Cumplimiento del presupuesto acordado"),

		manual(CategoryPostventa, "Atención de garantías"),
		manual(CategoryPostventa, "Seguimiento posterior al servicio"),
		manual(CategoryPostventa, "Disposición para atender reclamos"),

		{
			Category:  CategoryTecnico,
			Text:      QuestionAvailability,
			Automatic: true,
			Bands: map[int]string{
				2: "Disponibilidad mayor o igual a 98%",
				1: "Disponibilidad entre 75% y 98%",
				0: "Disponibilidad menor a 75%",
			},
		},
		{
			Category:  CategoryTecnico,
			Text:      QuestionMTTR,
			Automatic: true,
			Bands: map[int]string{
				2: "MTTR menor o igual a 8 horas",
				1: "MTTR menor o igual a 24 horas",
				0: "MTTR mayor a 24 horas",
			},
		},
		{
			Category:  CategoryTecnico,
			Text:      QuestionMTBF,
			Automatic: true,
			Bands: map[int]string{
				2: "MTBF mayor o igual a 1000 horas",
				1: "MTBF mayor o igual a 500 horas",
				0: "MTBF menor a 500 horas",
			},
		},
		{
			Category:  CategoryTecnico,
			Text:      QuestionTier,
			Automatic: true,
			Bands: map[int]string{
				2: "Clasificación alta",
				1: "Clasificación media",
				0: "Clasificación baja",
			},
		},
	}}
}

// Questions returns a copy of the full question list, in rubric order.
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// ManualQuestions returns the questions an evaluator must answer.
func (c *Catalog) ManualQuestions() []Question {
	var out []Question
	for _, q := range c.questions {
		if !q.Automatic {
			out = append(out, q)
		}
	}
	return out
}

// AutomaticQuestions returns the technically-scored questions.
func (c *Catalog) AutomaticQuestions() []Question {
	var out []Question
	for _, q := range c.questions {
		if q.Automatic {
			out = append(out, q)
		}
	}
	return out
}

// Find locates a question by category and text.
func (c *Catalog) Find(category, text string) (Question, bool) {
	for _, q := range c.questions {
		if q.Category == category && q.Text == text {
			return q, true
		}
	}
	return Question{}, false
}

// ValidScore reports whether the ordinal value belongs to the question's
// scale.
func (q Question) ValidScore(score int) bool {
	_, ok := q.Bands[score]
	return ok
}
