package domain

// Symptom is one checked symptom with the severity picked next to it.
type Symptom struct {
	Name     string `json:"nombre"`
	Severity string `json:"severidad"`
}

// AnalysisRequest is the canonical payload sent to the rule engine.
// Field names on the wire are fixed by the backend contract.
type AnalysisRequest struct {
	Symptoms          []Symptom `json:"sintomas"`
	Allergies         []string  `json:"alergias"`
	ChronicConditions []string  `json:"cronicos"`
}

// Clone returns a deep copy so callers never share backing arrays.
func (r AnalysisRequest) Clone() AnalysisRequest {
	return AnalysisRequest{
		Symptoms:          append(make([]Symptom, 0, len(r.Symptoms)), r.Symptoms...),
		Allergies:         append(make([]string, 0, len(r.Allergies)), r.Allergies...),
		ChronicConditions: append(make([]string, 0, len(r.ChronicConditions)), r.ChronicConditions...),
	}
}

// AnalysisResultRow is a normalized match returned by the rule engine.
type AnalysisResultRow struct {
	Disease    string `json:"enfermedad"`
	Affinity   int    `json:"afinidad"`
	Medication string `json:"medicamento"`
	Urgency    string `json:"urgencia"`
}

// CloneRows copies a result slice. A nil input yields an empty slice.
func CloneRows(rows []AnalysisResultRow) []AnalysisResultRow {
	return append(make([]AnalysisResultRow, 0, len(rows)), rows...)
}

// SymptomControl mirrors one checkbox and its paired severity selector.
type SymptomControl struct {
	Name     string
	Checked  bool
	Severity string
}

// FormState is the raw intake form in declaration order.
type FormState struct {
	Controls  []SymptomControl
	Allergies string
	Chronic   string
}

// NewFormState returns an unchecked form for the given vocabulary.
func NewFormState(vocab Vocabulary) FormState {
	controls := make([]SymptomControl, 0, len(vocab.Symptoms))
	for _, name := range vocab.Symptoms {
		controls = append(controls, SymptomControl{Name: name, Severity: vocab.DefaultSeverity()})
	}
	return FormState{Controls: controls}
}

// Clone returns a deep copy of the form.
func (f FormState) Clone() FormState {
	f.Controls = append([]SymptomControl(nil), f.Controls...)
	return f
}

// Vocabulary lists the symptoms offered by the form and the severity levels
// available in each selector.
type Vocabulary struct {
	Symptoms   []string `yaml:"symptoms"`
	Severities []string `yaml:"severities"`
}

// DefaultSeverity is the first configured level, or "leve" when none are set.
func (v Vocabulary) DefaultSeverity() string {
	if len(v.Severities) == 0 {
		return DefaultSeverity
	}
	return v.Severities[0]
}

// HasSymptom reports whether name is part of the vocabulary.
func (v Vocabulary) HasSymptom(name string) bool {
	for _, symptom := range v.Symptoms {
		if symptom == name {
			return true
		}
	}
	return false
}

// DefaultVocabulary mirrors the rule base shipped with the backend.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Symptoms:   []string{"fiebre", "tos", "dolor_garganta", "dolor_cabeza", "fatiga"},
		Severities: []string{"leve", "moderado", "severo"},
	}
}
