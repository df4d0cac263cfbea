package intake

import (
	"strings"

	"github.com/doeshing/medilogic/internal/domain"
)

// Build normalizes raw form state into an analysis payload. It fails with a
// *domain.ValidationError when no symptom is checked.
func Build(form domain.FormState, vocab domain.Vocabulary) (domain.AnalysisRequest, error) {
	symptoms := make([]domain.Symptom, 0, len(form.Controls))
	seen := make(map[string]bool, len(form.Controls))
	for _, control := range form.Controls {
		name := strings.TrimSpace(control.Name)
		if !control.Checked || name == "" || seen[name] {
			continue
		}
		seen[name] = true
		severity := strings.TrimSpace(control.Severity)
		if severity == "" {
			severity = vocab.DefaultSeverity()
		}
		symptoms = append(symptoms, domain.Symptom{Name: name, Severity: severity})
	}
	if len(symptoms) == 0 {
		return domain.AnalysisRequest{}, &domain.ValidationError{Message: domain.MsgNoSymptomsSelected}
	}

	return domain.AnalysisRequest{
		Symptoms:          symptoms,
		Allergies:         SplitList(form.Allergies),
		ChronicConditions: SplitList(form.Chronic),
	}, nil
}

// SplitList parses comma-separated free text. Segments are trimmed and empty
// ones dropped; duplicates are kept.
func SplitList(text string) []string {
	items := make([]string, 0)
	for _, part := range strings.Split(text, ",") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// FormFromRequest rebuilds the form a request was built from. Symptoms outside
// the vocabulary are dropped.
func FormFromRequest(req domain.AnalysisRequest, vocab domain.Vocabulary) domain.FormState {
	severities := make(map[string]string, len(req.Symptoms))
	for _, symptom := range req.Symptoms {
		if _, ok := severities[symptom.Name]; !ok {
			severities[symptom.Name] = symptom.Severity
		}
	}

	form := domain.NewFormState(vocab)
	for i := range form.Controls {
		severity, checked := severities[form.Controls[i].Name]
		form.Controls[i].Checked = checked
		if checked && severity != "" {
			form.Controls[i].Severity = severity
		}
	}
	form.Allergies = strings.Join(req.Allergies, ", ")
	form.Chronic = strings.Join(req.ChronicConditions, ", ")
	return form
}
