package helpers

import (
	"fmt"
	"strings"

	"github.com/doeshing/medilogic/internal/application/intake"
	"github.com/doeshing/medilogic/internal/domain"
)

// FormFromFlags builds the intake form from --symptom name[=severity] values
// and the free-text list flags. Names and severities must be in vocab.
func FormFromFlags(symptoms []string, allergies, chronic string, vocab domain.Vocabulary) (domain.FormState, error) {
	form := domain.NewFormState(vocab)
	index := make(map[string]int, len(form.Controls))
	for i, control := range form.Controls {
		index[control.Name] = i
	}

	for _, raw := range symptoms {
		name, severity, _ := strings.Cut(raw, "=")
		name = strings.TrimSpace(name)
		severity = strings.TrimSpace(severity)
		i, ok := index[name]
		if !ok {
			return domain.FormState{}, fmt.Errorf("unknown symptom %q (known: %s)", name, strings.Join(vocab.Symptoms, ", "))
		}
		if severity != "" && !contains(vocab.Severities, severity) {
			return domain.FormState{}, fmt.Errorf("unknown severity %q for %s (known: %s)", severity, name, strings.Join(vocab.Severities, ", "))
		}
		form.Controls[i].Checked = true
		if severity != "" {
			form.Controls[i].Severity = severity
		}
	}
	form.Allergies = allergies
	form.Chronic = chronic
	return form, nil
}

// FlagsFromForm renders a form as the analyze flags that reproduce it.
func FlagsFromForm(form domain.FormState) string {
	var parts []string
	for _, control := range form.Controls {
		if control.Checked {
			parts = append(parts, fmt.Sprintf("--symptom %s=%s", control.Name, control.Severity))
		}
	}
	if list := intake.SplitList(form.Allergies); len(list) > 0 {
		parts = append(parts, fmt.Sprintf("--allergies %q", strings.Join(list, ", ")))
	}
	if list := intake.SplitList(form.Chronic); len(list) > 0 {
		parts = append(parts, fmt.Sprintf("--chronic %q", strings.Join(list, ", ")))
	}
	return strings.Join(parts, " ")
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
