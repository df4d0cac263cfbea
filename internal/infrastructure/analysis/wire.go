package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/doeshing/medilogic/internal/domain"
)

type wireResponse struct {
	Resultados []json.RawMessage `json:"resultados"`
}

type wireRow struct {
	Enfermedad  json.RawMessage `json:"enfermedad"`
	Afinidad    json.RawMessage `json:"afinidad"`
	Medicamento json.RawMessage `json:"medicamento"`
	Urgencia    json.RawMessage `json:"urgencia"`
}

func encodeRequest(req domain.AnalysisRequest) ([]byte, error) {
	return json.Marshal(domain.AnalysisRequest{
		Symptoms:          nonNil(req.Symptoms),
		Allergies:         nonNil(req.Allergies),
		ChronicConditions: nonNil(req.ChronicConditions),
	})
}

func decodeResponse(body []byte) ([]domain.AnalysisResultRow, error) {
	var response wireResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, err
	}

	rows := make([]domain.AnalysisResultRow, 0, len(response.Resultados))
	for i, raw := range response.Resultados {
		var row wireRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("resultados[%d]: %w", i, err)
		}
		rows = append(rows, row.normalize(raw))
	}
	return rows, nil
}

func (w wireRow) normalize(raw json.RawMessage) domain.AnalysisResultRow {
	row := domain.AnalysisResultRow{
		Disease:    diseaseName(w.Enfermedad),
		Affinity:   domain.CoerceAffinity(w.Afinidad),
		Medication: textOr(w.Medicamento, domain.DefaultMedication),
		Urgency:    textOr(w.Urgencia, domain.DefaultUrgency),
	}
	if strings.TrimSpace(row.Disease) == "" {
		row.Disease = compact(raw)
	}
	return row
}

// diseaseName returns the name when it is a string and the compact JSON of any
// other truthy value. Falsy values ("", 0, false, null) yield "".
func diseaseName(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "false", "0", `""`:
		return ""
	}
	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return text
	}
	var number float64
	if err := json.Unmarshal(trimmed, &number); err == nil && number == 0 {
		return ""
	}
	return compact(trimmed)
}

// textOr returns a string value as is, any other non-null value as compact
// JSON, and fallback when the field is missing or null.
func textOr(raw json.RawMessage, fallback string) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fallback
	}
	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return text
	}
	return compact(trimmed)
}

func compact(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
