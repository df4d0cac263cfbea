package domain

import "time"

// HistoryEntry pairs a submitted payload with the rows rendered for it.
type HistoryEntry struct {
	Timestamp time.Time           `json:"timestamp"`
	Input     AnalysisRequest     `json:"input"`
	Output    []AnalysisResultRow `json:"output"`
}

// Clone returns a deep copy of the entry.
func (e HistoryEntry) Clone() HistoryEntry {
	return HistoryEntry{
		Timestamp: e.Timestamp,
		Input:     e.Input.Clone(),
		Output:    CloneRows(e.Output),
	}
}

// Fragment is rendered result markup plus the rows it was built from.
// Markup is already escaped and safe to embed verbatim.
type Fragment struct {
	Markup     string
	Empty      bool
	Rows       []AnalysisResultRow
	CapturedAt time.Time
}

// Rendered reports whether the fragment holds any markup.
func (f Fragment) Rendered() bool {
	return f.Markup != ""
}
