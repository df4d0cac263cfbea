package helpers

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/doeshing/medilogic/internal/domain"
)

const barScale = 5

// RenderRows prints result rows as an aligned table with an affinity bar.
func RenderRows(out io.Writer, rows []domain.AnalysisResultRow) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DISEASE\tAFFINITY\tMEDICATION\tURGENCY\t")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%3d%% %s\t%s\t%s\t\n",
			row.Disease, row.Affinity, affinityBar(row.Affinity), row.Medication, row.Urgency)
	}
	_ = w.Flush()
}

// RenderFragment prints a rendered result for the terminal: the table, or the
// "no matches" notice for an empty result.
func RenderFragment(out io.Writer, fragment domain.Fragment) {
	if fragment.Empty || len(fragment.Rows) == 0 {
		fmt.Fprintln(out, domain.MsgNoMatches)
		return
	}
	RenderRows(out, fragment.Rows)
	fmt.Fprintf(out, "\n%s, %s\n", domain.ReportSource, fragment.CapturedAt.Local().Format(domain.TimestampFormat))
	fmt.Fprintln(out, domain.ReportDisclaimer)
}

// RenderEntries prints the history list, newest first, with its indexes.
func RenderEntries(out io.Writer, entries []domain.HistoryEntry) {
	renderEntriesAt(out, entries, time.Now())
}

func renderEntriesAt(out io.Writer, entries []domain.HistoryEntry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTIME\tAGE\tSYMPTOMS\tMATCHES\t")
	for i, entry := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t\n",
			i,
			entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
			humanize.RelTime(entry.Timestamp, now, "ago", "from now"),
			SummarizeSymptoms(entry.Input),
			len(entry.Output),
		)
	}
	_ = w.Flush()
}

// SummarizeSymptoms renders "name=severity" pairs.
func SummarizeSymptoms(req domain.AnalysisRequest) string {
	parts := make([]string, 0, len(req.Symptoms))
	for _, symptom := range req.Symptoms {
		parts = append(parts, symptom.Name+"="+symptom.Severity)
	}
	return strings.Join(parts, ", ")
}

func affinityBar(value int) string {
	filled := domain.ClampAffinity(value) / barScale
	return strings.Repeat("#", filled) + strings.Repeat(".", domain.MaxAffinity/barScale-filled)
}
