package commands

import "errors"

// ErrReported marks a failure the terminal already showed to the user.
var ErrReported = errors.New("analysis did not complete")

// Flag names
const (
	FlagSession   = "session"
	FlagSymptom   = "symptom"
	FlagAllergies = "allergies"
	FlagChronic   = "chronic"
)

// Error messages
const (
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrOutRequired              = "--out is required"
	ErrNoChart                  = "no chart available: the selected result has no rows"
	ErrInvalidIndex             = "index must be a non-negative integer"
	ErrNoHistoryEntry           = "no history entry at index %d"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgFormRestored             = "Restored form:"
	MsgReportWritten            = "Report written to %s\n"
	MsgChartWritten             = "Chart written to %s\n"
	MsgConfirmHistoryClear      = "Delete every recorded analysis of this session?"
	MsgAborted                  = "Aborted."
)

// StdoutPath selects standard output for --out.
const StdoutPath = "-"

// ReportFilePermissions is used for exported reports and charts (rw-r--r--)
const ReportFilePermissions = 0o644
