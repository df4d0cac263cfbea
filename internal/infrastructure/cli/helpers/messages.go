package helpers

// Terminal messages
const (
	MsgNoHistoryRecorded = "No analyses recorded in this session yet."
	MsgHistoryCleared    = "History cleared."
	MsgErrorPrefix       = "Error: "
)
