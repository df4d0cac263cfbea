package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CoerceAffinity turns a raw JSON value (number, numeric string, null or
// missing) into an integer percentage in [0,100].
func CoerceAffinity(raw json.RawMessage) int {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0
	}

	var number float64
	if err := json.Unmarshal(trimmed, &number); err == nil {
		return RoundAffinity(number)
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return ParseAffinity(text)
	}
	return 0
}

// ParseAffinity accepts both "87.5" and "87,5".
func ParseAffinity(text string) int {
	normalized := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	if normalized == "" {
		return 0
	}
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0
	}
	return RoundAffinity(value)
}

// RoundAffinity rounds half up and clamps to [MinAffinity, MaxAffinity].
// Non-finite values map to 0.
func RoundAffinity(value float64) int {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	value = math.Max(MinAffinity, math.Min(MaxAffinity, value))
	return int(math.Floor(value + 0.5))
}

// ClampAffinity bounds an integer percentage.
func ClampAffinity(value int) int {
	if value < MinAffinity {
		return MinAffinity
	}
	if value > MaxAffinity {
		return MaxAffinity
	}
	return value
}
