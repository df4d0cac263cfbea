package domain

import (
	"encoding/json"
	"math"
	"testing"
)

func TestCoerceAffinity(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"float rounds down", `92.4`, 92},
		{"float rounds half up", `87.5`, 88},
		{"decimal comma string", `"87,5"`, 88},
		{"dot string", `"40.49"`, 40},
		{"integer", `55`, 55},
		{"above range clamps", `150`, 100},
		{"below range clamps", `-3`, 0},
		{"not a number", `"abc"`, 0},
		{"empty string", `""`, 0},
		{"null", `null`, 0},
		{"missing", ``, 0},
		{"object", `{"v":1}`, 0},
		{"huge float clamps high", `1e300`, 100},
		{"past int64 clamps high", `9.3e18`, 100},
		{"huge string clamps high", `"1e20"`, 100},
		{"huge negative clamps low", `-1e300`, 0},
		{"just below half", `99.49`, 99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoerceAffinity(json.RawMessage(tt.raw)); got != tt.want {
				t.Fatalf("CoerceAffinity(%s) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRoundAffinityNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := RoundAffinity(v); got != 0 {
			t.Fatalf("RoundAffinity(%v) = %d, want 0", v, got)
		}
	}
}

func TestParseAffinityTrimsSpace(t *testing.T) {
	if got := ParseAffinity("  61,2 "); got != 61 {
		t.Fatalf("ParseAffinity = %d, want 61", got)
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&ValidationError{Message: MsgNoSymptomsSelected}, KindValidation},
		{&NetworkError{Err: errTest}, KindNetwork},
		{&TransportError{StatusCode: 502}, KindTransport},
		{&ParseError{Err: errTest}, KindParse},
		{&PersistenceError{Op: "write", Err: errTest}, KindPersistence},
		{errTest, KindUnknown},
	}
	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Fatalf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestTransportErrorMessage(t *testing.T) {
	if got := (&TransportError{StatusCode: 502}).Error(); got != "Error 502" {
		t.Fatalf("empty body message = %q", got)
	}
	if got := (&TransportError{StatusCode: 500, Body: " rule base unavailable \n"}).Error(); got != "rule base unavailable" {
		t.Fatalf("body message = %q", got)
	}
}

func TestNewFormStateUsesFirstSeverity(t *testing.T) {
	form := NewFormState(DefaultVocabulary())
	if len(form.Controls) != 5 {
		t.Fatalf("expected 5 controls, got %d", len(form.Controls))
	}
	for _, control := range form.Controls {
		if control.Checked || control.Severity != "leve" {
			t.Fatalf("unexpected default control %+v", control)
		}
	}
}

var errTest = testError("boom")

type testError string

func (e testError) Error() string { return string(e) }
