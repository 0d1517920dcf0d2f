package json

import (
	"bytes"
	stdjson "encoding/json"
	"strings"
	"testing"
)

type testReport struct {
	Valid    bool     `json:"valid"`
	Warnings []string `json:"warnings"`
	Locale   string   `json:"locale" default:"en"`
}

func TestMarshalAppliesDefaults(t *testing.T) {
	report := &testReport{Warnings: []string{"image must be square (1:1)"}}

	data, err := Marshal(report)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if report.Locale != "en" {
		t.Fatalf("expected default Locale=en, got %q", report.Locale)
	}

	var decoded testReport
	if err := stdjson.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("encoded JSON should be valid, got error: %v", err)
	}
	if decoded.Locale != "en" || len(decoded.Warnings) != 1 {
		t.Fatalf("unexpected round trip: %+v", decoded)
	}
}

func TestMarshalMapSkipsDefaults(t *testing.T) {
	data, err := Marshal(map[string]any{"valid": true})
	if err != nil {
		t.Fatalf("Marshal(map) returned error: %v", err)
	}
	if string(data) != `{"valid":true}` {
		t.Fatalf("unexpected output %s", data)
	}
}

func TestUnmarshalAppliesDefaultsForMissingFields(t *testing.T) {
	var report testReport
	if err := Unmarshal([]byte(`{"valid":true}`), &report); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if !report.Valid || report.Locale != "en" {
		t.Fatalf("unexpected value %+v", report)
	}
}

func TestEncoderWritesNewlineTerminatedJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(&testReport{Locale: "ja"}); err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\n") || !strings.Contains(buf.String(), `"locale":"ja"`) {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
