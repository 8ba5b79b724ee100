package debug

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"sync"
	"testing"
)

func TestDebugDisabled(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(false)

	var buf bytes.Buffer
	session := NewSession(NewJSONSink(&buf))

	if session != nil {
		t.Error("NewSession should return nil when disabled")
	}

	// Emit should be no-op on nil session
	session.Emit("test", "Event", nil)

	if buf.Len() > 0 {
		t.Error("Events emitted when debug disabled")
	}
}

func TestDebugEnabled(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	var buf bytes.Buffer
	session := NewSession(NewJSONSink(&buf))
	if session == nil {
		t.Fatal("NewSession should return non-nil when enabled")
	}

	session.Emit("parse", "Object", ObjectData{Index: 0, Kind: "camera", Line: 2, Fields: 2})

	if err := session.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 { // Start, Object, End
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}

	tests := []struct {
		line  string
		phase string
		event string
	}{
		{lines[0], "session", "Start"},
		{lines[1], "parse", "Object"},
		{lines[2], "session", "End"},
	}
	for _, tt := range tests {
		var evt Event
		if err := json.Unmarshal([]byte(tt.line), &evt); err != nil {
			t.Fatalf("Failed to parse event %q: %v", tt.line, err)
		}
		if evt.Phase != tt.phase || evt.Event != tt.event {
			t.Errorf("Expected %s/%s, got %s/%s", tt.phase, tt.event, evt.Phase, evt.Event)
		}
		if evt.SessionID != session.SessionID() {
			t.Errorf("SessionID = %q, want %q", evt.SessionID, session.SessionID())
		}
	}
}

func TestConcurrentEmit(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	var buf bytes.Buffer
	session := NewSession(NewJSONSink(&buf))

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for row := 0; row < 25; row++ {
				session.Emit("render", "Row", RowData{Row: row, Worker: worker})
			}
		}(w)
	}
	wg.Wait()
	if err := session.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 102 {
		t.Fatalf("Expected 102 lines, got %d", len(lines))
	}
	for i, line := range lines {
		var evt Event
		if err := json.Unmarshal([]byte(line), &evt); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", i, err)
		}
	}
}

func TestPrettySink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewPrettySink(&buf)

	event := Event{
		Timestamp: "2025-01-01T00:00:00Z",
		SessionID: "abc123",
		Phase:     "render",
		Event:     "Row",
		Data: RowData{
			Row:      3,
			Worker:   1,
			Outcomes: map[string]int{OutcomeMiss: 2, OutcomeHit: 5},
		},
	}

	if err := sink.Write(event); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "[render/Row] session=abc123") {
		t.Errorf("Pretty output missing header, got: %s", output)
	}
	if !strings.Contains(output, "outcomes: hit=5 miss=2") {
		t.Errorf("Pretty output should list sorted outcomes, got: %s", output)
	}
}

func TestClassifyT(t *testing.T) {
	tests := []struct {
		name string
		t    float64
		want string
	}{
		{"positive", 4, OutcomeHit},
		{"zero", 0, OutcomeMiss},
		{"negative", -1, OutcomeMiss},
		{"negative_inf", math.Inf(-1), OutcomeMiss},
		{"positive_inf", math.Inf(1), OutcomeDegenerate},
		{"nan", math.NaN(), OutcomeDegenerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyT(tt.t); got != tt.want {
				t.Errorf("ClassifyT(%v) = %q, want %q", tt.t, got, tt.want)
			}
		})
	}
}

func TestFormatOutcomes(t *testing.T) {
	if got := FormatOutcomes(nil); got != "none" {
		t.Errorf("FormatOutcomes(nil) = %q, want none", got)
	}
	got := FormatOutcomes(map[string]int{OutcomeMiss: 1, OutcomeDegenerate: 2, OutcomeHit: 3})
	if want := "degenerate=2 hit=3 miss=1"; got != want {
		t.Errorf("FormatOutcomes = %q, want %q", got, want)
	}
}

func TestSessionID(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	session := NewSession(NewJSONSink(&bytes.Buffer{}))
	if session == nil {
		t.Fatal("NewSession should return non-nil when enabled")
	}
	defer session.Close()

	if id := session.SessionID(); len(id) != 8 { // 4 bytes hex encoded
		t.Errorf("SessionID should be 8 characters, got %q", id)
	}
}

func TestNilSessionSafety(t *testing.T) {
	var session *Session

	session.Emit("test", "Event", nil)

	if err := session.Close(); err != nil {
		t.Errorf("Close on nil session should return nil, got %v", err)
	}
	if id := session.SessionID(); id != "" {
		t.Errorf("SessionID on nil session should return empty, got %v", id)
	}
}

func TestInitFromEnv(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(false)

	t.Setenv("RAYCAST_DEBUG", "1")
	InitFromEnv()
	if !Enabled() {
		t.Error("RAYCAST_DEBUG=1 should enable debug mode")
	}
}

// BenchmarkEmitDisabled verifies a nil session costs nothing.
func BenchmarkEmitDisabled(b *testing.B) {
	SetEnabled(false)

	var buf bytes.Buffer
	session := NewSession(NewJSONSink(&buf))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		session.Emit("render", "Row", nil)
	}

	if buf.Len() > 0 {
		b.Error("Buffer should be empty when disabled")
	}
}

// BenchmarkEmitEnabled measures overhead when debug is enabled.
func BenchmarkEmitEnabled(b *testing.B) {
	SetEnabled(true)
	defer SetEnabled(false)

	var buf bytes.Buffer
	session := NewSession(NewJSONSink(&buf))
	data := RowData{Row: 1, Worker: 0, Outcomes: map[string]int{OutcomeHit: 10}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		session.Emit("render", "Row", data)
	}
}
