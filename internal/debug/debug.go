// Package debug traces raycast's parse and render pipeline.
//
// The debug system follows these principles:
//   - Single switch: RAYCAST_DEBUG=1 or --debug enables everything
//   - Nil sessions are no-ops, so disabled tracing costs a nil check
//   - Session scoped: each parse/render run gets its own session ID
//   - Machine parsable: JSON Lines by default, pretty format optional
package debug

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// enabled is the global debug flag - set once at startup.
var enabled atomic.Bool

// SetEnabled turns tracing on or off for the whole process.
func SetEnabled(on bool) {
	enabled.Store(on)
}

// Enabled returns true if debug mode is active.
func Enabled() bool {
	return enabled.Load()
}

// InitFromEnv enables tracing when RAYCAST_DEBUG=1.
// RAYCAST_DEBUG_PRETTY is read by the CLI when choosing a sink.
func InitFromEnv() {
	if os.Getenv("RAYCAST_DEBUG") == "1" {
		SetEnabled(true)
	}
}

// Session groups the events of one parse and render run. Render workers
// emit concurrently, so writes to the sink are serialized.
type Session struct {
	mu        sync.Mutex
	sessionID string
	sink      Sink
	startTime time.Time
}

// NewSession creates a session writing to sink.
// Returns nil if debug mode is not enabled or sink is nil.
func NewSession(sink Sink) *Session {
	if !Enabled() || sink == nil {
		return nil
	}

	s := &Session{
		sessionID: generateSessionID(),
		sink:      sink,
		startTime: time.Now(),
	}
	s.Emit("session", "Start", map[string]interface{}{
		"version": "1.0",
	})
	return s
}

// SessionID returns the unique identifier for this session.
func (s *Session) SessionID() string {
	if s == nil {
		return ""
	}
	return s.sessionID
}

// Emit sends an event to the sink. It is a no-op on a nil session.
func (s *Session) Emit(phase, event string, data interface{}) {
	if s == nil {
		return
	}

	evt := Event{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		SessionID: s.sessionID,
		Phase:     phase,
		Event:     event,
		Data:      data,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	//nolint:errcheck // a failing trace sink must not fail the render
	s.sink.Write(evt)
}

// Close emits the session end event and flushes the sink.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}

	s.Emit("session", "End", map[string]int64{
		"elapsed_ms": time.Since(s.startTime).Milliseconds(),
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink.Close()
}

// generateSessionID creates a short random session identifier.
func generateSessionID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		n := time.Now().UnixNano()
		return hex.EncodeToString([]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
	}
	return hex.EncodeToString(b)
}

// Event is the base envelope for all debug events.
type Event struct {
	Timestamp string      `json:"ts"`
	SessionID string      `json:"session_id"`
	Phase     string      `json:"phase"`
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
}
