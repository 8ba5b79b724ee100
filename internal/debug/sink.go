package debug

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Sink is the interface for debug output destinations.
type Sink interface {
	Write(event Event) error
	Flush() error
	Close() error
}

// JSONSink writes events in JSON Lines format.
type JSONSink struct {
	w       *bufio.Writer
	encoder *json.Encoder
}

// NewJSONSink creates a new JSON Lines sink writing to w.
func NewJSONSink(w io.Writer) *JSONSink {
	bw := bufio.NewWriter(w)
	return &JSONSink{
		w:       bw,
		encoder: json.NewEncoder(bw),
	}
}

// Write encodes and writes an event as a JSON line.
func (s *JSONSink) Write(event Event) error {
	return s.encoder.Encode(event)
}

// Flush writes any buffered data to the underlying writer.
func (s *JSONSink) Flush() error {
	return s.w.Flush()
}

// Close flushes the buffer.
func (s *JSONSink) Close() error {
	return s.Flush()
}

// PrettySink writes events in human-readable format.
type PrettySink struct {
	w *bufio.Writer
}

// NewPrettySink creates a new pretty-format sink writing to w.
func NewPrettySink(w io.Writer) *PrettySink {
	return &PrettySink{
		w: bufio.NewWriter(w),
	}
}

// Write formats and writes an event in human-readable format.
func (s *PrettySink) Write(event Event) error {
	fmt.Fprintf(s.w, "[%s] [%s/%s] session=%s\n", event.Timestamp, event.Phase, event.Event, event.SessionID)

	switch d := event.Data.(type) {
	case ObjectData:
		fmt.Fprintf(s.w, "  object #%d: %s (line %d, %d fields)\n", d.Index, d.Kind, d.Line, d.Fields)
	case WarningData:
		fmt.Fprintf(s.w, "  line %d: %s\n", d.Line, d.Message)
	case SceneParsedData:
		s.writeSceneParsed(d)
	case CameraData:
		fmt.Fprintf(s.w, "  view plane: %gx%g\n", d.Width, d.Height)
		fmt.Fprintf(s.w, "  pixel size: %gx%g\n", d.PixelWidth, d.PixelHeight)
	case RenderStartData:
		fmt.Fprintf(s.w, "  image: %dx%d, objects: %d, workers: %d\n", d.Width, d.Height, d.Objects, d.Workers)
		fmt.Fprintf(s.w, "  background: %d %d %d\n", d.Background[0], d.Background[1], d.Background[2])
	case RowData:
		fmt.Fprintf(s.w, "  row: %d, worker: %d\n", d.Row, d.Worker)
		fmt.Fprintf(s.w, "  outcomes: %s\n", FormatOutcomes(d.Outcomes))
	case RenderEndData:
		fmt.Fprintf(s.w, "  pixels: %d, hits: %d, misses: %d\n", d.Pixels, d.Hits, d.Misses)
		fmt.Fprintf(s.w, "  elapsed_ms: %d\n", d.ElapsedMs)
	case WriteDoneData:
		fmt.Fprintf(s.w, "  %s -> %s (%d bytes)\n", d.Format, d.Path, d.BytesWritten)
	case ErrorData:
		fmt.Fprintf(s.w, "  %s: %s\n", d.Type, d.Message)
	case map[string]interface{}:
		s.writeMap(d)
	case map[string]int64:
		for k, v := range d {
			fmt.Fprintf(s.w, "  %s: %d\n", k, v)
		}
	default:
		fmt.Fprintf(s.w, "  data: %+v\n", d)
	}

	return nil
}

func (s *PrettySink) writeSceneParsed(d SceneParsedData) {
	fmt.Fprintf(s.w, "  objects: %d, warnings: %d, lines: %d\n", d.Objects, d.Warnings, d.Lines)
	kinds := make([]string, 0, len(d.Kinds))
	for k := range d.Kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(s.w, "  %s: %d\n", k, d.Kinds[k])
	}
}

func (s *PrettySink) writeMap(d map[string]interface{}) {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(s.w, "  %s: %v\n", k, d[k])
	}
}

// Flush writes any buffered data to the underlying writer.
func (s *PrettySink) Flush() error {
	return s.w.Flush()
}

// Close flushes the buffer.
func (s *PrettySink) Close() error {
	return s.Flush()
}
