package parser

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ryanlewis/raycast/internal/common"
	"github.com/ryanlewis/raycast/internal/scene"
)

// Test helpers for scene parser tests.
//
// Common patterns:
//   - mustParse parses or fails the test
//   - expectParseError asserts the sentinel and, when given, the line number
//   - testCamera, sphereJSON and planeJSON build object literals for table cases

const testCamera = `{"type": "camera", "width": 1, "height": 1}`

// mustParse parses input with default options and fails the test on error.
func mustParse(t *testing.T, input string) *Result {
	t.Helper()
	res, err := Parse(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	return res
}

// expectParseError asserts that err wraps want. A positive line is also
// checked against the ParseError's line.
func expectParseError(t *testing.T, err error, want error, line int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %v, got nil", want)
	}
	if !errors.Is(err, want) {
		t.Fatalf("error = %v, want %v", err, want)
	}
	if line <= 0 {
		return
	}
	var pe *common.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error %v is not a *ParseError", err)
	}
	if pe.Line != line {
		t.Errorf("error line = %d, want %d (%v)", pe.Line, line, err)
	}
}

func sphereJSON(color [3]float64, pos [3]float64, radius float64) string {
	return fmt.Sprintf(`{"type": "sphere", "color": %s, "position": %s, "radius": %g}`,
		vecJSON(color), vecJSON(pos), radius)
}

func planeJSON(color [3]float64, pos [3]float64, normal [3]float64) string {
	return fmt.Sprintf(`{"type": "plane", "color": %s, "position": %s, "normal": %s}`,
		vecJSON(color), vecJSON(pos), vecJSON(normal))
}

func vecJSON(v [3]float64) string {
	return fmt.Sprintf("[%g, %g, %g]", v[0], v[1], v[2])
}

// sceneJSON wraps objects in the top-level list.
func sceneJSON(objects ...string) string {
	return "[\n" + strings.Join(objects, ",\n") + "\n]\n"
}

// objectAt returns the i-th object or fails the test.
func objectAt(t *testing.T, s *scene.Scene, i int) scene.Object {
	t.Helper()
	o, ok := s.At(i)
	if !ok {
		t.Fatalf("object %d out of range (len %d)", i, s.Len())
	}
	return o
}
