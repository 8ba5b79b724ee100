package parser

import (
	"strings"
	"testing"
)

// BenchmarkParse measures parsing scenes of increasing size
func BenchmarkParse(b *testing.B) {
	tests := []struct {
		name    string
		spheres int
		planes  int
	}{
		{"Camera_only", 0, 0},
		{"Small", 4, 1},
		{"Full", 100, 27},
	}

	for _, tt := range tests {
		objs := []string{testCamera}
		for i := 0; i < tt.spheres; i++ {
			objs = append(objs, sphereJSON([3]float64{1, 0.5, 0}, [3]float64{float64(i), 0, 10}, 0.5))
		}
		for i := 0; i < tt.planes; i++ {
			objs = append(objs, planeJSON([3]float64{0, 0, 1}, [3]float64{0, float64(-i), 0}, [3]float64{0, 1, 0}))
		}
		input := sceneJSON(objs...)

		b.Run(tt.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(input)))
			for i := 0; i < b.N; i++ {
				if _, err := Parse(strings.NewReader(input), nil); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkReadNumber measures the number scanner on its own
func BenchmarkReadNumber(b *testing.B) {
	input := strings.Repeat("-12.5e-3 ", 64)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		lx := NewLexer(strings.NewReader(input))
		for j := 0; j < 64; j++ {
			if err := lx.SkipWhitespace(); err != nil {
				b.Fatal(err)
			}
			if _, err := lx.ReadNumber(); err != nil {
				b.Fatal(err)
			}
		}
		lx.Close()
	}
}
