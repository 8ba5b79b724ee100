package ppm

import (
	"bytes"
	"testing"
)

func BenchmarkEncodeP3(b *testing.B) {
	f := testFrame(640, 480)
	var buf bytes.Buffer
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		if _, err := EncodeP3(&buf, f); err != nil {
			b.Fatal(err)
		}
	}
}
