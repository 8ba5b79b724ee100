package raycast

import "testing"

func BenchmarkCache(b *testing.B) {
	data := []byte(redSphereScene)

	b.Run("ParseWithoutCache", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := ParseSceneBytes(data); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("ParseWithCache", func(b *testing.B) {
		cache := NewCache()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := cache.ParseScene(data); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("RenderWithCache", func(b *testing.B) {
		cache := NewCache()
		s, err := cache.ParseScene(data)
		if err != nil {
			b.Fatal(err)
		}
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := cache.Render(s, 64, 64); err != nil {
				b.Fatal(err)
			}
		}
	})
}
