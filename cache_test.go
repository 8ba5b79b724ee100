package raycast

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestCacheParseScene(t *testing.T) {
	cache := NewCache()

	s1, err := cache.ParseScene([]byte(redSphereScene))
	if err != nil {
		t.Fatal(err)
	}
	s2, err := cache.ParseScene([]byte(redSphereScene))
	if err != nil {
		t.Fatal(err)
	}
	if s1 != s2 {
		t.Error("identical content should return the cached scene")
	}

	stats := cache.Stats()
	if stats.Scenes != 1 || stats.SceneHits != 1 || stats.SceneMisses != 1 {
		t.Errorf("stats = %+v, want 1 scene, 1 hit, 1 miss", stats)
	}
	if got := stats.HitRate(); got != 50 {
		t.Errorf("HitRate() = %v, want 50", got)
	}
}

func TestCacheErrorsNotCached(t *testing.T) {
	cache := NewCache()
	bad := []byte(`[{"type": "cube"}]`)

	for i := 0; i < 2; i++ {
		if _, err := cache.ParseScene(bad); !errors.Is(err, ErrUnknownType) {
			t.Fatalf("ParseScene() error = %v, want ErrUnknownType", err)
		}
	}
	if stats := cache.Stats(); stats.Scenes != 0 || stats.SceneMisses != 2 {
		t.Errorf("failed parses should not be cached, stats = %+v", stats)
	}
}

func TestCacheAppliesOptions(t *testing.T) {
	if _, err := NewCache(WithMaxObjects(1)).ParseScene([]byte(redSphereScene)); !errors.Is(err, ErrTooManyObjects) {
		t.Errorf("ParseScene() error = %v, want the object limit applied", err)
	}

	cache := NewCache(WithBackground(0, 0, 1))
	s, err := cache.ParseScene([]byte(`[{"type": "camera", "width": 1, "height": 1}]`))
	if err != nil {
		t.Fatal(err)
	}
	f, err := cache.Render(s, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if r, g, b := f.RGBAt(0, 0); r != 0 || g != 0 || b != 255 {
		t.Errorf("pixel = (%d,%d,%d), want the cache background (0,0,255)", r, g, b)
	}
}

func TestCacheLoadSceneByContent(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.json")
	pathB := filepath.Join(dir, "b.json")
	for _, p := range []string{pathA, pathB} {
		if err := os.WriteFile(p, []byte(redSphereScene), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	cache := NewCache()
	a, err := cache.LoadScene(pathA)
	if err != nil {
		t.Fatal(err)
	}
	b, err := cache.LoadScene(pathB)
	if err != nil {
		t.Fatal(err)
	}
	if a.Name != "a" || b.Name != "b" {
		t.Errorf("names = %q, %q; want each file's own name", a.Name, b.Name)
	}
	if stats := cache.Stats(); stats.Scenes != 1 || stats.SceneMisses != 1 {
		t.Errorf("stats = %+v, want the shared content parsed once", stats)
	}

	// Both copies render through the same frame entry
	fa, err := cache.Render(a, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	fb, err := cache.Render(b, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if fa != fb {
		t.Error("scenes with identical content should share a cached frame")
	}

	if _, err := cache.LoadScene(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadScene(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestCacheRender(t *testing.T) {
	cache := NewCache()
	s, err := cache.ParseScene([]byte(redSphereScene))
	if err != nil {
		t.Fatal(err)
	}

	f1, err := cache.Render(s, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	f2, err := cache.Render(s, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if f1 != f2 {
		t.Error("same scene and size should return the cached frame")
	}
	f3, err := cache.Render(s, 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	if f3 == f1 || f3.Width != 4 || f3.Height != 2 {
		t.Errorf("a new size should render a new %dx%d frame", f3.Width, f3.Height)
	}

	stats := cache.Stats()
	if stats.Frames != 2 || stats.FrameHits != 1 || stats.FrameMisses != 2 {
		t.Errorf("stats = %+v, want 2 frames, 1 hit, 2 misses", stats)
	}

	if _, err := cache.Render(s, 0, 1); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Render(0x1) error = %v, want ErrInvalidDimensions", err)
	}
	if got := cache.Stats().Frames; got != 2 {
		t.Errorf("failed render was cached, frames = %d", got)
	}
	if _, err := cache.Render(nil, 1, 1); !errors.Is(err, ErrNilScene) {
		t.Errorf("Render(nil) error = %v, want ErrNilScene", err)
	}

	cache.Clear()
	if stats := cache.Stats(); stats.Scenes != 0 || stats.Frames != 0 {
		t.Errorf("Clear() left %+v", stats)
	}
}

func TestCacheRenderForeignScene(t *testing.T) {
	cache := NewCache()
	s, err := ParseSceneBytes([]byte(redSphereScene))
	if err != nil {
		t.Fatal(err)
	}

	f1, err := cache.Render(s, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	f2, err := cache.Render(s, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if f1 == f2 {
		t.Error("scenes parsed outside the cache should not be memoized")
	}
	if stats := cache.Stats(); stats.Frames != 0 || stats.FrameHits+stats.FrameMisses != 0 {
		t.Errorf("stats = %+v, want no frame lookups", stats)
	}

	// A scene from another cache is not trusted either
	other, err := NewCache().ParseScene([]byte(redSphereScene))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Render(other, 2, 2); err != nil {
		t.Fatal(err)
	}
	if got := cache.Stats().Frames; got != 0 {
		t.Errorf("frames = %d, want 0", got)
	}
}

func TestCacheConcurrent(t *testing.T) {
	cache := NewCache(WithWorkers(1))
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				data := []byte(fmt.Sprintf(`[{"type": "camera", "width": %d, "height": 1}]`, (g+i)%3+1))
				s, err := cache.ParseScene(data)
				if err != nil {
					t.Error(err)
					return
				}
				if _, err := cache.Render(s, 3, 2); err != nil {
					t.Error(err)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	if stats := cache.Stats(); stats.Scenes != 3 || stats.Frames != 3 {
		t.Errorf("stats = %+v, want 3 scenes and 3 frames", stats)
	}
}
