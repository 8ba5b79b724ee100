package raycast

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Cache memoizes parsed scenes and rendered frames for batch work such as
// rendering one scene at several sizes or into several formats.
//
// Scenes are keyed by the SHA-256 of their content, so the same file under
// two paths is parsed once. Frames are keyed by scene content and output
// size. The options given to NewCache apply to every parse and render, so
// they are part of every key implicitly. Failed parses and renders are not
// cached.
//
// Cached frames are shared between callers and must not be modified.
type Cache struct {
	opts []Option

	mu     sync.Mutex
	scenes map[string]*Scene
	frames map[frameKey]*Frame
	stats  CacheStats
}

type frameKey struct {
	digest        string
	width, height int
}

// NewCache creates an empty cache; opts are applied to every parse and render.
func NewCache(opts ...Option) *Cache {
	return &Cache{
		opts:   opts,
		scenes: make(map[string]*Scene),
		frames: make(map[frameKey]*Frame),
	}
}

// ParseScene parses scene bytes, returning the cached scene when identical
// content was parsed before. It is safe for concurrent use.
func (c *Cache) ParseScene(data []byte) (*Scene, error) {
	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])

	c.mu.Lock()
	s, ok := c.scenes[digest]
	if ok {
		c.stats.SceneHits++
	} else {
		c.stats.SceneMisses++
	}
	c.mu.Unlock()
	if ok {
		return s, nil
	}

	s, err := ParseSceneBytes(data, c.opts...)
	if err != nil {
		return nil, err
	}
	s.digest = digest

	c.mu.Lock()
	defer c.mu.Unlock()
	// A concurrent parse of the same content may have won
	if prev, ok := c.scenes[digest]; ok {
		return prev, nil
	}
	c.scenes[digest] = s
	return s, nil
}

// LoadScene reads the scene file at path through the cache. The returned
// scene carries the name of path even when its content was cached under
// another file.
func (c *Cache) LoadScene(scenePath string) (*Scene, error) {
	data, err := os.ReadFile(scenePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	s, err := c.ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scene %s: %w", scenePath, err)
	}

	named := *s
	named.Name = strings.TrimSuffix(filepath.Base(scenePath), filepath.Ext(scenePath))
	return &named, nil
}

// Render renders s at width x height, reusing an earlier frame of the same
// scene content and size. Scenes that did not come from this cache are
// rendered without caching.
func (c *Cache) Render(s *Scene, width, height int) (*Frame, error) {
	if s == nil {
		return nil, ErrNilScene
	}

	key := frameKey{digest: s.digest, width: width, height: height}
	c.mu.Lock()
	owned := s.digest != "" && c.scenes[s.digest] != nil && c.scenes[s.digest].scene == s.scene
	f, ok := c.frames[key]
	if owned {
		if ok {
			c.stats.FrameHits++
		} else {
			c.stats.FrameMisses++
		}
	}
	c.mu.Unlock()
	if !owned {
		return Render(s, width, height, c.opts...)
	}
	if ok {
		return f, nil
	}

	f, err := Render(s, width, height, c.opts...)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.frames[key]; ok {
		return prev, nil
	}
	c.frames[key] = f
	return f, nil
}

// Clear drops every cached scene and frame. Statistics are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scenes = make(map[string]*Scene)
	c.frames = make(map[frameKey]*Frame)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stats
	st.Scenes = len(c.scenes)
	st.Frames = len(c.frames)
	return st
}

// CacheStats counts cache contents and lookups.
type CacheStats struct {
	Scenes      int // Scenes currently cached
	Frames      int // Frames currently cached
	SceneHits   uint64
	SceneMisses uint64
	FrameHits   uint64
	FrameMisses uint64
}

// HitRate returns the share of lookups, scenes and frames together, that
// were served from the cache, as a percentage (0-100).
func (s CacheStats) HitRate() float64 {
	hits := s.SceneHits + s.FrameHits
	total := hits + s.SceneMisses + s.FrameMisses
	if total == 0 {
		return 0
	}
	return float64(hits) * 100 / float64(total)
}
