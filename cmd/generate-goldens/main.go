// Command generate-goldens renders the scenes under testdata/scenes and
// writes the golden images and metadata checked by golden_test.go.
package main

import (
	"bytes"
	"crypto/sha256"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ryanlewis/raycast"
)

// GoldenMetadata is the YAML file written next to each golden image.
// This should match the struct in golden_test.go
type GoldenMetadata struct {
	Scene          string `yaml:"scene"`
	Width          int    `yaml:"width"`
	Height         int    `yaml:"height"`
	Format         string `yaml:"format"`
	Warnings       int    `yaml:"warnings"`
	Generated      string `yaml:"generated"`
	Generator      string `yaml:"generator"`
	ChecksumSHA256 string `yaml:"checksum_sha256"`
}

var (
	outDir   = flag.String("out", "testdata/goldens", "Output directory")
	sceneDir = flag.String("scenes", "testdata/scenes", "Directory of scene files")
	sizes    = flag.String("sizes", "camera_only=4x3 nearest_hit=9x9 single_sphere=8x8 spheres_and_plane=16x12",
		"Space-separated scene=WxH pairs")
	formats = flag.String("formats", "p3 spheres_and_plane_16x12:p6",
		"Space-separated formats: a bare format applies to every size, base:format to one golden")
	strict  = flag.Bool("strict", false, "Exit on any warning")
)

func main() {
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create directory %s: %v", *outDir, err)
	}

	// Each scene is parsed once, and each size rendered once for all formats
	cache := raycast.NewCache(raycast.WithWorkers(1))

	for _, entry := range strings.Fields(*sizes) {
		name, w, h, err := parseSize(entry)
		if err != nil {
			log.Fatalf("Bad size %q: %v", entry, err)
		}
		base := fmt.Sprintf("%s_%dx%d", name, w, h)
		for _, format := range formatsFor(base) {
			if err := generateGolden(cache, name, base, w, h, format); err != nil {
				if *strict {
					log.Fatalf("Failed to generate golden file: %v", err)
				}
				log.Printf("Warning: %v", err)
			}
		}
	}

	stats := cache.Stats()
	log.Printf("Golden file generation complete (%d scenes, %d frames, %.0f%% cache hits)",
		stats.Scenes, stats.Frames, stats.HitRate())
}

// formatsFor returns the golden formats requested for base
func formatsFor(base string) []raycast.Format {
	var out []raycast.Format
	for _, entry := range strings.Fields(*formats) {
		target, name, ok := strings.Cut(entry, ":")
		if !ok {
			name, target = entry, base
		}
		if target != base {
			continue
		}
		format, err := raycast.ParseFormat(name)
		if err != nil || format == raycast.FormatPNG {
			log.Fatalf("Unsupported golden format %q", name)
		}
		out = append(out, format)
	}
	return out
}

// parseSize splits "name=WxH"
func parseSize(entry string) (string, int, int, error) {
	name, dims, ok := strings.Cut(entry, "=")
	if !ok {
		return "", 0, 0, fmt.Errorf("missing '='")
	}
	ws, hs, ok := strings.Cut(dims, "x")
	if !ok {
		return "", 0, 0, fmt.Errorf("missing 'x'")
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return "", 0, 0, err
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return "", 0, 0, err
	}
	return name, w, h, nil
}

func generateGolden(cache *raycast.Cache, name, base string, w, h int, format raycast.Format) error {
	if format != raycast.FormatP3 {
		base += "_" + string(format)
	}
	log.Printf("Generating %s", base)

	s, err := cache.LoadScene(filepath.Join(*sceneDir, name+".json"))
	if err != nil {
		return fmt.Errorf("failed to load scene %s: %w", name, err)
	}

	frame, err := cache.Render(s, w, h)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", base, err)
	}

	var img bytes.Buffer
	if _, err := raycast.Encode(&img, frame, format); err != nil {
		return fmt.Errorf("failed to encode %s: %w", base, err)
	}

	metadata := GoldenMetadata{
		Scene:          name,
		Width:          w,
		Height:         h,
		Format:         string(format),
		Warnings:       len(s.Warnings),
		Generated:      time.Now().UTC().Format("2006-01-02"),
		Generator:      "generate-goldens",
		ChecksumSHA256: fmt.Sprintf("%x", sha256.Sum256(img.Bytes())),
	}

	yamlData, err := yaml.Marshal(&metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	imgFile := filepath.Join(*outDir, base+".ppm")
	if err := os.WriteFile(imgFile, img.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", imgFile, err)
	}
	metaFile := filepath.Join(*outDir, base+".yaml")
	if err := os.WriteFile(metaFile, yamlData, 0o600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", metaFile, err)
	}
	return nil
}
