// Package renderer casts one primary ray per pixel through a parsed scene
// and produces an RGB frame.
package renderer

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ryanlewis/raycast/internal/common"
	"github.com/ryanlewis/raycast/internal/debug"
	"github.com/ryanlewis/raycast/internal/geom"
	"github.com/ryanlewis/raycast/internal/scene"
)

// view maps output pixels onto the camera's view plane at z = 1
type view struct {
	width, height int
	camW, camH    float64
	pixW, pixH    float64
}

func newView(cam scene.Camera, width, height int) view {
	return view{
		width:  width,
		height: height,
		camW:   cam.Width,
		camH:   cam.Height,
		pixW:   cam.Width / float64(width),
		pixH:   cam.Height / float64(height),
	}
}

// ray returns the primary ray through the centre of pixel (x, row).
// Scene rows count up from the bottom, so output row r is scene row
// y = height-1-r (0-based) and the ray passes through (x+0.5, y+0.5).
func (v view) ray(x, row int) geom.Ray {
	y := v.height - 1 - row
	dir := r3.Vec{
		X: -v.camW/2 + v.pixW*(float64(x)+0.5),
		Y: -v.camH/2 + v.pixH*(float64(y)+0.5),
		Z: 1,
	}
	return geom.NewRay(geom.Origin, dir)
}

// rowStats tallies what happened while tracing one row
type rowStats struct {
	hits, misses int
	// outcomes counts every ray/object test by debug outcome label;
	// nil when tracing is off
	outcomes map[string]int
}

// tracer holds everything a worker needs to fill rows of the frame.
// It is read-only apart from the frame rows it is asked to write.
type tracer struct {
	view    view
	objects []scene.Object
	bg      [3]uint8
	frame   *Frame
	tally   bool
}

// traceRow fills output row r of the frame
func (tr *tracer) traceRow(r int) rowStats {
	var stats rowStats
	if tr.tally {
		stats.outcomes = make(map[string]int, 3)
	}

	row := tr.frame.Row(r)
	for x := 0; x < tr.view.width; x++ {
		px := row[x*3 : x*3+3 : x*3+3]
		c, ok := tr.shade(tr.view.ray(x, r), stats.outcomes)
		if !ok {
			px[0], px[1], px[2] = tr.bg[0], tr.bg[1], tr.bg[2]
			stats.misses++
			continue
		}
		px[0], px[1], px[2] = c.RGB()
		stats.hits++
	}
	return stats
}

// shade returns the color of the nearest object hit by ray. Only a strictly
// closer hit replaces the current one, so ties go to the first declared.
func (tr *tracer) shade(ray geom.Ray, outcomes map[string]int) (scene.Color, bool) {
	best := math.Inf(1)
	var nearest scene.Color
	found := false

	for _, obj := range tr.objects {
		if outcomes != nil {
			outcomes[debug.ClassifyT(rawT(ray, obj))]++
		}
		t, ok := Intersect(ray, obj)
		if !ok || t >= best {
			continue
		}
		best = t
		nearest, _ = scene.ColorOf(obj)
		found = true
	}
	return nearest, found
}

// renderables returns the objects rays are tested against, in declaration order
func renderables(s *scene.Scene) []scene.Object {
	objs := s.Objects()
	out := objs[:0]
	for _, o := range objs {
		if _, ok := scene.ColorOf(o); ok {
			out = append(out, o)
		}
	}
	return out
}

// Render traces one ray per pixel and returns the finished frame.
// Dimensions and the camera are validated before the frame is allocated.
func Render(s *scene.Scene, width, height int, opts *Options) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", common.ErrInvalidDimensions, width, height)
	}
	cam, err := s.Camera()
	if err != nil {
		return nil, err
	}

	var o Options
	if opts != nil {
		o = *opts
	}
	workers := o.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > height {
		workers = height
	}

	bgR, bgG, bgB := o.Background.RGB()
	tr := &tracer{
		view:    newView(cam, width, height),
		objects: renderables(s),
		bg:      [3]uint8{bgR, bgG, bgB},
		frame:   NewFrame(width, height),
		tally:   o.Debug != nil,
	}

	o.Debug.Emit("render", "Camera", debug.CameraData{
		Width:       cam.Width,
		Height:      cam.Height,
		PixelWidth:  tr.view.pixW,
		PixelHeight: tr.view.pixH,
	})
	o.Debug.Emit("render", "RenderStart", debug.RenderStartData{
		Width:      width,
		Height:     height,
		Objects:    len(tr.objects),
		Workers:    workers,
		Background: tr.bg,
	})

	start := time.Now()
	var hits, misses int
	collect := func(res RowResult) {
		hits += res.Stats.hits
		misses += res.Stats.misses
		if o.Debug != nil {
			o.Debug.Emit("render", "Row", debug.RowData{
				Row:      res.Row,
				Worker:   res.Worker,
				Outcomes: res.Stats.outcomes,
			})
		}
	}

	if workers == 1 {
		for r := 0; r < height; r++ {
			collect(RowResult{Row: r, Stats: tr.traceRow(r)})
		}
	} else {
		pool := newWorkerPool(tr, workers)
		pool.Start()
		for r := 0; r < height; r++ {
			pool.SubmitTask(RowTask{Row: r})
		}
		pool.Stop()
		for {
			res, ok := pool.GetResult()
			if !ok {
				break
			}
			collect(res)
		}
	}

	o.Debug.Emit("render", "RenderEnd", debug.RenderEndData{
		Pixels:    width * height,
		Hits:      hits,
		Misses:    misses,
		ElapsedMs: time.Since(start).Milliseconds(),
	})

	return tr.frame, nil
}
