package main

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/asteroidfield/internal/config"
	"github.com/tomz197/asteroidfield/internal/draw"
	"github.com/tomz197/asteroidfield/internal/field"
)

var errBadRequest = errors.New("bad request")

// snapshot describes one /frame.png request.
type snapshot struct {
	width, height int
	frames        int
	scroll        float64
	seed          int64
	pointer       *draw.Point
}

// newHandler serves the index page and rendered field snapshots.
func newHandler(cfg *config.Config, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", cfg.Web.DisplayHost)
		fmt.Fprint(w, page)
	})
	mux.HandleFunc("/frame.png", func(w http.ResponseWriter, r *http.Request) {
		snap, err := parseSnapshot(cfg, r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		start := time.Now()
		var buf bytes.Buffer
		if err := renderSnapshot(cfg.Field, snap, &buf); err != nil {
			logger.Error("render snapshot", "err", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		logger.Debug("rendered snapshot", "size", fmt.Sprintf("%dx%d", snap.width, snap.height),
			"frames", snap.frames, "seed", snap.seed, "took", time.Since(start))

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(buf.Bytes())
	})
	return mux
}

// parseSnapshot reads the query parameters, applying defaults and the configured limits.
func parseSnapshot(cfg *config.Config, q url.Values) (snapshot, error) {
	snap := snapshot{
		width:  640,
		height: 360,
		frames: min(120, cfg.Web.MaxFrames),
		seed:   cfg.Render.Seed,
	}
	if snap.seed == 0 {
		snap.seed = 1
	}

	var err error
	if snap.width, err = intParam(q, "w", snap.width, 1, cfg.Web.MaxWidth); err != nil {
		return snap, err
	}
	if snap.height, err = intParam(q, "h", snap.height, 1, cfg.Web.MaxHeight); err != nil {
		return snap, err
	}
	if snap.frames, err = intParam(q, "frames", snap.frames, 0, cfg.Web.MaxFrames); err != nil {
		return snap, err
	}
	if v := q.Get("scroll"); v != "" {
		snap.scroll, err = strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(snap.scroll) || snap.scroll < 0 || snap.scroll > 1 {
			return snap, fmt.Errorf("%w: scroll %q must be in [0, 1]", errBadRequest, v)
		}
	}
	if v := q.Get("seed"); v != "" {
		snap.seed, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return snap, fmt.Errorf("%w: seed %q", errBadRequest, v)
		}
	}
	if px, py := q.Get("px"), q.Get("py"); px != "" || py != "" {
		x, errX := strconv.ParseFloat(px, 64)
		y, errY := strconv.ParseFloat(py, 64)
		if errX != nil || errY != nil {
			return snap, fmt.Errorf("%w: pointer %q,%q", errBadRequest, px, py)
		}
		snap.pointer = &draw.Point{X: x, Y: y}
	}
	return snap, nil
}

func intParam(q url.Values, name string, def, lo, hi int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("%w: %s %q must be in [%d, %d]", errBadRequest, name, v, lo, hi)
	}
	return n, nil
}

// renderSnapshot runs a fresh field for snap.frames frames on a raster and encodes it.
func renderSnapshot(p field.Params, snap snapshot, buf *bytes.Buffer) error {
	f, err := field.New(p, snap.seed, float64(snap.width), float64(snap.height))
	if err != nil {
		return err
	}
	f.SetScrollProgress(snap.scroll)
	if snap.pointer != nil {
		f.SetPointer(snap.pointer.X, snap.pointer.Y)
	}

	raster := draw.NewRaster(snap.width, snap.height)
	for i := 0; i < snap.frames; i++ {
		f.Step(raster)
	}
	return raster.EncodePNG(buf)
}
