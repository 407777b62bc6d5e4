package cli

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/chartoverlay/pkg/buildinfo"
	"github.com/matzehuels/chartoverlay/pkg/cache"
	"github.com/matzehuels/chartoverlay/pkg/frame"
	"github.com/matzehuels/chartoverlay/pkg/render/canvas"
	"github.com/matzehuels/chartoverlay/pkg/render/svg"
	"github.com/matzehuels/chartoverlay/pkg/scene"
)

// frameTTL bounds how long a rendered frame stays cached.
const frameTTL = 7 * 24 * time.Hour

// frames renders one loaded scene for any hovered item. It is the host
// side of a redraw: build the frame for the item, then paint or render
// every overlay.
type frames struct {
	cfg    *scene.Config
	scene  *scene.Scene
	data   []*frame.Datum
	digest string
	cache  cache.Cache
	keyer  cache.Keyer
}

// loadFrames reads, validates and builds the scene at path. c may be nil
// to disable caching.
func loadFrames(path string, c cache.Cache) (*frames, error) {
	cfg, err := scene.Load(path)
	if err != nil {
		return nil, err
	}
	return newFrames(cfg, c)
}

func newFrames(cfg *scene.Config, c cache.Cache) (*frames, error) {
	sc, err := scene.Build(cfg)
	if err != nil {
		return nil, err
	}
	data, err := cfg.Datums()
	if err != nil {
		return nil, err
	}
	digest, err := scene.Digest(cfg)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &frames{
		cfg:    cfg,
		scene:  sc,
		data:   data,
		digest: digest,
		cache:  c,
		keyer:  cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope()),
	}, nil
}

// items is the number of data rows.
func (fs *frames) items() int { return len(fs.data) }

// frame returns the rendering context with item hovered (-1 for none).
func (fs *frames) frame(item int) (*frame.Frame, error) {
	return fs.cfg.Frame(item)
}

// ratio is the configured device pixel ratio, defaulting to 1.
func (fs *frames) ratio() float64 {
	if fs.cfg.Ratio > 0 {
		return fs.cfg.Ratio
	}
	return 1
}

// render returns the encoded frame for item in format, from the cache when
// possible. Cache failures are logged and never fail the render.
func (fs *frames) render(ctx context.Context, format string, item int) ([]byte, bool, error) {
	key := fs.keyer.FrameKey(fs.digest, cache.FrameKeyOpts{Format: format, Item: item, Ratio: fs.ratio()})
	data, hit, err := cache.Fetch(ctx, fs.cache, key, frameTTL, func() ([]byte, error) {
		return fs.encode(ctx, format, item)
	})
	if err != nil && data != nil {
		loggerFromContext(ctx).Warn("Frame cache unavailable", "err", err)
		err = nil
	}
	return data, hit, err
}

func (fs *frames) encode(ctx context.Context, format string, item int) ([]byte, error) {
	switch format {
	case formatSVG:
		return fs.svg(ctx, item)
	case formatPNG:
		return fs.png(ctx, item)
	}
	return nil, fmt.Errorf("unknown format: %s", format)
}

func (fs *frames) svg(ctx context.Context, item int) ([]byte, error) {
	f, err := fs.frame(item)
	if err != nil {
		return nil, err
	}
	doc, err := fs.scene.Document(ctx, f, fs.cfg.Title, fs.cfg.Backdrop)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := svg.Encode(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (fs *frames) png(ctx context.Context, item int) ([]byte, error) {
	f, err := fs.frame(item)
	if err != nil {
		return nil, err
	}
	surface := canvas.NewSurface(fs.cfg.Width, fs.cfg.Height, fs.ratio())
	if fs.cfg.Backdrop != "" {
		bg, err := canvas.ParseColor(fs.cfg.Backdrop)
		if err != nil {
			return nil, err
		}
		surface.SetBackdrop(bg)
	}
	if err := fs.scene.Paint(ctx, surface, f); err != nil {
		return nil, err
	}
	if err := surface.Err(); err != nil {
		return nil, err
	}
	if !surface.Balanced() {
		loggerFromContext(ctx).Warn("Canvas state left pushed after frame")
	}
	var buf bytes.Buffer
	if err := surface.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
