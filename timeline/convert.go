package timeline

import "math"

// Converter performs the pure frame/time/pixel conversions shared by the
// snap engine, the drag controller, and the playback scheduler. Frame and
// time conversions depend only on the frame rate; pixel conversions add a
// linear zoom layer on top.
type Converter struct {
	fps             int
	pixelsPerSecond float64
	zoom            float64
	minZoom         float64
	maxZoom         float64
}

// NewConverter builds a converter from a normalized config.
func NewConverter(cfg Config) *Converter {
	return &Converter{
		fps:             cfg.FPS,
		pixelsPerSecond: cfg.PixelsPerSecond,
		zoom:            clampFloat(cfg.Zoom, cfg.MinZoom, cfg.MaxZoom),
		minZoom:         cfg.MinZoom,
		maxZoom:         cfg.MaxZoom,
	}
}

// FrameToTime converts a frame index to seconds. A non-positive frame rate
// yields 0 rather than dividing by zero; the scheduler treats that
// configuration as "never advances".
func (c *Converter) FrameToTime(frame int) float64 {
	if c == nil || c.fps <= 0 {
		return 0
	}
	return float64(frame) / float64(c.fps)
}

// TimeToFrame converts seconds to the nearest frame index.
func (c *Converter) TimeToFrame(t float64) int {
	if c == nil || c.fps <= 0 {
		return 0
	}
	return int(math.Round(t * float64(c.fps)))
}

// TimeToPx converts seconds to a horizontal pixel offset at the current zoom.
func (c *Converter) TimeToPx(t float64) float64 {
	if c == nil {
		return 0
	}
	return t * c.pixelsPerSecond * c.zoom
}

// PxToTime converts a horizontal pixel offset back to seconds.
func (c *Converter) PxToTime(px float64) float64 {
	if c == nil {
		return 0
	}
	scale := c.pixelsPerSecond * c.zoom
	if scale <= 0 {
		return 0
	}
	return px / scale
}

// FrameToPx converts a frame index directly to a pixel offset.
func (c *Converter) FrameToPx(frame int) float64 {
	return c.TimeToPx(c.FrameToTime(frame))
}

// PxToFrame converts a pixel offset directly to the nearest frame index.
func (c *Converter) PxToFrame(px float64) int {
	return c.TimeToFrame(c.PxToTime(px))
}

// SetZoom clamps the requested zoom into the configured range and returns
// the value actually applied.
func (c *Converter) SetZoom(zoom float64) float64 {
	if c == nil {
		return 0
	}
	c.zoom = clampFloat(zoom, c.minZoom, c.maxZoom)
	return c.zoom
}

// Zoom reports the current zoom scalar.
func (c *Converter) Zoom() float64 {
	if c == nil {
		return 0
	}
	return c.zoom
}

// SetFPS swaps the frame rate used for frame/time conversions. Degenerate
// rates are stored as-is; conversions then return 0 and playback halts.
func (c *Converter) SetFPS(fps int) {
	if c == nil {
		return
	}
	c.fps = fps
}

// FPS reports the configured frame rate.
func (c *Converter) FPS() int {
	if c == nil {
		return 0
	}
	return c.fps
}
