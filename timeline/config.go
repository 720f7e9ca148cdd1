package timeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default tuning values. These match the reference editor layout: a 10 second
// timeline at 30 fps rendered at 100 px per second.
const (
	defaultFPS                 = 30
	defaultTotalFrames         = 300
	defaultPixelsPerSecond     = 100.0
	defaultZoom                = 1.0
	defaultMinZoom             = 0.25
	defaultMaxZoom             = 4.0
	defaultSnapThresholdPx     = 12.0
	defaultEdgeHitWidthPx      = 6.0
	defaultTrackRowHeightPx    = 48.0
	defaultMinDurationFrames   = 1
	defaultOverrunBufferFrames = 30
)

// Config captures the tunables used when constructing an Engine.
type Config struct {
	FPS                 int     `yaml:"fps"`
	TotalFrames         int     `yaml:"totalFrames"`
	PixelsPerSecond     float64 `yaml:"pixelsPerSecond"`
	Zoom                float64 `yaml:"zoom"`
	MinZoom             float64 `yaml:"minZoom"`
	MaxZoom             float64 `yaml:"maxZoom"`
	SnapThresholdPx     float64 `yaml:"snapThresholdPx"`
	EdgeHitWidthPx      float64 `yaml:"edgeHitWidthPx"`
	TrackRowHeightPx    float64 `yaml:"trackRowHeightPx"`
	MinDurationFrames   int     `yaml:"minDurationFrames"`
	OverrunBufferFrames int     `yaml:"overrunBufferFrames"`

	// DefaultDurations maps a step type to the frame count a freshly placed
	// segment receives. Missing types fall back to the compiled-in table.
	DefaultDurations map[StepType]int `yaml:"defaultDurations"`
}

// DefaultConfig returns the canonical editor configuration.
func DefaultConfig() Config {
	return Config{
		FPS:                 defaultFPS,
		TotalFrames:         defaultTotalFrames,
		PixelsPerSecond:     defaultPixelsPerSecond,
		Zoom:                defaultZoom,
		MinZoom:             defaultMinZoom,
		MaxZoom:             defaultMaxZoom,
		SnapThresholdPx:     defaultSnapThresholdPx,
		EdgeHitWidthPx:      defaultEdgeHitWidthPx,
		TrackRowHeightPx:    defaultTrackRowHeightPx,
		MinDurationFrames:   defaultMinDurationFrames,
		OverrunBufferFrames: defaultOverrunBufferFrames,
		DefaultDurations:    defaultDurationTable(),
	}
}

func defaultDurationTable() map[StepType]int {
	return map[StepType]int{
		StepMove:       50,
		StepDamage:     30,
		StepEffect:     40,
		StepWait:       30,
		StepCamera:     40,
		StepShake:      30,
		StepBackground: 20,
	}
}

// normalized returns a config with defaults applied and bounds enforced.
// Degenerate values (fps <= 0, totalFrames <= 0) are preserved so the
// scheduler can treat them as "do not advance" rather than failing.
func (cfg Config) normalized() Config {
	normalized := cfg
	if normalized.PixelsPerSecond <= 0 {
		normalized.PixelsPerSecond = defaultPixelsPerSecond
	}
	if normalized.MinZoom <= 0 {
		normalized.MinZoom = defaultMinZoom
	}
	if normalized.MaxZoom < normalized.MinZoom {
		normalized.MaxZoom = normalized.MinZoom
	}
	if normalized.Zoom == 0 {
		normalized.Zoom = defaultZoom
	}
	normalized.Zoom = clampFloat(normalized.Zoom, normalized.MinZoom, normalized.MaxZoom)
	if normalized.SnapThresholdPx <= 0 {
		normalized.SnapThresholdPx = defaultSnapThresholdPx
	}
	if normalized.EdgeHitWidthPx <= 0 {
		normalized.EdgeHitWidthPx = defaultEdgeHitWidthPx
	}
	if normalized.TrackRowHeightPx <= 0 {
		normalized.TrackRowHeightPx = defaultTrackRowHeightPx
	}
	if normalized.MinDurationFrames < 1 {
		normalized.MinDurationFrames = defaultMinDurationFrames
	}
	if normalized.OverrunBufferFrames < 0 {
		normalized.OverrunBufferFrames = defaultOverrunBufferFrames
	}
	durations := defaultDurationTable()
	for stepType, frames := range normalized.DefaultDurations {
		if frames > 0 {
			durations[stepType] = frames
		}
	}
	normalized.DefaultDurations = durations
	return normalized
}

// MaxSegmentFrames bounds any single segment so interactive resizing cannot
// grow it without limit.
func (cfg Config) MaxSegmentFrames() int {
	if cfg.TotalFrames <= 0 {
		return cfg.OverrunBufferFrames
	}
	return cfg.TotalFrames + cfg.OverrunBufferFrames
}

// DefaultDuration returns the placement duration for a step type in frames.
func (cfg Config) DefaultDuration(stepType StepType) int {
	if frames, ok := cfg.DefaultDurations[stepType]; ok && frames > 0 {
		return frames
	}
	if frames, ok := defaultDurationTable()[stepType]; ok {
		return frames
	}
	return 30
}

// LoadConfig reads a YAML config file and applies defaults. A missing file is
// not an error; the caller receives the default configuration.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("config: failed reading %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: failed parsing %s: %w", path, err)
	}
	return cfg.normalized(), nil
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
