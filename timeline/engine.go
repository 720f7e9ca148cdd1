package timeline

import (
	"time"

	"skill-studio/engine/logging"
)

// Engine ties the store, the converters, the playback scheduler, the step
// execution pipeline, and the drag controller into one authoring session.
// Queries flow from the store outward; mutations flow in through the drag
// controller and the scheduler. The engine is single-threaded: the host
// drives it from its render loop via Advance and pointer events.
type Engine struct {
	cfg       Config
	store     *Store
	converter *Converter
	playback  *Playback
	pipeline  *Pipeline
	drag      *DragController
	publisher logging.Publisher
	telemetry *Counters
	clock     logging.Clock
}

// New constructs an engine with one empty track and stopped playback.
func New(cfg Config) *Engine {
	cfg = cfg.normalized()
	e := &Engine{
		cfg:       cfg,
		publisher: logging.NopPublisher(),
		telemetry: NewCounters(),
		clock:     logging.ClockFunc(time.Now),
	}
	e.store = NewStore(cfg)
	e.store.setTelemetry(e.telemetry)
	e.converter = NewConverter(cfg)
	e.pipeline = newPipeline(e)
	e.playback = newPlayback(e)
	e.drag = newDragController(e)
	return e
}

// Store exposes the track/segment/step store.
func (e *Engine) Store() *Store {
	if e == nil {
		return nil
	}
	return e.store
}

// Converter exposes the frame/time/pixel converter.
func (e *Engine) Converter() *Converter {
	if e == nil {
		return nil
	}
	return e.converter
}

// Playback exposes the scheduler.
func (e *Engine) Playback() *Playback {
	if e == nil {
		return nil
	}
	return e.playback
}

// Drag exposes the pointer drag controller.
func (e *Engine) Drag() *DragController {
	if e == nil {
		return nil
	}
	return e.drag
}

// SetPublisher swaps the event publisher. A nil publisher silences events.
func (e *Engine) SetPublisher(pub logging.Publisher) {
	if e == nil {
		return
	}
	if pub == nil {
		pub = logging.NopPublisher()
	}
	e.publisher = pub
}

// SetClock swaps the wall clock used by Advance, primarily for tests.
func (e *Engine) SetClock(clock logging.Clock) {
	if e == nil || clock == nil {
		return
	}
	e.clock = clock
}

// SetCallbacks installs the effect callback table invoked by the pipeline.
func (e *Engine) SetCallbacks(callbacks Callbacks) {
	if e == nil {
		return
	}
	e.pipeline.callbacks = callbacks
}

// SetExecutionContext installs the coordinates symbolic step params resolve
// against.
func (e *Engine) SetExecutionContext(execCtx ExecutionContext) {
	if e == nil {
		return
	}
	e.pipeline.execCtx = execCtx
}

// Advance runs one scheduler tick against the engine clock. Hosts call this
// once per render frame.
func (e *Engine) Advance() {
	if e == nil {
		return
	}
	e.playback.Tick(e.clock.Now())
}

// Telemetry snapshots the activity counters.
func (e *Engine) Telemetry() TelemetrySnapshot {
	if e == nil {
		return TelemetrySnapshot{}
	}
	return e.telemetry.Snapshot()
}

// Config returns the normalized engine configuration.
func (e *Engine) Config() Config {
	if e == nil {
		return Config{}
	}
	return e.cfg
}

// DrainPatches returns the state diffs accumulated since the last drain.
func (e *Engine) DrainPatches() []Patch {
	if e == nil {
		return nil
	}
	return e.store.Drain()
}

// SetZoom clamps and applies a new zoom scalar, returning the value in use.
func (e *Engine) SetZoom(zoom float64) float64 {
	if e == nil {
		return 0
	}
	applied := e.converter.SetZoom(zoom)
	e.cfg.Zoom = applied
	return applied
}

// SetFPS swaps the frame rate. A running scheduler restarts its interval
// without losing the current frame.
func (e *Engine) SetFPS(fps int) {
	if e == nil {
		return
	}
	e.cfg.FPS = fps
	e.converter.SetFPS(fps)
	e.playback.restartTimer()
}

// --- query surface ---

// FrameToTime converts a frame index to seconds at the engine frame rate.
func (e *Engine) FrameToTime(frame int) float64 {
	if e == nil {
		return 0
	}
	return e.converter.FrameToTime(frame)
}

// TimeToFrame converts seconds to the nearest frame index.
func (e *Engine) TimeToFrame(t float64) int {
	if e == nil {
		return 0
	}
	return e.converter.TimeToFrame(t)
}

// ActiveSegmentsAt returns the segments whose half-open range contains the
// frame. Out-of-range frames are clamped at the boundary.
func (e *Engine) ActiveSegmentsAt(frame int) []Segment {
	if e == nil {
		return nil
	}
	if frame < 0 {
		frame = 0
	}
	if e.cfg.TotalFrames > 0 && frame > e.cfg.TotalFrames {
		frame = e.cfg.TotalFrames
	}
	return e.store.SegmentsAt(frame)
}

// TrackSegments returns the segments on a track ordered by start frame.
func (e *Engine) TrackSegments(trackID string) []Segment {
	if e == nil {
		return nil
	}
	return e.store.TrackSegments(trackID)
}

// CurrentFrame reports the playhead position.
func (e *Engine) CurrentFrame() int {
	if e == nil {
		return 0
	}
	return e.playback.CurrentFrame()
}

// IsPlaying reports whether the scheduler is advancing.
func (e *Engine) IsPlaying() bool {
	if e == nil {
		return false
	}
	return e.playback.IsPlaying()
}

// Progress reports the playhead as a fraction of the total frame count.
func (e *Engine) Progress() float64 {
	if e == nil {
		return 0
	}
	return e.playback.Progress()
}

// TotalDuration reports the timeline length in seconds.
func (e *Engine) TotalDuration() float64 {
	if e == nil {
		return 0
	}
	return e.converter.FrameToTime(e.cfg.TotalFrames)
}
