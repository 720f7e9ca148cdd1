package timeline

import (
	"context"
	"time"

	"skill-studio/engine/logging"
	"skill-studio/engine/logging/sequencer"
)

// PlaybackState enumerates the scheduler states.
type PlaybackState string

const (
	PlaybackStopped PlaybackState = "stopped"
	PlaybackPlaying PlaybackState = "playing"
	PlaybackPaused  PlaybackState = "paused"
)

// Playback advances the frame clock over wall time. The running loop uses a
// fixed target interval of 1s / (fps * rate); each tick measures the elapsed
// time since the last committed frame and carries the sub-interval remainder
// forward instead of resetting it, so long runs do not drift.
//
// Every committed frame change (scheduler advance, seek, stop-reset) runs
// the step execution pipeline, which recomputes the active segment set and
// fires callbacks subject to the per-activation flags.
type Playback struct {
	engine       *Engine
	state        PlaybackState
	currentFrame int
	rate         float64
	loop         bool
	lastTick     time.Time
	carry        time.Duration
}

func newPlayback(e *Engine) *Playback {
	return &Playback{engine: e, state: PlaybackStopped, rate: 1}
}

func (p *Playback) interval() time.Duration {
	if p == nil || p.engine == nil {
		return 0
	}
	fps := p.engine.converter.FPS()
	if fps <= 0 || p.rate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / (float64(fps) * p.rate))
}

// restartTimer re-arms the interval measurement without touching the frame,
// used when fps or rate changes mid-playback.
func (p *Playback) restartTimer() {
	if p == nil {
		return
	}
	p.lastTick = time.Time{}
	p.carry = 0
}

// Play starts the scheduler. Playing from the last frame restarts from zero.
func (p *Playback) Play() {
	if p == nil || p.state == PlaybackPlaying {
		return
	}
	total := p.engine.cfg.TotalFrames
	if total > 0 && p.currentFrame >= total {
		p.applyFrame(0)
	}
	p.state = PlaybackPlaying
	p.restartTimer()
	p.publishTransition(sequencer.EventPlaybackStarted)
}

// Pause halts advancement without moving the playhead.
func (p *Playback) Pause() {
	if p == nil || p.state != PlaybackPlaying {
		return
	}
	p.state = PlaybackPaused
	p.restartTimer()
	p.publishTransition(sequencer.EventPlaybackStopped)
}

// Stop halts advancement and resets the playhead to frame zero.
func (p *Playback) Stop() {
	if p == nil {
		return
	}
	wasStopped := p.state == PlaybackStopped && p.currentFrame == 0
	p.state = PlaybackStopped
	p.restartTimer()
	p.applyFrame(0)
	if !wasStopped {
		p.publishTransition(sequencer.EventPlaybackStopped)
	}
}

// Toggle flips between playing and paused.
func (p *Playback) Toggle() {
	if p == nil {
		return
	}
	if p.state == PlaybackPlaying {
		p.Pause()
		return
	}
	p.Play()
}

// SetLoop controls end-of-timeline wrapping.
func (p *Playback) SetLoop(loop bool) {
	if p == nil {
		return
	}
	p.loop = loop
}

// Loop reports whether playback wraps at the end.
func (p *Playback) Loop() bool {
	return p != nil && p.loop
}

// SetPlaybackRate applies a new rate multiplier. Non-positive rates are
// rejected and the previous rate kept. A running scheduler restarts its
// interval without losing the current frame.
func (p *Playback) SetPlaybackRate(rate float64) bool {
	if p == nil || rate <= 0 {
		return false
	}
	p.rate = rate
	p.restartTimer()
	return true
}

// Rate reports the playback rate multiplier.
func (p *Playback) Rate() float64 {
	if p == nil {
		return 0
	}
	return p.rate
}

// Tick advances the frame clock if enough wall time elapsed. The first tick
// after (re)starting only arms the measurement. When a host stalls for
// several intervals the scheduler catches up, committing each skipped frame
// through the pipeline in order.
func (p *Playback) Tick(now time.Time) {
	if p == nil || p.state != PlaybackPlaying {
		return
	}
	interval := p.interval()
	if interval <= 0 {
		return
	}
	if p.lastTick.IsZero() {
		p.lastTick = now
		p.carry = 0
		return
	}
	elapsed := now.Sub(p.lastTick) + p.carry
	if elapsed < interval {
		return
	}
	advances := int(elapsed / interval)
	p.carry = elapsed - time.Duration(advances)*interval
	p.lastTick = now
	for i := 0; i < advances && p.state == PlaybackPlaying; i++ {
		p.advanceOne()
	}
}

func (p *Playback) advanceOne() {
	total := p.engine.cfg.TotalFrames
	if total <= 0 {
		return
	}
	next := p.currentFrame + 1
	if next >= total {
		if p.loop {
			p.engine.telemetry.RecordLoopWrap()
			p.applyFrame(0)
			p.engine.telemetry.RecordFrameAdvance()
			p.publishTransition(sequencer.EventPlaybackLooped)
			return
		}
		p.applyFrame(total)
		p.engine.telemetry.RecordFrameAdvance()
		p.state = PlaybackStopped
		p.restartTimer()
		p.publishTransition(sequencer.EventPlaybackStopped)
		return
	}
	p.applyFrame(next)
	p.engine.telemetry.RecordFrameAdvance()
}

// SeekToFrame moves the playhead, clamping into [0, totalFrames], and
// immediately recomputes the active segment set. Seeking twice to the same
// frame is idempotent: the per-activation fired flags are untouched, so no
// callback fires twice.
func (p *Playback) SeekToFrame(frame int) {
	if p == nil {
		return
	}
	p.engine.telemetry.RecordSeek()
	p.applyFrame(p.clampFrame(frame))
}

// SeekToTime moves the playhead to the nearest frame for a time in seconds.
func (p *Playback) SeekToTime(t float64) {
	if p == nil {
		return
	}
	p.SeekToFrame(p.engine.converter.TimeToFrame(t))
}

// SeekToProgress moves the playhead to a normalized position in [0, 1].
func (p *Playback) SeekToProgress(progress float64) {
	if p == nil {
		return
	}
	total := p.engine.cfg.TotalFrames
	if total <= 0 {
		p.SeekToFrame(0)
		return
	}
	progress = clampFloat(progress, 0, 1)
	p.SeekToFrame(int(progress*float64(total) + 0.5))
}

// StepForward nudges the playhead one frame ahead; a no-op at the end.
func (p *Playback) StepForward() {
	if p == nil {
		return
	}
	if p.currentFrame >= p.engine.cfg.TotalFrames {
		return
	}
	p.SeekToFrame(p.currentFrame + 1)
}

// StepBackward nudges the playhead one frame back; a no-op at frame zero.
func (p *Playback) StepBackward() {
	if p == nil || p.currentFrame <= 0 {
		return
	}
	p.SeekToFrame(p.currentFrame - 1)
}

// State reports the scheduler state.
func (p *Playback) State() PlaybackState {
	if p == nil {
		return PlaybackStopped
	}
	return p.state
}

// IsPlaying reports whether the scheduler is advancing.
func (p *Playback) IsPlaying() bool {
	return p != nil && p.state == PlaybackPlaying
}

// CurrentFrame reports the playhead position.
func (p *Playback) CurrentFrame() int {
	if p == nil {
		return 0
	}
	return p.currentFrame
}

// Progress reports the playhead as a fraction of the total frame count.
func (p *Playback) Progress() float64 {
	if p == nil {
		return 0
	}
	total := p.engine.cfg.TotalFrames
	if total <= 0 {
		return 0
	}
	return clampFloat(float64(p.currentFrame)/float64(total), 0, 1)
}

func (p *Playback) clampFrame(frame int) int {
	total := p.engine.cfg.TotalFrames
	if total <= 0 {
		return 0
	}
	return clampInt(frame, 0, total)
}

// applyFrame commits the playhead and runs the pipeline. The frame patch is
// journaled only on change; the pipeline always runs so a seek recomputes
// the active set even when the frame is unchanged.
func (p *Playback) applyFrame(frame int) {
	if frame != p.currentFrame {
		p.currentFrame = frame
		p.engine.store.journal.append(Patch{Kind: PatchPlaybackFrame, Payload: FramePayload{Frame: frame}})
	}
	p.engine.pipeline.Advance(frame)
}

func (p *Playback) publishTransition(eventType logging.EventType) {
	p.engine.store.journal.append(Patch{Kind: PatchPlaybackState, Payload: StatePayload{State: p.state, Frame: p.currentFrame}})
	sequencer.PlaybackTransition(context.Background(), p.engine.publisher, eventType, sequencer.PlaybackPayload{
		State: string(p.state),
		Frame: p.currentFrame,
		Rate:  p.rate,
		Loop:  p.loop,
	})
}
