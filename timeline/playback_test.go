package timeline

import (
	"testing"
	"time"
)

// tickFor drives the scheduler with a simulated wall clock at the given host
// cadence for the given span.
func tickFor(p *Playback, span, cadence time.Duration) {
	now := time.Unix(1000, 0)
	p.Tick(now)
	for elapsed := time.Duration(0); elapsed < span; elapsed += cadence {
		now = now.Add(cadence)
		p.Tick(now)
	}
}

func newPlaybackEngine(fps, totalFrames int) *Engine {
	cfg := DefaultConfig()
	cfg.FPS = fps
	cfg.TotalFrames = totalFrames
	return New(cfg)
}

func TestPlaybackAdvancesAtFrameRate(t *testing.T) {
	t.Parallel()

	e := newPlaybackEngine(10, 100)
	p := e.Playback()
	p.Play()

	tickFor(p, 2*time.Second, 10*time.Millisecond)
	if got := p.CurrentFrame(); got != 20 {
		t.Fatalf("expected frame 20 after 2s at 10fps, got %d", got)
	}
}

func TestPlaybackDriftStaysWithinOneFrame(t *testing.T) {
	t.Parallel()

	e := newPlaybackEngine(30, 1000)
	p := e.Playback()
	p.Play()

	// A 16ms host cadence never lines up with the 33.3ms frame interval;
	// the carried remainder keeps the long-run total exact.
	tickFor(p, 10*time.Second, 16*time.Millisecond)
	got := p.CurrentFrame()
	if got < 299 || got > 301 {
		t.Fatalf("expected ~300 frames after 10s at 30fps, got %d", got)
	}
}

func TestPlaybackCatchesUpAfterStall(t *testing.T) {
	t.Parallel()

	e := newPlaybackEngine(10, 100)
	p := e.Playback()
	p.Play()

	now := time.Unix(1000, 0)
	p.Tick(now)
	p.Tick(now.Add(500 * time.Millisecond))
	if got := p.CurrentFrame(); got != 5 {
		t.Fatalf("expected 5 frames after a 500ms stall, got %d", got)
	}
}

func TestPlaybackLoopWrapsToZero(t *testing.T) {
	t.Parallel()

	e := newPlaybackEngine(10, 10)
	p := e.Playback()
	p.SetLoop(true)
	p.Play()

	tickFor(p, 2500*time.Millisecond, 10*time.Millisecond)
	if !p.IsPlaying() {
		t.Fatal("looping playback should still be running")
	}
	if got := p.CurrentFrame(); got != 5 {
		t.Fatalf("expected frame 5 after 25 advances with wrap at 10, got %d", got)
	}
	if got := e.Telemetry().LoopWraps; got != 2 {
		t.Fatalf("expected 2 loop wraps, got %d", got)
	}
}

func TestPlaybackStopsAtEndWithoutLoop(t *testing.T) {
	t.Parallel()

	e := newPlaybackEngine(10, 10)
	p := e.Playback()
	p.Play()

	tickFor(p, 3*time.Second, 10*time.Millisecond)
	if p.IsPlaying() {
		t.Fatal("playback should stop at the end of the timeline")
	}
	if got := p.CurrentFrame(); got != 10 {
		t.Fatalf("expected playhead held at frame 10, got %d", got)
	}
	if got := p.State(); got != PlaybackStopped {
		t.Fatalf("expected stopped state, got %s", got)
	}
}

func TestPlayFromEndRestartsAtZero(t *testing.T) {
	t.Parallel()

	e := newPlaybackEngine(10, 10)
	p := e.Playback()
	p.Play()
	tickFor(p, 3*time.Second, 10*time.Millisecond)

	p.Play()
	if got := p.CurrentFrame(); got != 0 {
		t.Fatalf("expected restart from frame 0, got %d", got)
	}
	if !p.IsPlaying() {
		t.Fatal("expected playback running after restart")
	}
}

func TestPauseKeepsFrameStopResets(t *testing.T) {
	t.Parallel()

	e := newPlaybackEngine(10, 100)
	p := e.Playback()
	p.Play()
	tickFor(p, time.Second, 10*time.Millisecond)

	p.Pause()
	if got := p.CurrentFrame(); got != 10 {
		t.Fatalf("pause moved the playhead to %d", got)
	}
	p.Stop()
	if got := p.CurrentFrame(); got != 0 {
		t.Fatalf("stop should reset to frame 0, got %d", got)
	}
}

func TestPlaybackRateDoublesAdvancement(t *testing.T) {
	t.Parallel()

	e := newPlaybackEngine(10, 1000)
	p := e.Playback()
	if !p.SetPlaybackRate(2.0) {
		t.Fatal("failed setting rate")
	}
	p.Play()

	tickFor(p, 2*time.Second, 10*time.Millisecond)
	if got := p.CurrentFrame(); got != 40 {
		t.Fatalf("expected frame 40 after 2s at rate 2, got %d", got)
	}
}

func TestSetPlaybackRateRejectsNonPositive(t *testing.T) {
	t.Parallel()

	e := newPlaybackEngine(10, 100)
	p := e.Playback()
	if p.SetPlaybackRate(0) {
		t.Fatal("rate 0 should be rejected")
	}
	if p.SetPlaybackRate(-1) {
		t.Fatal("negative rate should be rejected")
	}
	if got := p.Rate(); got != 1 {
		t.Fatalf("expected rate held at 1, got %f", got)
	}
}

func TestDegenerateFPSHaltsScheduler(t *testing.T) {
	t.Parallel()

	e := newPlaybackEngine(0, 100)
	p := e.Playback()
	p.Play()

	tickFor(p, 5*time.Second, 10*time.Millisecond)
	if got := p.CurrentFrame(); got != 0 {
		t.Fatalf("expected no advancement at fps 0, got frame %d", got)
	}
}

func TestSeekClampsIntoRange(t *testing.T) {
	t.Parallel()

	e := newPlaybackEngine(10, 100)
	p := e.Playback()

	p.SeekToFrame(-5)
	if got := p.CurrentFrame(); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	p.SeekToFrame(500)
	if got := p.CurrentFrame(); got != 100 {
		t.Fatalf("expected clamp to 100, got %d", got)
	}
}

func TestSeekToProgress(t *testing.T) {
	t.Parallel()

	e := newPlaybackEngine(10, 100)
	p := e.Playback()

	p.SeekToProgress(0.5)
	if got := p.CurrentFrame(); got != 50 {
		t.Fatalf("expected frame 50 at progress 0.5, got %d", got)
	}
	if got := p.Progress(); got != 0.5 {
		t.Fatalf("expected progress 0.5, got %f", got)
	}
}

func TestStepForwardBackwardBounds(t *testing.T) {
	t.Parallel()

	e := newPlaybackEngine(10, 100)
	p := e.Playback()

	p.StepBackward()
	if got := p.CurrentFrame(); got != 0 {
		t.Fatalf("step backward at 0 should hold, got %d", got)
	}
	p.StepForward()
	if got := p.CurrentFrame(); got != 1 {
		t.Fatalf("expected frame 1, got %d", got)
	}
	p.SeekToFrame(100)
	p.StepForward()
	if got := p.CurrentFrame(); got != 100 {
		t.Fatalf("step forward at the end should hold, got %d", got)
	}
}

func TestEngineAdvanceUsesInjectedClock(t *testing.T) {
	t.Parallel()

	e := newPlaybackEngine(10, 100)
	now := time.Unix(1000, 0)
	e.SetClock(clockAt(&now))

	e.Playback().Play()
	e.Advance()
	now = now.Add(time.Second)
	e.Advance()
	if got := e.CurrentFrame(); got != 10 {
		t.Fatalf("expected frame 10 after 1 simulated second, got %d", got)
	}
}
