package timeline

import (
	"math"
	"testing"
)

// newSnapEngine uses fps 10 at 100 px/s so one frame is exactly 10 px.
func newSnapEngine(t *testing.T) (*Engine, string) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.FPS = 10
	cfg.TotalFrames = 100
	e := New(cfg)
	return e, e.Store().Tracks()[0].ID
}

func TestSnapToSiblingEdge(t *testing.T) {
	t.Parallel()

	e, trackID := newSnapEngine(t)
	placeSegment(t, e, trackID, StepEffect, nil, 50, 60)

	// 5.05s is 5px from the 5.0s start edge, inside the 12px threshold.
	result := e.CalculateSnap(5.05, trackID, "")
	if !result.Snapped {
		t.Fatal("expected snap to the sibling start edge")
	}
	if math.Abs(result.Time-5.0) > 1e-9 {
		t.Fatalf("expected snap to 5.0s, got %f", result.Time)
	}
	if math.Abs(result.PixelPosition-500) > 1e-9 {
		t.Fatalf("expected pixel 500, got %f", result.PixelPosition)
	}
}

func TestSnapOutsideThresholdPassesThrough(t *testing.T) {
	t.Parallel()

	e, trackID := newSnapEngine(t)
	placeSegment(t, e, trackID, StepEffect, nil, 50, 60)

	result := e.CalculateSnap(5.2, trackID, "")
	if result.Snapped {
		t.Fatalf("20px away should not snap, got %f", result.Time)
	}
	if result.Time != 5.2 {
		t.Fatalf("unsnapped result should echo the input, got %f", result.Time)
	}
}

func TestSnapToPlayhead(t *testing.T) {
	t.Parallel()

	e, trackID := newSnapEngine(t)
	e.Playback().SeekToFrame(30)

	result := e.CalculateSnap(3.08, trackID, "")
	if !result.Snapped || math.Abs(result.Time-3.0) > 1e-9 {
		t.Fatalf("expected snap to the playhead at 3.0s, got snapped=%v time=%f", result.Snapped, result.Time)
	}
}

func TestSnapToZero(t *testing.T) {
	t.Parallel()

	e, trackID := newSnapEngine(t)

	result := e.CalculateSnap(0.08, trackID, "")
	if !result.Snapped || result.Time != 0 {
		t.Fatalf("expected snap to 0, got snapped=%v time=%f", result.Snapped, result.Time)
	}
}

func TestSnapIgnoresExcludedSegment(t *testing.T) {
	t.Parallel()

	e, trackID := newSnapEngine(t)
	seg := placeSegment(t, e, trackID, StepEffect, nil, 50, 60)

	result := e.CalculateSnap(5.05, trackID, seg.ID)
	if result.Snapped {
		t.Fatalf("dragged segment's own edges should not attract, snapped to %f", result.Time)
	}
}

func TestSnapThresholdScalesWithZoom(t *testing.T) {
	t.Parallel()

	e, trackID := newSnapEngine(t)
	placeSegment(t, e, trackID, StepEffect, nil, 50, 60)

	// At zoom 4 the same 0.05s offset is 20px and falls outside the
	// threshold; the window shrinks in time as the view zooms in.
	e.SetZoom(4.0)
	if result := e.CalculateSnap(5.05, trackID, ""); result.Snapped {
		t.Fatalf("0.05s at zoom 4 should not snap, got %f", result.Time)
	}
	if result := e.CalculateSnap(5.02, trackID, ""); !result.Snapped {
		t.Fatal("0.02s at zoom 4 is 8px and should snap")
	}
}

func TestSnapTieBreakIsDeterministic(t *testing.T) {
	t.Parallel()

	e, trackID := newSnapEngine(t)
	placeSegment(t, e, trackID, StepEffect, nil, 50, 52)

	// 5.1s sits exactly 10px from both edges of [50,52); the earlier
	// candidate wins every time.
	for i := 0; i < 5; i++ {
		result := e.CalculateSnap(5.1, trackID, "")
		if !result.Snapped || math.Abs(result.Time-5.0) > 1e-9 {
			t.Fatalf("expected deterministic snap to 5.0s, got snapped=%v time=%f", result.Snapped, result.Time)
		}
	}
}

func TestSnapRecordsTelemetry(t *testing.T) {
	t.Parallel()

	e, trackID := newSnapEngine(t)
	e.CalculateSnap(0.05, trackID, "")
	if got := e.Telemetry().SnapsApplied; got != 1 {
		t.Fatalf("expected 1 recorded snap, got %d", got)
	}
}
