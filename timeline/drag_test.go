package timeline

import "testing"

// newDragEngine uses fps 10 at 100 px/s so one frame is exactly 10 px, with
// the default 48px rows, 6px edge hit width, and 12px snap threshold.
func newDragEngine(t *testing.T) (*Engine, string) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.FPS = 10
	cfg.TotalFrames = 100
	e := New(cfg)
	return e, e.Store().Tracks()[0].ID
}

func TestPointerDownMissesEmptySpace(t *testing.T) {
	t.Parallel()

	e, trackID := newDragEngine(t)
	placeSegment(t, e, trackID, StepEffect, nil, 0, 30)

	if e.Drag().PointerDown(500, 10) {
		t.Fatal("press past the segment should not start a drag")
	}
	if e.Drag().PointerDown(100, 100) {
		t.Fatal("press below the last row should not start a drag")
	}
}

func TestPointerDownPicksModeByEdgeProximity(t *testing.T) {
	t.Parallel()

	e, trackID := newDragEngine(t)
	placeSegment(t, e, trackID, StepEffect, nil, 10, 40)

	cases := []struct {
		x    float64
		mode DragMode
	}{
		{102, DragResizeStart},
		{200, DragMove},
		{398, DragResizeEnd},
	}
	for _, tc := range cases {
		if !e.Drag().PointerDown(tc.x, 10) {
			t.Fatalf("press at %f should hit the segment", tc.x)
		}
		ctx, ok := e.Drag().Context()
		if !ok {
			t.Fatal("expected a live drag context")
		}
		if ctx.Mode != tc.mode {
			t.Fatalf("press at %f: expected mode %s, got %s", tc.x, tc.mode, ctx.Mode)
		}
		e.Drag().Cancel()
	}
}

func TestPointerDownOnLockedTrackIgnored(t *testing.T) {
	t.Parallel()

	e, trackID := newDragEngine(t)
	placeSegment(t, e, trackID, StepEffect, nil, 0, 30)
	locked := true
	e.Store().UpdateTrack(trackID, TrackPatch{Locked: &locked})

	if e.Drag().PointerDown(150, 10) {
		t.Fatal("press on a locked track should not start a drag")
	}
}

func TestDragMoveCommitsNewRange(t *testing.T) {
	t.Parallel()

	e, trackID := newDragEngine(t)
	seg := placeSegment(t, e, trackID, StepEffect, nil, 0, 40)

	d := e.Drag()
	// Grab the body at 200px (frame 20) and carry it 500px to the right.
	if !d.PointerDown(200, 10) {
		t.Fatal("press should hit the segment")
	}
	d.PointerMove(700, 10)
	if !d.PointerUp() {
		t.Fatal("expected the move to commit")
	}

	moved, _ := e.Store().Segment(seg.ID)
	if moved.StartFrame != 50 || moved.EndFrame != 90 {
		t.Fatalf("expected [50,90), got [%d,%d)", moved.StartFrame, moved.EndFrame)
	}
	if got := e.Telemetry().DragsCommitted; got != 1 {
		t.Fatalf("expected 1 committed drag, got %d", got)
	}
}

func TestDragMoveAcrossRows(t *testing.T) {
	t.Parallel()

	e, trackID := newDragEngine(t)
	second := e.Store().AddTrack("Track 2")
	seg := placeSegment(t, e, trackID, StepEffect, nil, 0, 30)

	d := e.Drag()
	if !d.PointerDown(150, 10) {
		t.Fatal("press should hit the segment")
	}
	// Drop straight down into row 1.
	d.PointerMove(150, 60)
	if !d.PointerUp() {
		t.Fatal("expected the cross-track move to commit")
	}

	moved, _ := e.Store().Segment(seg.ID)
	if moved.TrackID != second.ID {
		t.Fatalf("expected segment on track 2, got %s", moved.TrackID)
	}
	if moved.StartFrame != 0 || moved.EndFrame != 30 {
		t.Fatalf("expected range preserved, got [%d,%d)", moved.StartFrame, moved.EndFrame)
	}
}

func TestDragMoveSnapsToSiblingEdge(t *testing.T) {
	t.Parallel()

	e, trackID := newDragEngine(t)
	placeSegment(t, e, trackID, StepEffect, nil, 60, 80)
	seg := placeSegment(t, e, trackID, StepEffect, nil, 0, 30)

	d := e.Drag()
	// Grab the start edge region as a body move from 150px (frame 15) and
	// release with the end edge 8px short of the sibling start.
	if !d.PointerDown(150, 10) {
		t.Fatal("press should hit the segment")
	}
	d.PointerMove(442, 10)
	if !d.PointerUp() {
		t.Fatal("expected the snapped move to commit")
	}

	moved, _ := e.Store().Segment(seg.ID)
	if moved.StartFrame != 30 || moved.EndFrame != 60 {
		t.Fatalf("expected end edge snapped to frame 60, got [%d,%d)", moved.StartFrame, moved.EndFrame)
	}
}

func TestDragMoveHoldsLastValidOnCollision(t *testing.T) {
	t.Parallel()

	e, trackID := newDragEngine(t)
	placeSegment(t, e, trackID, StepEffect, nil, 50, 80)
	seg := placeSegment(t, e, trackID, StepEffect, nil, 0, 20)

	d := e.Drag()
	if !d.PointerDown(100, 10) {
		t.Fatal("press should hit the segment")
	}
	// 250px puts the body at [15,35), clear of the sibling.
	d.PointerMove(250, 10)
	// 700px would land inside the sibling; the candidate holds.
	d.PointerMove(700, 10)
	if !d.PointerUp() {
		t.Fatal("expected commit at the last valid candidate")
	}

	moved, _ := e.Store().Segment(seg.ID)
	if moved.StartFrame != 15 || moved.EndFrame != 35 {
		t.Fatalf("expected [15,35) held, got [%d,%d)", moved.StartFrame, moved.EndFrame)
	}
}

func TestDragMoveClampsAtZero(t *testing.T) {
	t.Parallel()

	e, trackID := newDragEngine(t)
	seg := placeSegment(t, e, trackID, StepEffect, nil, 20, 40)

	d := e.Drag()
	if !d.PointerDown(300, 10) {
		t.Fatal("press should hit the segment")
	}
	d.PointerMove(-500, 10)
	if !d.PointerUp() {
		t.Fatal("expected the clamped move to commit")
	}

	moved, _ := e.Store().Segment(seg.ID)
	if moved.StartFrame != 0 || moved.EndFrame != 20 {
		t.Fatalf("expected clamp to [0,20), got [%d,%d)", moved.StartFrame, moved.EndFrame)
	}
}

func TestResizeEndExtendsSegment(t *testing.T) {
	t.Parallel()

	e, trackID := newDragEngine(t)
	seg := placeSegment(t, e, trackID, StepEffect, nil, 0, 30)

	d := e.Drag()
	if !d.PointerDown(300, 10) {
		t.Fatal("press on the end edge should start a resize")
	}
	d.PointerMove(455, 10)
	if !d.PointerUp() {
		t.Fatal("expected the resize to commit")
	}

	resized, _ := e.Store().Segment(seg.ID)
	if resized.StartFrame != 0 || resized.EndFrame != 46 {
		t.Fatalf("expected [0,46), got [%d,%d)", resized.StartFrame, resized.EndFrame)
	}
}

func TestResizeEndStopsAtNextNeighbor(t *testing.T) {
	t.Parallel()

	e, trackID := newDragEngine(t)
	placeSegment(t, e, trackID, StepEffect, nil, 50, 70)
	seg := placeSegment(t, e, trackID, StepEffect, nil, 0, 30)

	d := e.Drag()
	if !d.PointerDown(300, 10) {
		t.Fatal("press on the end edge should start a resize")
	}
	d.PointerMove(650, 10)
	if !d.PointerUp() {
		t.Fatal("expected the bounded resize to commit")
	}

	resized, _ := e.Store().Segment(seg.ID)
	if resized.EndFrame != 50 {
		t.Fatalf("expected end bounded at the neighbor start 50, got %d", resized.EndFrame)
	}
}

func TestResizeStartRespectsMinimumDuration(t *testing.T) {
	t.Parallel()

	e, trackID := newDragEngine(t)
	seg := placeSegment(t, e, trackID, StepEffect, nil, 10, 20)

	d := e.Drag()
	if !d.PointerDown(100, 10) {
		t.Fatal("press on the start edge should start a resize")
	}
	// Dragging the start edge past the end edge collapses to the minimum
	// duration instead of inverting.
	d.PointerMove(350, 10)
	if !d.PointerUp() {
		t.Fatal("expected the collapsed resize to commit")
	}

	resized, _ := e.Store().Segment(seg.ID)
	if resized.StartFrame != 19 || resized.EndFrame != 20 {
		t.Fatalf("expected [19,20), got [%d,%d)", resized.StartFrame, resized.EndFrame)
	}
}

func TestPointerUpRejectionRevertsCleanly(t *testing.T) {
	t.Parallel()

	e, trackID := newDragEngine(t)
	seg := placeSegment(t, e, trackID, StepEffect, nil, 0, 30)

	d := e.Drag()
	if !d.PointerDown(150, 10) {
		t.Fatal("press should hit the segment")
	}
	d.PointerMove(500, 10)

	// The track locks mid-drag, so the commit fails at the store.
	locked := true
	e.Store().UpdateTrack(trackID, TrackPatch{Locked: &locked})

	if d.PointerUp() {
		t.Fatal("commit onto a locked track should be rejected")
	}
	current, _ := e.Store().Segment(seg.ID)
	if current.StartFrame != 0 || current.EndFrame != 30 {
		t.Fatalf("rejected drag must leave the segment untouched, got [%d,%d)", current.StartFrame, current.EndFrame)
	}
	if got := e.Telemetry().DragsRejected; got != 1 {
		t.Fatalf("expected 1 rejected drag, got %d", got)
	}
}

func TestCancelDiscardsDrag(t *testing.T) {
	t.Parallel()

	e, trackID := newDragEngine(t)
	seg := placeSegment(t, e, trackID, StepEffect, nil, 0, 30)

	d := e.Drag()
	if !d.PointerDown(150, 10) {
		t.Fatal("press should hit the segment")
	}
	d.PointerMove(800, 10)
	d.Cancel()

	if _, live := d.Context(); live {
		t.Fatal("cancel should clear the drag context")
	}
	current, _ := e.Store().Segment(seg.ID)
	if current.StartFrame != 0 || current.EndFrame != 30 {
		t.Fatalf("cancelled drag must leave the segment untouched, got [%d,%d)", current.StartFrame, current.EndFrame)
	}
	if got := e.Telemetry().DragsCancelled; got != 1 {
		t.Fatalf("expected 1 cancelled drag, got %d", got)
	}
}

func TestStoreUntouchedDuringDrag(t *testing.T) {
	t.Parallel()

	e, trackID := newDragEngine(t)
	seg := placeSegment(t, e, trackID, StepEffect, nil, 0, 30)
	e.DrainPatches()

	d := e.Drag()
	if !d.PointerDown(150, 10) {
		t.Fatal("press should hit the segment")
	}
	d.PointerMove(500, 10)
	d.PointerMove(600, 10)

	if patches := e.DrainPatches(); len(patches) != 0 {
		t.Fatalf("pointer motion must not mutate the store, got %d patches", len(patches))
	}
	current, _ := e.Store().Segment(seg.ID)
	if current.StartFrame != 0 || current.EndFrame != 30 {
		t.Fatalf("segment changed mid-drag: [%d,%d)", current.StartFrame, current.EndFrame)
	}
	if !d.PointerUp() {
		t.Fatal("expected the commit to succeed")
	}
	if patches := e.DrainPatches(); len(patches) != 1 {
		t.Fatalf("expected exactly the commit patch, got %d", len(patches))
	}
}
