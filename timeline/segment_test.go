package timeline

import "testing"

func TestSegmentProgressBoundaries(t *testing.T) {
	t.Parallel()

	seg := Segment{StartFrame: 10, EndFrame: 20}
	cases := []struct {
		frame int
		want  float64
	}{
		{10, 0},
		{15, 0.5},
		{19, 0.9},
		{20, 1},
		{5, 0},
		{50, 1},
	}
	for _, tc := range cases {
		if got := seg.Progress(tc.frame); got != tc.want {
			t.Fatalf("progress at frame %d: got %f, want %f", tc.frame, got, tc.want)
		}
	}
	if seg.Contains(20) {
		t.Fatal("a segment is inactive exactly at its end frame")
	}
	if !seg.Contains(10) {
		t.Fatal("a segment is active at its start frame")
	}
}

func TestSegmentOverlaps(t *testing.T) {
	t.Parallel()

	seg := Segment{StartFrame: 10, EndFrame: 20}
	cases := []struct {
		start, end int
		want       bool
	}{
		{0, 10, false},
		{20, 30, false},
		{0, 11, true},
		{19, 30, true},
		{12, 18, true},
		{0, 40, true},
	}
	for _, tc := range cases {
		if got := seg.Overlaps(tc.start, tc.end); got != tc.want {
			t.Fatalf("[10,20) vs [%d,%d): got %v, want %v", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestPlaceAndResizeScenario(t *testing.T) {
	t.Parallel()

	store := NewStore(DefaultConfig())
	track := store.Tracks()[0]
	step, ok := store.AddStep(Step{Type: StepMove})
	if !ok {
		t.Fatal("failed adding move step")
	}

	seg, ok := store.AddSegment(step.ID, track.ID, 0)
	if !ok {
		t.Fatal("failed placing the move step")
	}
	if seg.StartFrame != 0 || seg.EndFrame != 50 {
		t.Fatalf("expected the default move duration [0,50), got [%d,%d)", seg.StartFrame, seg.EndFrame)
	}

	if !store.UpdateSegment(seg.ID, 0, 80) {
		t.Fatal("resize with no sibling should succeed")
	}
	resized, _ := store.Segment(seg.ID)
	if resized.EndFrame != 80 {
		t.Fatalf("expected end frame 80, got %d", resized.EndFrame)
	}
}
