package timeline

// Segment places a step on a track over the half-open frame range
// [StartFrame, EndFrame). Invariants, enforced by the store on every
// committed mutation:
//
//   - EndFrame > StartFrame (minimum duration one frame)
//   - segments sharing a track never overlap
type Segment struct {
	ID         string `json:"id"`
	StepID     string `json:"stepId"`
	TrackID    string `json:"trackId"`
	StartFrame int    `json:"startFrame"`
	EndFrame   int    `json:"endFrame"`
}

// DurationFrames returns the segment length in frames.
func (s Segment) DurationFrames() int {
	return s.EndFrame - s.StartFrame
}

// Contains reports whether a frame falls inside the segment. The range is
// half-open: a segment is inactive exactly at its EndFrame.
func (s Segment) Contains(frame int) bool {
	return frame >= s.StartFrame && frame < s.EndFrame
}

// Overlaps reports whether the segment intersects the half-open range
// [start, end).
func (s Segment) Overlaps(start, end int) bool {
	return s.StartFrame < end && start < s.EndFrame
}

// Progress returns the segment-local normalized position of a frame,
// clamped to [0, 1]. Degenerate ranges yield 0.
func (s Segment) Progress(frame int) float64 {
	duration := s.EndFrame - s.StartFrame
	if duration <= 0 {
		return 0
	}
	progress := float64(frame-s.StartFrame) / float64(duration)
	return clampFloat(progress, 0, 1)
}
