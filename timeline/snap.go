package timeline

import "math"

// SnapResult reports the outcome of a snap query. When Snapped is false,
// Time echoes the requested time unchanged.
type SnapResult struct {
	Snapped       bool
	Time          float64
	PixelPosition float64
}

// CalculateSnap aligns a candidate time against the reference points on a
// track: time zero, the playhead, and every sibling segment edge except the
// excluded segment (the one being dragged). The comparison happens in pixel
// space so the threshold scales correctly with zoom. When two candidates are
// exactly equidistant the first in slice order wins; the order is fixed
// (zero, playhead, edges by start frame), so the result is deterministic.
func (e *Engine) CalculateSnap(targetTime float64, trackID, excludeSegmentID string) SnapResult {
	if e == nil {
		return SnapResult{Time: targetTime}
	}
	conv := e.converter
	targetPx := conv.TimeToPx(targetTime)

	candidates := make([]float64, 0, 8)
	candidates = append(candidates, 0, conv.FrameToTime(e.playback.CurrentFrame()))
	for _, seg := range e.store.TrackSegments(trackID) {
		if seg.ID == excludeSegmentID {
			continue
		}
		candidates = append(candidates, conv.FrameToTime(seg.StartFrame), conv.FrameToTime(seg.EndFrame))
	}

	bestTime := 0.0
	bestDist := math.Inf(1)
	for _, candidate := range candidates {
		dist := math.Abs(conv.TimeToPx(candidate) - targetPx)
		if dist < bestDist {
			bestDist = dist
			bestTime = candidate
		}
	}

	if bestDist < e.cfg.SnapThresholdPx {
		e.telemetry.RecordSnap()
		return SnapResult{Snapped: true, Time: bestTime, PixelPosition: conv.TimeToPx(bestTime)}
	}
	return SnapResult{Snapped: false, Time: targetTime, PixelPosition: targetPx}
}
