package timeline

import (
	"context"
	"math"

	"skill-studio/engine/logging"
	"skill-studio/engine/logging/sequencer"
)

// DragMode identifies which part of a segment the pointer grabbed.
type DragMode string

const (
	DragMove        DragMode = "move"
	DragResizeStart DragMode = "resize-start"
	DragResizeEnd   DragMode = "resize-end"
)

// DragContext is the transient state of one pointer interaction. The store
// is never touched while a drag is live; the candidate range is the ghost
// the host renders, and only PointerUp commits it. Candidate times are in
// seconds so sub-frame pointer motion is preserved until commit.
type DragContext struct {
	Mode             DragMode
	SegmentID        string
	OriginTrackID    string
	OriginStartFrame int
	OriginEndFrame   int

	// GrabOffset is the distance in seconds from the segment start to the
	// point grabbed, so a mid-body grab does not teleport the start edge to
	// the pointer.
	GrabOffset float64

	CandidateTrackID string
	CandidateStart   float64
	CandidateEnd     float64
}

// DragController runs the pointer state machine: Idle until PointerDown hits
// a segment, then one live DragContext until PointerUp or Cancel. Candidate
// updates snap and clamp continuously; a move that would collide keeps the
// last valid candidate instead of jumping.
type DragController struct {
	engine *Engine
	active *DragContext
}

func newDragController(e *Engine) *DragController {
	return &DragController{engine: e}
}

// Context returns a copy of the live drag for ghost rendering.
func (d *DragController) Context() (DragContext, bool) {
	if d == nil || d.active == nil {
		return DragContext{}, false
	}
	return *d.active, true
}

// PointerDown starts a drag when the pointer lands on a segment. The row is
// resolved against visible tracks only; locked tracks swallow the press. A
// press within the edge hit width of either boundary starts a resize,
// anywhere else in the body starts a move.
func (d *DragController) PointerDown(x, y float64) bool {
	if d == nil || d.active != nil {
		return false
	}
	cfg := d.engine.cfg
	conv := d.engine.converter

	rowHeight := cfg.TrackRowHeightPx
	if rowHeight <= 0 {
		return false
	}
	tracks := d.engine.store.VisibleTracks()
	row := int(math.Floor(y / rowHeight))
	if row < 0 || row >= len(tracks) {
		return false
	}
	track := tracks[row]
	if track.Locked {
		return false
	}

	for _, seg := range d.engine.store.TrackSegments(track.ID) {
		startPx := conv.FrameToPx(seg.StartFrame)
		endPx := conv.FrameToPx(seg.EndFrame)
		if x < startPx-cfg.EdgeHitWidthPx || x > endPx+cfg.EdgeHitWidthPx {
			continue
		}
		mode := DragMove
		if math.Abs(x-startPx) <= cfg.EdgeHitWidthPx {
			mode = DragResizeStart
		} else if math.Abs(x-endPx) <= cfg.EdgeHitWidthPx {
			mode = DragResizeEnd
		}
		d.active = &DragContext{
			Mode:             mode,
			SegmentID:        seg.ID,
			OriginTrackID:    seg.TrackID,
			OriginStartFrame: seg.StartFrame,
			OriginEndFrame:   seg.EndFrame,
			GrabOffset:       conv.PxToTime(x) - conv.FrameToTime(seg.StartFrame),
			CandidateTrackID: seg.TrackID,
			CandidateStart:   conv.FrameToTime(seg.StartFrame),
			CandidateEnd:     conv.FrameToTime(seg.EndFrame),
		}
		return true
	}
	return false
}

// PointerMove updates the drag candidate. Invalid positions (collisions,
// locked destination rows) leave the candidate at its last valid value.
func (d *DragController) PointerMove(x, y float64) {
	if d == nil || d.active == nil {
		return
	}
	switch d.active.Mode {
	case DragMove:
		d.moveCandidate(x, y)
	case DragResizeStart:
		d.resizeStartCandidate(x)
	case DragResizeEnd:
		d.resizeEndCandidate(x)
	}
}

func (d *DragController) moveCandidate(x, y float64) {
	ctx := d.active
	cfg := d.engine.cfg
	conv := d.engine.converter

	destTrackID := ctx.CandidateTrackID
	if cfg.TrackRowHeightPx > 0 {
		tracks := d.engine.store.VisibleTracks()
		if len(tracks) > 0 {
			row := clampInt(int(math.Floor(y/cfg.TrackRowHeightPx)), 0, len(tracks)-1)
			if !tracks[row].Locked {
				destTrackID = tracks[row].ID
			}
		}
	}

	duration := ctx.CandidateEnd - ctx.CandidateStart
	start := conv.PxToTime(x) - ctx.GrabOffset

	// Snap against the destination track; the start edge has priority, the
	// end edge snaps only when the start did not.
	startSnap := d.engine.CalculateSnap(start, destTrackID, ctx.SegmentID)
	if startSnap.Snapped {
		start = startSnap.Time
	} else {
		endSnap := d.engine.CalculateSnap(start+duration, destTrackID, ctx.SegmentID)
		if endSnap.Snapped {
			start = endSnap.Time - duration
		}
	}

	if start < 0 {
		start = 0
	}
	maxEnd := conv.FrameToTime(cfg.MaxSegmentFrames())
	if maxEnd > 0 && start+duration > maxEnd {
		start = maxEnd - duration
		if start < 0 {
			start = 0
		}
	}

	startFrame := conv.TimeToFrame(start)
	endFrame := conv.TimeToFrame(start + duration)
	if endFrame-startFrame < cfg.MinDurationFrames {
		endFrame = startFrame + cfg.MinDurationFrames
	}
	if !d.engine.store.rangeFree(destTrackID, startFrame, endFrame, ctx.SegmentID) {
		return
	}
	ctx.CandidateTrackID = destTrackID
	ctx.CandidateStart = start
	ctx.CandidateEnd = start + duration
}

func (d *DragController) resizeStartCandidate(x float64) {
	ctx := d.active
	cfg := d.engine.cfg
	conv := d.engine.converter

	start := conv.PxToTime(x)
	snap := d.engine.CalculateSnap(start, ctx.CandidateTrackID, ctx.SegmentID)
	if snap.Snapped {
		start = snap.Time
	}

	end := ctx.CandidateEnd
	minDuration := conv.FrameToTime(cfg.MinDurationFrames)
	if start > end-minDuration {
		start = end - minDuration
	}
	if start < 0 {
		start = 0
	}
	prevEnd, _ := d.engine.store.neighborBounds(ctx.CandidateTrackID, ctx.SegmentID, ctx.OriginStartFrame, ctx.OriginEndFrame)
	if floor := conv.FrameToTime(prevEnd); start < floor {
		start = floor
	}
	ctx.CandidateStart = start
}

func (d *DragController) resizeEndCandidate(x float64) {
	ctx := d.active
	cfg := d.engine.cfg
	conv := d.engine.converter

	end := conv.PxToTime(x)
	snap := d.engine.CalculateSnap(end, ctx.CandidateTrackID, ctx.SegmentID)
	if snap.Snapped {
		end = snap.Time
	}

	start := ctx.CandidateStart
	minDuration := conv.FrameToTime(cfg.MinDurationFrames)
	if end < start+minDuration {
		end = start + minDuration
	}
	_, nextStart := d.engine.store.neighborBounds(ctx.CandidateTrackID, ctx.SegmentID, ctx.OriginStartFrame, ctx.OriginEndFrame)
	if ceiling := conv.FrameToTime(nextStart); ceiling > 0 && end > ceiling {
		end = ceiling
	}
	if max := conv.FrameToTime(cfg.MaxSegmentFrames()); max > 0 && end > max {
		end = max
	}
	ctx.CandidateEnd = end
}

// PointerUp commits the candidate through the store. A rejected commit is a
// pure revert: the store was never mutated during the drag, so nothing needs
// undoing. The return value reports whether the placement changed.
func (d *DragController) PointerUp() bool {
	if d == nil || d.active == nil {
		return false
	}
	ctx := d.active
	d.active = nil

	conv := d.engine.converter
	startFrame := conv.TimeToFrame(ctx.CandidateStart)
	endFrame := conv.TimeToFrame(ctx.CandidateEnd)
	if endFrame-startFrame < d.engine.cfg.MinDurationFrames {
		endFrame = startFrame + d.engine.cfg.MinDurationFrames
	}

	committed := d.engine.store.MoveSegment(ctx.SegmentID, ctx.CandidateTrackID, startFrame, endFrame)
	d.engine.telemetry.RecordDrag(committed)
	sequencer.DragResolved(context.Background(), d.engine.publisher, committed, d.engine.playback.CurrentFrame(),
		logging.EntityRef{ID: ctx.SegmentID, Kind: logging.EntityKindSegment},
		sequencer.DragPayload{
			Mode:       string(ctx.Mode),
			TrackID:    ctx.CandidateTrackID,
			StartFrame: startFrame,
			EndFrame:   endFrame,
		},
	)
	return committed
}

// Cancel discards the live drag without touching the store.
func (d *DragController) Cancel() {
	if d == nil || d.active == nil {
		return
	}
	d.active = nil
	d.engine.telemetry.RecordDragCancel()
}
