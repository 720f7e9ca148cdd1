package timeline

// PatchKind identifies the type of diff entry the store journals for the
// rendering layer. The engine keeps plain state and explicit notifications;
// consumers drain the journal once per render pass instead of observing
// fields reactively.
type PatchKind string

const (
	// PatchTrackAdded signals a new track.
	PatchTrackAdded PatchKind = "track_added"
	// PatchTrackUpdated signals a name/locked/hidden change.
	PatchTrackUpdated PatchKind = "track_updated"
	// PatchTrackRemoved signals a track removal (its segments cascade).
	PatchTrackRemoved PatchKind = "track_removed"

	// PatchStepAdded signals a new authored step.
	PatchStepAdded PatchKind = "step_added"
	// PatchStepRemoved signals a step removal (its segments cascade).
	PatchStepRemoved PatchKind = "step_removed"

	// PatchSegmentAdded signals a step placed on a track.
	PatchSegmentAdded PatchKind = "segment_added"
	// PatchSegmentUpdated signals a committed move or resize.
	PatchSegmentUpdated PatchKind = "segment_updated"
	// PatchSegmentRemoved signals a segment removal.
	PatchSegmentRemoved PatchKind = "segment_removed"

	// PatchPlaybackFrame signals a committed playhead change.
	PatchPlaybackFrame PatchKind = "playback_frame"
	// PatchPlaybackState signals a play/pause/stop transition.
	PatchPlaybackState PatchKind = "playback_state"
)

// Patch represents a diff entry that can be applied to a mirrored view of
// the timeline state.
type Patch struct {
	Kind     PatchKind `json:"kind"`
	EntityID string    `json:"entityId,omitempty"`
	Payload  any       `json:"payload,omitempty"`
}

// TrackPayload carries the full track record for add/update patches.
type TrackPayload struct {
	Track Track `json:"track"`
}

// SegmentPayload carries the full segment record for add/update patches.
type SegmentPayload struct {
	Segment Segment `json:"segment"`
}

// StepPayload carries the full step record for add patches.
type StepPayload struct {
	Step Step `json:"step"`
}

// FramePayload carries the committed playhead frame.
type FramePayload struct {
	Frame int `json:"frame"`
}

// StatePayload carries the playback state after a transition.
type StatePayload struct {
	State PlaybackState `json:"state"`
	Frame int           `json:"frame"`
}

// journal accumulates patches between drains. It is not safe for concurrent
// use; the engine is single-threaded by design.
type journal struct {
	patches []Patch
}

func (j *journal) append(patch Patch) {
	if j == nil {
		return
	}
	j.patches = append(j.patches, patch)
}

// Drain returns the accumulated patches and resets the journal.
func (j *journal) Drain() []Patch {
	if j == nil || len(j.patches) == 0 {
		return nil
	}
	drained := j.patches
	j.patches = nil
	return drained
}

func (j *journal) len() int {
	if j == nil {
		return 0
	}
	return len(j.patches)
}
