// Package sequencer defines the typed sequencing events the timeline engine
// publishes: playback transitions, step triggers, and drag outcomes.
package sequencer

import (
	"context"

	"skill-studio/engine/logging"
)

const (
	// EventPlaybackStarted is emitted when the scheduler enters the playing state.
	EventPlaybackStarted logging.EventType = "sequencer.playback_started"
	// EventPlaybackStopped is emitted on pause, stop, or end-of-timeline.
	EventPlaybackStopped logging.EventType = "sequencer.playback_stopped"
	// EventPlaybackLooped is emitted when the playhead wraps to frame zero.
	EventPlaybackLooped logging.EventType = "sequencer.playback_looped"
	// EventStepTriggered is emitted once per segment activation when a step
	// callback fires.
	EventStepTriggered logging.EventType = "sequencer.step_triggered"
	// EventDragCommitted is emitted when a drag commits a new placement.
	EventDragCommitted logging.EventType = "sequencer.drag_committed"
	// EventDragRejected is emitted when a drag commit is refused and the
	// segment reverts to its pre-drag range.
	EventDragRejected logging.EventType = "sequencer.drag_rejected"
)

// PlaybackPayload captures the scheduler state around a transition.
type PlaybackPayload struct {
	State string  `json:"state"`
	Frame int     `json:"frame"`
	Rate  float64 `json:"rate,omitempty"`
	Loop  bool    `json:"loop,omitempty"`
}

// TriggerPayload captures a fired step callback.
type TriggerPayload struct {
	StepType string  `json:"stepType"`
	Progress float64 `json:"progress"`
}

// DragPayload captures the outcome of a pointer drag.
type DragPayload struct {
	Mode       string `json:"mode"`
	TrackID    string `json:"trackId"`
	StartFrame int    `json:"startFrame"`
	EndFrame   int    `json:"endFrame"`
}

// PlaybackTransition publishes a scheduler state change.
func PlaybackTransition(ctx context.Context, pub logging.Publisher, eventType logging.EventType, payload PlaybackPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Frame:    payload.Frame,
		Subject:  logging.EntityRef{Kind: logging.EntityKindPlayback},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryPlayback,
		Payload:  payload,
	})
}

// StepTriggered publishes a fired step callback.
func StepTriggered(ctx context.Context, pub logging.Publisher, frame int, segment, step logging.EntityRef, payload TriggerPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventStepTriggered,
		Frame:    frame,
		Subject:  segment,
		Related:  []logging.EntityRef{step},
		Severity: logging.SeverityDebug,
		Category: logging.CategorySequencing,
		Payload:  payload,
	})
}

// DragResolved publishes a drag commit or rejection.
func DragResolved(ctx context.Context, pub logging.Publisher, committed bool, frame int, segment logging.EntityRef, payload DragPayload) {
	if pub == nil {
		return
	}
	eventType := EventDragCommitted
	severity := logging.SeverityInfo
	if !committed {
		eventType = EventDragRejected
		severity = logging.SeverityWarn
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Frame:    frame,
		Subject:  segment,
		Severity: severity,
		Category: logging.CategoryEditing,
		Payload:  payload,
	})
}
