package logging

import (
	"context"
	"time"
)

type EventType string

type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// EntityKind identifies which timeline record an event refers to.
type EntityKind string

const (
	EntityKindUnknown  EntityKind = "unknown"
	EntityKindTrack    EntityKind = "track"
	EntityKindSegment  EntityKind = "segment"
	EntityKindStep     EntityKind = "step"
	EntityKindPlayback EntityKind = "playback"
	EntityKindEngine   EntityKind = "engine"
)

// EntityRef points at a timeline record without embedding it.
type EntityRef struct {
	ID   string     `json:"id"`
	Kind EntityKind `json:"kind"`
}

// Event is the unit every sink receives. Frame carries the playhead position
// at publish time so sequencing events can be correlated with playback.
type Event struct {
	Type     EventType      `json:"type"`
	Frame    int            `json:"frame"`
	Time     time.Time      `json:"time"`
	Subject  EntityRef      `json:"subject"`
	Related  []EntityRef    `json:"related,omitempty"`
	Severity Severity       `json:"severity"`
	Category string         `json:"category,omitempty"`
	Payload  any            `json:"payload,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

const (
	CategorySequencing = "sequencing"
	CategoryPlayback   = "playback"
	CategoryEditing    = "editing"
	CategorySystem     = "system"
)

// Publisher accepts events for asynchronous delivery.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	if f == nil {
		return
	}
	f(ctx, event)
}

// NopPublisher drops every event. It is the default wired into the engine
// so callers opt into logging explicitly.
func NopPublisher() Publisher {
	return PublisherFunc(func(context.Context, Event) {})
}

// Clock abstracts wall-clock access so the router and the playback
// scheduler can run against simulated time in tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

func cloneEvent(event Event) Event {
	cloned := event
	if len(event.Related) > 0 {
		cloned.Related = append([]EntityRef(nil), event.Related...)
	}
	if event.Extra != nil {
		extra := make(map[string]any, len(event.Extra))
		for key, value := range event.Extra {
			extra[key] = value
		}
		cloned.Extra = extra
	}
	return cloned
}
