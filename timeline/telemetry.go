package timeline

import "sync/atomic"

// Counters accumulates engine activity for debugging overlays. All fields
// are atomics so the host can snapshot them from any goroutine while the
// engine runs.
type Counters struct {
	framesAdvanced  atomic.Uint64
	loopWraps       atomic.Uint64
	seeks           atomic.Uint64
	callbacksFired  atomic.Uint64
	snapsApplied    atomic.Uint64
	dragsCommitted  atomic.Uint64
	dragsRejected   atomic.Uint64
	dragsCancelled  atomic.Uint64
	storeRejections atomic.Uint64
}

// TelemetrySnapshot is the JSON-friendly view of the counters.
type TelemetrySnapshot struct {
	FramesAdvanced  uint64 `json:"framesAdvanced"`
	LoopWraps       uint64 `json:"loopWraps"`
	Seeks           uint64 `json:"seeks"`
	CallbacksFired  uint64 `json:"callbacksFired"`
	SnapsApplied    uint64 `json:"snapsApplied"`
	DragsCommitted  uint64 `json:"dragsCommitted"`
	DragsRejected   uint64 `json:"dragsRejected"`
	DragsCancelled  uint64 `json:"dragsCancelled"`
	StoreRejections uint64 `json:"storeRejections"`
}

func NewCounters() *Counters {
	return &Counters{}
}

func (c *Counters) RecordFrameAdvance() {
	if c == nil {
		return
	}
	c.framesAdvanced.Add(1)
}

func (c *Counters) RecordLoopWrap() {
	if c == nil {
		return
	}
	c.loopWraps.Add(1)
}

func (c *Counters) RecordSeek() {
	if c == nil {
		return
	}
	c.seeks.Add(1)
}

func (c *Counters) RecordCallback() {
	if c == nil {
		return
	}
	c.callbacksFired.Add(1)
}

func (c *Counters) RecordSnap() {
	if c == nil {
		return
	}
	c.snapsApplied.Add(1)
}

func (c *Counters) RecordDrag(committed bool) {
	if c == nil {
		return
	}
	if committed {
		c.dragsCommitted.Add(1)
		return
	}
	c.dragsRejected.Add(1)
}

func (c *Counters) RecordDragCancel() {
	if c == nil {
		return
	}
	c.dragsCancelled.Add(1)
}

func (c *Counters) RecordStoreRejection() {
	if c == nil {
		return
	}
	c.storeRejections.Add(1)
}

// Snapshot copies the current counter values.
func (c *Counters) Snapshot() TelemetrySnapshot {
	if c == nil {
		return TelemetrySnapshot{}
	}
	return TelemetrySnapshot{
		FramesAdvanced:  c.framesAdvanced.Load(),
		LoopWraps:       c.loopWraps.Load(),
		Seeks:           c.seeks.Load(),
		CallbacksFired:  c.callbacksFired.Load(),
		SnapsApplied:    c.snapsApplied.Load(),
		DragsCommitted:  c.dragsCommitted.Load(),
		DragsRejected:   c.dragsRejected.Load(),
		DragsCancelled:  c.dragsCancelled.Load(),
		StoreRejections: c.storeRejections.Load(),
	}
}
