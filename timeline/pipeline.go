package timeline

import (
	"context"

	"skill-studio/engine/logging"
	"skill-studio/engine/logging/sequencer"
)

// Callbacks is the table the pipeline invokes when a step activates. Nil
// entries are skipped, so hosts wire only the effects they render. OnWait is
// present for completeness but never invoked; a wait segment shapes timing
// purely by occupying frames.
type Callbacks struct {
	OnMove             func(target string, x, y float64, durationMs int, ease string)
	OnDamage           func(targetIndex int, value float64)
	OnEffect           func(effectID string, x, y float64)
	OnCameraMove       func(x, y, zoom float64, durationMs int)
	OnShake            func(intensity float64, durationMs int)
	OnBackgroundChange func(color, image string)
	OnWait             func(delayMs int)
}

// activation tracks one segment's lifetime while the playhead sits inside
// its range. The fired flag gives each activation at-most-once callback
// semantics; it resets only when the segment leaves and re-enters the active
// set, so scrubbing back and forth re-triggers while repeated seeks to the
// same frame do not.
type activation struct {
	fired bool
}

// Pipeline recomputes the active segment set on every committed frame and
// fires the per-type callbacks. Most step types trigger on the first active
// frame; damage waits for the midpoint of its segment so the hit lands when
// the strike animation connects.
type Pipeline struct {
	engine    *Engine
	callbacks Callbacks
	execCtx   ExecutionContext
	active    map[string]*activation
}

func newPipeline(e *Engine) *Pipeline {
	return &Pipeline{engine: e, active: make(map[string]*activation)}
}

// Advance recomputes the active set for the frame. Activations that survive
// the transition keep their fired flags; departed segments are dropped so a
// later re-entry starts a fresh activation.
func (p *Pipeline) Advance(frame int) {
	if p == nil {
		return
	}
	segments := p.engine.store.SegmentsAt(frame)
	next := make(map[string]*activation, len(segments))
	for _, seg := range segments {
		act, existed := p.active[seg.ID]
		if !existed {
			act = &activation{}
		}
		next[seg.ID] = act
		if act.fired {
			continue
		}
		step, ok := p.engine.store.Step(seg.StepID)
		if !ok {
			continue
		}
		if p.shouldFire(step.Type, seg, frame) {
			act.fired = true
			p.fire(step, seg, frame)
		}
	}
	p.active = next
}

// shouldFire decides whether an unfired activation triggers on this frame.
// Every type except damage fires as soon as the segment turns active; wait
// never fires.
func (p *Pipeline) shouldFire(stepType StepType, seg Segment, frame int) bool {
	switch stepType {
	case StepWait:
		return false
	case StepDamage:
		return seg.Progress(frame) >= 0.5
	default:
		return true
	}
}

func (p *Pipeline) fire(step Step, seg Segment, frame int) {
	execCtx := p.execCtx
	params := step.Params

	switch step.Type {
	case StepMove:
		if p.callbacks.OnMove != nil {
			x := execCtx.ResolvePosition(params["targetX"], axisX)
			y := execCtx.ResolvePosition(params["targetY"], axisY)
			duration := int(execCtx.ResolveNumber(params["duration"], 0))
			ease := stringParam(params, "ease")
			if ease == "" {
				ease = "linear"
			}
			p.callbacks.OnMove(stringParam(params, "target"), x, y, duration, ease)
		}
	case StepDamage:
		if p.callbacks.OnDamage != nil {
			value := execCtx.ResolveNumber(params["value"], 0)
			p.callbacks.OnDamage(execCtx.TargetIndex, value)
		}
	case StepEffect:
		if p.callbacks.OnEffect != nil {
			x := execCtx.ResolvePosition(params["x"], axisX)
			y := execCtx.ResolvePosition(params["y"], axisY)
			p.callbacks.OnEffect(stringParam(params, "effectId"), x, y)
		}
	case StepCamera:
		if p.callbacks.OnCameraMove != nil {
			x := execCtx.ResolvePosition(params["offsetX"], axisX)
			y := execCtx.ResolvePosition(params["offsetY"], axisY)
			zoom := execCtx.ResolveNumber(params["zoom"], 1)
			duration := int(execCtx.ResolveNumber(params["duration"], 0))
			p.callbacks.OnCameraMove(x, y, zoom, duration)
		}
	case StepShake:
		if p.callbacks.OnShake != nil {
			intensity := execCtx.ResolveNumber(params["intensity"], 0)
			duration := int(execCtx.ResolveNumber(params["duration"], 0))
			p.callbacks.OnShake(intensity, duration)
		}
	case StepBackground:
		if p.callbacks.OnBackgroundChange != nil {
			p.callbacks.OnBackgroundChange(stringParam(params, "color"), stringParam(params, "image"))
		}
	default:
		return
	}

	p.engine.telemetry.RecordCallback()
	sequencer.StepTriggered(context.Background(), p.engine.publisher, frame,
		logging.EntityRef{ID: seg.ID, Kind: logging.EntityKindSegment},
		logging.EntityRef{ID: step.ID, Kind: logging.EntityKindStep},
		sequencer.TriggerPayload{StepType: string(step.Type), Progress: seg.Progress(frame)},
	)
}
