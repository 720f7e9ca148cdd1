package timeline

// StepType enumerates the authored skill actions a segment can schedule.
type StepType string

const (
	StepMove       StepType = "move"
	StepDamage     StepType = "damage"
	StepEffect     StepType = "effect"
	StepWait       StepType = "wait"
	StepCamera     StepType = "camera"
	StepShake      StepType = "shake"
	StepBackground StepType = "background"
)

// Valid reports whether the type is one of the known step kinds.
func (t StepType) Valid() bool {
	switch t {
	case StepMove, StepDamage, StepEffect, StepWait, StepCamera, StepShake, StepBackground:
		return true
	}
	return false
}

// Step is an authored skill action. Params are type-specific:
//
//	move       targetX, targetY, duration, ease
//	damage     value
//	effect     effectId, x, y
//	wait       delay
//	camera     zoom, offsetX, offsetY, duration
//	shake      intensity, duration
//	background color, image
//
// Position and numeric params may be literal numbers, numeric strings, or
// symbolic references ("target.x", "attacker.y", "center") resolved against
// an ExecutionContext at trigger time. A step with no referencing segment is
// valid but inert.
type Step struct {
	ID     string         `json:"id"`
	Type   StepType       `json:"type"`
	Params map[string]any `json:"params,omitempty"`
}

func (s Step) clone() Step {
	cloned := s
	if s.Params != nil {
		params := make(map[string]any, len(s.Params))
		for key, value := range s.Params {
			params[key] = value
		}
		cloned.Params = params
	}
	return cloned
}
