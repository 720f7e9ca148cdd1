package timeline

import "strconv"

// ExecutionContext supplies the concrete coordinates symbolic step params
// resolve against at trigger time. The host updates it as the battle scene
// changes; a zero context resolves everything to the origin.
type ExecutionContext struct {
	AttackerX   float64
	AttackerY   float64
	TargetX     float64
	TargetY     float64
	CenterX     float64
	CenterY     float64
	TargetIndex int
}

type axis int

const (
	axisX axis = iota
	axisY
)

// ResolvePosition turns a positional param into a coordinate. Literal numbers
// and numeric strings pass through; the symbolic forms "attacker.x",
// "attacker.y", "target.x", "target.y", "center", "center.x", and "center.y"
// read from the context. Anything unrecognized falls back to the attacker
// position on the requested axis, so a malformed step still lands somewhere
// sensible instead of at the origin.
func (c ExecutionContext) ResolvePosition(value any, a axis) float64 {
	if number, ok := toNumber(value); ok {
		return number
	}
	name, _ := value.(string)
	switch name {
	case "attacker.x":
		return c.AttackerX
	case "attacker.y":
		return c.AttackerY
	case "target.x":
		return c.TargetX
	case "target.y":
		return c.TargetY
	case "center":
		if a == axisY {
			return c.CenterY
		}
		return c.CenterX
	case "center.x":
		return c.CenterX
	case "center.y":
		return c.CenterY
	}
	if a == axisY {
		return c.AttackerY
	}
	return c.AttackerX
}

// ResolveNumber turns a scalar param into a float, falling back when the
// value is missing or not numeric.
func (c ExecutionContext) ResolveNumber(value any, fallback float64) float64 {
	if number, ok := toNumber(value); ok {
		return number
	}
	return fallback
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

func stringParam(params map[string]any, key string) string {
	if params == nil {
		return ""
	}
	value, _ := params[key].(string)
	return value
}
