package env

import "math"

// TargetSource yields the goal position for a given step
type TargetSource interface {
	Target(step int) Vec
}

// DefaultRevolutions is how many laps the scripted path makes per rollout
const DefaultRevolutions = 10

// ScriptedPath circles the origin at radius Spread. Even generations run
// one way round, odd generations the other.
type ScriptedPath struct {
	Steps       int
	Spread      float64
	Generation  int
	Revolutions float64 // 0 means DefaultRevolutions
}

// Target returns the goal for step
func (p ScriptedPath) Target(step int) Vec {
	if p.Steps <= 0 {
		return Vec{}
	}
	revs := p.Revolutions
	if revs == 0 {
		revs = DefaultRevolutions
	}
	dir := 1.0
	if p.Generation%2 != 0 {
		dir = -1.0
	}
	t := dir * float64(step) / float64(p.Steps) * 2 * math.Pi * revs
	return V(math.Sin(t)*p.Spread, math.Cos(t)*p.Spread)
}

// Cursor is a target placed from outside, such as a pointer position
type Cursor struct {
	Pos Vec
}

// Set moves the cursor
func (c *Cursor) Set(pos Vec) {
	c.Pos = pos
}

// Target returns the cursor position regardless of step
func (c *Cursor) Target(int) Vec {
	return c.Pos
}
