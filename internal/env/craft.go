package env

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// Physics holds the constants of the craft simulation
type Physics struct {
	Gravity     float64 // downward acceleration per step
	Thrust      float64 // acceleration per step at full throttle
	RestLength  float64 // distance kept between the two endpoints
	DeathRadius float64 // distance from origin beyond which the craft dies
}

// DefaultPhysics returns the constants the training setup was tuned with
func DefaultPhysics() Physics {
	return Physics{
		Gravity:     0.002,
		Thrust:      0.005,
		RestLength:  1.0,
		DeathRadius: 10.0,
	}
}

// Craft is a rigid rod with a steerable thruster at each end
type Craft struct {
	// State
	A, B         Vec // endpoint positions
	PrevA, PrevB Vec // positions one step ago

	// Commands
	AngleA, AngleB       float64 // thruster angles relative to the body
	ThrottleA, ThrottleB float64 // 0..1

	Regret Regret
	Dead   bool
}

// NewCraft returns a craft at rest at the origin
func NewCraft() Craft {
	var c Craft
	c.Reset(0, nil)
	return c
}

// Reset puts the craft back at its starting pose. With jitter > 0 the whole
// body is shifted by up to jitter/2 on each axis.
func (c *Craft) Reset(jitter float64, rng *rand.Rand) {
	var dx, dy float64
	if jitter > 0 && rng != nil {
		dx = (rng.Float64() - 0.5) * jitter
		dy = (rng.Float64() - 0.5) * jitter
	}

	c.A = V(0.5+dx, dy)
	c.B = V(-0.5+dx, dy)
	c.PrevA = c.A
	c.PrevB = c.B
	c.AngleA, c.AngleB = 0, 0
	c.ThrottleA, c.ThrottleB = 0, 0
	c.Regret.Reset()
	c.Dead = false
}

// Score returns the accumulated regret
func (c *Craft) Score() float64 {
	return c.Regret.Score
}

// Midpoint returns the body's center
func (c *Craft) Midpoint() Vec {
	return Midpoint(c.A, c.B)
}

// PrevMidpoint returns the body's center one step ago
func (c *Craft) PrevMidpoint() Vec {
	return Midpoint(c.PrevA, c.PrevB)
}

// Orientation returns the body angle, zero when A is to the right of B
// with thrusters pointing up.
func (c *Craft) Orientation() float64 {
	return orientation(c.A, c.B)
}

// PrevOrientation returns the body angle one step ago
func (c *Craft) PrevOrientation() float64 {
	return orientation(c.PrevA, c.PrevB)
}

func orientation(a, b Vec) float64 {
	return Angle(Normalize(r2.Sub(a, b))) - math.Pi/2
}

// Simulate advances the craft one step with Verlet integration and a single
// rod constraint projection.
func (c *Craft) Simulate(p Physics) {
	if c.Dead {
		return
	}

	lastA, lastB := c.A, c.B
	body := c.Orientation()

	c.A = integrate(c.A, c.PrevA, c.AngleA-body, c.ThrottleA, p)
	c.B = integrate(c.B, c.PrevB, c.AngleB-body, c.ThrottleB, p)

	// Keep endpoints exactly RestLength apart
	dir := r2.Sub(c.B, c.A)
	if dist := r2.Norm(dir); dist > 0 {
		corr := r2.Scale((dist-p.RestLength)/dist*0.5, dir)
		c.A = r2.Add(c.A, corr)
		c.B = r2.Sub(c.B, corr)
	}

	c.PrevA, c.PrevB = lastA, lastB

	if r2.Norm(c.A) > p.DeathRadius || r2.Norm(c.B) > p.DeathRadius || r2.Norm(c.Midpoint()) > p.DeathRadius {
		c.Dead = true
	}
}

func integrate(pos, prev Vec, angle, throttle float64, p Physics) Vec {
	vel := r2.Sub(pos, prev)
	gravity := V(0, p.Gravity)
	thrust := r2.Scale(throttle*p.Thrust, V(math.Sin(angle), -math.Cos(angle)))
	return r2.Add(r2.Add(pos, vel), r2.Add(gravity, thrust))
}

// UpdateScore scores the current midpoint distance from the world origin
func (c *Craft) UpdateScore() {
	if c.Dead {
		return
	}
	c.Regret.Observe(r2.Norm(c.Midpoint()))
}

// Snapshot is a read-only copy of what a viewer needs to draw a craft
type Snapshot struct {
	A         Vec     `json:"a"`
	B         Vec     `json:"b"`
	AngleA    float64 `json:"angle_a"`
	AngleB    float64 `json:"angle_b"`
	ThrottleA float64 `json:"throttle_a"`
	ThrottleB float64 `json:"throttle_b"`
	Dead      bool    `json:"dead"`
}

// Snapshot returns the current drawable state
func (c *Craft) Snapshot() Snapshot {
	return Snapshot{
		A:         c.A,
		B:         c.B,
		AngleA:    c.AngleA,
		AngleB:    c.AngleB,
		ThrottleA: c.ThrottleA,
		ThrottleB: c.ThrottleB,
		Dead:      c.Dead,
	}
}
