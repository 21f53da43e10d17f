package env

import "gonum.org/v1/gonum/spatial/r2"

const (
	// ObsDim is the width of the observation vector
	ObsDim = 10
	// ActDim is the width of the network output consumed by Command
	ActDim = 4
)

// Observe builds the observation vector for steering toward target.
//
// Layout: orientation, target offset x/y from the midpoint, angular
// velocity, midpoint velocity x/y, then four feedback slots that are
// currently always zero.
func (c *Craft) Observe(target Vec) []float64 {
	mid := c.Midpoint()
	toTarget := r2.Sub(target, mid)
	vel := r2.Sub(mid, c.PrevMidpoint())
	angle := c.Orientation()

	obs := make([]float64, ObsDim)
	obs[0] = angle
	obs[1] = toTarget.X
	obs[2] = toTarget.Y
	obs[3] = angle - c.PrevOrientation()
	obs[4] = vel.X
	obs[5] = vel.Y
	return obs
}

// Command maps network outputs in [0, 1] onto throttles and thruster angles
func (c *Craft) Command(out []float64) {
	c.ThrottleA = out[0]
	c.ThrottleB = out[1]
	c.AngleA = (out[2] - 0.5) * 2
	c.AngleB = (out[3] - 0.5) * 2
}
