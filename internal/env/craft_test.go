package env

import (
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestResetPose(t *testing.T) {
	c := NewCraft()
	assert.Equal(t, V(0.5, 0), c.A)
	assert.Equal(t, V(-0.5, 0), c.B)
	assert.Equal(t, c.A, c.PrevA)
	assert.Equal(t, c.B, c.PrevB)
	assert.False(t, c.Dead)
	assert.False(t, c.Regret.HasBest)
	assert.InDelta(t, 0, c.Orientation(), 1e-12)
}

func TestResetJitterBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	var c Craft
	for i := 0; i < 200; i++ {
		c.Reset(2, rng)
		mid := c.Midpoint()
		assert.LessOrEqual(t, math.Abs(mid.X), 1.0)
		assert.LessOrEqual(t, math.Abs(mid.Y), 1.0)
		assert.InDelta(t, 1.0, r2.Norm(r2.Sub(c.A, c.B)), 1e-12)
	}
}

func TestSimulateKeepsRestLength(t *testing.T) {
	p := DefaultPhysics()
	tests := []struct {
		name string
		a, b Vec
	}{
		{name: "stretched", a: V(2, 0), b: V(-2, 0)},
		{name: "compressed", a: V(0.1, 0.1), b: V(-0.05, 0)},
		{name: "diagonal", a: V(1, 1), b: V(-0.3, 0.2)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCraft()
			c.A, c.PrevA = tc.a, tc.a
			c.B, c.PrevB = tc.b, tc.b
			c.ThrottleA, c.ThrottleB = 1, 0.3
			c.AngleA, c.AngleB = 0.4, -0.7

			c.Simulate(p)
			assert.InDelta(t, p.RestLength, r2.Norm(r2.Sub(c.A, c.B)), 1e-5)
			assert.Equal(t, tc.a, c.PrevA)
			assert.Equal(t, tc.b, c.PrevB)
		})
	}
}

func TestSimulateFallsUnderGravity(t *testing.T) {
	c := NewCraft()
	c.Simulate(DefaultPhysics())
	assert.InDelta(t, 0.002, c.Midpoint().Y, 1e-12)
	c.Simulate(DefaultPhysics())
	// Verlet: second step carries the first step's velocity
	assert.InDelta(t, 0.006, c.Midpoint().Y, 1e-12)
}

func TestSimulateFullThrottleLifts(t *testing.T) {
	c := NewCraft()
	c.ThrottleA, c.ThrottleB = 1, 1
	c.Simulate(DefaultPhysics())
	// thrust 0.005 up beats gravity 0.002 down
	assert.InDelta(t, -0.003, c.Midpoint().Y, 1e-12)
}

func TestSimulateDegenerateRod(t *testing.T) {
	c := NewCraft()
	c.A, c.B = V(0, 0), V(0, 0)
	c.PrevA, c.PrevB = c.A, c.B
	c.Simulate(Physics{RestLength: 1, DeathRadius: 10})
	assert.False(t, math.IsNaN(c.A.X) || math.IsNaN(c.B.Y))
}

func TestDeathFreeze(t *testing.T) {
	c := NewCraft()
	c.A, c.PrevA = V(10.4, 0), V(10.4, 0)
	c.B, c.PrevB = V(9.4, 0), V(9.4, 0)
	p := DefaultPhysics()

	c.Simulate(p)
	require.True(t, c.Dead)
	c.UpdateScore()
	frozen := c

	for i := 0; i < 5; i++ {
		c.Simulate(p)
		c.UpdateScore()
	}
	assert.Equal(t, frozen, c)
}

func TestRegretSequence(t *testing.T) {
	var r Regret
	want := []float64{0, -2, -1, -3}
	for i, d := range []float64{5, 3, 4, 2} {
		r.Observe(d)
		assert.InDelta(t, want[i], r.Score, 1e-12, "after distance %v", d)
	}
	assert.Equal(t, 2.0, r.Best)
}

func TestRegretDriftingAwayOnlyGrows(t *testing.T) {
	var r Regret
	r.Observe(1)
	prev := r.Score
	for _, d := range []float64{1.5, 2, 3, 2.5} {
		r.Observe(d)
		assert.GreaterOrEqual(t, r.Score, prev)
		prev = r.Score
	}
	assert.InDelta(t, 0.5+1+2+1.5, r.Score, 1e-12)
}

func TestUpdateScoreUsesOriginDistance(t *testing.T) {
	c := NewCraft()
	c.A, c.B = V(3.5, 4), V(2.5, 4)
	c.UpdateScore()
	assert.InDelta(t, 5, c.Regret.Best, 1e-12)
	assert.Zero(t, c.Score())
}

func TestObserveLayout(t *testing.T) {
	c := NewCraft()
	c.PrevA, c.PrevB = V(0.4, -0.1), V(-0.6, -0.1)
	obs := c.Observe(V(1, 2))

	require.Len(t, obs, ObsDim)
	assert.InDelta(t, 0, obs[0], 1e-12)
	assert.InDelta(t, 1, obs[1], 1e-12)
	assert.InDelta(t, 2, obs[2], 1e-12)
	assert.InDelta(t, 0, obs[3], 1e-12)
	assert.InDelta(t, 0.1, obs[4], 1e-12)
	assert.InDelta(t, 0.1, obs[5], 1e-12)
	assert.Equal(t, []float64{0, 0, 0, 0}, obs[6:])
}

func TestCommandMapping(t *testing.T) {
	c := NewCraft()
	c.Command([]float64{0.25, 1, 0, 0.75})
	assert.Equal(t, 0.25, c.ThrottleA)
	assert.Equal(t, 1.0, c.ThrottleB)
	assert.Equal(t, -1.0, c.AngleA)
	assert.Equal(t, 0.5, c.AngleB)
}

func TestScriptedPath(t *testing.T) {
	even := ScriptedPath{Steps: 400, Spread: 2, Generation: 4}
	odd := ScriptedPath{Steps: 400, Spread: 2, Generation: 5}

	assert.Equal(t, V(0, 2), even.Target(0))
	for _, step := range []int{1, 17, 250} {
		e, o := even.Target(step), odd.Target(step)
		assert.InDelta(t, 2, r2.Norm(e), 1e-12)
		assert.InDelta(t, -e.X, o.X, 1e-12)
		assert.InDelta(t, e.Y, o.Y, 1e-12)
	}
	// ten laps per rollout
	assert.InDelta(t, 0, even.Target(40).X, 1e-9)
	assert.InDelta(t, 2, even.Target(40).Y, 1e-9)
}

func TestCursor(t *testing.T) {
	var src TargetSource = &Cursor{}
	assert.Equal(t, V(0, 0), src.Target(3))
	src.(*Cursor).Set(V(1, -1))
	assert.Equal(t, V(1, -1), src.Target(99))
}

func TestTraceSaveLoad(t *testing.T) {
	path := ScriptedPath{Steps: 3, Spread: 1, Generation: 2}
	tr := NewTrace(path)
	c := NewCraft()
	for i := 0; i < path.Steps; i++ {
		c.Simulate(DefaultPhysics())
		tr.Record(path.Target(i), c.Snapshot())
	}

	file := filepath.Join(t.TempDir(), "traces", "trace.json")
	require.NoError(t, tr.Save(file))

	loaded, err := LoadTrace(file)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Generation)
	require.Len(t, loaded.Frames, 3)
	assert.InDelta(t, tr.Frames[2].A.Y, loaded.Frames[2].A.Y, 1e-12)
}

func TestAngleHeading(t *testing.T) {
	tests := []struct {
		v    Vec
		want float64
	}{
		{v: V(0, -1), want: 0},
		{v: V(1, 0), want: math.Pi / 2},
		{v: V(-1, 0), want: -math.Pi / 2},
		{v: V(0, 3), want: math.Pi},
	}
	for _, tc := range tests {
		assert.InDelta(t, tc.want, Angle(tc.v), 1e-12, "angle of %v", tc.v)
	}
	assert.Equal(t, Vec{}, Normalize(Vec{}))
	assert.InDelta(t, 1, r2.Norm(Normalize(V(3, 4))), 1e-12)
	assert.Equal(t, V(-1, 2), Negate(V(1, -2)))
}

func TestThrustHeadingOnRotatedBody(t *testing.T) {
	p := Physics{Thrust: 0.005, RestLength: 1, DeathRadius: 10}
	rotated := func(phi float64) Craft {
		var c Craft
		c.A = r2.Scale(0.5, V(math.Cos(phi), math.Sin(phi)))
		c.B = Negate(c.A)
		c.PrevA, c.PrevB = c.A, c.B
		c.ThrottleA, c.ThrottleB = 1, 1
		return c
	}

	for _, phi := range []float64{0, math.Pi / 6, math.Pi / 2, -math.Pi / 3} {
		c := rotated(phi)
		require.InDelta(t, phi, c.Orientation(), 1e-12)

		// Thruster angles are relative to the body and the body angle is
		// subtracted, so a clockwise body tilts thrust counterclockwise.
		c.Simulate(p)
		mid := c.Midpoint()
		assert.InDelta(t, -p.Thrust*math.Sin(phi), mid.X, 1e-12, "x at %v", phi)
		assert.InDelta(t, -p.Thrust*math.Cos(phi), mid.Y, 1e-12, "y at %v", phi)
		assert.InDelta(t, p.RestLength, r2.Norm(r2.Sub(c.A, c.B)), 1e-12)

		// Commanding the body angle itself cancels out and pushes straight up
		c = rotated(phi)
		c.AngleA, c.AngleB = phi, phi
		c.Simulate(p)
		mid = c.Midpoint()
		assert.InDelta(t, 0, mid.X, 1e-12, "x at %v", phi)
		assert.InDelta(t, -p.Thrust, mid.Y, 1e-12, "y at %v", phi)
	}
}
