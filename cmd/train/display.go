package main

import (
	"fmt"
	"math"
	"os"
	"os/exec"
	"runtime"

	"craftevo/internal/env"
)

// Display handles terminal rendering of craft snapshots
type Display struct {
	width  int
	height int
	scale  float64 // rows per world unit; columns use twice this
}

// NewDisplay creates a new display
func NewDisplay(width, height int, scale float64) *Display {
	return &Display{width: width, height: height, scale: scale}
}

// toCell maps a world position to a grid cell. ok is false off screen.
func (d *Display) toCell(p env.Vec) (x, y int, ok bool) {
	x = int(math.Round(p.X*d.scale*2)) + d.width/2
	y = int(math.Round(p.Y*d.scale)) + d.height/2
	return x, y, x >= 0 && x < d.width && y >= 0 && y < d.height
}

// Grid rasterizes the target and every live craft
func (d *Display) Grid(target env.Vec, crafts []env.Snapshot) [][]rune {
	grid := make([][]rune, d.height)
	for y := range grid {
		grid[y] = make([]rune, d.width)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}
	plot := func(p env.Vec, c rune) {
		if x, y, ok := d.toCell(p); ok {
			grid[y][x] = c
		}
	}

	for _, s := range crafts {
		if s.Dead {
			continue
		}
		body := orientationOf(s)
		flame(plot, s.A, s.AngleA-body, s.ThrottleA)
		flame(plot, s.B, s.AngleB-body, s.ThrottleB)

		// Rod
		for i := 1; i < 8; i++ {
			f := float64(i) / 8
			plot(env.V(s.B.X+(s.A.X-s.B.X)*f, s.B.Y+(s.A.Y-s.B.Y)*f), '=')
		}
		plot(s.A, 'A')
		plot(s.B, 'B')
	}

	plot(target, '+')
	return grid
}

func orientationOf(s env.Snapshot) float64 {
	c := env.Craft{A: s.A, B: s.B}
	return c.Orientation()
}

// flame draws exhaust behind a thruster, longer at higher throttle
func flame(plot func(env.Vec, rune), at env.Vec, angle, throttle float64) {
	back := env.V(-math.Sin(angle), math.Cos(angle))
	n := int(math.Round(throttle * 3))
	for i := 1; i <= n; i++ {
		f := 0.15 * float64(i)
		plot(env.V(at.X+back.X*f, at.Y+back.Y*f), '*')
	}
}

// Render draws one frame to the terminal
func (d *Display) Render(frame int, target env.Vec, crafts []env.Snapshot, status string) {
	clearScreen()
	grid := d.Grid(target, crafts)

	fmt.Print("┌")
	for x := 0; x < d.width; x++ {
		fmt.Print("─")
	}
	fmt.Println("┐")

	for y := 0; y < d.height; y++ {
		fmt.Print("│")
		fmt.Print(string(grid[y]))
		fmt.Println("│")
	}

	fmt.Print("└")
	for x := 0; x < d.width; x++ {
		fmt.Print("─")
	}
	fmt.Println("┘")

	fmt.Printf("  Frame: %5d | Alive: %d/%d | Target: (%.2f, %.2f) | %s\n",
		frame, countAlive(crafts), len(crafts), target.X, target.Y, status)
}

func countAlive(crafts []env.Snapshot) int {
	alive := 0
	for _, s := range crafts {
		if !s.Dead {
			alive++
		}
	}
	return alive
}

func clearScreen() {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/c", "cls")
	} else {
		cmd = exec.Command("clear")
	}
	cmd.Stdout = os.Stdout
	cmd.Run()
}
