package train

// Stage is the rollout setup for one generation
type Stage struct {
	Steps       int
	Spread      float64 // radius of the target path
	Jitter      float64 // start pose jitter applied on reset
	Revolutions float64
}

// Schedule maps a generation index to its stage
type Schedule func(gen int) Stage

// LinearSchedule grows the rollout by increment steps per generation and
// keeps spread and jitter fixed.
func LinearSchedule(base, increment int, spread, jitter, revolutions float64) Schedule {
	return func(gen int) Stage {
		return Stage{
			Steps:       base + gen*increment,
			Spread:      spread,
			Jitter:      jitter,
			Revolutions: revolutions,
		}
	}
}
