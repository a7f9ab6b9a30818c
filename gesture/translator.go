package gesture

import "github.com/hoshinonyaruko/snake-gesture/structs"

// Translator derives a direction from where the hand sits relative to the
// snake head.
type Translator struct {
	threshold int
}

func NewTranslator(threshold int) Translator {
	return Translator{threshold: threshold}
}

// Intent returns DirNone while the hand is within threshold pixels of the
// head on both axes. Otherwise the dominant axis wins; ties go vertical.
func (t Translator) Intent(hand, head structs.Position) structs.Direction {
	dx := hand.X - head.X
	dy := hand.Y - head.Y

	if abs(dx) <= t.threshold && abs(dy) <= t.threshold {
		return structs.DirNone
	}
	if abs(dx) > abs(dy) {
		if dx > 0 {
			return structs.DirRight
		}
		return structs.DirLeft
	}
	if dy > 0 {
		return structs.DirDown
	}
	return structs.DirUp
}

// Debouncer keeps a held fist from toggling pause on every frame.
type Debouncer struct {
	window   int
	cooldown int
}

func NewDebouncer(window int) *Debouncer {
	return &Debouncer{window: window}
}

// Update is called once per frame and reports whether pause should toggle.
// A toggle arms the cooldown; the cooldown then drops by one per frame,
// including the frame that armed it, so a held fist fires every window
// frames.
func (d *Debouncer) Update(fist bool) bool {
	fired := false
	if fist && d.cooldown == 0 {
		fired = true
		d.cooldown = d.window
	}
	if d.cooldown > 0 {
		d.cooldown--
	}
	return fired
}

func (d *Debouncer) Cooldown() int {
	return d.cooldown
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
