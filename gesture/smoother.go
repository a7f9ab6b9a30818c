// Package gesture turns the tracked hand position and the fist flag into
// snake commands.
package gesture

import "github.com/hoshinonyaruko/snake-gesture/structs"

// Smoother is a moving average over the most recent hand positions.
type Smoother struct {
	history []structs.Position // 环形缓冲
	start   int
	count   int
}

// NewSmoother 窗口小于1时按1处理
func NewSmoother(window int) *Smoother {
	if window < 1 {
		window = 1
	}
	return &Smoother{history: make([]structs.Position, window)}
}

// Push appends pos, evicting the oldest entry when full. A nil pos (no hand
// this frame) leaves the history untouched.
func (s *Smoother) Push(pos *structs.Position) {
	if pos == nil {
		return
	}
	capacity := len(s.history)
	if s.count < capacity {
		s.history[(s.start+s.count)%capacity] = *pos
		s.count++
		return
	}
	s.history[s.start] = *pos
	s.start = (s.start + 1) % capacity
}

// Estimate returns the component-wise mean, truncated to whole pixels.
func (s *Smoother) Estimate() (structs.Position, bool) {
	if s.count == 0 {
		return structs.Position{}, false
	}
	var sumX, sumY int
	for i := 0; i < s.count; i++ {
		p := s.history[(s.start+i)%len(s.history)]
		sumX += p.X
		sumY += p.Y
	}
	return structs.Position{X: sumX / s.count, Y: sumY / s.count}, true
}

func (s *Smoother) Reset() {
	s.start = 0
	s.count = 0
}

func (s *Smoother) Len() int {
	return s.count
}
