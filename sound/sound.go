// Package sound plays short tones when the snake eats or the game ends.
package sound

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/hoshinonyaruko/snake-gesture/structs"
)

const sampleRate = beep.SampleRate(44100)

type Cue uint8

const (
	CueNone Cue = iota
	CueEat
	CueGameOver
	CueWin
)

type tone struct {
	freq     int
	duration time.Duration
}

var tones = map[Cue]tone{
	CueEat:      {880, 50 * time.Millisecond},
	CueGameOver: {220, 300 * time.Millisecond},
	CueWin:      {1320, 200 * time.Millisecond},
}

// Detect picks the cue for the change from prev to cur.
func Detect(prev, cur structs.Snapshot) Cue {
	if cur.State == structs.StateGameOver && prev.State != structs.StateGameOver {
		if cur.Won {
			return CueWin
		}
		return CueGameOver
	}
	if cur.State == structs.StatePlaying && cur.Score > prev.Score {
		return CueEat
	}
	return CueNone
}

// Player is a Presenter. Without a working speaker it stays silent.
type Player struct {
	mu      sync.Mutex
	ready   bool
	prev    structs.Snapshot
	hasPrev bool
	emit    func(Cue)
}

func New() *Player {
	p := &Player{}
	p.emit = p.play
	return p
}

// Init opens the audio device.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	p.ready = true
	return nil
}

func (p *Player) Present(snap structs.Snapshot) {
	p.mu.Lock()
	cue := CueNone
	if p.hasPrev {
		cue = Detect(p.prev, snap)
	}
	p.prev = snap
	p.hasPrev = true
	p.mu.Unlock()

	if cue != CueNone {
		p.emit(cue)
	}
}

func (p *Player) play(cue Cue) {
	p.mu.Lock()
	ready := p.ready
	p.mu.Unlock()
	if !ready {
		return
	}
	t, ok := tones[cue]
	if !ok {
		return
	}
	sine, err := generators.SineTone(sampleRate, float64(t.freq))
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(t.duration), sine))
}

func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		speaker.Close()
		p.ready = false
	}
}
