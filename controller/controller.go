// Package controller runs the per-frame loop: hand sample in, one snake step,
// one snapshot out.
package controller

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hoshinonyaruko/snake-gesture/config"
	"github.com/hoshinonyaruko/snake-gesture/gesture"
	"github.com/hoshinonyaruko/snake-gesture/grid"
	"github.com/hoshinonyaruko/snake-gesture/snake"
	"github.com/hoshinonyaruko/snake-gesture/structs"
)

// Vision yields the tracker output for one frame. An error is fatal.
type Vision interface {
	Poll() (structs.Sample, error)
}

// Presenter receives every snapshot, on the loop goroutine.
type Presenter interface {
	Present(snap structs.Snapshot)
}

// SessionRecorder stores finished games.
type SessionRecorder interface {
	RecordSession(rec structs.SessionRecord) error
}

type Controller struct {
	cfg        *config.AppConfig
	sim        *snake.Simulation
	grid       grid.Grid
	vision     Vision
	presenters []Presenter
	recorder   SessionRecorder

	smoother   *gesture.Smoother
	translator gesture.Translator
	debouncer  *gesture.Debouncer

	commands     chan structs.Command
	tick         uint64
	sessionTicks uint64
	missed       int               // 连续未检测到手的帧数
	hand         *structs.Position // 最近一次平滑结果

	mu     sync.RWMutex
	latest structs.Snapshot
}

func New(cfg *config.AppConfig, sim *snake.Simulation, vision Vision, presenters ...Presenter) *Controller {
	c := &Controller{
		cfg:        cfg,
		sim:        sim,
		grid:       sim.Grid(),
		vision:     vision,
		presenters: presenters,
		smoother:   gesture.NewSmoother(cfg.SmoothingWindow),
		translator: gesture.NewTranslator(cfg.DirectionThreshold),
		debouncer:  gesture.NewDebouncer(cfg.PauseCooldown),
		commands:   make(chan structs.Command, 16),
	}
	c.latest = c.snapshot()
	return c
}

// SetRecorder 设置对局记录器，可以为nil
func (c *Controller) SetRecorder(r SessionRecorder) {
	c.recorder = r
}

// Tick runs one frame. The order is fixed: the direction intent lands before
// Step consumes it, and a pause toggle lands before Step so a just-paused game
// does not move.
func (c *Controller) Tick(sample structs.Sample) structs.Snapshot {
	c.tick++

	c.smoother.Push(sample.Hand)
	c.trackLostHand(sample.Hand != nil)

	est, ok := c.smoother.Estimate()
	if ok {
		c.hand = &est
	} else {
		c.hand = nil
	}

	if ok && c.sim.State() == structs.StatePlaying {
		head := c.grid.CellCenter(c.sim.Head())
		c.sim.SetDirectionIntent(c.translator.Intent(est, head))
	}

	if c.debouncer.Update(sample.Fist) {
		c.sim.TogglePause()
	}

	res := c.sim.Step()
	if res.Moved || res.Collision != snake.CollisionNone {
		c.sessionTicks++
	}
	if res.Collision != snake.CollisionNone {
		c.recordSession(res.Collision)
	}

	snap := c.snapshot()
	c.publish(snap)
	for _, p := range c.presenters {
		p.Present(snap)
	}
	return snap
}

// trackLostHand 手长时间丢失时清空平滑窗口
func (c *Controller) trackLostHand(detected bool) {
	if detected {
		c.missed = 0
		return
	}
	c.missed++
	if c.cfg.LostHandResetTicks > 0 && c.missed == c.cfg.LostHandResetTicks {
		c.smoother.Reset()
	}
}

func (c *Controller) recordSession(cause snake.Collision) {
	if c.recorder == nil {
		return
	}
	rec := structs.SessionRecord{
		Score:   c.sim.Score(),
		Length:  c.sim.Length(),
		Ticks:   c.sessionTicks,
		Won:     c.sim.Won(),
		Cause:   cause.String(),
		EndedAt: time.Now().Unix(),
	}
	if err := c.recorder.RecordSession(rec); err != nil {
		log.Printf("record session failed: %v", err)
	}
}

// Apply runs a command between frames and reports whether the loop should
// stop.
func (c *Controller) Apply(cmd structs.Command) bool {
	switch cmd {
	case structs.CmdStart:
		c.sim.Start()
	case structs.CmdTogglePause:
		c.sim.TogglePause()
	case structs.CmdReset:
		c.reset()
	case structs.CmdPrimary:
		switch c.sim.State() {
		case structs.StateMenu:
			c.sim.Start()
		case structs.StateGameOver:
			c.reset()
			c.sim.Start()
		}
	case structs.CmdQuit:
		return true
	default:
		log.Printf("ignoring unknown command %d", cmd)
	}
	c.publish(c.snapshot())
	return false
}

func (c *Controller) reset() {
	c.sim.Reset()
	c.sessionTicks = 0
}

// Submit hands a command to the loop from any goroutine.
func (c *Controller) Submit(ctx context.Context, cmd structs.Command) error {
	select {
	case c.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Interval is the wait between frames, shortened as the snake grows.
func (c *Controller) Interval() time.Duration {
	rate := float64(c.cfg.FPS) * c.sim.SpeedMultiplier()
	return time.Duration(float64(time.Second) / rate)
}

// Run drives the game until ctx is done or Quit arrives. A vision failure
// ends the loop with an error.
func (c *Controller) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-c.commands:
			if c.Apply(cmd) {
				return nil
			}
			continue
		case <-timer.C:
		}

		sample, err := c.vision.Poll()
		if err != nil {
			return fmt.Errorf("poll vision: %w", err)
		}
		c.Tick(sample)
		timer.Reset(c.Interval())
	}
}

func (c *Controller) snapshot() structs.Snapshot {
	cols, rows := c.grid.Dimensions()
	snap := structs.Snapshot{
		Tick:            c.tick,
		Cols:            cols,
		Rows:            rows,
		CellSize:        c.grid.CellSize(),
		Snake:           c.sim.Snake(),
		Food:            c.sim.Food(),
		State:           c.sim.State(),
		Score:           c.sim.Score(),
		HighScore:       c.sim.HighScore(),
		Length:          c.sim.Length(),
		SpeedMultiplier: c.sim.SpeedMultiplier(),
		Direction:       c.sim.Direction(),
		Won:             c.sim.Won(),
	}
	if c.hand != nil {
		h := *c.hand
		snap.Hand = &h
	}
	return snap
}

func (c *Controller) publish(snap structs.Snapshot) {
	c.mu.Lock()
	c.latest = snap.Clone()
	c.mu.Unlock()
}

// Latest returns a copy of the most recent snapshot; safe from any goroutine.
func (c *Controller) Latest() structs.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest.Clone()
}

// Cooldown 当前暂停手势的冷却帧数
func (c *Controller) Cooldown() int {
	return c.debouncer.Cooldown()
}

func (c *Controller) SmoothedLen() int {
	return c.smoother.Len()
}
