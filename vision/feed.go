// Package vision holds what the external hand tracker reports: the latest
// hand sample and the latest camera frame.
package vision

import (
	"errors"
	"image"
	"sync"

	"github.com/hoshinonyaruko/snake-gesture/structs"
)

// ErrClosed is returned by Poll once the tracker has gone away.
var ErrClosed = errors.New("vision source closed")

// Feed is filled by the tracker (over HTTP) and drained once per game tick.
type Feed struct {
	mu     sync.Mutex
	sample structs.Sample
	fresh  bool
	frame  image.Image
	pushed uint64
	closed bool
}

func NewFeed() *Feed {
	return &Feed{}
}

// Push stores the newest sample; an unpolled older sample is replaced.
func (f *Feed) Push(s structs.Sample) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	if s.Hand != nil {
		h := *s.Hand
		s.Hand = &h
	}
	f.sample = s
	f.fresh = true
	f.pushed++
	return nil
}

// Poll returns the sample for this tick. With nothing new since the last
// poll the tick sees no hand and an open palm.
func (f *Feed) Poll() (structs.Sample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return structs.Sample{}, ErrClosed
	}
	if !f.fresh {
		return structs.Sample{}, nil
	}
	f.fresh = false
	return f.sample, nil
}

// SetFrame 保存最新的摄像头画面，仅用于合成显示
func (f *Feed) SetFrame(img image.Image) {
	f.mu.Lock()
	f.frame = img
	f.mu.Unlock()
}

func (f *Feed) Frame() (image.Image, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frame, f.frame != nil
}

// Pushed 累计收到的样本数
func (f *Feed) Pushed() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pushed
}

func (f *Feed) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}
