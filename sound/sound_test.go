package sound

import (
	"testing"

	"github.com/hoshinonyaruko/snake-gesture/structs"
)

func TestDetect(t *testing.T) {
	playing := structs.Snapshot{State: structs.StatePlaying, Score: 10}
	tests := []struct {
		name      string
		prev, cur structs.Snapshot
		want      Cue
	}{
		{"no change", playing, playing, CueNone},
		{"ate", playing, structs.Snapshot{State: structs.StatePlaying, Score: 20}, CueEat},
		{"wall", playing, structs.Snapshot{State: structs.StateGameOver, Score: 10}, CueGameOver},
		{"filled grid", playing, structs.Snapshot{State: structs.StateGameOver, Score: 20, Won: true}, CueWin},
		{"still over", structs.Snapshot{State: structs.StateGameOver}, structs.Snapshot{State: structs.StateGameOver}, CueNone},
		{"reset", structs.Snapshot{State: structs.StateGameOver, Score: 50}, structs.Snapshot{State: structs.StateMenu}, CueNone},
		{"paused", playing, structs.Snapshot{State: structs.StatePaused, Score: 10}, CueNone},
	}
	for _, tc := range tests {
		if got := Detect(tc.prev, tc.cur); got != tc.want {
			t.Errorf("%s: Detect() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestPlayerEmitsOnTransitions(t *testing.T) {
	p := New()
	var cues []Cue
	p.emit = func(c Cue) { cues = append(cues, c) }

	frames := []structs.Snapshot{
		{State: structs.StatePlaying, Score: 0},
		{State: structs.StatePlaying, Score: 10},
		{State: structs.StatePlaying, Score: 10},
		{State: structs.StateGameOver, Score: 10},
		{State: structs.StateGameOver, Score: 10},
	}
	for _, f := range frames {
		p.Present(f)
	}
	want := []Cue{CueEat, CueGameOver}
	if len(cues) != len(want) {
		t.Fatalf("cues = %v, want %v", cues, want)
	}
	for i := range want {
		if cues[i] != want[i] {
			t.Errorf("cue %d = %v, want %v", i, cues[i], want[i])
		}
	}
}

func TestPlayWithoutSpeakerIsSilent(t *testing.T) {
	p := New()
	// 未初始化声卡时直接返回
	p.play(CueEat)
	p.Close()
}
