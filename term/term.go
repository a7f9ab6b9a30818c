// Package term is the terminal front-end: it draws each snapshot with tcell
// and turns key presses into game commands.
package term

import (
	"context"
	"fmt"
	"log"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/snake-gesture/structs"
)

const hudRows = 2

var (
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHead   = tcell.StyleDefault.Foreground(tcell.ColorLime)
	styleBody   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleFood   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDanger = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

type Screen struct {
	screen tcell.Screen
}

// New initialises screen; pass tcell.NewScreen() or a simulation screen.
func New(screen tcell.Screen) (*Screen, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	screen.Clear()
	return &Screen{screen: screen}, nil
}

// KeyCommand maps a key press to a command. Space starts from the menu and
// restarts after game over.
func KeyCommand(ev *tcell.EventKey) (structs.Command, bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return structs.CmdQuit, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			return structs.CmdPrimary, true
		case 'q', 'Q':
			return structs.CmdQuit, true
		case 'p', 'P':
			return structs.CmdTogglePause, true
		case 'r', 'R':
			return structs.CmdReset, true
		case 's', 'S':
			return structs.CmdStart, true
		}
	}
	return 0, false
}

// Listen forwards key commands to submit until the screen is closed or ctx
// ends. Run it on its own goroutine.
func (s *Screen) Listen(ctx context.Context, submit func(context.Context, structs.Command) error) {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			cmd, ok := KeyCommand(ev)
			if !ok {
				continue
			}
			if err := submit(ctx, cmd); err != nil {
				log.Printf("key %s dropped: %v", cmd, err)
				return
			}
		case *tcell.EventResize:
			s.screen.Sync()
		}
	}
}

// Present draws snap: a HUD line, the bordered board (two columns per cell)
// and the state banner.
func (s *Screen) Present(snap structs.Snapshot) {
	s.screen.Clear()

	hud := fmt.Sprintf("Score: %d  Best: %d  Length: %d  %s", snap.Score, snap.HighScore, snap.Length, snap.State)
	s.drawText(0, 0, styleText, hud)

	top := hudRows
	right := snap.Cols*2 + 1
	bottom := top + snap.Rows + 1
	for x := 0; x <= right; x++ {
		s.screen.SetContent(x, top, '-', nil, styleBorder)
		s.screen.SetContent(x, bottom, '-', nil, styleBorder)
	}
	for y := top + 1; y < bottom; y++ {
		s.screen.SetContent(0, y, '|', nil, styleBorder)
		s.screen.SetContent(right, y, '|', nil, styleBorder)
	}

	if snap.State != structs.StateMenu {
		s.drawCell(snap.Food, top, '*', styleFood)
		for i := len(snap.Snake) - 1; i >= 0; i-- {
			if i == 0 {
				s.drawCell(snap.Snake[i], top, '@', styleHead)
			} else {
				s.drawCell(snap.Snake[i], top, 'o', styleBody)
			}
		}
	}

	midY := top + snap.Rows/2
	switch snap.State {
	case structs.StateMenu:
		s.drawCentered(right, midY, styleText, "SNAKE GAME - press SPACE to start")
	case structs.StatePaused:
		s.drawCentered(right, midY, styleText, "PAUSED - make a fist to resume")
	case structs.StateGameOver:
		msg := "GAME OVER - press SPACE to restart"
		if snap.Won {
			msg = "YOU WIN - press SPACE to restart"
		}
		s.drawCentered(right, midY, styleDanger, msg)
	}
	s.screen.Show()
}

func (s *Screen) drawCell(c structs.Cell, top int, ch rune, style tcell.Style) {
	x := 1 + c.Col*2
	y := top + 1 + c.Row
	s.screen.SetContent(x, y, ch, nil, style)
	s.screen.SetContent(x+1, y, ' ', nil, style)
}

func (s *Screen) drawText(x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (s *Screen) drawCentered(width, y int, style tcell.Style, text string) {
	x := (width - len(text)) / 2
	if x < 0 {
		x = 0
	}
	s.drawText(x, y, style, text)
}

func (s *Screen) Close() {
	s.screen.Fini()
}
