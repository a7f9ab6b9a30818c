package structs

import (
	"fmt"
	"strings"
)

// Cell 描述网格上的一个格子坐标，从0开始。
type Cell struct {
	Col int `json:"col"` // 列
	Row int `json:"row"` // 行
}

// Add 返回沿方向移动一格后的格子
func (c Cell) Add(d Direction) Cell {
	dx, dy := d.Delta()
	return Cell{Col: c.Col + dx, Row: c.Row + dy}
}

// Position 描述像素坐标，例如手部位置或蛇头中心。
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect 描述一个格子的像素矩形。
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Direction 是蛇的移动方向，零值表示没有方向意图。
type Direction uint8

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Delta returns the unit (dx, dy) for one step; y grows downward.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	}
	return DirNone
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "none"
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "up":
		*d = DirUp
	case "down":
		*d = DirDown
	case "left":
		*d = DirLeft
	case "right":
		*d = DirRight
	case "none", "":
		*d = DirNone
	default:
		return fmt.Errorf("invalid direction '%s'", string(b))
	}
	return nil
}

// GameState 游戏状态，同一时刻只有一个值生效。
type GameState uint8

const (
	StateMenu GameState = iota
	StatePlaying
	StatePaused
	StateGameOver
)

func (s GameState) String() string {
	switch s {
	case StateMenu:
		return "MENU"
	case StatePlaying:
		return "PLAYING"
	case StatePaused:
		return "PAUSED"
	case StateGameOver:
		return "GAME_OVER"
	}
	return "UNKNOWN"
}

func (s GameState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *GameState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "MENU":
		*s = StateMenu
	case "PLAYING":
		*s = StatePlaying
	case "PAUSED":
		*s = StatePaused
	case "GAME_OVER":
		*s = StateGameOver
	default:
		return fmt.Errorf("invalid game state '%s'", string(b))
	}
	return nil
}

// Sample 是视觉模块每帧提供的一次观测。
type Sample struct {
	Hand *Position `json:"hand,omitempty"` // 未检测到手时为nil
	Fist bool      `json:"fist"`           // 是否握拳
}

// Command 是从键盘或HTTP进入游戏循环的指令。
type Command uint8

const (
	CmdStart Command = iota + 1
	CmdTogglePause
	CmdReset
	CmdPrimary // 空格键：菜单中开始，结束后重开
	CmdQuit
)

func (c Command) String() string {
	switch c {
	case CmdStart:
		return "start"
	case CmdTogglePause:
		return "toggle-pause"
	case CmdReset:
		return "reset"
	case CmdPrimary:
		return "primary"
	case CmdQuit:
		return "quit"
	}
	return "unknown"
}

// Snapshot 是每帧交给渲染器的完整只读状态。
type Snapshot struct {
	Tick            uint64    `json:"tick"`
	Cols            int       `json:"cols"`
	Rows            int       `json:"rows"`
	CellSize        int       `json:"cell_size"`
	Snake           []Cell    `json:"snake"`
	Food            Cell      `json:"food"`
	State           GameState `json:"state"`
	Score           int       `json:"score"`
	HighScore       int       `json:"high_score"`
	Length          int       `json:"length"`
	SpeedMultiplier float64   `json:"speed_multiplier"`
	Direction       Direction `json:"direction"`
	Hand            *Position `json:"hand,omitempty"` // 平滑后的手部位置
	Won             bool      `json:"won"`
}

// Clone 深拷贝，避免渲染线程看到被修改的切片
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Snake = append([]Cell(nil), s.Snake...)
	if s.Hand != nil {
		h := *s.Hand
		out.Hand = &h
	}
	return out
}

// SessionRecord 一局结束时的统计，写入数据库
type SessionRecord struct {
	ID      string `json:"id"`
	Score   int    `json:"score"`
	Length  int    `json:"length"`
	Ticks   uint64 `json:"ticks"`
	Won     bool   `json:"won"`
	Cause   string `json:"cause"`
	EndedAt int64  `json:"ended_at"` // 时间戳
}
