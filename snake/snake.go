// 单人贪食蛇的状态机：移动、碰撞、计分
package snake

import (
	"log"
	"math/rand"
	"time"

	"github.com/hoshinonyaruko/snake-gesture/config"
	"github.com/hoshinonyaruko/snake-gesture/grid"
	"github.com/hoshinonyaruko/snake-gesture/structs"
)

const (
	spawnLength     = 3
	speedPerSegment = 0.05
)

// HighScoreStore 最高分的持久化，失败不影响游戏
type HighScoreStore interface {
	LoadHighScore() (int, error)
	SaveHighScore(score int) error
}

// Collision 描述一步结束游戏的原因
type Collision uint8

const (
	CollisionNone Collision = iota
	CollisionWall
	CollisionSelf
	CollisionGridFull // 蛇占满了整个网格，算作胜利
)

func (c Collision) String() string {
	switch c {
	case CollisionWall:
		return "wall"
	case CollisionSelf:
		return "self"
	case CollisionGridFull:
		return "grid-full"
	}
	return "none"
}

// StepResult 是一次Step的结果
type StepResult struct {
	Moved     bool
	Ate       bool
	Collision Collision
}

// Simulation owns the snake, the food and the game state. It is not safe for
// concurrent use; one loop goroutine drives it.
type Simulation struct {
	grid       grid.Grid
	foodPoints int
	store      HighScoreStore
	rng        *rand.Rand

	body      []structs.Cell            // 头在0
	occupied  map[structs.Cell]struct{} // 与body同步
	direction structs.Direction
	pending   structs.Direction
	food      structs.Cell

	state     structs.GameState
	score     int
	highScore int
	speed     float64
	won       bool
}

// New builds a simulation and loads the high score once. store may be nil;
// rng nil seeds from cfg.Seed, or the clock when the seed is 0.
func New(cfg *config.AppConfig, store HighScoreStore, rng *rand.Rand) *Simulation {
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	s := &Simulation{
		grid:       grid.New(cfg.WindowWidth, cfg.WindowHeight, cfg.GridSize),
		foodPoints: cfg.FoodPoints,
		store:      store,
		rng:        rng,
	}
	if store != nil {
		hs, err := store.LoadHighScore()
		if err != nil {
			log.Printf("load high score failed, starting from 0: %v", err)
			hs = 0
		}
		s.highScore = hs
	}
	s.Reset()
	return s
}

// Reset 在网格中心放一条向右的3格蛇，回到菜单
func (s *Simulation) Reset() {
	cols, rows := s.grid.Dimensions()
	startX, startY := cols/2, rows/2

	s.body = make([]structs.Cell, 0, spawnLength)
	s.occupied = make(map[structs.Cell]struct{}, spawnLength)
	for i := 0; i < spawnLength; i++ {
		c := structs.Cell{Col: startX - i, Row: startY}
		s.body = append(s.body, c)
		s.occupied[c] = struct{}{}
	}

	s.direction = structs.DirRight
	s.pending = structs.DirRight
	s.score = 0
	s.speed = 1.0
	s.won = false
	s.state = structs.StateMenu
	if food, ok := s.spawnFood(); ok {
		s.food = food
	}
}

// Start MENU -> PLAYING
func (s *Simulation) Start() {
	if s.state == structs.StateMenu {
		s.state = structs.StatePlaying
	}
}

// TogglePause PLAYING <-> PAUSED
func (s *Simulation) TogglePause() {
	switch s.state {
	case structs.StatePlaying:
		s.state = structs.StatePaused
	case structs.StatePaused:
		s.state = structs.StatePlaying
	}
}

// SetDirectionIntent records the direction for the next Step. An exact
// reversal of the committed direction is dropped.
func (s *Simulation) SetDirectionIntent(d structs.Direction) {
	if d == structs.DirNone || d == s.direction.Opposite() {
		return
	}
	s.pending = d
}

// Step advances the snake by one cell. Outside PLAYING it does nothing.
func (s *Simulation) Step() StepResult {
	if s.state != structs.StatePlaying {
		return StepResult{}
	}

	if s.pending != s.direction.Opposite() {
		s.direction = s.pending
	}
	newHead := s.body[0].Add(s.direction)

	// 撞墙
	if !s.grid.Contains(newHead) {
		s.gameOver()
		return StepResult{Collision: CollisionWall}
	}
	// 咬到自己
	if _, hit := s.occupied[newHead]; hit {
		s.gameOver()
		return StepResult{Collision: CollisionSelf}
	}

	s.body = append(s.body, structs.Cell{})
	copy(s.body[1:], s.body)
	s.body[0] = newHead
	s.occupied[newHead] = struct{}{}

	if newHead != s.food {
		tail := s.body[len(s.body)-1]
		s.body = s.body[:len(s.body)-1]
		delete(s.occupied, tail)
		return StepResult{Moved: true}
	}

	s.score += s.foodPoints
	s.speed = 1.0 + float64(len(s.body))*speedPerSegment
	food, ok := s.spawnFood()
	if !ok {
		s.won = true
		s.gameOver()
		return StepResult{Moved: true, Ate: true, Collision: CollisionGridFull}
	}
	s.food = food
	return StepResult{Moved: true, Ate: true}
}

func (s *Simulation) gameOver() {
	s.state = structs.StateGameOver
	if s.score <= s.highScore {
		return
	}
	s.highScore = s.score
	if s.store == nil {
		return
	}
	if err := s.store.SaveHighScore(s.highScore); err != nil {
		log.Printf("save high score %d failed: %v", s.highScore, err)
	}
}

// spawnFood 随机选一个空格子。随机尝试有上限，之后在空格子中均匀选取；
// 没有空格子时返回false
func (s *Simulation) spawnFood() (structs.Cell, bool) {
	cols, rows := s.grid.Dimensions()
	total := cols * rows
	if len(s.occupied) >= total {
		return structs.Cell{}, false
	}

	for i := 0; i < total; i++ {
		c := structs.Cell{Col: s.rng.Intn(cols), Row: s.rng.Intn(rows)}
		if _, taken := s.occupied[c]; !taken {
			return c, true
		}
	}

	free := make([]structs.Cell, 0, total-len(s.occupied))
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			c := structs.Cell{Col: col, Row: row}
			if _, taken := s.occupied[c]; !taken {
				free = append(free, c)
			}
		}
	}
	if len(free) == 0 {
		return structs.Cell{}, false
	}
	return free[s.rng.Intn(len(free))], true
}

func (s *Simulation) State() structs.GameState { return s.state }
func (s *Simulation) Score() int { return s.score }
func (s *Simulation) HighScore() int { return s.highScore }
func (s *Simulation) Food() structs.Cell { return s.food }
func (s *Simulation) Length() int { return len(s.body) }
func (s *Simulation) Head() structs.Cell { return s.body[0] }
func (s *Simulation) Direction() structs.Direction { return s.direction }
func (s *Simulation) SpeedMultiplier() float64 { return s.speed }
func (s *Simulation) Won() bool { return s.won }
func (s *Simulation) Grid() grid.Grid { return s.grid }

// Snake returns a copy of the body, head first.
func (s *Simulation) Snake() []structs.Cell {
	return append([]structs.Cell(nil), s.body...)
}

// Occupied 供测试检查两种表示是否一致
func (s *Simulation) Occupied(c structs.Cell) bool {
	_, ok := s.occupied[c]
	return ok
}
