package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// 出生时蛇的长度，网格至少要放得下
const spawnLength = 3

// AppConfig holds the structure of the configuration
type AppConfig struct {
	SelfPath string `json:"selfpath"`
	Port     string `json:"port"`

	WindowWidth  int `json:"window_width"`
	WindowHeight int `json:"window_height"`
	GridSize     int `json:"grid_size"`

	FPS        int    `json:"fps"`
	Difficulty string `json:"difficulty"`
	FoodPoints int    `json:"food_points"`
	Seed       int64  `json:"seed"` // 0 表示按时间取随机种子

	DirectionThreshold int `json:"direction_threshold"` // 像素
	SmoothingWindow    int `json:"smoothing_window"`
	PauseCooldown      int `json:"pause_cooldown"`         // 帧
	LostHandResetTicks int `json:"lost_hand_reset_ticks"` // 0 关闭

	WebcamWidth  int `json:"webcam_width"`
	WebcamHeight int `json:"webcam_height"`

	DBPath     string `json:"db_path"`
	SpritesDir string `json:"sprites_dir"`
	StaticDir  string `json:"static_dir"`
	Terminal   bool   `json:"terminal"`
	Sound      bool   `json:"sound"`
}

// difficultyFPS 难度对应的帧率
var difficultyFPS = map[string]int{
	"easy":   5,
	"medium": 10,
	"hard":   15,
}

// Default returns the built-in settings.
func Default() *AppConfig {
	return &AppConfig{
		SelfPath:           "127.0.0.1:38870",
		Port:               "38870",
		WindowWidth:        800,
		WindowHeight:       600,
		GridSize:           20,
		FPS:                10,
		Difficulty:         "medium",
		FoodPoints:         10,
		DirectionThreshold: 30,
		SmoothingWindow:    5,
		PauseCooldown:      30,
		LostHandResetTicks: 15,
		WebcamWidth:        640,
		WebcamHeight:       480,
		DBPath:             "game.db",
		SpritesDir:         "sprites",
		StaticDir:          "static",
		Terminal:           true,
		Sound:              true,
	}
}

// LoadConfig reads the settings from filePath. A missing file is created
// with the defaults. The difficulty preset is applied before validation.
func LoadConfig(filePath string) (*AppConfig, error) {
	cfg := Default()
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		if err := saveConfig(filePath, cfg); err != nil {
			return nil, err
		}
	} else {
		if err := loadConfig(filePath, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyDifficulty(cfg.Difficulty); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfig loads the settings from the file
func loadConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", filePath, err)
	}
	return nil
}

// saveConfig saves the current settings to the file
func saveConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// ApplyDifficulty sets the frame rate preset for name. An empty name keeps
// the configured FPS.
func (c *AppConfig) ApplyDifficulty(name string) error {
	if name == "" {
		return nil
	}
	fps, ok := difficultyFPS[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalid, name)
	}
	c.Difficulty = strings.ToLower(name)
	c.FPS = fps
	return nil
}

// Validate 检查配置是否能构成一局可玩的游戏
func (c *AppConfig) Validate() error {
	switch {
	case c.GridSize <= 0:
		return fmt.Errorf("%w: grid_size must be positive", ErrInvalid)
	case c.WindowWidth <= 0 || c.WindowHeight <= 0:
		return fmt.Errorf("%w: window size must be positive", ErrInvalid)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps must be positive", ErrInvalid)
	case c.FoodPoints < 0:
		return fmt.Errorf("%w: food_points must not be negative", ErrInvalid)
	case c.DirectionThreshold < 0:
		return fmt.Errorf("%w: direction_threshold must not be negative", ErrInvalid)
	case c.SmoothingWindow <= 0:
		return fmt.Errorf("%w: smoothing_window must be positive", ErrInvalid)
	case c.PauseCooldown < 0 || c.LostHandResetTicks < 0:
		return fmt.Errorf("%w: tick counts must not be negative", ErrInvalid)
	}
	cols, rows := c.GridDimensions()
	if cols/2 < spawnLength-1 || rows < 1 {
		return fmt.Errorf("%w: grid %dx%d cannot hold the starting snake", ErrInvalid, cols, rows)
	}
	return nil
}

// GridDimensions 网格的列数和行数
func (c *AppConfig) GridDimensions() (int, int) {
	return c.WindowWidth / c.GridSize, c.WindowHeight / c.GridSize
}
