package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("LoadConfig() = %+v, want defaults", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	again, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if *again != *cfg {
		t.Errorf("reloaded %+v, want %+v", again, cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"grid_size": 10, "difficulty": "Hard", "seed": 7, "sound": false}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.GridSize != 10 || cfg.Seed != 7 || cfg.Sound {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.FPS != 15 || cfg.Difficulty != "hard" {
		t.Errorf("difficulty preset: fps=%d difficulty=%q", cfg.FPS, cfg.Difficulty)
	}
	// 未写的字段保持默认
	if cfg.WindowWidth != 800 || cfg.PauseCooldown != 30 {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cols, rows := cfg.GridDimensions(); cols != 80 || rows != 60 {
		t.Errorf("GridDimensions() = %d,%d, want 80,60", cols, rows)
	}
}

func TestLoadConfigRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		invalid bool
	}{
		{"malformed json", `{"fps": `, false},
		{"unknown difficulty", `{"difficulty": "nightmare"}`, true},
		{"zero grid", `{"grid_size": 0}`, true},
		{"too narrow", `{"window_width": 60}`, true},
		{"negative cooldown", `{"pause_cooldown": -1}`, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tc.data), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("LoadConfig succeeded, want error")
			}
			if got := errors.Is(err, ErrInvalid); got != tc.invalid {
				t.Errorf("errors.Is(err, ErrInvalid) = %v, want %v (err: %v)", got, tc.invalid, err)
			}
		})
	}
}

func TestApplyDifficulty(t *testing.T) {
	tests := []struct {
		name string
		fps  int
	}{
		{"easy", 5},
		{"medium", 10},
		{"HARD", 15},
	}
	for _, tc := range tests {
		cfg := Default()
		if err := cfg.ApplyDifficulty(tc.name); err != nil {
			t.Fatalf("ApplyDifficulty(%q): %v", tc.name, err)
		}
		if cfg.FPS != tc.fps {
			t.Errorf("ApplyDifficulty(%q): fps = %d, want %d", tc.name, cfg.FPS, tc.fps)
		}
	}

	cfg := Default()
	cfg.FPS = 42
	if err := cfg.ApplyDifficulty(""); err != nil || cfg.FPS != 42 {
		t.Errorf("empty difficulty should keep fps, got %d,%v", cfg.FPS, err)
	}
}

func TestValidateSmallestGrid(t *testing.T) {
	cfg := Default()
	cfg.WindowWidth, cfg.WindowHeight = 80, 20 // 4x1
	if err := cfg.Validate(); err != nil {
		t.Errorf("4x1 grid should be playable: %v", err)
	}
	cfg.WindowWidth = 60 // 3x1
	if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("3x1 grid: Validate() = %v, want ErrInvalid", err)
	}
}
