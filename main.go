package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/snake-gesture/api"
	"github.com/hoshinonyaruko/snake-gesture/config"
	"github.com/hoshinonyaruko/snake-gesture/controller"
	"github.com/hoshinonyaruko/snake-gesture/memimg"
	"github.com/hoshinonyaruko/snake-gesture/render"
	"github.com/hoshinonyaruko/snake-gesture/snake"
	"github.com/hoshinonyaruko/snake-gesture/sound"
	"github.com/hoshinonyaruko/snake-gesture/sqlite"
	"github.com/hoshinonyaruko/snake-gesture/term"
	"github.com/hoshinonyaruko/snake-gesture/vision"
)

func main() {
	cfg, err := config.LoadConfig("./config.json")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	EnsureFoldersExist(cfg.SpritesDir, cfg.StaticDir)
	if err := run(cfg); err != nil {
		log.Fatalf("Game loop failed: %v", err)
	}
}

func run(cfg *config.AppConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	// 载入贴图到内存，并热更新
	sprites := memimg.NewSprites(cfg.GridSize)
	if err := sprites.Load(cfg.SpritesDir); err != nil {
		log.Printf("load sprites: %v", err)
	}
	go func() {
		if err := sprites.Watch(ctx, cfg.SpritesDir); err != nil {
			log.Printf("sprite watcher stopped: %v", err)
		}
	}()

	feed := vision.NewFeed()
	sim := snake.New(cfg, store, nil)

	var presenters []controller.Presenter
	var screen *term.Screen
	if cfg.Terminal {
		ts, err := tcell.NewScreen()
		if err == nil {
			screen, err = term.New(ts)
		}
		if err != nil {
			log.Printf("terminal disabled: %v", err)
		} else {
			defer screen.Close()
			presenters = append(presenters, screen)
			// 终端被tcell占用，日志改写到文件
			if logFile, err := os.OpenFile("snake.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
				defer logFile.Close()
				log.SetOutput(logFile)
				gin.DefaultWriter = logFile
				gin.DefaultErrorWriter = logFile
			}
		}
	}
	if cfg.Sound {
		player := sound.New()
		// 没有声卡也能玩
		if err := player.Init(); err != nil {
			log.Printf("Audio initialization failed: %v", err)
		}
		defer player.Close()
		presenters = append(presenters, player)
	}

	game := controller.New(cfg, sim, feed, presenters...)
	game.SetRecorder(store)
	if screen != nil {
		go screen.Listen(ctx, game.Submit)
	}

	router := gin.Default()
	api.RegisterRoutes(router, api.Deps{
		Game:      game,
		Feed:      feed,
		Renderer:  render.New(sprites, true),
		Sessions:  store,
		StaticDir: cfg.StaticDir,
		SelfPath:  cfg.SelfPath,
	})
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server: %v", err)
			stop()
		}
	}()

	runErr := game.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	feed.Close()
	return runErr
}

// EnsureFoldersExist 检查并创建必需的文件夹
func EnsureFoldersExist(folders ...string) {
	for _, folder := range folders {
		if _, err := os.Stat(folder); os.IsNotExist(err) {
			// 文件夹不存在，尝试创建它
			if err := os.MkdirAll(folder, 0755); err != nil {
				log.Fatalf("Failed to create %s directory: %s", folder, err)
			}
			log.Printf("Created %s directory", folder)
		}
	}
}
