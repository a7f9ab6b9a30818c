package api

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/snake-gesture/render"
	"github.com/hoshinonyaruko/snake-gesture/structs"
	"github.com/hoshinonyaruko/snake-gesture/vision"
)

// 单张摄像头画面的上限
const maxFrameBytes = 8 << 20

var validName = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Game is the running controller as seen from HTTP handlers.
type Game interface {
	Submit(ctx context.Context, cmd structs.Command) error
	Latest() structs.Snapshot
}

// Sessions 对局历史
type Sessions interface {
	TopSessions(limit int) ([]structs.SessionRecord, error)
}

type Deps struct {
	Game      Game
	Feed      *vision.Feed
	Renderer  *render.Renderer
	Sessions  Sessions // 可以为nil
	StaticDir string
	SelfPath  string
}

// RegisterRoutes 注册全部路由
func RegisterRoutes(router *gin.Engine, d Deps) {
	// 视觉模块推送手部位置和握拳状态
	router.POST("/sample", SampleHandler(d.Feed))
	// 摄像头画面，只用于合成图
	router.POST("/frame", FrameHandler(d.Feed))
	router.GET("/status", StatusHandler(d.Game))
	router.GET("/start", CommandHandler(d.Game, structs.CmdStart))
	router.GET("/toggle-pause", CommandHandler(d.Game, structs.CmdTogglePause))
	router.GET("/reset", CommandHandler(d.Game, structs.CmdReset))
	router.GET("/primary", CommandHandler(d.Game, structs.CmdPrimary))
	// 渲染函数 返回静态地址
	router.GET("/render-map", RenderMapHandler(d))
	router.GET("/sessions", SessionsHandler(d.Sessions))
	router.Static("/static", d.StaticDir)
}

// sampleRequest is one tracker observation. x and y are only read when
// detected is true.
type sampleRequest struct {
	X        int  `json:"x"`
	Y        int  `json:"y"`
	Detected bool `json:"detected"`
	Fist     bool `json:"fist"`
}

func SampleHandler(feed *vision.Feed) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sampleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sample: " + err.Error()})
			return
		}
		sample := structs.Sample{Fist: req.Fist}
		if req.Detected {
			sample.Hand = &structs.Position{X: req.X, Y: req.Y}
		}
		if err := feed.Push(sample); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "sample accepted"})
	}
}

func FrameHandler(feed *vision.Feed) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := http.MaxBytesReader(c.Writer, c.Request.Body, maxFrameBytes)
		img, _, err := image.Decode(body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to decode frame"})
			return
		}
		feed.SetFrame(img)
		c.JSON(http.StatusOK, gin.H{"message": "frame accepted"})
	}
}

func StatusHandler(game Game) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, game.Latest())
	}
}

func CommandHandler(game Game, cmd structs.Command) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := game.Submit(c.Request.Context(), cmd); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to submit " + cmd.String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": cmd.String() + " submitted"})
	}
}

func RenderMapHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.DefaultQuery("name", "board")
		if !validName.MatchString(name) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid name"})
			return
		}

		snap := d.Game.Latest()
		frame, _ := d.Feed.Frame()
		img := d.Renderer.Composite(snap, frame)

		if err := os.MkdirAll(d.StaticDir, 0755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create output directory"})
			return
		}
		fileName := filepath.Join(d.StaticDir, name+".png")
		if err := render.SavePNG(fileName, img); err != nil {
			log.Printf("save %s: %v", fileName, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to render map"})
			return
		}

		imageURL := fmt.Sprintf("http://%s/static/%s.png", d.SelfPath, name)
		c.JSON(http.StatusOK, gin.H{"image_url": imageURL, "tick": snap.Tick})
	}
}

func SessionsHandler(store Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.JSON(http.StatusOK, gin.H{"sessions": []structs.SessionRecord{}})
			return
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limit <= 0 || limit > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		sessions, err := store.TopSessions(limit)
		if err != nil {
			log.Printf("load sessions: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load sessions"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessions": sessions})
	}
}
