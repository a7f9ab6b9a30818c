// Package render draws snapshots to images: the board on its own, or the
// board next to the mirrored camera frame.
package render

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/hoshinonyaruko/snake-gesture/grid"
	"github.com/hoshinonyaruko/snake-gesture/memimg"
	"github.com/hoshinonyaruko/snake-gesture/structs"
)

var (
	colorBackground = color.RGBA{0, 0, 0, 255}
	colorGrid       = color.RGBA{30, 30, 30, 255}
	colorSnake      = color.RGBA{0, 255, 0, 255}
	colorHead       = color.RGBA{0, 200, 0, 255}
	colorFood       = color.RGBA{255, 0, 0, 255}
	colorText       = color.RGBA{255, 255, 255, 255}
	colorDanger     = color.RGBA{255, 0, 0, 255}
	colorWarn       = color.RGBA{255, 165, 0, 255}
)

type Renderer struct {
	sprites  *memimg.Sprites // 可以为nil
	showGrid bool

	// 背景网格按尺寸缓存
	backgrounds sync.Map
}

func New(sprites *memimg.Sprites, showGrid bool) *Renderer {
	return &Renderer{sprites: sprites, showGrid: showGrid}
}

// Board renders the game pane for snap.
func (r *Renderer) Board(snap structs.Snapshot) image.Image {
	g := grid.New(snap.Cols*snap.CellSize, snap.Rows*snap.CellSize, snap.CellSize)
	width, height := snap.Cols*snap.CellSize, snap.Rows*snap.CellSize

	dc := gg.NewContext(width, height)
	dc.DrawImage(r.background(width, height, snap.CellSize), 0, 0)

	if snap.State != structs.StateMenu {
		for i, c := range snap.Snake {
			name, fallback := "body", colorSnake
			if i == 0 {
				name, fallback = "head", colorHead
			}
			r.drawCell(dc, g, c, name, fallback)
		}
		r.drawCell(dc, g, snap.Food, "food", colorFood)
	}

	drawHUD(dc, snap, width)
	switch snap.State {
	case structs.StateMenu:
		drawCentered(dc, width, height, colorText, "SNAKE GAME", "Hand Gesture Control", "Press SPACE to Start")
	case structs.StatePaused:
		dim(dc, width, height)
		drawCentered(dc, width, height, colorText, "PAUSED", "Make a fist to resume")
	case structs.StateGameOver:
		dim(dc, width, height)
		title := "GAME OVER"
		if snap.Won {
			title = "YOU WIN"
		}
		drawCentered(dc, width, height, colorDanger, title,
			fmt.Sprintf("Score: %d", snap.Score),
			fmt.Sprintf("Best: %d", snap.HighScore),
			"Press SPACE to Restart")
	}
	return dc.Image()
}

// Composite puts the mirrored camera frame to the left of the board, scaled
// to the board height, with the smoothed hand marked on it. A nil frame
// yields the board alone.
func (r *Renderer) Composite(snap structs.Snapshot, frame image.Image) image.Image {
	board := r.Board(snap)
	if frame == nil {
		return board
	}
	boardH := board.Bounds().Dy()

	mirrored := imaging.FlipH(frame)
	scale := float64(boardH) / float64(mirrored.Bounds().Dy())
	camera := imaging.Resize(mirrored, 0, boardH, imaging.Lanczos)

	dc := gg.NewContextForImage(camera)
	if snap.Hand != nil {
		x, y := float64(snap.Hand.X)*scale, float64(snap.Hand.Y)*scale
		dc.SetColor(colorSnake)
		dc.DrawCircle(x, y, 8)
		dc.Fill()
		dc.DrawCircle(x, y, 10)
		dc.SetLineWidth(2)
		dc.Stroke()
	}
	status := colorWarn
	if snap.State == structs.StatePlaying {
		status = colorSnake
	}
	dc.SetColor(status)
	dc.DrawString("State: "+snap.State.String(), 10, 30)
	dc.SetColor(colorText)
	dc.DrawString(fmt.Sprintf("Score: %d", snap.Score), 10, 50)

	cameraW := dc.Width()
	canvas := imaging.New(cameraW+board.Bounds().Dx(), boardH, colorBackground)
	canvas = imaging.Paste(canvas, dc.Image(), image.Pt(0, 0))
	canvas = imaging.Paste(canvas, board, image.Pt(cameraW, 0))
	return canvas
}

// SavePNG 保存图片
func SavePNG(path string, img image.Image) error {
	return gg.SavePNG(path, img)
}

func (r *Renderer) drawCell(dc *gg.Context, g grid.Grid, c structs.Cell, sprite string, fallback color.Color) {
	rect := g.CellRect(c)
	if r.sprites != nil {
		if img, found := r.sprites.Get(sprite); found {
			dc.DrawImage(img, rect.X, rect.Y)
			return
		}
	}
	dc.SetColor(fallback)
	dc.DrawRectangle(float64(rect.X+1), float64(rect.Y+1), float64(rect.W-1), float64(rect.H-1))
	dc.Fill()
}

func (r *Renderer) background(width, height, blockSize int) image.Image {
	key := fmt.Sprintf("%dx%d_%d_%t", width, height, blockSize, r.showGrid)
	if cached, ok := r.backgrounds.Load(key); ok {
		return cached.(image.Image)
	}
	dc := gg.NewContext(width, height)
	dc.SetColor(colorBackground)
	dc.Clear()
	if r.showGrid {
		renderGrid(dc, width, height, blockSize)
	}
	img := dc.Image()
	r.backgrounds.Store(key, img)
	return img
}

func renderGrid(dc *gg.Context, width, height, blockSize int) {
	dc.SetColor(colorGrid)
	dc.SetLineWidth(1)
	for x := 0; x <= width; x += blockSize {
		dc.DrawLine(float64(x), 0, float64(x), float64(height))
		dc.Stroke()
	}
	for y := 0; y <= height; y += blockSize {
		dc.DrawLine(0, float64(y), float64(width), float64(y))
		dc.Stroke()
	}
}

func drawHUD(dc *gg.Context, snap structs.Snapshot, width int) {
	dc.SetColor(colorText)
	dc.DrawString(fmt.Sprintf("Score: %d", snap.Score), 10, 20)
	dc.DrawString(fmt.Sprintf("Best: %d", snap.HighScore), 10, 40)
	dc.DrawStringAnchored(fmt.Sprintf("Length: %d", snap.Length), float64(width-10), 20, 1, 0)
}

func dim(dc *gg.Context, width, height int) {
	dc.SetRGBA(0, 0, 0, 0.5)
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	dc.Fill()
}

func drawCentered(dc *gg.Context, width, height int, first color.Color, lines ...string) {
	cx, cy := float64(width)/2, float64(height)/2
	top := cy - float64(len(lines)-1)*15
	for i, line := range lines {
		if i == 0 {
			dc.SetColor(first)
		} else {
			dc.SetColor(colorText)
		}
		dc.DrawStringAnchored(line, cx, top+float64(i)*30, 0.5, 0.5)
	}
}
