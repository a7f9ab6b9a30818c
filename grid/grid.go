// Package grid converts between grid cells and window pixels.
package grid

import "github.com/hoshinonyaruko/snake-gesture/structs"

// Grid is the static geometry of the board.
type Grid struct {
	width, height int
	size          int
}

func New(windowWidth, windowHeight, cellSize int) Grid {
	return Grid{width: windowWidth, height: windowHeight, size: cellSize}
}

// Dimensions returns (cols, rows), truncating partial cells.
func (g Grid) Dimensions() (int, int) {
	return g.width / g.size, g.height / g.size
}

func (g Grid) CellSize() int {
	return g.size
}

// CellRect 返回格子的像素矩形，保留1像素间隙
func (g Grid) CellRect(c structs.Cell) structs.Rect {
	return structs.Rect{
		X: c.Col * g.size,
		Y: c.Row * g.size,
		W: g.size - 1,
		H: g.size - 1,
	}
}

// CellCenter 返回格子中心的像素坐标
func (g Grid) CellCenter(c structs.Cell) structs.Position {
	return structs.Position{
		X: c.Col*g.size + g.size/2,
		Y: c.Row*g.size + g.size/2,
	}
}

func (g Grid) Contains(c structs.Cell) bool {
	cols, rows := g.Dimensions()
	return c.Col >= 0 && c.Col < cols && c.Row >= 0 && c.Row < rows
}
