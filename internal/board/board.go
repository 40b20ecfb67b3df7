// Package board models the 10x10 snake-numbered board the player marker moves on.
package board

import "math"

const (
	// Size is the number of rows and columns.
	Size = 10
	// Squares is the highest square number.
	Squares = Size * Size
)

// Board holds square numbers in display order: row 0 is the top row.
type Board [Size][Size]int

var standard = build()

// Build returns the board numbered 1..100 from the bottom-left corner, alternating
// direction on every row.
func Build() Board {
	return standard
}

func build() Board {
	var b Board
	num := 1
	for r := 0; r < Size; r++ {
		var row [Size]int
		for c := 0; c < Size; c++ {
			row[c] = num
			num++
		}
		if r%2 == 1 {
			for i, j := 0, Size-1; i < j; i, j = i+1, j-1 {
				row[i], row[j] = row[j], row[i]
			}
		}
		b[Size-1-r] = row
	}
	return b
}

// Cells flattens the board in display order.
func (b Board) Cells() []int {
	out := make([]int, 0, Squares)
	for _, row := range b {
		out = append(out, row[:]...)
	}
	return out
}

// Clamp keeps n on the board.
func Clamp(n int) int {
	if n < 1 {
		return 1
	}
	if n > Squares {
		return Squares
	}
	return n
}

// CellNumber is the square a fractional position is drawn on.
func CellNumber(f float64) int {
	return Clamp(int(math.Round(f)))
}

// Cell is a display coordinate; Row 0 is the top row.
type Cell struct {
	Row int
	Col int
}

// CellOf locates square n, rounding fractional positions and clamping to the board.
func CellOf(n float64) Cell {
	sq := Clamp(int(math.Round(n)))
	idx := sq - 1
	rowFromBottom := idx / Size
	posInRow := idx % Size
	col := posInRow
	if rowFromBottom%2 == 1 {
		col = Size - 1 - posInRow
	}
	return Cell{Row: Size - 1 - rowFromBottom, Col: col}
}

// Geometry is the measured on-screen size of one cell and the gap between cells, in pixels.
type Geometry struct {
	CellPx float64 `json:"cellPx"`
	GapPx  float64 `json:"gapPx"`
}

// Point is a pixel offset from the board's top-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Measured reports whether the browser has reported a usable cell size.
func (g Geometry) Measured() bool {
	return g.CellPx > 0
}

// PixelFor returns the centre of fractional position f, interpolated between the two
// squares it lies between. Unmeasured geometry yields the zero point.
func (g Geometry) PixelFor(f float64) Point {
	if !g.Measured() {
		return Point{}
	}
	f = math.Max(1, math.Min(Squares, f))
	n0 := math.Floor(f)
	n1 := n0
	if f > n0 {
		n1 = math.Min(Squares, n0+1)
	}
	t := f - n0

	a, b := g.centre(CellOf(n0)), g.centre(CellOf(n1))
	return Point{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

func (g Geometry) centre(c Cell) Point {
	step := g.CellPx + g.GapPx
	return Point{
		X: float64(c.Col)*step + g.CellPx/2,
		Y: float64(c.Row)*step + g.CellPx/2,
	}
}
