package collection

import "github.com/go-gl/mathgl/mgl64"

// Grid is the flat arrangement computed before surface projection.
type Grid struct {
	// Cells holds one position per node, in node order.
	Cells []mgl64.Vec3

	Rows    int
	Columns int

	// Width and Height are the aggregate arrangement extents.
	Width  float64
	Height float64
}

// BuildGrid assigns every node a cell of a grid centered on the origin and
// adds the node's offset. Cells are visited column by column or row by row per
// cfg.Layout; cells past the last node are skipped.
func BuildGrid(nodes []Node, cfg Config) Grid {
	cols := Columns(len(nodes), cfg.Rows)
	g := Grid{
		Cells:   make([]mgl64.Vec3, len(nodes)),
		Rows:    cfg.Rows,
		Columns: cols,
		Width:   float64(cols) * cfg.CellWidth,
		Height:  float64(cfg.Rows) * cfg.CellHeight,
	}
	if len(nodes) == 0 {
		return g
	}

	startX := float64(cols) * 0.5 * cfg.CellWidth
	startY := float64(cfg.Rows) * 0.5 * cfg.CellHeight
	half := cfg.HalfCell()

	i := 0
	place := func(c, r int) {
		if i < len(nodes) {
			cell := mgl64.Vec3{
				float64(c)*cfg.CellWidth - startX + half.X(),
				-(float64(r) * cfg.CellHeight) + startY - half.Y(),
				0,
			}
			g.Cells[i] = cell.Add(nodes[i].Offset)
		}
		i++
	}

	switch cfg.Layout {
	case LayoutRowThenColumn:
		for r := 0; r < cfg.Rows; r++ {
			for c := 0; c < cols; c++ {
				place(c, r)
			}
		}
	default:
		for c := 0; c < cols; c++ {
			for r := 0; r < cfg.Rows; r++ {
				place(c, r)
			}
		}
	}
	return g
}
