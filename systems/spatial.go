package systems

import "math"

// cellKey addresses one column of the horizontal grid.
type cellKey struct {
	X, Z int32
}

// SpatialGrid buckets collision proxies by XZ cell for the contact broadphase.
// The grid is unbounded; cells are created on demand.
type SpatialGrid struct {
	cellSize float32
	cells    map[cellKey][]int
}

// NewSpatialGrid creates a grid with the given cell size.
func NewSpatialGrid(cellSize float32) *SpatialGrid {
	g := &SpatialGrid{cells: make(map[cellKey][]int)}
	g.Reset(cellSize)
	return g
}

// Reset removes all entries and sets the cell size. Cells used since the
// previous Reset keep their storage; cells left empty are dropped, and a
// new cell size drops every cell.
func (g *SpatialGrid) Reset(cellSize float32) {
	if cellSize <= 0 {
		cellSize = 1
	}
	if cellSize != g.cellSize {
		g.cellSize = cellSize
		clear(g.cells)
		return
	}
	for k, v := range g.cells {
		if len(v) == 0 {
			delete(g.cells, k)
		} else {
			g.cells[k] = v[:0]
		}
	}
}

// CellSize returns the current cell size.
func (g *SpatialGrid) CellSize() float32 {
	return g.cellSize
}

// Insert adds proxy index idx at the given horizontal position.
func (g *SpatialGrid) Insert(idx int, x, z float32) {
	k := g.key(x, z)
	g.cells[k] = append(g.cells[k], idx)
}

// QueryInto appends every index in the 3x3 block of cells around (x, z) to dst.
// With a cell size of at least twice the largest proxy radius this covers
// every proxy that can overlap one centered at (x, z).
// Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryInto(dst []int, x, z float32) []int {
	center := g.key(x, z)
	for dx := int32(-1); dx <= 1; dx++ {
		for dz := int32(-1); dz <= 1; dz++ {
			dst = append(dst, g.cells[cellKey{center.X + dx, center.Z + dz}]...)
		}
	}
	return dst
}

func (g *SpatialGrid) key(x, z float32) cellKey {
	return cellKey{
		X: int32(math.Floor(float64(x / g.cellSize))),
		Z: int32(math.Floor(float64(z / g.cellSize))),
	}
}
