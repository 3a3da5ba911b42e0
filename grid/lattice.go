package grid

import "github.com/caldera-labs/tetrasim/vec3"

// LatticeDim is the fixed per-axis cell count (spec §4.5 "a fixed 80³ cell
// cube").
const LatticeDim = 80

// Lattice is a dense LatticeDim³ grid addressed by cellIndex (spec §4.5).
type Lattice struct {
	heads    heads
	cellSize float64
}

// NewLattice allocates a lattice with the given cell size. cellSize is
// typically 2·max-tet-characteristic-radius (spec §4.6 Bake).
func NewLattice(cellSize float64) *Lattice {
	return &Lattice{heads: newHeads(LatticeDim * LatticeDim * LatticeDim), cellSize: cellSize}
}

// CellSize returns the lattice's fixed cell edge length.
func (l *Lattice) CellSize() float64 { return l.cellSize }

// Cell maps a world position to its lattice cell coordinate, wrapping
// negative coordinates into [0,LatticeDim) (spec §4.5 "Bias wrap handles
// negative coordinates").
func (l *Lattice) Cell(p vec3.Vec) CellCoord {
	return CellCoord{
		X: wrap(floorDiv(p.X, l.cellSize)),
		Y: wrap(floorDiv(p.Y, l.cellSize)),
		Z: wrap(floorDiv(p.Z, l.cellSize)),
	}
}

func floorDiv(v, cell float64) int {
	q := v / cell
	f := int(q)
	if q < 0 && float64(f) != q {
		f--
	}
	return f
}

func wrap(v int) int {
	v %= LatticeDim
	if v < 0 {
		v += LatticeDim
	}
	return v
}

func (l *Lattice) index(c CellCoord) int {
	return c.X*LatticeDim*LatticeDim + c.Y*LatticeDim + c.Z
}

// Clear implements Grid.
func (l *Lattice) Clear() { l.heads.reset() }

// Insert implements Grid.
func (l *Lattice) Insert(c CellCoord, id int32) int32 { return l.heads.insert(l.index(c), id) }

// Head implements Grid.
func (l *Lattice) Head(c CellCoord) int32 { return l.heads.head(l.index(c)) }

// SetAtomic implements Grid.
func (l *Lattice) SetAtomic(atomic bool) { l.heads.setAtomic(atomic) }

// Neighbours calls visit for every cell in the 3×3×3 block centred on c,
// including c itself (spec §4.6 step 8 broadphase).
func (l *Lattice) Neighbours(c CellCoord, visit func(CellCoord)) {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				visit(CellCoord{X: wrap(c.X + dx), Y: wrap(c.Y + dy), Z: wrap(c.Z + dz)})
			}
		}
	}
}
