package grid

import "github.com/caldera-labs/tetrasim/vec3"

// hashTableSize is the slot count, the largest prime below 2^20 (spec §4.5
// "a large prime table (≈ 2²⁰ − 3)").
const hashTableSize = 1<<20 - 3

// Hash is an open-addressed alternative to Lattice for scenes whose
// world extent doesn't fit the fixed 80³ lattice comfortably: cells are
// addressed by a MurmurHash3-finalizer-style mix of the cell coordinate
// rather than by a dense index, trading a (small) collision rate for an
// effectively unbounded domain (spec §4.5).
type Hash struct {
	heads    heads
	cellSize float64
}

// NewHash allocates a hash-addressed grid with the given cell size.
func NewHash(cellSize float64) *Hash {
	return &Hash{heads: newHeads(hashTableSize), cellSize: cellSize}
}

// CellSize returns the hash grid's fixed cell edge length.
func (h *Hash) CellSize() float64 { return h.cellSize }

// Cell maps a world position to its (unbounded) cell coordinate.
func (h *Hash) Cell(p vec3.Vec) CellCoord {
	return CellCoord{
		X: floorDiv(p.X, h.cellSize),
		Y: floorDiv(p.Y, h.cellSize),
		Z: floorDiv(p.Z, h.cellSize),
	}
}

func (h *Hash) index(c CellCoord) int {
	return int(mix3(uint32(c.X), uint32(c.Y), uint32(c.Z)) % hashTableSize)
}

// Clear implements Grid.
func (h *Hash) Clear() { h.heads.reset() }

// Insert implements Grid.
func (h *Hash) Insert(c CellCoord, id int32) int32 { return h.heads.insert(h.index(c), id) }

// Head implements Grid.
func (h *Hash) Head(c CellCoord) int32 { return h.heads.head(h.index(c)) }

// SetAtomic implements Grid.
func (h *Hash) SetAtomic(atomic bool) { h.heads.setAtomic(atomic) }

// Neighbours calls visit for every cell in the 3×3×3 block centred on c.
func (h *Hash) Neighbours(c CellCoord, visit func(CellCoord)) {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				visit(CellCoord{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz})
			}
		}
	}
}

// fmix32 is MurmurHash3's 32-bit finalizer: a cheap avalanche mix used to
// spread near cell coordinates across the whole table instead of clustering
// them (spec §4.5 "MurmurHash3-style integer hash").
func fmix32(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

// mix3 combines three axis coordinates into one table index by folding each
// through the finalizer and combining with odd multipliers, the same way
// MurmurHash3 folds successive input blocks into its running hash.
func mix3(x, y, z uint32) uint32 {
	h := fmix32(x)
	h = fmix32(h ^ (y * 0xcc9e2d51))
	h = fmix32(h ^ (z * 0x1b873593))
	return h
}
