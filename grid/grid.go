// Package grid implements the broadphase spatial structures of spec §4.5:
// a fixed-size lattice and an open-addressed hash, both exposing the same
// atomic linked-list-per-cell contract the constraint solver inserts tets
// into from worker goroutines and later walks single-threaded.
package grid

import (
	"sync/atomic"

	"github.com/caldera-labs/tetrasim/vec3"
)

// Empty marks a cell with no tets, and terminates every cell's linked list.
const Empty int32 = -1

// CellCoord is an integer lattice coordinate.
type CellCoord struct {
	X, Y, Z int
}

// Grid stores the head of a singly linked list of tet ids per cell. A tet's
// own nextTet field (supplied by the caller, not owned by Grid) threads the
// rest of the list.
type Grid interface {
	// Clear resets every cell head to Empty. Run once per physics step
	// before any insertions (spec §5 step 6).
	Clear()

	// Insert swaps the cell's head with id and returns the previous head,
	// which the caller must store into id's own nextTet slot. When atomic
	// mode is enabled this is a single atomic exchange, safe to call
	// concurrently from many worker goroutines inserting distinct ids
	// into possibly-shared cells (spec §5 step 7, §9 concurrency note).
	Insert(cell CellCoord, id int32) (prevHead int32)

	// Head returns the current head of cell's list, or Empty.
	Head(cell CellCoord) int32

	// SetAtomic toggles whether Insert uses atomic exchange. Readers that
	// only call Head after all insertions have completed should disable
	// atomic mode for the cheaper plain-slice read path (spec §9: "readers
	// of the grid run in a separate kernel with atomic mode disabled").
	SetAtomic(atomic bool)
}

// Broadphase is the full contract the softbody solver drives a grid
// through: Grid's insert/clear/atomic-toggle plus the cell-mapping and
// neighbour-iteration methods both Lattice and Hash implement, letting the
// solver pick either mode at construction (spec §4.5 "selectable at
// construction").
type Broadphase interface {
	Grid
	Cell(p vec3.Vec) CellCoord
	Neighbours(c CellCoord, visit func(CellCoord))
}

// heads is the shared head-array storage used by both Lattice and Hash: a
// plain []int32 for single-threaded read phases, or the same backing array
// accessed through sync/atomic during concurrent insertion phases.
type heads struct {
	slots  []int32
	atomic bool
}

func newHeads(n int) heads {
	h := heads{slots: make([]int32, n)}
	h.reset()
	return h
}

func (h *heads) reset() {
	for i := range h.slots {
		h.slots[i] = Empty
	}
}

func (h *heads) setAtomic(a bool) { h.atomic = a }

func (h *heads) insert(index int, id int32) int32 {
	if h.atomic {
		return atomic.SwapInt32(&h.slots[index], id)
	}
	prev := h.slots[index]
	h.slots[index] = id
	return prev
}

func (h *heads) head(index int) int32 {
	if h.atomic {
		return atomic.LoadInt32(&h.slots[index])
	}
	return h.slots[index]
}
