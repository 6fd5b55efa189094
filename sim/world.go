// world.go - owns the cell array and drives the four-phase pairing
// schedule, invoking the interpreter on each pair in parallel. Grounded
// on original_source/.../world.rs (UpdateState phase machine,
// rayon::par_iter_mut dispatch) and the teacher's video_compositor.go
// goroutine-per-strip fan-out pattern, upgraded to errgroup.

package sim

import (
	"context"
	"image"

	"golang.org/x/sync/errgroup"
)

// Phase names one of the four grid partitionings a tick may run.
type Phase int

const (
	PhaseVertical Phase = iota
	PhaseHorizontal
	PhaseVerticalOffset
	PhaseHorizontalOffset
)

func (p Phase) String() string {
	switch p {
	case PhaseVertical:
		return "Vertical"
	case PhaseHorizontal:
		return "Horizontal"
	case PhaseVerticalOffset:
		return "VerticalOffset"
	case PhaseHorizontalOffset:
		return "HorizontalOffset"
	default:
		return "Unknown"
	}
}

// UpdateState is the scheduler's current phase plus the side-swap bit
// that flips every full cycle of four phases, giving an overall period of
// 8 distinct configurations (so each cell plays "main" with all four
// toroidal neighbors across 8 ticks).
type UpdateState struct {
	Phase    Phase
	Reversed bool
}

// Next advances to the following phase, toggling Reversed only when
// wrapping from HorizontalOffset back to Vertical.
func (u UpdateState) Next() UpdateState {
	switch u.Phase {
	case PhaseVertical:
		return UpdateState{Phase: PhaseHorizontal, Reversed: u.Reversed}
	case PhaseHorizontal:
		return UpdateState{Phase: PhaseVerticalOffset, Reversed: u.Reversed}
	case PhaseVerticalOffset:
		return UpdateState{Phase: PhaseHorizontalOffset, Reversed: u.Reversed}
	case PhaseHorizontalOffset:
		return UpdateState{Phase: PhaseVertical, Reversed: !u.Reversed}
	default:
		panic("sim: invalid Phase")
	}
}

// pairIndex is one (main, neighbor) pair of linear cell-array indices for
// one phase.
type pairIndex struct {
	main     int
	neighbor int
}

// pairsForPhase enumerates every disjoint (main, neighbor) pair for the
// given phase over a grid of size. The returned pairs are a partition of
// every cell index: each cell appears in exactly one pair.
func pairsForPhase(state UpdateState, size AreaSize) []pairIndex {
	var pairs []pairIndex

	add := func(x0, y0, x1, y1 int) {
		index0 := size.CoordsToIndex(RelativePosition{X: x0, Y: y0})
		index1 := size.CoordsToIndex(RelativePosition{X: x1, Y: y1})
		if state.Reversed {
			pairs = append(pairs, pairIndex{main: index1, neighbor: index0})
		} else {
			pairs = append(pairs, pairIndex{main: index0, neighbor: index1})
		}
	}

	switch state.Phase {
	case PhaseVertical:
		for x := 0; x < size.Width; x++ {
			for j := 0; j < size.Height/2; j++ {
				y0 := j * 2
				add(x, y0, x, y0+1)
			}
		}
	case PhaseVerticalOffset:
		for x := 0; x < size.Width; x++ {
			for j := 0; j < size.Height/2; j++ {
				y0 := j*2 + 1
				y1 := (y0 + 1) % size.Height
				add(x, y0, x, y1)
			}
		}
	case PhaseHorizontal:
		for y := 0; y < size.Height; y++ {
			for j := 0; j < size.Width/2; j++ {
				x0 := j * 2
				add(x0, y, x0+1, y)
			}
		}
	case PhaseHorizontalOffset:
		for y := 0; y < size.Height; y++ {
			for j := 0; j < size.Width/2; j++ {
				x0 := j*2 + 1
				x1 := (x0 + 1) % size.Width
				add(x0, y, x1, y)
			}
		}
	}

	return pairs
}

// World owns the cell array and the scheduler state driving it.
type World struct {
	size        AreaSize
	cells       []CellState
	updateState UpdateState
	config      Config
}

// NewWorld constructs a world of the given size, every cell independently
// randomized. Panics if either extent is odd - the four-phase scheduler
// requires evenly divisible rows and columns.
func NewWorld(size AreaSize, opts ...Option) *World {
	if size.Width%2 != 0 {
		panic("sim: world width must be even")
	}
	if size.Height%2 != 0 {
		panic("sim: world height must be even")
	}

	w := &World{
		size:   size,
		config: NewConfig(opts...),
	}
	w.randomizeCells()
	return w
}

func (w *World) randomizeCells() {
	cells := make([]CellState, w.size.Area())
	for i := range cells {
		cells[i] = NewRandomCellState()
	}
	w.cells = cells
	w.updateState = UpdateState{Phase: PhaseVertical, Reversed: false}
}

// Reset reconstructs the world with the same dimensions and
// configuration, re-randomizing every cell.
func (w *World) Reset() {
	w.randomizeCells()
}

// Size returns the world's grid dimensions.
func (w *World) Size() AreaSize {
	return w.size
}

// Phase returns the scheduler's current phase, for introspection (the
// driver's headless status line prints it).
func (w *World) Phase() UpdateState {
	return w.updateState
}

// CellAt returns a read-only copy of the cell at pos.
func (w *World) CellAt(pos RelativePosition) CellState {
	return w.cells[w.size.CoordsToIndex(pos)]
}

// NeighborPosition returns the toroidal-wrapped coordinate one step away
// from pos in dir, used by tests to confirm that every
// cell eventually pairs with each of its four axis neighbors.
func (w *World) NeighborPosition(pos RelativePosition, dir Direction) RelativePosition {
	offset := Position{X: pos.X, Y: pos.Y}.Offset(dir)

	x := ((offset.X % w.size.Width) + w.size.Width) % w.size.Width
	y := ((offset.Y % w.size.Height) + w.size.Height) % w.size.Height

	return RelativePosition{X: x, Y: y}
}

// Tick advances the world by one phase: it enumerates the disjoint pairs
// for the current phase, runs each pair's interpreter concurrently, then
// advances to the next phase. Pairs within one phase share no mutable
// state (the scheduler's disjointness invariant), so errgroup.Group's
// fan-out/join is used purely for its ergonomics - no pair's Run can
// ever return an error.
func (w *World) Tick() {
	state := w.updateState
	w.updateState = state.Next()

	pairs := pairsForPhase(state, w.size)

	g, _ := errgroup.WithContext(context.Background())
	for _, p := range pairs {
		p := p
		g.Go(func() error {
			main, neighbor := borrowPair(w.cells, p.main, p.neighbor)
			NewCellPair(main, neighbor, &w.config).Run()
			return nil
		})
	}
	_ = g.Wait()
}

// NewImage allocates an RGBA canvas sized for DrawToImage.
func (w *World) NewImage() *image.RGBA {
	size := w.ImageSize()
	return image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
}
