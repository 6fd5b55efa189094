// borrow.go - disjoint mutable access into the flat cell array.

package sim

// borrowPair returns pointers to two distinct elements of cells so that
// two interpreter workers can hold independent mutable handles into the
// same backing array. Go's aliasing rules make it safe to take two
// pointers into a slice as long as the caller never lets them refer to
// the same element; that inequality is the one precondition here.
//
// Panics if index0 == index1. Callers (the scheduler) are responsible for
// keeping indices in bounds and, across one phase, disjoint from every
// other pair - that disjointness is what licenses running every pair's
// CellPair concurrently with no further synchronization.
func borrowPair(cells []CellState, index0, index1 int) (*CellState, *CellState) {
	if index0 == index1 {
		panic("sim: borrowPair requires distinct indices")
	}
	return &cells[index0], &cells[index1]
}
