package domain

// DistanceMatrix is a partial pairwise road-distance table in meters.
// Index 0 is the hub; indices 1..n map to stops in input order. A cell is
// either computed or absent: block-diagonal batching leaves cross-block cells
// unset, and an unset cell must never be confused with a true zero distance.
// The matrix is not assumed symmetric. Once shared between builder and
// validator it is read-only; callers needing a completed table work on a Clone.
type DistanceMatrix struct {
	n     int
	cells []float64
	known []bool
}

// NewDistanceMatrix allocates an n x n matrix with only the diagonal set
// (zero meters from every point to itself).
func NewDistanceMatrix(n int) *DistanceMatrix {
	m := &DistanceMatrix{
		n:     n,
		cells: make([]float64, n*n),
		known: make([]bool, n*n),
	}
	for i := 0; i < n; i++ {
		m.known[i*n+i] = true
	}
	return m
}

func (m *DistanceMatrix) Size() int { return m.n }

// At returns the distance from origin i to destination j in meters.
// ok is false for cells that were never computed.
func (m *DistanceMatrix) At(i, j int) (meters float64, ok bool) {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		return 0, false
	}
	idx := i*m.n + j
	return m.cells[idx], m.known[idx]
}

// Set records the distance from origin i to destination j. Out-of-range
// indices are ignored; shape errors are caught by the provider before any
// cell is written.
func (m *DistanceMatrix) Set(i, j int, meters float64) {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		return
	}
	idx := i*m.n + j
	m.cells[idx] = meters
	m.known[idx] = true
}

// Clone returns an independent copy the caller may mutate.
func (m *DistanceMatrix) Clone() *DistanceMatrix {
	cp := &DistanceMatrix{
		n:     m.n,
		cells: make([]float64, len(m.cells)),
		known: make([]bool, len(m.known)),
	}
	copy(cp.cells, m.cells)
	copy(cp.known, m.known)
	return cp
}

// Complete reports whether every cell has been computed.
func (m *DistanceMatrix) Complete() bool {
	for _, ok := range m.known {
		if !ok {
			return false
		}
	}
	return true
}
