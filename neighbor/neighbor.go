// Package neighbor implements the per-tick spatial neighborhood service:
// for a focal agent of one species, a sorted, alive-only view of another
// species ordered by ascending toroidal squared distance.
package neighbor

import (
	"math"
	"sort"

	"github.com/hanno-h/flockpred/internal/torus"
)

// Record is one neighbor observation: squared toroidal distance, the
// neighbor's index within its species population, and the bearing angle
// from the focal agent's heading to the neighbor.
type Record struct {
	Dist2   float64
	Idx     int
	Bearing float64
}

// Matrix holds, for one (source species, target species) pair, one row
// of Records per source agent. Rows are independent and safe to fill
// concurrently from different goroutines provided each goroutine owns a
// disjoint set of row indices.
type Matrix struct {
	targetN    int
	rows       [][]Record
	aliveCount []int
}

// NewMatrix allocates a matrix for sourceN source agents against a
// target species of size targetN.
func NewMatrix(sourceN, targetN int) *Matrix {
	m := &Matrix{targetN: targetN, rows: make([][]Record, sourceN), aliveCount: make([]int, sourceN)}
	for i := range m.rows {
		m.rows[i] = make([]Record, targetN)
	}
	return m
}

// Fill recomputes row i against the current target species snapshot.
// selfSameSpecies indicates the source and target species are the same
// population (so index i in targets is the focal agent itself and must
// be excluded).
func (m *Matrix) Fill(i int, selfPos, selfDir torus.Vec2, targetPos []torus.Vec2, targetAlive []bool, selfSameSpecies bool, w torus.World) {
	row := m.rows[i]
	alive := 0
	for j := 0; j < m.targetN; j++ {
		if selfSameSpecies && j == i {
			row[j] = Record{Dist2: math.Inf(1), Idx: j}
			continue
		}
		offset := w.Ofs(selfPos, targetPos[j])
		d2 := offset.Length2()
		if !targetAlive[j] {
			d2 = math.Inf(1)
		} else {
			alive++
		}
		bearing := torus.RadBetween(selfDir, offset)
		row[j] = Record{Dist2: d2, Idx: j, Bearing: bearing}
	}
	sort.Slice(row, func(a, b int) bool { return row[a].Dist2 < row[b].Dist2 })
	m.aliveCount[i] = alive
}

// View returns the alive, ascending-distance neighbor records for row i.
// When the source and target species are identical, the focal agent
// itself was assigned +Inf distance by Fill and therefore never appears
// among the alive prefix, matching spec §4.7's "skip index 0 of a
// self-row" behavior without needing a separate skip step here.
func (m *Matrix) View(i int) []Record {
	return m.rows[i][:m.aliveCount[i]]
}

// AliveCount returns the number of alive target agents visible to row i.
func (m *Matrix) AliveCount(i int) int {
	return m.aliveCount[i]
}
