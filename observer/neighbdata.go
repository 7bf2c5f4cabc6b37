package observer

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hanno-h/flockpred/internal/torus"
	"github.com/hanno-h/flockpred/sim"
)

// NeighbData streams, per alive prey, its full sorted same-species
// neighbor list: idx/distance/bearing/direction for up to maxNeighbors
// slots (population size minus one). The column count depends on the
// configured population size, which gocsv's static struct tags cannot
// express, so this observer writes with encoding/csv directly instead of
// gocsv — the one stdlib-CSV exception in this package (see DESIGN.md).
// Grounded on AllNeighborsObserver in analysis_obs.hpp.
type NeighbData struct {
	sim.BaseObserver
	samp         sampler
	maxNeighbors int
	f            *os.File
	w            *csv.Writer
	headerWritten bool
}

func NewNeighbData(dir, name string, samplePeriod float64, maxNeighbors int) (*NeighbData, error) {
	f, err := os.Create(filepath.Join(dir, name+".csv"))
	if err != nil {
		return nil, fmt.Errorf("creating %s.csv: %w", name, err)
	}
	return &NeighbData{samp: newSampler(samplePeriod), maxNeighbors: maxNeighbors, f: f, w: csv.NewWriter(f)}, nil
}

func (o *NeighbData) Notify(msg sim.Message, k *sim.Kernel) {
	switch msg {
	case sim.Tick:
		if o.samp.due(k.Dt) {
			o.collect(k)
		}
	case sim.Finished:
		o.w.Flush()
	}
	if n := o.Next(); n != nil {
		n.Notify(msg, k)
	}
}

func (o *NeighbData) NotifyOnce(k *sim.Kernel) {
	if n := o.Next(); n != nil {
		n.NotifyOnce(k)
	}
}

func (o *NeighbData) header() []string {
	h := []string{"time", "id", "flock_id"}
	for i := 1; i <= o.maxNeighbors; i++ {
		n := strconv.Itoa(i)
		h = append(h, "idOfn"+n, "dist2n"+n, "bAngl2n"+n, "dirX2n"+n, "dirY2n"+n)
	}
	return h
}

func (o *NeighbData) collect(k *sim.Kernel) {
	if !o.headerWritten {
		o.w.Write(o.header())
		o.headerWritten = true
	}
	tt := float64(k.Tick()) * k.Dt
	for i, p := range k.Prey {
		if !p.Alive {
			continue
		}
		nb := k.PreyNeighbors(i)
		row := make([]string, 0, 3+5*o.maxNeighbors)
		row = append(row, strconv.FormatFloat(tt, 'g', -1, 64), strconv.Itoa(i), strconv.Itoa(p.FlockID))
		for slot := 0; slot < o.maxNeighbors; slot++ {
			if slot >= len(nb) {
				row = append(row, "0", "0", "0", "0", "0")
				continue
			}
			rec := nb[slot]
			dir := torus.SafeNormalize(k.World.Ofs(p.Body.Pos, k.Prey[rec.Idx].Body.Pos), torus.Vec2{})
			row = append(row,
				strconv.Itoa(rec.Idx),
				strconv.FormatFloat(math.Sqrt(rec.Dist2), 'g', -1, 64),
				strconv.FormatFloat(rec.Bearing, 'g', -1, 64),
				strconv.FormatFloat(dir.X, 'g', -1, 64),
				strconv.FormatFloat(dir.Y, 'g', -1, 64),
			)
		}
		o.w.Write(row)
	}
}

// Close flushes the csv.Writer and closes the underlying file.
func (o *NeighbData) Close() error {
	o.w.Flush()
	return o.f.Close()
}
