package observer

import (
	"path/filepath"

	"github.com/hanno-h/flockpred/sim"
)

// CoordForcesRow is one prey's per-tick steering-angle diagnostic,
// matching spec §6's CoordForces schema.
type CoordForcesRow struct {
	Time     float64 `csv:"time"`
	ID       int     `csv:"id"`
	AlignAng float64 `csv:"ali_angl"`
	CohAng   float64 `csv:"coh_angl"`
	SepAng   float64 `csv:"sep_angl"`
}

// CoordForces streams the align/cohere/separate steering angles each
// alive prey's actions wrote this tick. Grounded on ForcesObserver in
// analysis_obs.hpp.
type CoordForces struct {
	sim.BaseObserver
	samp sampler
	sink *csvSink
	rows []CoordForcesRow
}

func NewCoordForces(dir, name string, samplePeriod float64) (*CoordForces, error) {
	sink, err := newCSVSink(filepath.Join(dir, name+".csv"))
	if err != nil {
		return nil, err
	}
	return &CoordForces{samp: newSampler(samplePeriod), sink: sink}, nil
}

func (o *CoordForces) Notify(msg sim.Message, k *sim.Kernel) {
	switch msg {
	case sim.Tick:
		if o.samp.due(k.Dt) {
			o.collect(k)
			if len(o.rows) >= softRowCap {
				o.flush()
			}
		}
	case sim.Finished:
		o.flush()
	}
	if n := o.Next(); n != nil {
		n.Notify(msg, k)
	}
}

func (o *CoordForces) NotifyOnce(k *sim.Kernel) {
	if n := o.Next(); n != nil {
		n.NotifyOnce(k)
	}
}

func (o *CoordForces) collect(k *sim.Kernel) {
	tt := float64(k.Tick()) * k.Dt
	for i, p := range k.Prey {
		if !p.Alive {
			continue
		}
		o.rows = append(o.rows, CoordForcesRow{
			Time:     tt,
			ID:       i,
			AlignAng: p.AlignAngle,
			CohAng:   p.CohereAngle,
			SepAng:   p.SepAngle,
		})
	}
}

// Close flushes any buffered rows and closes the underlying file.
func (o *CoordForces) Close() error {
	o.flush()
	return o.sink.close()
}

func (o *CoordForces) flush() {
	if len(o.rows) == 0 {
		return
	}
	o.sink.write(o.rows)
	o.rows = o.rows[:0]
}
