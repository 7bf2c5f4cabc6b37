package observer

import (
	"path/filepath"

	"github.com/hanno-h/flockpred/sim"
)

// FlockDataRow is one flock's aggregate sample, column order matching
// spec §6's FlockData schema.
type FlockDataRow struct {
	Time      float64 `csv:"time"`
	ID        int     `csv:"id"`
	Size      int     `csv:"size"`
	VelX      float64 `csv:"velx"`
	VelY      float64 `csv:"vely"`
	FlockCX   float64 `csv:"fcX"`
	FlockCY   float64 `csv:"fcY"`
	OBBExtX   float64 `csv:"obbExtX"`
	OBBExtY   float64 `csv:"obbExtY"`
	OBBAxis0X float64 `csv:"obbH0X"`
	OBBAxis0Y float64 `csv:"obbH0Y"`
	OBBAxis1X float64 `csv:"obbH1X"`
	OBBAxis1Y float64 `csv:"obbH1Y"`
}

// FlockData streams one row per tracked flock at a configurable
// sample_freq. Grounded on FlockObserver in analysis_obs.hpp.
type FlockData struct {
	sim.BaseObserver
	samp sampler
	sink *csvSink
	rows []FlockDataRow
}

func NewFlockData(dir, name string, samplePeriod float64) (*FlockData, error) {
	sink, err := newCSVSink(filepath.Join(dir, name+".csv"))
	if err != nil {
		return nil, err
	}
	return &FlockData{samp: newSampler(samplePeriod), sink: sink}, nil
}

func (o *FlockData) Notify(msg sim.Message, k *sim.Kernel) {
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

func (o *FlockData) NotifyOnce(k *sim.Kernel) {
	if n := o.Next(); n != nil {
		n.NotifyOnce(k)
	}
}

func (o *FlockData) collect(k *sim.Kernel) {
	tt := float64(k.Tick()) * k.Dt
	for id, d := range k.FlockDescriptors() {
		o.rows = append(o.rows, FlockDataRow{
			Time:      tt,
			ID:        id,
			Size:      d.Size,
			VelX:      d.MeanVel.X,
			VelY:      d.MeanVel.Y,
			FlockCX:   d.Origin.X,
			FlockCY:   d.Origin.Y,
			OBBExtX:   d.ExtentX,
			OBBExtY:   d.ExtentY,
			OBBAxis0X: d.Axis0.X,
			OBBAxis0Y: d.Axis0.Y,
			OBBAxis1X: d.Axis1.X,
			OBBAxis1Y: d.Axis1.Y,
		})
	}
}

// Close flushes any buffered rows and closes the underlying file.
func (o *FlockData) Close() error {
	o.flush()
	return o.sink.close()
}

func (o *FlockData) flush() {
	if len(o.rows) == 0 {
		return
	}
	o.sink.write(o.rows)
	o.rows = o.rows[:0]
}
