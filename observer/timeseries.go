package observer

import (
	"path/filepath"

	"github.com/hanno-h/flockpred/flock"
	"github.com/hanno-h/flockpred/internal/torus"
	"github.com/hanno-h/flockpred/sim"
)

// TimeSeriesRow is one prey sample. Column order matches spec §6's
// TimeSeries schema; predator-dependent columns hold -1 when no predator
// is alive.
type TimeSeriesRow struct {
	Time             float64 `csv:"time"`
	ID               int     `csv:"id"`
	PosX             float64 `csv:"posx"`
	PosY             float64 `csv:"posy"`
	DirX             float64 `csv:"dirx"`
	DirY             float64 `csv:"diry"`
	Speed            float64 `csv:"speed"`
	AccelX           float64 `csv:"accelx"`
	AccelY           float64 `csv:"accely"`
	AngVel           float64 `csv:"ang_vel"`
	Centr            float64 `csv:"centr"`
	State            int     `csv:"state"`
	FlockID          int     `csv:"f_id"`
	DiffHead         float64 `csv:"diff_head"`
	Dist2FlockCenter float64 `csv:"dist2fcent"`
	Rad2FlockCenter  float64 `csv:"rad2fcent"`
	DirX2FlockCenter float64 `csv:"dirX2fcent"`
	DirY2FlockCenter float64 `csv:"dirY2fcent"`
	RadAwayPred      float64 `csv:"radAwayPred"`
	Dist2Pred        float64 `csv:"dist2pred"`
	DirX2Pred        float64 `csv:"dirX2pred"`
	DirY2Pred        float64 `csv:"dirY2pred"`
	Conflict         float64 `csv:"conflict"`
}

// TimeSeries streams per-prey kinematic and diagnostic samples at a
// configurable sample_freq, grounded on TimeSeriesObserver in
// analysis_obs.hpp (notify_collect's per-prey field list) and on
// in_conflict_dir_ali/centrality in analysis.hpp for the conflict/centr
// formulas.
type TimeSeries struct {
	sim.BaseObserver
	samp sampler
	sink *csvSink
	rows []TimeSeriesRow
}

// NewTimeSeries creates the sink file dir/name.csv.
func NewTimeSeries(dir, name string, samplePeriod float64) (*TimeSeries, error) {
	sink, err := newCSVSink(filepath.Join(dir, name+".csv"))
	if err != nil {
		return nil, err
	}
	return &TimeSeries{samp: newSampler(samplePeriod), sink: sink}, nil
}

func (o *TimeSeries) Notify(msg sim.Message, k *sim.Kernel) {
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

func (o *TimeSeries) NotifyOnce(k *sim.Kernel) {
	if n := o.Next(); n != nil {
		n.NotifyOnce(k)
	}
}

func (o *TimeSeries) collect(k *sim.Kernel) {
	tt := float64(k.Tick()) * k.Dt
	descs := k.FlockDescriptors()

	for i, p := range k.Prey {
		if !p.Alive {
			continue
		}
		flockID := p.FlockID
		row := TimeSeriesRow{
			Time:     tt,
			ID:       i,
			PosX:     p.Body.Pos.X,
			PosY:     p.Body.Pos.Y,
			DirX:     p.Body.Dir.X,
			DirY:     p.Body.Dir.Y,
			Speed:    p.Body.Speed,
			AccelX:   p.Body.Accel.X,
			AccelY:   p.Body.Accel.Y,
			AngVel:   p.Body.AngVel,
			FlockID:  flockID,
			Conflict: -1,
			Dist2Pred: -1,
			RadAwayPred: -1,
			DirX2Pred: -1,
			DirY2Pred: -1,
		}
		if p.Pkg != nil {
			row.State = p.Pkg.CurrentIdx
		}
		if flockID >= 0 && flockID < len(descs) {
			fl := descs[flockID]
			row.Centr = centrality(k, descs, i, flockID)
			dir2fc := torus.SafeNormalize(k.World.Ofs(p.Body.Pos, fl.Origin), torus.Vec2{})
			row.Dist2FlockCenter = k.World.Distance(p.Body.Pos, fl.Origin)
			row.DirX2FlockCenter = dir2fc.X
			row.DirY2FlockCenter = dir2fc.Y
			row.Rad2FlockCenter = torus.RadBetween(p.Body.Dir, dir2fc)
			row.DiffHead = torus.RadBetween(p.Body.Dir, fl.MeanVel)

			if predIdx, dist, ok := k.NearestPredatorForPrey(i); ok {
				pred := k.Pred[predIdx]
				row.Dist2Pred = dist
				row.RadAwayPred = torus.RadBetween(pred.Body.Dir, p.Body.Dir)
				row.Conflict = inConflictDirAlign(pred.Body.Dir, p.Body.Dir, fl.MeanVel)
				dir2pred := torus.SafeNormalize(k.World.Ofs(p.Body.Pos, pred.Body.Pos), torus.Vec2{})
				row.DirX2Pred = dir2pred.X
				row.DirY2Pred = dir2pred.Y
			}
		}
		o.rows = append(o.rows, row)
	}
}

// Close flushes any buffered rows and closes the underlying file.
func (o *TimeSeries) Close() error {
	o.flush()
	return o.sink.close()
}

func (o *TimeSeries) flush() {
	if len(o.rows) == 0 {
		return
	}
	o.sink.write(o.rows)
	o.rows = o.rows[:0]
}

// centrality returns the magnitude of the mean toroidal offset from prey
// i to every other alive member of its own flock, or 0 for a singleton
// flock. Grounded on analysis.hpp's centrality().
func centrality(k *sim.Kernel, descs []flock.Descriptor, i, flockID int) float64 {
	if flockID < 0 || flockID >= len(descs) {
		return 0
	}
	self := k.Prey[i].Body.Pos
	sum := torus.Vec2{}
	n := 0.0
	for _, j := range descs[flockID].Members() {
		if j == i || !k.Prey[j].Alive {
			continue
		}
		sum = sum.Add(k.World.Ofs(self, k.Prey[j].Body.Pos))
		n++
	}
	if n == 0 {
		return 0
	}
	return sum.Scale(1 / n).Length()
}

// inConflictDirAlign reports 1 when the prey's turn-away-from-predator
// direction and its turn-towards-flock-alignment direction disagree in
// sign, 0 otherwise. Grounded on analysis.hpp's in_conflict_dir_ali.
func inConflictDirAlign(predDir, preyDir, flockVel torus.Vec2) float64 {
	radAwayPred := torus.RadBetween(predDir, preyDir)
	radToFlock := torus.RadBetween(preyDir, flockVel)
	if radAwayPred*radToFlock < 0 {
		return 1
	}
	return 0
}
