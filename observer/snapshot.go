package observer

import (
	"path/filepath"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/hanno-h/flockpred/sim"
)

// SnapShotRow is one alive prey's instantaneous state, matching spec
// §6's SnapShot schema.
type SnapShotRow struct {
	ID     int     `csv:"id"`
	PosX   float64 `csv:"posx"`
	PosY   float64 `csv:"posy"`
	DirX   float64 `csv:"dirx"`
	DirY   float64 `csv:"diry"`
	Speed  float64 `csv:"speed"`
	AccelX float64 `csv:"accelx"`
	AccelY float64 `csv:"accely"`
}

// SnapShot writes a fresh dir/name_<n>.csv file every time NotifyOnce is
// called rather than sampling on Tick, matching spec §4.10's "snapshot
// observers write on demand." Grounded on SnapShotObserver in
// analysis_obs.hpp.
type SnapShot struct {
	sim.BaseObserver
	dir  string
	name string
	n    int
}

func NewSnapShot(dir, name string) *SnapShot {
	return &SnapShot{dir: dir, name: name}
}

func (o *SnapShot) Notify(msg sim.Message, k *sim.Kernel) {
	if n := o.Next(); n != nil {
		n.Notify(msg, k)
	}
}

func (o *SnapShot) NotifyOnce(k *sim.Kernel) {
	rows := make([]SnapShotRow, 0, len(k.Prey))
	for i, p := range k.Prey {
		if !p.Alive {
			continue
		}
		rows = append(rows, SnapShotRow{
			ID: i, PosX: p.Body.Pos.X, PosY: p.Body.Pos.Y,
			DirX: p.Body.Dir.X, DirY: p.Body.Dir.Y,
			Speed: p.Body.Speed, AccelX: p.Body.Accel.X, AccelY: p.Body.Accel.Y,
		})
	}
	if len(rows) > 0 {
		sink, err := newCSVSink(filepath.Join(o.dir, o.name+"_"+strconv.Itoa(o.n)+".csv"))
		if err == nil {
			gocsv.Marshal(rows, sink.f)
			sink.close()
			o.n++
		}
	}
	if n := o.Next(); n != nil {
		n.NotifyOnce(k)
	}
}
