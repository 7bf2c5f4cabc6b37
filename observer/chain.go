package observer

import (
	"fmt"
	"io"

	"github.com/hanno-h/flockpred/sim"
)

// Spec is one entry of Simulation.Analysis.Observers: the observer type
// name, its output file stem, and its sampling period in seconds.
// Grounded on the Observer specs shape named in spec §4.11/§6.
type Spec struct {
	Type       string
	OutputName string
	SampleFreq float64
}

// BuildChain constructs the concrete observer chain from specs in
// declaration order and appends a DataExp observer last, mirroring
// CreateObserverChain in analysis_obs.hpp ("has to be at the end of the
// chain"). maxNeighbors sizes NeighbData's per-row column count
// (population size minus one). The returned closers must be closed, in
// order, after the run loop delivers Finished.
func BuildChain(dir string, specs []Spec, maxNeighbors int, configName string, composedConfig []byte) (sim.Observer, []io.Closer, error) {
	var chain []sim.Observer
	var closers []io.Closer

	for _, s := range specs {
		switch s.Type {
		case "TimeSeries":
			o, err := NewTimeSeries(dir, s.OutputName, s.SampleFreq)
			if err != nil {
				return nil, nil, err
			}
			chain = append(chain, o)
			closers = append(closers, o)
		case "FlockData":
			o, err := NewFlockData(dir, s.OutputName, s.SampleFreq)
			if err != nil {
				return nil, nil, err
			}
			chain = append(chain, o)
			closers = append(closers, o)
		case "NeighbData":
			o, err := NewNeighbData(dir, s.OutputName, s.SampleFreq, maxNeighbors)
			if err != nil {
				return nil, nil, err
			}
			chain = append(chain, o)
			closers = append(closers, o)
		case "CoordForces":
			o, err := NewCoordForces(dir, s.OutputName, s.SampleFreq)
			if err != nil {
				return nil, nil, err
			}
			chain = append(chain, o)
			closers = append(closers, o)
		case "SnapShot":
			chain = append(chain, NewSnapShot(dir, s.OutputName))
		default:
			return nil, nil, fmt.Errorf("unknown observer type %q", s.Type)
		}
	}

	dataExp, err := NewDataExp(dir, configName, composedConfig)
	if err != nil {
		return nil, nil, err
	}
	chain = append(chain, dataExp)

	return sim.Chain(chain...), closers, nil
}
