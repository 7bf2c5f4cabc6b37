package config

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hanno-h/flockpred/observer"
	"github.com/hanno-h/flockpred/sim"
)

// BuildObserverChain turns cfg.Simulation.Analysis.Observers into a
// concrete observer chain rooted at cfg.Derived.OutputDir, appending a
// DataExp observer last (observer.BuildChain's contract). The composed
// configuration tree is re-marshalled to JSON for the marker-file export
// spec §4.12/§6 names, matching analysis::DataExpObserver's
// composed_config.json. The returned closers must be closed, in
// declaration order, once the run loop delivers sim.Finished.
func BuildObserverChain(cfg *Config) (sim.Observer, []io.Closer, error) {
	if err := EnsureOutputDir(cfg.Derived.OutputDir); err != nil {
		return nil, nil, fmt.Errorf("config: creating output dir: %w", err)
	}

	specs := make([]observer.Spec, len(cfg.Simulation.Analysis.Observers))
	for i, oe := range cfg.Simulation.Analysis.Observers {
		specs[i] = observer.Spec{Type: oe.Type, OutputName: oe.OutputName, SampleFreq: oe.SampleFreq}
	}

	maxNeighbors := cfg.Prey.N - 1
	if maxNeighbors < 0 {
		maxNeighbors = 0
	}

	composed, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("config: marshaling composed config: %w", err)
	}

	return observer.BuildChain(cfg.Derived.OutputDir, specs, maxNeighbors, cfg.Simulation.Analysis.Externals.ConfigName, composed)
}
