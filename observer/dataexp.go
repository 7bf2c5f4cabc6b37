package observer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hanno-h/flockpred/sim"
)

// DataExp writes the experiment marker file <configName>.txt and the
// composed_config.json snapshot of every config value the run used, both
// at construction time, and otherwise only forwards. It must be the last
// observer in the chain, matching DataExpObserver in analysis_obs.hpp
// ("has to be at the end of the chain").
type DataExp struct {
	sim.BaseObserver
}

// NewDataExp writes the marker and composed-config files into dir and
// returns an observer that only forwards notifications.
func NewDataExp(dir, configName string, composedConfig []byte) (*DataExp, error) {
	markerPath := filepath.Join(dir, configName+".txt")
	if f, err := os.Create(markerPath); err != nil {
		return nil, fmt.Errorf("creating %s: %w", markerPath, err)
	} else {
		f.Close()
	}
	if err := os.WriteFile(filepath.Join(dir, "composed_config.json"), composedConfig, 0644); err != nil {
		return nil, fmt.Errorf("writing composed_config.json: %w", err)
	}
	return &DataExp{}, nil
}

func (o *DataExp) Notify(msg sim.Message, k *sim.Kernel) {
	if n := o.Next(); n != nil {
		n.Notify(msg, k)
	}
}

func (o *DataExp) NotifyOnce(k *sim.Kernel) {
	if n := o.Next(); n != nil {
		n.NotifyOnce(k)
	}
}
