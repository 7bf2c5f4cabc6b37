// Command hopesim runs the predator-prey flocking simulation described
// by a YAML config file, either headless or in a raylib viewer window.
package main

import (
	"log"
	"os"
	"strconv"

	"github.com/hanno-h/flockpred/config"
	"github.com/hanno-h/flockpred/sim"
	"github.com/hanno-h/flockpred/viewer"
)

func main() {
	cmd := parseCmdLine(os.Args[1:])
	configPath := cmd.optional("config", "")
	headless := cmd.flag("headless")
	expFiles := cmd.flag("exp_files")
	speedup := cmd.optional("speedup", "1")

	if err := config.Init(configPath); err != nil {
		log.Fatalf("hopesim: loading config: %v", err)
	}
	cfg := config.Cfg()
	log.Printf("hopesim: exp_files=%v output_dir=%s", expFiles, cfg.Derived.OutputDir)

	if unrec := cmd.unrecognized(); len(unrec) > 0 {
		log.Printf("hopesim: warning: unrecognized command-line tokens: %v", unrec)
	}

	k, err := config.BuildKernel(cfg)
	if err != nil {
		log.Fatalf("hopesim: building kernel: %v", err)
	}

	chain, closers, err := config.BuildObserverChain(cfg)
	if err != nil {
		log.Fatalf("hopesim: building observer chain: %v", err)
	}
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				log.Printf("hopesim: closing observer: %v", err)
			}
		}
	}()

	maxTicks := int(cfg.Simulation.Tmax / cfg.Simulation.Dt)

	if headless {
		runHeadless(k, chain, maxTicks)
		return
	}
	if err := runViewer(k, chain, maxTicks, speedupOf(speedup), cfg.Simulation.WH); err != nil {
		log.Fatalf("hopesim: viewer: %v", err)
	}
}

func speedupOf(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 1
	}
	return v
}

func runHeadless(k *sim.Kernel, chain sim.Observer, maxTicks int) {
	sim.NotifyChain(chain, sim.Initialized, k)
	for tick := 0; tick < maxTicks && !k.Terminated(); tick++ {
		k.Update(chain)
	}
	sim.NotifyChain(chain, sim.Finished, k)
}

func runViewer(k *sim.Kernel, chain sim.Observer, maxTicks int, speedup, worldSize float64) error {
	v, err := viewer.New(worldSize, speedup)
	if err != nil {
		return err
	}
	defer v.Close()

	full := sim.Chain(v, chain)
	sim.NotifyChain(full, sim.Initialized, k)
	for tick := 0; tick < maxTicks && !k.Terminated() && !v.ShouldClose(); tick++ {
		k.Update(full)
	}
	sim.NotifyChain(full, sim.Finished, k)
	return nil
}
