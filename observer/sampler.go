// Package observer implements the concrete CSV-writing observers of the
// chain: per-tick timeseries and coordination-force diagnostics, periodic
// flock and neighbor tables, on-demand snapshots, and the always-last
// experiment marker. Grounded on original_source/analysis/analysis_obs.hpp
// for the collect/save semantics and on pthm-soup/telemetry/output.go for
// the concrete Go CSV-writing idiom (gocsv, header-written bool, wrapped
// os.Create errors).
package observer

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// softRowCap is the in-memory buffer size at which an analysis observer
// flushes early instead of waiting for Finished, matching spec §4.10.
const softRowCap = 10000

// sampler throttles collection to at most once per period seconds of
// simulated time, accumulating fractional dt between calls.
type sampler struct {
	period  float64
	elapsed float64
}

func newSampler(period float64) sampler { return sampler{period: period} }

// due advances the sampler's clock by dt and reports whether period has
// elapsed, resetting the accumulator on a hit.
func (s *sampler) due(dt float64) bool {
	s.elapsed += dt
	if s.elapsed+1e-9 < s.period {
		return false
	}
	s.elapsed = 0
	return true
}

// csvSink owns one output CSV file and the header-written state, mirroring
// OutputManager's Write* methods.
type csvSink struct {
	f             *os.File
	headerWritten bool
}

func newCSVSink(path string) (*csvSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &csvSink{f: f}, nil
}

// write appends rows (a slice of a csv-tagged struct) to the file,
// writing the header only on the first call.
func (s *csvSink) write(rows interface{}) error {
	if !s.headerWritten {
		if err := gocsv.Marshal(rows, s.f); err != nil {
			return fmt.Errorf("writing %s: %w", s.f.Name(), err)
		}
		s.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(rows, s.f); err != nil {
		return fmt.Errorf("writing %s: %w", s.f.Name(), err)
	}
	return nil
}

func (s *csvSink) close() error {
	if s == nil || s.f == nil {
		return nil
	}
	return s.f.Close()
}
