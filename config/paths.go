package config

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// uniqueOutputFolder builds the per-run output directory
// simulated_data/<dataFolder>/<timestamp><epoch><rand>/, matching
// unique_output_folder in original_source/analysis/analysis.hpp.
func uniqueOutputFolder(dataFolder string) string {
	now := time.Now()
	stamp := fmt.Sprintf("%04d%02d%02d%02d%02d%02d", now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second())
	suffix := fmt.Sprintf("%d%d", now.Unix(), rand.Intn(1000))
	return filepath.Join("simulated_data", dataFolder, stamp+suffix)
}

// EnsureOutputDir creates dir (and any parents) if it does not exist.
func EnsureOutputDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
