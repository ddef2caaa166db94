package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/splitforge/internal/split"
)

// RunReport is the serializable record of one dataset split run.
type RunReport struct {
	Timestamp   time.Time     `json:"timestamp"`
	DataDir     string        `json:"data_dir"`
	OutputDir   string        `json:"output_dir"`
	Ratio       string        `json:"ratio"`
	Seed        *int64        `json:"seed,omitempty"`
	Shuffle     bool          `json:"shuffle"`
	Moved       bool          `json:"moved"`
	Classes     split.Report  `json:"classes"`
	TotalImages int           `json:"total_images"`
	TotalTrain  int           `json:"total_train"`
	TotalVal    int           `json:"total_val"`
	TotalTest   int           `json:"total_test"`
	Duration    time.Duration `json:"duration"`
}

// NewRunReport assembles a run report from the split result.
func NewRunReport(dataDir, outputDir string, opts split.Options, classes split.Report, duration time.Duration) *RunReport {
	images, train, val, test := classes.Totals()
	return &RunReport{
		Timestamp:   time.Now(),
		DataDir:     dataDir,
		OutputDir:   outputDir,
		Ratio:       opts.Ratio.String(),
		Seed:        opts.Seed,
		Shuffle:     opts.Shuffle,
		Moved:       opts.Move,
		Classes:     classes,
		TotalImages: images,
		TotalTrain:  train,
		TotalVal:    val,
		TotalTest:   test,
		Duration:    duration,
	}
}

// WriteJSONReport writes the run report as JSON to the given path.
func WriteJSONReport(report *RunReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}
