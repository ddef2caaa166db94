package split

import (
	"fmt"
	"os"
	"path/filepath"
)

// Report is the dataset-level result: one summary per class that held
// at least one qualifying image, in filesystem enumeration order.
type Report []ClassSummary

// Totals sums the per-class counts.
func (r Report) Totals() (images, train, val, test int) {
	for _, s := range r {
		images += s.Total
		train += s.Train
		val += s.Val
		test += s.Test
	}
	return
}

// SplitDataset splits every class directory under dataDir into
// train/val/test trees under outputDir. Immediate subdirectories are
// classes; anything else at the top level is ignored. Classes are
// processed sequentially and the first error aborts the run — already
// placed files are not rolled back.
func SplitDataset(dataDir, outputDir string, opts Options) (Report, error) {
	if err := opts.Ratio.Validate(); err != nil {
		return nil, err
	}
	opts.normalize()

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("read dataset dir: %w", err)
	}

	var report Report
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sum, err := splitClass(filepath.Join(dataDir, e.Name()), outputDir, e.Name(), opts)
		if err != nil {
			return nil, fmt.Errorf("class %q: %w", e.Name(), err)
		}
		if sum != nil {
			report = append(report, *sum)
		}
	}
	return report, nil
}

// Plan computes the per-class counts a split would produce without
// writing anything. Shuffle and move flags have no effect on counts.
func Plan(dataDir string, opts Options) (Report, error) {
	if err := opts.Ratio.Validate(); err != nil {
		return nil, err
	}
	opts.normalize()

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("read dataset dir: %w", err)
	}

	var report Report
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		images, err := listImages(filepath.Join(dataDir, e.Name()), opts.Extensions)
		if err != nil {
			return nil, fmt.Errorf("list class %q: %w", e.Name(), err)
		}
		total := len(images)
		if total == 0 {
			continue
		}
		sum := ClassSummary{Class: e.Name(), Total: total}
		for _, g := range cutPoints(total, opts.Ratio) {
			switch g.name {
			case GroupTrain:
				sum.Train = g.hi - g.lo
			case GroupVal:
				sum.Val = g.hi - g.lo
			case GroupTest:
				sum.Test = g.hi - g.lo
			}
		}
		report = append(report, sum)
	}
	return report, nil
}
