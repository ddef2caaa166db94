package split

import (
	"fmt"
	"os"
	"path/filepath"
)

// Split group names used as output subdirectories.
const (
	GroupTrain = "train"
	GroupVal   = "val"
	GroupTest  = "test"
)

// ClassSummary records how one class's images were distributed.
type ClassSummary struct {
	Class string `json:"class"`
	Total int    `json:"total"`
	Train int    `json:"train"`
	Val   int    `json:"val"`
	Test  int    `json:"test"`
}

// group is a contiguous slice [lo:hi) of the post-shuffle image list.
type group struct {
	name   string
	lo, hi int
}

// cutPoints computes the group boundaries for total images. Boundary
// indices truncate (floor); the last non-zero group's end is forced to
// total so rounding remainder is absorbed rather than dropped.
// Zero-ratio groups are omitted entirely.
func cutPoints(total int, r Ratio) []group {
	trainEnd := int(float64(total) * r.Train)
	valEnd := trainEnd + int(float64(total)*r.Val)

	var groups []group
	if r.Train > 0 {
		groups = append(groups, group{GroupTrain, 0, trainEnd})
	}
	if r.Val > 0 {
		groups = append(groups, group{GroupVal, trainEnd, valEnd})
	}
	if r.Test > 0 {
		groups = append(groups, group{GroupTest, valEnd, total})
	}
	if n := len(groups); n > 0 {
		groups[n-1].hi = total
	}
	return groups
}

// SplitClass partitions one class directory into train/val/test
// subtrees under outputDir, using the directory's base name as the
// class label. It returns nil with no error when the class holds no
// qualifying images; such classes are excluded from dataset reports.
// The ratio is validated before any filesystem write.
func SplitClass(classDir, outputDir string, opts Options) (*ClassSummary, error) {
	return splitClass(classDir, outputDir, filepath.Base(classDir), opts)
}

func splitClass(classDir, outputDir, className string, opts Options) (*ClassSummary, error) {
	if err := opts.Ratio.Validate(); err != nil {
		return nil, err
	}
	opts.normalize()

	images, err := listImages(classDir, opts.Extensions)
	if err != nil {
		return nil, fmt.Errorf("list class %q: %w", className, err)
	}
	total := len(images)
	if total == 0 {
		opts.Logger.Debug("no qualifying images", "class", className)
		return nil, nil
	}

	if opts.Shuffle {
		newRand(opts.Seed).Shuffle(total, func(i, j int) {
			images[i], images[j] = images[j], images[i]
		})
	}

	sum := ClassSummary{Class: className, Total: total}
	for _, g := range cutPoints(total, opts.Ratio) {
		files := images[g.lo:g.hi]
		switch g.name {
		case GroupTrain:
			sum.Train = len(files)
		case GroupVal:
			sum.Val = len(files)
		case GroupTest:
			sum.Test = len(files)
		}
		if len(files) == 0 {
			continue
		}

		destDir := filepath.Join(outputDir, g.name, className)
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", destDir, err)
		}
		for _, name := range files {
			src := filepath.Join(classDir, name)
			dst := filepath.Join(destDir, name)
			if opts.Move {
				err = moveFile(src, dst)
			} else {
				err = copyFile(src, dst)
			}
			if err != nil {
				return nil, fmt.Errorf("place %s/%s: %w", className, name, err)
			}
		}
	}

	opts.Logger.Debug("class split",
		"class", className, "total", total,
		"train", sum.Train, "val", sum.Val, "test", sum.Test)
	if opts.OnClass != nil {
		opts.OnClass(sum)
	}
	return &sum, nil
}

// listImages enumerates the files directly inside dir whose lowercase
// suffix matches the allow-list. Subdirectories are not traversed.
func listImages(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if matchesExtension(e.Name(), exts) {
			images = append(images, e.Name())
		}
	}
	return images, nil
}
