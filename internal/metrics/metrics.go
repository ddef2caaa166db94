package metrics

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ClassStats holds per-class precision/recall/F1 and support.
type ClassStats struct {
	Class     string  `json:"class"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Averages aggregates stats across classes.
type Averages struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Evaluation is the result of comparing predicted labels to ground truth.
type Evaluation struct {
	Classes     []string     `json:"classes"`
	Matrix      [][]int      `json:"confusion_matrix"` // rows: actual, cols: predicted
	PerClass    []ClassStats `json:"per_class"`
	Accuracy    float64      `json:"accuracy"`
	MacroAvg    Averages     `json:"macro_avg"`
	WeightedAvg Averages     `json:"weighted_avg"`
	Support     int          `json:"support"`
}

// Evaluate builds a confusion matrix and classification report from two
// label sequences. classNames fixes the class order; when nil, the
// sorted union of observed labels is used. Labels outside classNames
// are an error.
func Evaluate(trueLabels, predLabels, classNames []string) (*Evaluation, error) {
	if len(trueLabels) != len(predLabels) {
		return nil, fmt.Errorf("label count mismatch: %d true vs %d predicted",
			len(trueLabels), len(predLabels))
	}
	if len(trueLabels) == 0 {
		return nil, fmt.Errorf("no labels to evaluate")
	}

	if classNames == nil {
		seen := make(map[string]struct{})
		for _, l := range trueLabels {
			seen[l] = struct{}{}
		}
		for _, l := range predLabels {
			seen[l] = struct{}{}
		}
		for l := range seen {
			classNames = append(classNames, l)
		}
		sort.Strings(classNames)
	}

	index := make(map[string]int, len(classNames))
	for i, c := range classNames {
		index[c] = i
	}

	n := len(classNames)
	matrix := make([][]int, n)
	for i := range matrix {
		matrix[i] = make([]int, n)
	}

	correct := 0
	for i := range trueLabels {
		ti, ok := index[trueLabels[i]]
		if !ok {
			return nil, fmt.Errorf("true label %q not in class list", trueLabels[i])
		}
		pi, ok := index[predLabels[i]]
		if !ok {
			return nil, fmt.Errorf("predicted label %q not in class list", predLabels[i])
		}
		matrix[ti][pi]++
		if ti == pi {
			correct++
		}
	}

	ev := &Evaluation{
		Classes:  classNames,
		Matrix:   matrix,
		Accuracy: float64(correct) / float64(len(trueLabels)),
		Support:  len(trueLabels),
	}

	for i, class := range classNames {
		tp := matrix[i][i]
		var fp, fn int
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			fp += matrix[j][i]
			fn += matrix[i][j]
		}
		stats := ClassStats{
			Class:     class,
			Precision: safeDiv(tp, tp+fp),
			Recall:    safeDiv(tp, tp+fn),
			Support:   tp + fn,
		}
		if stats.Precision+stats.Recall > 0 {
			stats.F1 = 2 * stats.Precision * stats.Recall / (stats.Precision + stats.Recall)
		}
		ev.PerClass = append(ev.PerClass, stats)

		ev.MacroAvg.Precision += stats.Precision / float64(n)
		ev.MacroAvg.Recall += stats.Recall / float64(n)
		ev.MacroAvg.F1 += stats.F1 / float64(n)

		w := float64(stats.Support) / float64(ev.Support)
		ev.WeightedAvg.Precision += stats.Precision * w
		ev.WeightedAvg.Recall += stats.Recall * w
		ev.WeightedAvg.F1 += stats.F1 * w
	}

	return ev, nil
}

func safeDiv(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// ReadLabels loads a label file: one label per line, blank lines and
// surrounding whitespace ignored.
func ReadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	defer func() { _ = f.Close() }()

	var labels []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		labels = append(labels, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read labels %s: %w", path, err)
	}
	return labels, nil
}
