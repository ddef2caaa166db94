package reporter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ppiankov/splitforge/internal/split"
)

const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorDim   = "\033[2m"
)

// TextReporter writes human-readable output to a writer.
type TextReporter struct {
	w     io.Writer
	color bool
}

// NewTextReporter creates a text reporter.
// If w is nil, defaults to os.Stdout.
// color enables ANSI codes.
func NewTextReporter(w io.Writer, color bool) *TextReporter {
	if w == nil {
		w = os.Stdout
	}
	return &TextReporter{w: w, color: color}
}

// PrintHeader writes the initial banner.
func (r *TextReporter) PrintHeader(dataDir, outputDir string) {
	fmt.Fprintf(r.w, "splitforge — %s → %s\n\n", dataDir, outputDir)
}

// PrintClass writes one per-class progress line.
func (r *TextReporter) PrintClass(sum split.ClassSummary) {
	fmt.Fprintf(r.w, "  %s%-20s%s %4d images → train %s%d%s, val %s%d%s, test %s%d%s\n",
		r.c(colorCyan), sum.Class, r.c(colorReset), sum.Total,
		r.c(colorGreen), sum.Train, r.c(colorReset),
		r.c(colorGreen), sum.Val, r.c(colorReset),
		r.c(colorGreen), sum.Test, r.c(colorReset))
}

// PrintPlan writes the projected per-class counts of a dry run.
func (r *TextReporter) PrintPlan(report split.Report) {
	fmt.Fprintf(r.w, "%sPlan (dry run — nothing written)%s\n", r.c(colorDim), r.c(colorReset))
	for _, sum := range report {
		r.PrintClass(sum)
	}
	images, train, val, test := report.Totals()
	fmt.Fprintf(r.w, "\n%d classes, %d images → train %d, val %d, test %d\n",
		len(report), images, train, val, test)
}

// PrintSummary writes the final summary line.
func (r *TextReporter) PrintSummary(report split.Report, moved bool, duration time.Duration) {
	images, train, val, test := report.Totals()
	verb := "copied"
	if moved {
		verb = "moved"
	}
	fmt.Fprintf(r.w, "\n%s--- Summary ---%s\n", r.c(colorCyan), r.c(colorReset))
	fmt.Fprintf(r.w, "Classes: %d  Images: %d (%s)  ", len(report), images, verb)
	fmt.Fprintf(r.w, "%sTrain: %d%s  %sVal: %d%s  %sTest: %d%s  ",
		r.c(colorGreen), train, r.c(colorReset),
		r.c(colorGreen), val, r.c(colorReset),
		r.c(colorGreen), test, r.c(colorReset))
	fmt.Fprintf(r.w, "Duration: %s\n", duration.Truncate(time.Millisecond))
}

func (r *TextReporter) c(code string) string {
	if !r.color {
		return ""
	}
	return code
}
