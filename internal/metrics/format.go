package metrics

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")) // cyan
	zeroStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	strongStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
)

// WriteText renders the confusion matrix and classification report in a
// layout mirroring sklearn's classification_report. Styling is applied
// only when color is enabled. Cells are padded before styling so escape
// codes never skew column alignment.
func WriteText(w io.Writer, ev *Evaluation, color bool) {
	style := func(s lipgloss.Style, text string) string {
		if !color {
			return text
		}
		return s.Render(text)
	}

	width := 12
	for _, c := range ev.Classes {
		if len(c)+2 > width {
			width = len(c) + 2
		}
	}

	fmt.Fprintln(w, style(titleStyle, "Confusion Matrix"))
	fmt.Fprint(w, pad("", width))
	for _, c := range ev.Classes {
		fmt.Fprintf(w, " %s", style(headStyle, pad(c, width)))
	}
	fmt.Fprintln(w)
	for i, c := range ev.Classes {
		fmt.Fprint(w, style(headStyle, pad(c, width)))
		for j := range ev.Classes {
			cell := pad(fmt.Sprintf("%d", ev.Matrix[i][j]), width)
			switch {
			case i == j:
				cell = style(strongStyle, cell)
			case ev.Matrix[i][j] == 0:
				cell = style(zeroStyle, cell)
			}
			fmt.Fprintf(w, " %s", cell)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\n%s\n", style(titleStyle, "Classification Report"))
	fmt.Fprintf(w, "%s  precision  recall  f1-score  support\n", pad("", width))
	for _, s := range ev.PerClass {
		fmt.Fprintf(w, "%s  %9.2f  %6.2f  %8.2f  %7d\n",
			pad(s.Class, width), s.Precision, s.Recall, s.F1, s.Support)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s  %9s  %6s  %8.2f  %7d\n",
		pad("accuracy", width), "", "", ev.Accuracy, ev.Support)
	fmt.Fprintf(w, "%s  %9.2f  %6.2f  %8.2f  %7d\n",
		pad("macro avg", width), ev.MacroAvg.Precision, ev.MacroAvg.Recall, ev.MacroAvg.F1, ev.Support)
	fmt.Fprintf(w, "%s  %9.2f  %6.2f  %8.2f  %7d\n",
		pad("weighted avg", width), ev.WeightedAvg.Precision, ev.WeightedAvg.Recall, ev.WeightedAvg.F1, ev.Support)
}

func pad(s string, width int) string {
	if n := width - len(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}
