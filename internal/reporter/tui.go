package reporter

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/splitforge/internal/split"
)

var spinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// TUI styles
var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	classStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14")) // cyan
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// ClassMsg reports one completed class.
type ClassMsg split.ClassSummary

// DoneMsg signals the end of the run.
type DoneMsg struct {
	Err error
}

type tickMsg time.Time

// SplitModel is the Bubbletea model for the live split display.
type SplitModel struct {
	dataDir string
	moved   bool

	classes []split.ClassSummary
	err     error
	done    bool
	frame   int
	started time.Time
	width   int
}

// NewSplitModel creates a TUI model for a split run over dataDir.
func NewSplitModel(dataDir string, moved bool) SplitModel {
	return SplitModel{dataDir: dataDir, moved: moved, started: time.Now()}
}

// Init implements tea.Model.
func (m SplitModel) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m SplitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			// detaches the display; the split itself keeps running
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case ClassMsg:
		m.classes = append(m.classes, split.ClassSummary(msg))

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit

	case tickMsg:
		m.frame++
		return m, tickCmd()
	}
	return m, nil
}

// View implements tea.Model.
func (m SplitModel) View() string {
	var b strings.Builder

	verb := "copying"
	if m.moved {
		verb = "moving"
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("splitforge — %s %s", verb, m.dataDir)))
	b.WriteString("\n\n")

	report := split.Report(m.classes)
	for _, sum := range m.classes {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			classStyle.Render(fmt.Sprintf("%-20s", sum.Class)),
			countStyle.Render(fmt.Sprintf("%4d → %d/%d/%d", sum.Total, sum.Train, sum.Val, sum.Test))))
	}

	images, train, val, test := report.Totals()
	elapsed := time.Since(m.started).Truncate(time.Second)
	if m.done {
		b.WriteString(fmt.Sprintf("\n%d classes, %d images (train %d, val %d, test %d) in %s\n",
			len(m.classes), images, train, val, test, elapsed))
	} else {
		spinner := spinnerChars[m.frame%len(spinnerChars)]
		b.WriteString(fmt.Sprintf("\n%s %s\n",
			spinner,
			dimStyle.Render(fmt.Sprintf("%d classes done, %d images, %s", len(m.classes), images, elapsed))))
		b.WriteString(helpStyle.Render("q: detach display"))
		b.WriteString("\n")
	}

	return b.String()
}

// Err returns the terminal error reported by DoneMsg, if any.
func (m SplitModel) Err() error {
	return m.err
}
