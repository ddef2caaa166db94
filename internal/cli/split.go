package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ppiankov/splitforge/internal/config"
	"github.com/ppiankov/splitforge/internal/reporter"
	"github.com/ppiankov/splitforge/internal/split"
	"github.com/ppiankov/splitforge/internal/state"
)

// splitValues holds the resolved split parameters after merging flags
// with config file settings.
type splitValues struct {
	DataDir    string
	OutDir     string
	Ratio      string
	Move       bool
	Seed       *int64
	Shuffle    bool
	Extensions []string
	HistoryDB  string
}

func newSplitCmd() *cobra.Command {
	var (
		v       splitValues
		seed    int64
		shuffle bool
		dryRun  bool
		tuiMode string
	)

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a class-per-directory dataset into train/val/test trees",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadSettings(configFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			v.Shuffle = shuffle
			if cmd.Flags().Changed("seed") {
				v.Seed = &seed
			}
			mergeSplitSettings(cmd.Flags().Changed, cfg, &v)

			if v.DataDir == "" || v.OutDir == "" {
				return fmt.Errorf("--data and --out are required (flags or %s)", configFile)
			}
			opts, err := buildOptions(v)
			if err != nil {
				return err
			}
			return runSplit(v.DataDir, v.OutDir, opts, v.HistoryDB, dryRun, tuiMode)
		},
	}

	cmd.Flags().StringVar(&v.DataDir, "data", "", "dataset root directory (one subdirectory per class)")
	cmd.Flags().StringVar(&v.OutDir, "out", "", "output directory for the split trees")
	cmd.Flags().StringVar(&v.Ratio, "ratio", split.DefaultRatio.String(), "train,val,test proportions summing to 1.0")
	cmd.Flags().BoolVar(&v.Move, "move", false, "move files instead of copying")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for reproducible shuffling")
	cmd.Flags().BoolVar(&shuffle, "shuffle", true, "shuffle images before slicing")
	cmd.Flags().StringSliceVar(&v.Extensions, "ext", split.DefaultExtensions, "image extensions to include")
	cmd.Flags().StringVar(&v.HistoryDB, "history-db", "", "path to run history database")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show projected counts without writing")
	cmd.Flags().StringVar(&tuiMode, "tui", "auto", "display mode: full (live TUI), minimal (per-class lines), off, auto (detect TTY)")

	return cmd
}

// mergeSplitSettings applies config file defaults to values whose flags
// were not explicitly set on the command line.
func mergeSplitSettings(changed func(string) bool, cfg *config.Settings, v *splitValues) {
	if !changed("data") && cfg.DataDir != "" {
		v.DataDir = cfg.DataDir
	}
	if !changed("out") && cfg.OutputDir != "" {
		v.OutDir = cfg.OutputDir
	}
	if !changed("ratio") && cfg.Ratio != "" {
		v.Ratio = cfg.Ratio
	}
	if !changed("move") && cfg.Move {
		v.Move = cfg.Move
	}
	if !changed("seed") && cfg.Seed != nil {
		v.Seed = cfg.Seed
	}
	if !changed("shuffle") && cfg.Shuffle != nil {
		v.Shuffle = *cfg.Shuffle
	}
	if !changed("ext") && len(cfg.Extensions) > 0 {
		v.Extensions = cfg.Extensions
	}
	if !changed("history-db") && cfg.HistoryDB != "" {
		v.HistoryDB = cfg.HistoryDB
	}
}

func buildOptions(v splitValues) (split.Options, error) {
	ratio, err := split.ParseRatio(v.Ratio)
	if err != nil {
		return split.Options{}, err
	}
	opts := split.DefaultOptions(ratio)
	opts.Move = v.Move
	opts.Seed = v.Seed
	opts.Shuffle = v.Shuffle
	if len(v.Extensions) > 0 {
		opts.Extensions = v.Extensions
	}
	return opts, nil
}

func runSplit(dataDir, outDir string, opts split.Options, historyDB string, dryRun bool, tuiMode string) error {
	isTTY := isTerminal()
	text := reporter.NewTextReporter(os.Stdout, isTTY)

	if dryRun {
		plan, err := split.Plan(dataDir, opts)
		if err != nil {
			return err
		}
		text.PrintPlan(plan)
		return nil
	}

	runDir := filepath.Join(".splitforge", time.Now().Format("20060102-150405"))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("create run dir: %w", err)
	}

	slog.Info("starting split", "data", dataDir, "out", outDir, "ratio", opts.Ratio.String(), "move", opts.Move)

	displayMode := tuiMode
	if displayMode == "" || displayMode == "auto" {
		if isTTY {
			displayMode = "full"
		} else {
			displayMode = "minimal"
		}
	}

	start := time.Now()
	var (
		report split.Report
		err    error
	)
	switch displayMode {
	case "full":
		prog := tea.NewProgram(reporter.NewSplitModel(dataDir, opts.Move))
		opts.OnClass = func(sum split.ClassSummary) {
			prog.Send(reporter.ClassMsg(sum))
		}
		done := make(chan struct{})
		go func() {
			defer close(done)
			report, err = split.SplitDataset(dataDir, outDir, opts)
			prog.Send(reporter.DoneMsg{Err: err})
		}()
		if _, uiErr := prog.Run(); uiErr != nil {
			slog.Warn("TUI error", "error", uiErr)
		}
		// the run keeps going if the display was detached with 'q'
		<-done

	case "minimal":
		text.PrintHeader(dataDir, outDir)
		opts.OnClass = text.PrintClass
		report, err = split.SplitDataset(dataDir, outDir, opts)

	default:
		report, err = split.SplitDataset(dataDir, outDir, opts)
	}

	duration := time.Since(start)
	if err != nil {
		return err
	}

	text.PrintSummary(report, opts.Move, duration)

	runReport := reporter.NewRunReport(dataDir, outDir, opts, report, duration)
	reportPath := filepath.Join(runDir, "report.json")
	if err := reporter.WriteJSONReport(runReport, reportPath); err != nil {
		slog.Warn("failed to write report", "error", err)
	} else {
		fmt.Fprintf(os.Stdout, "\nReport: %s\n", reportPath)
	}

	recordHistory(historyDB, dataDir, outDir, opts, report, start)
	return nil
}

// recordHistory appends the run to the history database. Failures are
// logged, not fatal.
func recordHistory(path, dataDir, outDir string, opts split.Options, report split.Report, started time.Time) {
	if path == "" {
		path = state.DefaultPath()
	}
	store, err := state.Open(path)
	if err != nil {
		slog.Warn("history unavailable", "error", err)
		return
	}
	defer func() { _ = store.Close() }()

	images, _, _, _ := report.Totals()
	err = store.Record(state.Run{
		StartedAt: started,
		DataDir:   dataDir,
		OutputDir: outDir,
		Ratio:     opts.Ratio.String(),
		Seed:      opts.Seed,
		Moved:     opts.Move,
		Classes:   len(report),
		Images:    images,
	})
	if err != nil {
		slog.Warn("record history", "error", err)
	}
}
