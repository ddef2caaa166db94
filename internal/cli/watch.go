package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ppiankov/splitforge/internal/config"
	"github.com/ppiankov/splitforge/internal/reporter"
	"github.com/ppiankov/splitforge/internal/split"
)

func newWatchCmd() *cobra.Command {
	var (
		v        splitValues
		seed     int64
		shuffle  bool
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-split the dataset whenever it changes",
		Long:  "Watch monitors the dataset root and its class directories, re-running the split after changes settle. Copy mode only: moving would drain the watched source.",
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
			v.Move = false
			opts, err := buildOptions(v)
			if err != nil {
				return err
			}
			return runWatchSplit(v.DataDir, v.OutDir, opts, v.HistoryDB, debounce)
		},
	}

	cmd.Flags().StringVar(&v.DataDir, "data", "", "dataset root directory (one subdirectory per class)")
	cmd.Flags().StringVar(&v.OutDir, "out", "", "output directory for the split trees")
	cmd.Flags().StringVar(&v.Ratio, "ratio", split.DefaultRatio.String(), "train,val,test proportions summing to 1.0")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for reproducible shuffling")
	cmd.Flags().BoolVar(&shuffle, "shuffle", true, "shuffle images before slicing")
	cmd.Flags().StringSliceVar(&v.Extensions, "ext", split.DefaultExtensions, "image extensions to include")
	cmd.Flags().StringVar(&v.HistoryDB, "history-db", "", "path to run history database")
	cmd.Flags().DurationVar(&debounce, "debounce", 2*time.Second, "settle time after the last change before re-splitting")

	return cmd
}

func runWatchSplit(dataDir, outDir string, opts split.Options, historyDB string, debounce time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dataDir); err != nil {
		return fmt.Errorf("watch dir: %w", err)
	}
	// fsnotify is not recursive: watch each class directory too
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return fmt.Errorf("read dataset dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := watcher.Add(filepath.Join(dataDir, e.Name())); err != nil {
				return fmt.Errorf("watch class dir %s: %w", e.Name(), err)
			}
		}
	}

	slog.Info("watching dataset", "dir", dataDir, "debounce", debounce)
	text := reporter.NewTextReporter(os.Stdout, isTerminal())

	resplit := func() {
		start := time.Now()
		report, err := split.SplitDataset(dataDir, outDir, opts)
		if err != nil {
			slog.Error("split failed", "error", err)
			return
		}
		text.PrintSummary(report, false, time.Since(start))
		recordHistory(historyDB, dataDir, outDir, opts, report, start)
	}
	resplit()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	var pending <-chan time.Time
	for {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nstopping watch")
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if err := watcher.Add(ev.Name); err != nil {
						slog.Warn("watch new class dir", "dir", ev.Name, "error", err)
					}
				}
			}
			slog.Debug("dataset changed", "file", ev.Name, "op", ev.Op.String())
			pending = time.After(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)

		case <-pending:
			pending = nil
			resplit()
		}
	}
}
