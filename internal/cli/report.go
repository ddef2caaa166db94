package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/splitforge/internal/metrics"
)

func newReportCmd() *cobra.Command {
	var (
		trueFile string
		predFile string
		classes  []string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Score predictions against ground-truth labels",
		Long:  "Report compares two label files (one label per line) and prints a confusion matrix and per-class precision/recall/F1.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if trueFile == "" || predFile == "" {
				return fmt.Errorf("--true and --pred are required")
			}
			trueLabels, err := metrics.ReadLabels(trueFile)
			if err != nil {
				return err
			}
			predLabels, err := metrics.ReadLabels(predFile)
			if err != nil {
				return err
			}

			var classNames []string
			if len(classes) > 0 {
				classNames = classes
			}
			ev, err := metrics.Evaluate(trueLabels, predLabels, classNames)
			if err != nil {
				return err
			}

			if asJSON {
				data, err := json.MarshalIndent(ev, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal evaluation: %w", err)
				}
				fmt.Fprintln(os.Stdout, string(data))
				return nil
			}

			metrics.WriteText(os.Stdout, ev, isTerminal())
			return nil
		},
	}

	cmd.Flags().StringVar(&trueFile, "true", "", "file with ground-truth labels")
	cmd.Flags().StringVar(&predFile, "pred", "", "file with predicted labels")
	cmd.Flags().StringSliceVar(&classes, "classes", nil, "fixed class order (default: sorted union of observed labels)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the evaluation as JSON")

	return cmd
}
