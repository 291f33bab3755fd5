// variantctl validates, describes, and runs YAML machine definitions.
//
// Usage:
//
//	variantctl validate examples/defs/tristate.yaml
//	variantctl describe examples/defs/tristate.yaml high
//	variantctl run examples/defs/tristate.yaml --steps 3
//	variantctl run examples/defs/tristate.yaml --events toggle,toggle
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comalice/variantx/config"
	"github.com/comalice/variantx/persist"
)

var (
	runSteps    int
	runEvents   string
	snapshotDir string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:           "variantctl",
	Short:         "Inspect and drive variant machine definitions",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var validateCmd = &cobra.Command{
	Use:   "validate <definition.yaml>",
	Short: "Parse and validate a machine definition",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var describeCmd = &cobra.Command{
	Use:   "describe <definition.yaml> [variant]",
	Short: "Print the describe table, or a single variant's description",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runDescribe,
}

var runCmd = &cobra.Command{
	Use:   "run <definition.yaml>",
	Short: "Compile a definition and drive its machine",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func main() {
	runCmd.Flags().IntVar(&runSteps, "steps", 0, "advance the successor table N times")
	runCmd.Flags().StringVar(&runEvents, "events", "", "comma-separated events to send in order")
	runCmd.Flags().StringVar(&snapshotDir, "snapshot-dir", "", "write a JSON snapshot of the final state here")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "structured transition logging")
	rootCmd.AddCommand(validateCmd, describeCmd, runCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	d, err := config.Load(args[0])
	if err != nil {
		return err
	}
	if _, err := d.Compile(); err != nil {
		return err
	}
	fmt.Printf("%s: ok (%d variants, %d transitions)\n", d.Name, len(d.Variants), len(d.Transitions))
	return nil
}

func runDescribe(cmd *cobra.Command, args []string) error {
	d, err := config.Load(args[0])
	if err != nil {
		return err
	}
	chart, err := d.Compile()
	if err != nil {
		return err
	}
	if chart.Describe == nil {
		return fmt.Errorf("%s has no describe table", d.Name)
	}

	if len(args) == 2 {
		out, err := chart.Describe.Dispatch(args[1])
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	for _, v := range chart.Set.Variants() {
		out, err := chart.Describe.Dispatch(v)
		if err != nil {
			return err
		}
		fmt.Printf("%-12s %s\n", v, out)
	}
	return nil
}

func runRun(cmd *cobra.Command, args []string) error {
	d, err := config.Load(args[0])
	if err != nil {
		return err
	}
	chart, err := d.Compile()
	if err != nil {
		return err
	}

	var logger *zap.Logger
	if verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()
	}

	m := chart.Machine
	printState := func(label string) {
		fmt.Printf("%-8s %s\n", label, m.Current().Tag())
	}
	printState("start")

	for i := 0; i < runSteps; i++ {
		from := m.Current().Tag()
		v, err := m.Step()
		if err != nil {
			return err
		}
		if logger != nil {
			logger.Info("step", zap.String("from", from), zap.String("to", v.Tag()))
		}
		printState("step")
	}

	if runEvents != "" {
		for _, event := range strings.Split(runEvents, ",") {
			event = strings.TrimSpace(event)
			if event == "" {
				continue
			}
			from := m.Current().Tag()
			v, err := m.Send(event)
			if err != nil {
				return err
			}
			if logger != nil {
				logger.Info("event",
					zap.String("event", event),
					zap.String("from", from),
					zap.String("to", v.Tag()))
			}
			printState(event)
		}
	}

	if snapshotDir != "" {
		p, err := persist.NewJSONPersister(snapshotDir)
		if err != nil {
			return err
		}
		snap := persist.Snapshot{
			Machine: d.Name,
			Variant: m.Current().Tag(),
			TakenAt: time.Now().UTC(),
		}
		if payload, ok := m.Current().Payload(); ok {
			snap.Payload = payload
		}
		if err := p.Save(cmd.Context(), snap); err != nil {
			return err
		}
		fmt.Printf("snapshot written to %s/%s.json\n", snapshotDir, d.Name)
	}
	return nil
}
