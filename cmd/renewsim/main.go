package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"renewable_simulator/internal/config"
	"renewable_simulator/internal/simulator"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath string
	format     string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:          "renewsim",
		Short:        "Simulate wind and solar investments from production to cash flow",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file with engine defaults")
	rootCmd.PersistentFlags().StringVarP(&opts.format, "format", "f", "text", "output format: text or json")

	rootCmd.AddCommand(windCmd(opts))
	rootCmd.AddCommand(solarCmd(opts))
	rootCmd.AddCommand(optimizeCmd(opts))
	rootCmd.AddCommand(reportCmd(opts))
	return rootCmd
}

func (o *options) engine(extra ...simulator.Option) (*simulator.Engine, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	return simulator.New(cfg.Engine, append([]simulator.Option{simulator.WithWorkers(cfg.Server.Workers)}, extra...)...), nil
}

func windCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "wind [scenario.yaml]",
		Short: "Simulate the wind turbine described in a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			if sc.Wind == nil {
				return fmt.Errorf("%s: no wind section", args[0])
			}
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			res, err := engine.SimulateWind(cmd.Context(), *sc.Wind)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), opts.format, sc.title(), res)
		},
	}
}

func solarCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "solar [scenario.yaml]",
		Short: "Simulate the PV system described in a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			if sc.Solar == nil {
				return fmt.Errorf("%s: no solar section", args[0])
			}
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			res, err := engine.SimulateSolar(cmd.Context(), *sc.Solar)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), opts.format, sc.title(), res)
		},
	}
}

func optimizeCmd(opts *options) *cobra.Command {
	var progress bool

	cmd := &cobra.Command{
		Use:   "optimize [scenario.yaml]",
		Short: "Sweep tilt and azimuth for the PV system in a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			if sc.Solar == nil {
				return fmt.Errorf("%s: no solar section", args[0])
			}
			grid := simulator.DefaultGrid()
			if sc.Grid != nil {
				grid = *sc.Grid
			}

			var extra []simulator.Option
			if progress {
				extra = append(extra, simulator.WithObserver(progressPrinter(cmd.ErrOrStderr())))
			}
			engine, err := opts.engine(extra...)
			if err != nil {
				return err
			}
			res, err := engine.Optimize(cmd.Context(), *sc.Solar, grid)
			if err != nil {
				return err
			}
			return writeOptimization(cmd.OutOrStdout(), opts.format, res)
		},
	}

	cmd.Flags().BoolVar(&progress, "progress", false, "print each evaluated candidate to stderr")
	return cmd
}

func reportCmd(opts *options) *cobra.Command {
	var html bool

	cmd := &cobra.Command{
		Use:   "report [scenario.yaml]",
		Short: "Simulate a scenario file and write a Markdown investment report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			res, err := sc.simulate(cmd.Context(), engine)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), sc.title(), res, html)
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "render the report as HTML")
	return cmd
}

func progressPrinter(w io.Writer) simulator.Observer {
	return simulator.ObserverFunc(func(p simulator.Progress) {
		fmt.Fprintf(w, "[%d/%d] tilt %.0f° azimuth %.0f° NPV %.2f EUR\n",
			p.Done, p.Total, p.Candidate.TiltDeg, p.Candidate.AzimuthDeg, p.Candidate.NPVEUR)
	})
}
