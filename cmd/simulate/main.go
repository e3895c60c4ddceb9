// Command simulate runs a state space model simulation described by a YAML
// configuration file and prints the observations as CSV.
//
// Usage:
//
//	simulate --config sim.yaml
//	simulate --config sim.yaml --log-level debug --metrics
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/hammal/systems/config"
	"github.com/hammal/systems/simulate"
)

var (
	configPath   string
	logLevel     string
	printMetrics bool

	rootCmd = &cobra.Command{
		Use:          "simulate",
		Short:        "Simulate a state space model and print its observations",
		SilenceUsage: true,
		RunE:         run,
	}
)

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the YAML configuration (defaults are used if empty)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&printMetrics, "metrics", false, "print metrics to stderr when done")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	sim, err := newSimulator(cfg, logger, reg)
	if err != nil {
		return err
	}
	if err := sim.Run(ctx); err != nil {
		return err
	}
	if err := writeCSV(cmd.OutOrStdout(), sim); err != nil {
		return err
	}
	if printMetrics {
		return writeMetrics(cmd.ErrOrStderr(), reg)
	}
	return nil
}

func newSimulator(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*simulate.Simulator, error) {
	model, err := cfg.NewModel()
	if err != nil {
		return nil, err
	}
	metrics, err := simulate.NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	opts := []simulate.Option{
		simulate.WithLogger(logger),
		simulate.WithMetrics(metrics),
		simulate.WithIntegrator(cfg.NewIntegrator()),
	}
	if len(cfg.Model.InitialState) > 0 {
		opts = append(opts, simulate.WithInitialState(cfg.Model.InitialState...))
	}
	return simulate.New(model, cfg.SimulatorConfig(), opts...)
}

func writeCSV(w io.Writer, sim *simulate.Simulator) error {
	obs := sim.Observations()
	stamps := sim.TimeStamps()
	if len(obs) == 0 {
		return nil
	}
	cw := csv.NewWriter(w)
	header := []string{"t"}
	for i := range obs[0] {
		header = append(header, "y"+strconv.Itoa(i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, 0, len(header))
	for i, y := range obs {
		row = append(row[:0], strconv.FormatFloat(stamps[i], 'g', -1, 64))
		for _, v := range y {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
