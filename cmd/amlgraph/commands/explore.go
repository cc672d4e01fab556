package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DrSkyle/amlgraph/pkg/engine"
	"github.com/DrSkyle/amlgraph/pkg/interaction"
	"github.com/DrSkyle/amlgraph/pkg/metrics"
	"github.com/DrSkyle/amlgraph/pkg/tui"
)

var exploreCmd = &cobra.Command{
	Use:   "explore <payload>",
	Short: "Explore a network in the terminal",
	Long: `Builds the graph and opens the interactive explorer. Press tab for a
fullscreen view with its own selection and ? for key bindings.

Example:
  amlgraph explore network.json
  amlgraph explore s3://cases/case-42.yaml --metrics-addr :9102`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		center, _ := cmd.Flags().GetString("center")
		logFile, _ := cmd.Flags().GetString("log-file")
		addr, _ := cmd.Flags().GetString("metrics-addr")

		// The screen belongs to the TUI; logs go to a file or nowhere.
		var sink io.Writer = io.Discard
		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			sink = f
		}
		logger = engine.NewLogger(sink, viper.GetBool("log-json"), logLevel())

		reg := prometheus.NewRegistry()
		m := metrics.New(reg)
		if addr != "" {
			srv := serveMetrics(addr, reg)
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = srv.Shutdown(ctx)
			}()
		}

		p, err := newPipeline(m)
		if err != nil {
			return err
		}
		opts := sourceOptions()
		auditRead(cmd.Context(), args[0], opts)
		res, err := p.Load(cmd.Context(), args[0], center, opts)
		if err != nil && !errors.Is(err, engine.ErrPartialResult) {
			return err
		}

		model, err := tui.NewModel(res, cfg,
			interaction.WithLogger(logger),
			interaction.WithMetrics(m),
		)
		if err != nil {
			return err
		}
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("explorer failed: %w", err)
		}
		return nil
	},
}

func init() {
	exploreCmd.Flags().String("center", "", "Entity id to mark as the investigation root")
	exploreCmd.Flags().String("log-file", "", "Write logs to this file while the explorer runs")
	exploreCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address")
}

func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "addr", addr, "error", err)
		}
	}()
	return srv
}
