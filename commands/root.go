package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"restaurant-catalog/config"
	"restaurant-catalog/metrics"
	"restaurant-catalog/utils"
)

// stdoutReserved marks commands that print tables on stdout; their logs go
// to stderr instead.
const stdoutReserved = "stdout-reserved"

var (
	cfg      *config.Config
	logger   *utils.Logger
	registry *metrics.Registry
)

var rootCmd = &cobra.Command{
	Use:           "catalog",
	Short:         "catalog scrapes a restaurant directory into a relational store and browses it.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		applyFlags(cmd)
		if cmd.Annotations[stdoutReserved] == "true" {
			logger = utils.NewLoggerTo(os.Stderr)
		} else {
			logger = utils.NewLogger()
		}
		logger.SetDebug(cfg.LogDebug)
		registry = metrics.NewRegistry()

		if cfg.MetricsAddr != "" {
			serveMetrics(cmd.Context(), cfg.MetricsAddr)
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("driver", "", "Store driver: sqlite or postgres (DB_DRIVER).")
	pf.String("db", "", "SQLite database file (DB_PATH).")
	pf.String("output", "", "Intermediate JSON file (OUTPUT_PATH).")
	pf.String("metrics-addr", "", "Serve prometheus metrics on this address, e.g. :9090 (METRICS_ADDR).")
	pf.Bool("debug", false, "Enable debug logging (LOG_DEBUG).")
}

// applyFlags lets explicitly set flags override the environment.
func applyFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("driver") {
		driver, _ := f.GetString("driver")
		cfg.DBDriver = config.NormaliseDriver(driver)
	}
	if f.Changed("db") {
		cfg.DBPath, _ = f.GetString("db")
	}
	if f.Changed("output") {
		cfg.OutputPath, _ = f.GetString("output")
	}
	if f.Changed("metrics-addr") {
		cfg.MetricsAddr, _ = f.GetString("metrics-addr")
	}
	if f.Changed("debug") {
		cfg.LogDebug, _ = f.GetBool("debug")
	}
}

func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", registry.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("[metrics] Serving on %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("[metrics] %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

// ExecuteContext runs the command line against c. The caller decides the
// exit code.
func ExecuteContext(ctx context.Context, c *config.Config) error {
	cfg = c
	return rootCmd.ExecuteContext(ctx)
}
