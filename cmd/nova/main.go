package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/oriys/nova/internal/config"
	"github.com/oriys/nova/internal/logging"
	"github.com/oriys/nova/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	configFile string
	pgDSN      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nova",
		Short: "Nova - transactional resource pool allocator",
		Long:  "A CLI for growing, inspecting, and allocating from transactional resource pools (IP addresses, VNIs, and other discrete allocatable values) backed by Postgres.",
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (optional, flags override)")
	rootCmd.PersistentFlags().StringVar(&pgDSN, "pg-dsn", "", "Postgres DSN")

	rootCmd.AddCommand(
		poolCmd(),
		metricsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	var cfg *config.Config
	if configFile != "" {
		var err error
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			logging.Op().Error("failed to load config file, falling back to defaults", "path", configFile, "error", err)
			cfg = config.DefaultConfig()
		}
	} else {
		cfg = config.DefaultConfig()
	}
	config.LoadFromEnv(cfg)
	logging.InitStructured(cfg.Observability.Logging.Format, cfg.Observability.Logging.Level)
	return cfg
}

// metricsCmd serves /metrics over HTTP until interrupted. The registry is
// local to this process: the pool subcommands run as separate processes and
// do not initialise metrics, so the resource pool counters and gauges served
// here carry no samples from them.
func metricsCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Serve Prometheus metrics for the resource pool allocator",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			metrics.InitPrometheus(cfg.Observability.Metrics.Namespace)

			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.PrometheusHandler())

			logging.Op().Info("serving prometheus metrics", "addr", addr)
			return http.ListenAndServe(addr, mux)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":9091", "address to serve /metrics on")
	return cmd
}
