package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"sclsld/pkg/config"
	"sclsld/pkg/engine"
	"sclsld/pkg/logging"
	"sclsld/pkg/metrics"
)

func newServeCmd() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve <path>",
		Short: "Load and build a plan once, then serve its plan-json and metrics over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if metricsAddr == "" {
				metricsAddr = fmt.Sprintf("%s:%d", cfg.Metrics.Address, cfg.Metrics.Port)
			}

			registry := metrics.NewRegistry()
			session := engine.NewSession(cfg, registry)

			if err := session.Load(args[0]); err != nil {
				return err
			}
			if err := session.Build(); err != nil {
				return err
			}

			return runServer(metricsAddr, session)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address to serve /metrics and /plan on (default: metrics.address:metrics.port from config)")
	return cmd
}

func runServer(addr string, session *engine.Session) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(session.MetricsRegistry().GetPrometheusRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/plan", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, session.PlanJSON())
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("serving plan and metrics", map[string]interface{}{"addr": addr})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logging.Info("received shutdown signal", map[string]interface{}{"signal": sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
