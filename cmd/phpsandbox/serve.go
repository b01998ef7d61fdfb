package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/risor-io/phpsandbox/config"
	"github.com/risor-io/phpsandbox/metrics"
	"github.com/risor-io/phpsandbox/policy"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sanitizer over HTTP",
		Long: `Serve starts an HTTP server with the following routes:

  POST /v1/sanitize   {"code": "..."} -> the rewritten code or a violation
  POST /v1/check      {"code": "..."} -> whether the code is allowed
  GET  /healthz       liveness
  GET  /metrics       Prometheus metrics

With --watch, the policy file given by --policy is reloaded whenever it
changes. A reload that fails validation keeps the current policy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			watch, _ := cmd.Flags().GetBool("watch")
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, addr, watch)
		},
	}
	cmd.Flags().String("addr", ":8080", "address to listen on")
	cmd.Flags().Bool("watch", false, "reload the policy file when it changes")
	return cmd
}

func (a *app) serve(ctx context.Context, addr string, watch bool) error {
	collector := metrics.New(nil)
	cfg, err := a.policyConfig()
	if err != nil {
		return err
	}
	srv := newServer(a.sanitizer(cfg, "", collector), collector, a.logger)

	if watch {
		path := a.v.GetString("policy")
		if path == "" {
			return errors.New("--watch requires --policy")
		}
		if path, err = homedir.Expand(path); err != nil {
			return err
		}
		w, err := config.NewWatcher(path,
			config.WithWatchLogger(a.logger),
			config.OnChange(func(cfg policy.Config) {
				srv.setSanitizer(a.sanitizer(a.applyOverrides(cfg), "", collector))
			}),
		)
		if err != nil {
			return err
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				a.logger.Error().Err(err).Msg("policy watcher stopped")
			}
		}()
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", addr).Msg("listening")
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.logger.Info().Msg("shutting down")
	return httpServer.Shutdown(shutdownCtx)
}
