package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/risor-io/phpsandbox"
	"github.com/risor-io/phpsandbox/config"
	"github.com/risor-io/phpsandbox/errz"
	"github.com/risor-io/phpsandbox/metrics"
	"github.com/risor-io/phpsandbox/policy"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds the state shared by the commands of one invocation.
type app struct {
	v      *viper.Viper
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "phpsandbox",
		Short: "Sanitize untrusted PHP against an allow-list policy",
		Long: `phpsandbox parses PHP source, checks every function call, class
reference and declaration against an allow-list policy and prints the
rewritten source. Code that breaks the policy is rejected with the first
violation found; it is never executed by the sanitizer.

Examples:
  # Check a file against the default policy
  phpsandbox check script.php

  # Sanitize code from stdin under a namespace root
  echo '<?php namespace App; return 1;' | phpsandbox sanitize --stdin --namespace-root App

  # Serve the sanitizer over HTTP, reloading the policy when it changes
  phpsandbox serve --policy policy.yaml --watch`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.phpsandbox.yaml)")
	flags.String("policy", "", "policy file (YAML)")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.Bool("restrict-global", false, "forbid functions and constants in the global namespace")
	flags.String("namespace-root", "", "namespace every namespace declaration must fall under")
	_ = a.v.BindPFlags(flags)

	cmd.AddCommand(
		newCheckCmd(a),
		newSanitizeCmd(a),
		newRunCmd(a),
		newServeCmd(a),
		newASTCmd(a),
	)
	return cmd
}

// setup reads the config file and environment and sets up logging.
func (a *app) setup(cmd *cobra.Command) error {
	v := a.v
	if cfgFile := v.GetString("config"); cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			return err
		}
		v.SetConfigFile(path)
	} else if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(".phpsandbox")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("phpsandbox")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	if v.GetBool("no-color") {
		color.NoColor = true
	}
	level, err := zerolog.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level %q", v.GetString("log-level"))
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     cmd.ErrOrStderr(),
		NoColor: color.NoColor,
	}).Level(level).With().Timestamp().Logger()
	return nil
}

// policyConfig loads the policy file, if any, and applies the flag
// overrides on top of it.
func (a *app) policyConfig() (policy.Config, error) {
	var cfg policy.Config
	if path := a.v.GetString("policy"); path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return cfg, err
		}
		if cfg, err = config.LoadPolicyFile(expanded); err != nil {
			return cfg, err
		}
	}
	return a.applyOverrides(cfg), nil
}

func (a *app) applyOverrides(cfg policy.Config) policy.Config {
	if a.v.GetBool("restrict-global") {
		cfg.RestrictGlobalNamespaceDeclarations = true
	}
	if root := a.v.GetString("namespace-root"); root != "" {
		cfg.RequiredNamespaceRoot = root
	}
	return cfg
}

func (a *app) sanitizer(cfg policy.Config, filename string, c *metrics.Collector) *phpsandbox.Sanitizer {
	return phpsandbox.New(
		phpsandbox.WithConfig(cfg),
		phpsandbox.WithLogger(a.logger),
		phpsandbox.WithFilename(filename),
		phpsandbox.WithMetrics(c),
	)
}

func (a *app) noColor(w io.Writer) bool {
	return color.NoColor || a.v.GetBool("no-color") || !isTerminal(w)
}

// exitCode maps an error to the process exit status: 1 for rejected code
// and 2 for everything else.
func exitCode(err error) int {
	if _, ok := errz.AsViolation(err); ok || errz.IsParseFailure(err) {
		return 1
	}
	return 2
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminalFd(f.Fd())
}
