package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/risor-io/phpsandbox/cache"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Sanitize PHP code, cache it and run it with the PHP interpreter",
		Long: `Run sanitizes the code, stores the result in the cache directory under
a file derived from --token and runs the stored file with the PHP command
line interpreter. Variables given with --var are in scope when the code
runs; the value the code returns is printed as JSON.

Examples:
  phpsandbox run --var name=world -c '<?php return "hello " . $name;'
  phpsandbox run --token report --var 'ids=[1,2,3]' report.php`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			cfg, err := a.policyConfig()
			if err != nil {
				return err
			}
			token, _ := cmd.Flags().GetString("token")
			dir, _ := cmd.Flags().GetString("cache-dir")
			binary, _ := cmd.Flags().GetString("php")
			assignments, _ := cmd.Flags().GetStringArray("var")
			vars, err := parseVars(assignments)
			if err != nil {
				return err
			}

			rt, err := cache.New(token,
				cache.WithDir(dir),
				cache.WithSanitizer(a.sanitizer(cfg, filename, nil)),
				cache.WithExecutor(&cache.PHPExecutor{Binary: binary}),
				cache.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}
			for name, value := range vars {
				rt.Set(name, value)
			}
			result, err := rt.Run(cmd.Context(), source)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result, a.noColor(cmd.OutOrStdout()))
		},
	}
	addInputFlags(cmd)
	cmd.Flags().String("token", "default", "token identifying the cached unit")
	cmd.Flags().String("cache-dir", "", "directory holding cached units (default is the system temp dir)")
	cmd.Flags().String("php", "php", "PHP interpreter binary")
	cmd.Flags().StringArray("var", nil, "variable to set, as name=value; JSON values are decoded")
	return cmd
}

// parseVars turns name=value assignments into variables. Values that are
// valid JSON are decoded; anything else is kept as a string.
func parseVars(assignments []string) (map[string]any, error) {
	vars := make(map[string]any, len(assignments))
	for _, assignment := range assignments {
		name, raw, ok := strings.Cut(assignment, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid variable %q (expected name=value)", assignment)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		vars[name] = value
	}
	return vars, nil
}
