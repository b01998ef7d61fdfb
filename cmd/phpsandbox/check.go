package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Check PHP code against the policy",
		Long: `Check parses the code and walks it under the policy without printing
the rewrite. It exits with status 0 when the code is allowed and prints the
first violation otherwise.`,
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
			if err := a.sanitizer(cfg, filename, nil).Check(cmd.Context(), source); err != nil {
				return err
			}
			name := filename
			if name == "" {
				name = "code"
			}
			ok := color.New(color.FgGreen).SprintFunc()
			if a.noColor(cmd.OutOrStdout()) {
				ok = fmt.Sprint
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, ok("ok"))
			return nil
		},
	}
	addInputFlags(cmd)
	return cmd
}

func newSanitizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sanitize [file]",
		Short: "Print the policy-compliant rewrite of PHP code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			cfg, err := a.policyConfig()
			if err != nil {
				return err
			}
			out, err := a.sanitizer(cfg, filename, nil).Sanitize(cmd.Context(), source)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	addInputFlags(cmd)
	return cmd
}
