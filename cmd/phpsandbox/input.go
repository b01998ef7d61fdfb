package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// addInputFlags registers the flags that select where source is read from.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "code to process")
	cmd.Flags().Bool("stdin", false, "read code from stdin")
}

// readSource returns the source selected by --code, --stdin or the file
// argument, along with the filename to report it under.
func readSource(cmd *cobra.Command, args []string) (string, string, error) {
	code, _ := cmd.Flags().GetString("code")
	stdin, _ := cmd.Flags().GetBool("stdin")

	sources := 0
	if code != "" {
		sources++
	}
	if stdin {
		sources++
	}
	if len(args) > 0 {
		sources++
	}
	switch {
	case sources > 1:
		return "", "", errors.New("multiple input sources specified")
	case code != "":
		return code, "", nil
	case stdin:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "stdin", nil
	case len(args) > 0:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	default:
		return "", "", errors.New("no input provided (use a file argument, --code or --stdin)")
	}
}
