package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	phperrors "github.com/risor-io/phpsandbox/errors"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, phperrors.Render(err, !color.NoColor && isTerminal(os.Stderr)))
		os.Exit(exitCode(err))
	}
}
