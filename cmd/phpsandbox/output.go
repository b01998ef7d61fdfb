package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
)

func isTerminalFd(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// writeJSON prints value as indented JSON, colored when noColor is false.
func writeJSON(w io.Writer, value any, noColor bool) error {
	var (
		data []byte
		err  error
	)
	if noColor {
		data, err = json.MarshalIndent(value, "", "  ")
	} else {
		data, err = prettyjson.Marshal(value)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
