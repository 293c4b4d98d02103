package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

var logOutput io.Writer = os.Stderr

// logger writes progress messages, one per line, when verbose output is on.
type logger bool

func (l logger) Logf(format string, a ...interface{}) {
	if !l {
		return
	}
	fmt.Fprintln(logOutput, strings.TrimRight(fmt.Sprintf(format, a...), "\n"))
}
