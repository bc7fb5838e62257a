// Package main is the entry point for the art-explorer CLI.
package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	root := NewRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}
