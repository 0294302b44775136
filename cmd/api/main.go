// Package main is the entry point for the gift catalog API server.
// Its sole responsibility is wiring dependencies together and running the
// selected command. No business logic belongs here.
package main

import (
	"log/slog"
	"os"

	"github.com/pkordes/gift-catalog/internal/config"
)

func main() {
	if err := newRootCmd(config.New()).Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
