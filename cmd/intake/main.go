// Package main starts the patient intake process lifecycle.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	intakecmd "github.com/louisbranch/carepulse/internal/cmd/intake"
	"github.com/louisbranch/carepulse/internal/platform/config"
)

func main() {
	cfg, err := intakecmd.ParseConfig(flag.CommandLine, os.Args[1:], nil)
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[INTAKE] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Healthcheck {
		if err := intakecmd.Run(ctx, cfg); err != nil {
			config.Exitf("unhealthy: %v", err)
		}
		return
	}
	if err := intakecmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
