package main

import (
	"fmt"

	"github.com/fwojciec/metascan"
	"github.com/fwojciec/metascan/gin"
	"github.com/fwojciec/metascan/prometheus"
	mslog "github.com/fwojciec/metascan/slog"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	metrics := prometheus.NewMetrics()

	scanDeps := *deps
	scanDeps.Fetcher = prometheus.NewFetcher(deps.Fetcher, metrics)

	scanner, err := c.newScanner(&scanDeps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", metascan.ErrorMessage(err))
		return err
	}

	srv := &gin.Server{
		Runner:  prometheus.NewRunner(mslog.NewLoggingRunner(scanner, deps.Logger), metrics),
		Inputs:  deps.Inputs,
		Runs:    deps.Runs,
		Metrics: metrics,
		Logger:  deps.Logger,
		Variant: metascan.Variant(c.Variant),
		Mode:    metascan.Mode(c.Mode),
	}

	fmt.Fprintf(deps.Stdout, "Listening on %s\n", c.Addr)
	return srv.ListenAndServe(deps.Ctx, c.Addr)
}
