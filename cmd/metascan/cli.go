package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/metascan"
	"github.com/fwojciec/metascan/goquery"
	"github.com/fwojciec/metascan/scan"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Inputs  metascan.InputStore
	Runs    metascan.RunService
	Fetcher metascan.Fetcher
}

// Input store backends.
const (
	storeSQLite = "sqlite"
	storeFile   = "file"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `help:"Database path" env:"METASCAN_DB" type:"path"`
	Config  string `help:"YAML config file with flag defaults" type:"path"`
	Store   string `help:"Where the last input is saved" enum:"sqlite,file" default:"sqlite"`
	Verbose bool   `short:"v" help:"Log operations to stderr"`

	Scan    ScanCmd    `cmd:"" help:"Scan URLs and print extracted metadata"`
	History HistoryCmd `cmd:"" help:"List saved runs"`
	Show    ShowCmd    `cmd:"" help:"Print a saved run"`
	Serve   ServeCmd   `cmd:"" help:"Serve the HTTP API"`
}

// ScanOptions configures the extraction pipeline. Shared by scan and serve.
type ScanOptions struct {
	Mode        string        `short:"m" help:"Transport: direct, proxy or browser" enum:"direct,proxy,browser" default:"direct"`
	ProxyBase   string        `help:"Relay prefixed to URLs in proxy mode" env:"METASCAN_PROXY" default:"${proxy_base}"`
	Variant     string        `help:"Classification rules: app or nutrition" enum:"app,nutrition" default:"app"`
	Timeout     time.Duration `help:"Per-page fetch timeout" default:"10s"`
	Concurrency int           `short:"c" help:"Concurrent fetch limit (0 = unbounded)" default:"0"`
	Retries     int           `help:"Retries for network and server errors" default:"0"`
	RPS         float64       `name:"rps" help:"Requests per second per host (0 = unlimited)" default:"0"`
	WWWDomains  []string      `name:"www-domains" help:"Domains whose hosts are normalized to www." default:"purina.com"`
}

// newScanner builds a Scanner for the options over deps.Fetcher.
func (o *ScanOptions) newScanner(deps *Dependencies) (*scan.Scanner, error) {
	variant, err := metascan.ParseVariant(o.Variant)
	if err != nil {
		return nil, err
	}
	if o.Retries < 0 {
		return nil, metascan.Errorf(metascan.EINVALID, "retries must not be negative, got %d", o.Retries)
	}

	s := &scan.Scanner{
		Fetcher:     deps.Fetcher,
		Parser:      goquery.NewParser(),
		Classifier:  metascan.ClassifierFor(variant),
		Normalizer:  &metascan.Normalizer{WWWDomains: o.WWWDomains},
		Concurrency: o.Concurrency,
		RetryDelays: scan.DefaultRetryDelays(o.Retries),
		Logger:      deps.Logger,
	}
	if o.RPS > 0 {
		s.RateLimiter = scan.NewDomainLimiter(o.RPS)
	}
	return s, nil
}

// ScanCmd is the "scan" subcommand.
type ScanCmd struct {
	URLs   []string `arg:"" optional:"" name:"url" help:"URLs to scan (default: last saved input)"`
	File   string   `short:"f" help:"Read newline-separated URLs from a file ('-' for stdin)"`
	JSON   bool     `name:"json" help:"Print the result as JSON"`
	NoSave bool     `help:"Do not save the input or the run"`

	ScanOptions `embed:""`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Limit   int    `short:"n" help:"Maximum runs to list" default:"20"`
	Variant string `help:"Only list runs of this variant (app or nutrition)"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID   string `arg:"" help:"Run ID"`
	JSON bool   `name:"json" help:"Print the result as JSON"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"Listen address" default:":8080"`

	ScanOptions `embed:""`
}
