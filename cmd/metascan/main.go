package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/metascan"
	"github.com/fwojciec/metascan/fs"
	mhttp "github.com/fwojciec/metascan/http"
	"github.com/fwojciec/metascan/rod"
	mslog "github.com/fwojciec/metascan/slog"
	"github.com/fwojciec/metascan/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when --db is not given. Set before calling Run().
	DBPath string

	// Config file read when --config is not given.
	ConfigPath string

	// Stdin is read by "scan --file -".
	Stdin io.Reader

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Fetcher overrides the transport selected by flags, for end-to-end testing.
	Fetcher metascan.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:     defaultDBPath(),
		ConfigPath: defaultConfigPath(),
		Stdin:      os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	configPath, explicit := configPathFromArgs(args)
	if configPath == "" {
		configPath = m.ConfigPath
	}
	if explicit {
		if _, err := os.Stat(configPath); err != nil {
			return fmt.Errorf("config file %q: %w", configPath, err)
		}
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("metascan"),
		kong.Description("Extract page type, geo tags, JSON-LD and speakable data from web pages."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{"proxy_base": metascan.DefaultProxyBase},
		kong.Configuration(YAMLConfig, configPath),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'metascan --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.Verbose)

	dbPath := cli.DB
	if dbPath == "" {
		dbPath = m.DBPath
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set METASCAN_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	deps.Runs = mslog.NewLoggingRunService(sqlite.NewRunService(m.DB), deps.Logger)
	switch cli.Store {
	case storeFile:
		deps.Inputs = fs.NewInputStore(filepath.Dir(dbPath))
	default:
		deps.Inputs = sqlite.NewInputStore(m.DB)
	}

	var opts *ScanOptions
	switch kongCtx.Selected().Name {
	case "scan":
		opts = &cli.Scan.ScanOptions
	case "serve":
		opts = &cli.Serve.ScanOptions
	}
	if opts != nil {
		fetcher := m.Fetcher
		if fetcher == nil {
			if fetcher, err = newFetcher(opts); err != nil {
				if opts.Mode == string(metascan.ModeBrowser) {
					fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for browser mode")
				}
				return err
			}
			defer fetcher.Close()
		}
		deps.Fetcher = mslog.NewLoggingFetcher(fetcher, deps.Logger)
	}

	return kongCtx.Run(deps)
}

// newFetcher builds the transport selected by opts.
func newFetcher(opts *ScanOptions) (metascan.Fetcher, error) {
	mode, err := metascan.ParseMode(opts.Mode)
	if err != nil {
		return nil, err
	}

	switch mode {
	case metascan.ModeBrowser:
		f, err := rod.NewFetcher(rod.WithFetchTimeout(opts.Timeout))
		if err != nil {
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return f, nil
	case metascan.ModeProxy:
		return mhttp.NewFetcher(mhttp.WithTimeout(opts.Timeout), mhttp.WithProxy(opts.ProxyBase)), nil
	default:
		return mhttp.NewFetcher(mhttp.WithTimeout(opts.Timeout)), nil
	}
}

// newLogger logs to w when verbose and discards otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func stateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".metascan")
}

func defaultDBPath() string {
	dir := stateDir()
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "metascan.db")
}

func defaultConfigPath() string {
	return filepath.Join(stateDir(), "config.yaml")
}
