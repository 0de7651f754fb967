// Command finnterm is a terminal client for the Finnhub financial-data
// API: an interactive TUI plus a few one-shot subcommands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"finnterm"
	"finnterm/internal/app"
	"finnterm/internal/config"
	"finnterm/internal/directory"
	"finnterm/internal/feed"
	"finnterm/internal/finnhub"
	"finnterm/internal/market"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// CLI is the top-level command structure for finnterm.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Run     RunCmd           `cmd:"" default:"withargs" help:"Open the interactive finance terminal."`
	Profile ProfileCmd       `cmd:"" help:"Print the company profile for a symbol and exit."`
	Markets MarketsCmd       `cmd:"" help:"List the known exchange codes."`
}

// apiFlags are the credential and endpoint overrides shared by commands.
type apiFlags struct {
	Config    string `help:"Extra config file, applied after the default layers." type:"path"`
	Token     string `help:"Finnhub API token (overrides config)."`
	TokenFile string `help:"File containing the API token." type:"path"`
}

// loadConfig loads layered config from user and project paths, an
// optional extra file, and env overrides, then applies flag overrides.
func loadConfig(f apiFlags) (*config.Config, error) {
	paths := []string{
		os.ExpandEnv("$HOME/.config/finnterm/config.yaml"),
		".finnterm.yaml",
	}
	if f.Config != "" {
		paths = append(paths, f.Config)
	}

	cfg, err := config.LoadLayered(paths...)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if f.Token != "" {
		cfg.API.Token = f.Token
	}
	if f.TokenFile != "" {
		cfg.API.TokenFile = f.TokenFile
	}
	return cfg, nil
}

// newClient resolves the token and builds the API client from config.
func newClient(cfg *config.Config) (*finnhub.Client, error) {
	token, err := cfg.ResolveToken()
	if err != nil {
		return nil, err
	}
	return finnhub.NewClient(token,
		finnhub.WithBaseURL(cfg.API.BaseURL),
		finnhub.WithTimeout(cfg.API.Timeout),
	), nil
}

// loadMarkets reads the exchange listing, letting a user-provided
// exchanges.txt in the config directory override the embedded one.
func loadMarkets() (*market.Set, error) {
	configDir := os.ExpandEnv("$HOME/.config/finnterm")
	return market.Load(finnterm.OverlayFS(configDir, finnterm.Data))
}

// RunCmd opens the interactive TUI.
type RunCmd struct {
	apiFlags
	Market string `help:"Exchange code to start with (overrides config)."`
}

// Run executes the run command.
func (r *RunCmd) Run() error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("run: requires a terminal (TTY)")
	}

	cfg, err := loadConfig(r.apiFlags)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if r.Market != "" {
		cfg.Market.Default = r.Market
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	markets, err := loadMarkets()
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if !markets.Valid(cfg.Market.Default) {
		return fmt.Errorf("run: unknown market %q", cfg.Market.Default)
	}

	client, err := newClient(cfg)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	// Establish the company directory: cached snapshot if present,
	// otherwise one synchronous fetch. If both fail there is nothing
	// to search, so startup aborts.
	cache := directory.NewCache(cfg.Cache.Dir)
	dir, err := establishDirectory(cache, client, cfg.Market.Default, cfg.API.Timeout)
	if err != nil {
		return fmt.Errorf("run: establishing company directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := feed.NewWorker(client, feed.WithLookback(cfg.News.Lookback))
	go worker.Run(ctx)

	m := app.NewModel(app.Config{
		Worker:       worker,
		Markets:      markets,
		Directory:    dir,
		Cache:        cache,
		ActiveMarket: cfg.Market.Default,
		NewsCategory: cfg.News.Category,
	})

	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err = prog.Run()
	return err
}

// establishDirectory loads the cached snapshot for the market, falling
// back to a listing fetch that also seeds the cache.
func establishDirectory(cache *directory.Cache, client *finnhub.Client, mkt string, timeout time.Duration) (*directory.Directory, error) {
	dir, ok, err := cache.Load(mkt)
	if err != nil {
		return nil, err
	}
	if ok {
		return dir, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	symbols, err := client.StockSymbols(ctx, mkt)
	if err != nil {
		return nil, err
	}
	entries := make([]directory.Entry, 0, len(symbols))
	for _, s := range symbols {
		entries = append(entries, directory.Entry{
			Symbol:      s.DisplaySymbol,
			Description: s.Description,
		})
	}
	dir = directory.New(entries)

	if err := cache.Save(mkt, dir); err != nil {
		return nil, err
	}
	return dir, nil
}

// ProfileCmd prints one company profile without entering the TUI.
type ProfileCmd struct {
	apiFlags
	Symbol string `arg:"" help:"Ticker symbol, e.g. AAPL."`
}

// Run executes the profile command.
func (p *ProfileCmd) Run() error {
	cfg, err := loadConfig(p.apiFlags)
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}

	client, err := newClient(cfg)
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	prof, err := client.CompanyProfile(ctx, p.Symbol)
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	fmt.Println(finnhub.FormatProfile(prof))
	return nil
}

// MarketsCmd lists the exchange codes accepted by market selection.
type MarketsCmd struct{}

// Run executes the markets command.
func (m *MarketsCmd) Run() error {
	markets, err := loadMarkets()
	if err != nil {
		return fmt.Errorf("markets: %w", err)
	}
	for _, code := range markets.Codes() {
		fmt.Println(code)
	}
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli, kong.Vars{"version": version + " " + commit + " " + date})
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
