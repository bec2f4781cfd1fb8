// Package cli is the verse-tui command line: the reader itself plus a few
// non-interactive subcommands sharing its configuration and storage.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"verse-tui/internal/api"
	"verse-tui/internal/config"
	"verse-tui/internal/favorites"
	"verse-tui/internal/logging"
	"verse-tui/internal/orchestrator"
	"verse-tui/internal/storage"
	"verse-tui/internal/ui"
)

// Version is set at build time with -ldflags "-X verse-tui/internal/cli.Version=...".
var Version = "dev"

// LogFileName is the reader's log file inside the data directory.
const LogFileName = "verse-tui.log"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	DataDir    string
	APIKey     string
	LogLevel   string
	Storage    string
}

// flagKeys binds global flags to config keys.
var flagKeys = map[string]string{
	"data-dir":  config.KeyDataDir,
	"api-key":   config.KeyAPIKey,
	"log-level": config.KeyLogLevel,
	"storage":   config.KeyStorage,
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// NewRootCommand creates the root command. Without a subcommand it starts
// the reader.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Read the Bible in your terminal",
		Long: `verse-tui browses translations, books, chapters and verses from
API.Bible, shows a verse of the day and keeps a list of favorite verses.

Set the API key with --api-key, VERSE_API_KEY or api_key in the config file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReader(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default: <user config dir>/verse-tui/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "directory for favorites, settings and logs")
	cmd.PersistentFlags().StringVar(&opts.APIKey, "api-key", "", "API.Bible key")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.Storage, "storage", "", "storage backend (sqlite|file|memory)")

	cmd.AddCommand(NewDailyCommand(opts))
	cmd.AddCommand(NewTranslationsCommand(opts))
	cmd.AddCommand(NewFavoritesCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// app is everything a command needs, built from the resolved config.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	kv     storage.Store
	client *api.Client
	favs   *favorites.Store
	orch   *orchestrator.Orchestrator

	closers []io.Closer
}

// loadConfig resolves configuration with the global flags bound over it.
func loadConfig(cmd *cobra.Command, opts *RootOptions) (config.Config, error) {
	v := config.New()
	flags := cmd.Root().PersistentFlags()
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return config.Config{}, fmt.Errorf("bind --%s: %w", name, err)
		}
	}

	cfg, err := config.Load(v, opts.ConfigFile)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newApp wires storage, the API client and the orchestrator. Logs go to
// logOut, or to the log file in the data directory when logOut is nil.
func newApp(cmd *cobra.Command, opts *RootOptions, logOut io.Writer) (*app, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	logCfg := logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}
	if logOut == nil {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(cfg.DataDir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, f)
		logOut = f
	} else {
		logCfg.Color = !color.NoColor
	}
	a.logger = logging.Setup(logCfg, logOut)

	kv, err := storage.Open(cfg.Storage, cfg.DataDir)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage, err)
	}
	a.kv = kv

	a.client = api.NewClient(cfg.APIKey,
		api.WithBaseURL(cfg.BaseURL),
		api.WithDefaultVersion(cfg.DefaultVersion),
		api.WithRecommended(cfg.RecommendedVersions),
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		api.WithLogger(a.logger),
	)
	a.favs = favorites.New(kv, favorites.WithLogger(a.logger))
	a.orch = orchestrator.New(a.client, a.favs, a.logger)

	a.logger.Debug("configured",
		"config_file", cfg.File,
		"data_dir", cfg.DataDir,
		"storage", cfg.Storage,
		"api_key_set", cfg.APIKey != "",
	)
	return a, nil
}

func (a *app) Close() error {
	var err error
	if a.kv != nil {
		err = a.kv.Close()
	}
	for _, c := range a.closers {
		c.Close()
	}
	return err
}

func runReader(cmd *cobra.Command, opts *RootOptions) error {
	a, err := newApp(cmd, opts, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info("starting reader", "version", Version)
	if a.cfg.APIKey == "" {
		a.logger.Warn("no API key configured")
	}

	model := ui.New(a.orch, a.kv, ui.Config{
		Context:        cmd.Context(),
		DefaultVersion: a.cfg.DefaultVersion,
		Theme:          a.cfg.Theme,
		Logger:         a.logger,
	})
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running reader: %w", err)
	}
	return nil
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", config.AppName, Version)
		},
	}
}
