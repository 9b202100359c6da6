package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/cinelab/cine/internal/api"
	"github.com/cinelab/cine/internal/config"
	"github.com/cinelab/cine/internal/debuglog"
	"github.com/cinelab/cine/internal/devserver"
	"github.com/cinelab/cine/internal/storage"
	"github.com/cinelab/cine/internal/tui"
)

// Version is set at build time.
var Version = "dev"

var (
	flagConfigPath string
	flagBaseURL    string
	flagDBPath     string
	flagLogLevel   string
	flagQuiet      bool
)

func main() {
	root := &cobra.Command{
		Use:   "cine",
		Short: "Movie discovery in your terminal",
		Long:  "cine searches a movie catalog as you type and builds a recommendation feed around whatever you pick.",
		RunE:  runTUI,
	}

	root.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to configuration file")
	root.Flags().StringVar(&flagBaseURL, "api", "", "backend base URL (overrides config)")
	root.Flags().StringVar(&flagDBPath, "db", "", "path to watchlist database (overrides config)")
	root.Flags().StringVar(&flagLogLevel, "log-level", "", "debug log level: off, error, warn, info, debug")
	root.Flags().BoolVar(&flagQuiet, "quiet", false, "skip startup banner")

	root.AddCommand(serveCmd(), configCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return err
	}

	if flagBaseURL != "" {
		cfg.API.BaseURL = flagBaseURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	level := debuglog.ParseLogLevel(cfg.Log.Level)
	if err := debuglog.Setup(level, cfg.Log.Path); err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer debuglog.Close()

	if !flagQuiet {
		tui.ShowBanner(Version)
	}

	store, err := storage.NewStore(cfg.Storage.Path, cfg.Storage.Timeout)
	if err != nil {
		return fmt.Errorf("opening watchlist database: %w", err)
	}
	defer store.Close()

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)

	app := tui.NewApp(client, store, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development backend",
		Long:  "Starts an HTTP server implementing the catalog API against a small built-in dataset.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfigPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Serve.Addr = addr
			}

			catalog := devserver.NewCatalog()
			srv := devserver.New(cfg, catalog)

			fmt.Printf("cine dev backend listening on %s\n", cfg.Serve.Addr)
			return srv.Run(cfg.Serve.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flagConfigPath
			if path == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				path = filepath.Join(home, ".config", "cine", "config.toml")
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config already exists at %s", path)
			}
			if err := config.GenerateDefaultConfig(path); err != nil {
				return err
			}
			fmt.Printf("Generated default configuration at: %s\n", path)
			return nil
		},
	})

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cine %s\n", Version)
			fmt.Println("movie discovery TUI")
			fmt.Println("github.com/cinelab/cine")
		},
	}
}
