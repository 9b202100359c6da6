package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API             APIConfig     `mapstructure:"api"`
	Search          SearchConfig  `mapstructure:"search"`
	Recommendations RecsConfig    `mapstructure:"recommendations"`
	Storage         StorageConfig `mapstructure:"storage"`
	Serve           ServeConfig   `mapstructure:"serve"`
	Log             LogConfig     `mapstructure:"log"`
	UI              UIConfig      `mapstructure:"ui"`
	Keys            KeyConfig     `mapstructure:"keys"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SearchConfig struct {
	Debounce  time.Duration `mapstructure:"debounce"`
	BlurGrace time.Duration `mapstructure:"blur_grace"`
	MinChars  int           `mapstructure:"min_chars"`
	Limit     int           `mapstructure:"limit"`
}

type RecsConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type StorageConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ServeConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

type UIConfig struct {
	Colors   UIColors       `mapstructure:"colors"`
	Overview OverviewConfig `mapstructure:"overview"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

type OverviewConfig struct {
	MaxDescriptionLength int `mapstructure:"max_description_length"`
	WordWrapMaxWidth     int `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth     int `mapstructure:"word_wrap_min_width"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit        string `mapstructure:"quit"`
	Search      string `mapstructure:"search"`
	Watchlist   string `mapstructure:"watchlist"`
	ToggleWatch string `mapstructure:"toggle_watch"`
	LoadMore    string `mapstructure:"load_more"`
	Retry       string `mapstructure:"retry"`
	Back        string `mapstructure:"back"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".cine", "watchlist.db")
	logPath := filepath.Join(homeDir, ".cine", "cine.log")

	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000",
			Timeout: 15 * time.Second,
		},
		Search: SearchConfig{
			Debounce:  300 * time.Millisecond,
			BlurGrace: 250 * time.Millisecond,
			MinChars:  3,
			Limit:     10,
		},
		Recommendations: RecsConfig{
			PageSize: 10,
		},
		Storage: StorageConfig{
			Path:    dbPath,
			Timeout: 1 * time.Second,
		},
		Serve: ServeConfig{
			Addr: ":5000",
			Mode: "release",
		},
		Log: LogConfig{
			Level: "off",
			Path:  logPath,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#E3B341",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#F87171",
				Success:   "#4ADE80",
			},
			Overview: OverviewConfig{
				MaxDescriptionLength: 150,
				WordWrapMaxWidth:     120,
				WordWrapMinWidth:     40,
			},
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:        "q",
				Search:      "s",
				Watchlist:   "l",
				ToggleWatch: "w",
				LoadMore:    "m",
				Retry:       "r",
				Back:        "esc",
			},
		},
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("api", cfg.API)
	v.SetDefault("search", cfg.Search)
	v.SetDefault("recommendations", cfg.Recommendations)
	v.SetDefault("storage", cfg.Storage)
	v.SetDefault("serve", cfg.Serve)
	v.SetDefault("log", cfg.Log)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("keys", cfg.Keys)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "cine")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CINE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the fields that would otherwise fail deep inside a
// network call, most importantly the backend base URL.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api.base_url: scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid api.base_url: missing host")
	}
	if c.Search.MinChars < 1 {
		return fmt.Errorf("search.min_chars must be at least 1")
	}
	if c.Search.Limit < 1 || c.Recommendations.PageSize < 1 {
		return fmt.Errorf("search.limit and recommendations.page_size must be positive")
	}
	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Storage.Path = expandPath(cfg.Storage.Path)
	cfg.Log.Path = expandPath(cfg.Log.Path)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Convert durations to strings for TOML readability
	apiCfg := map[string]interface{}{
		"base_url": config.API.BaseURL,
		"timeout":  config.API.Timeout.String(),
	}

	searchCfg := map[string]interface{}{
		"debounce":   config.Search.Debounce.String(),
		"blur_grace": config.Search.BlurGrace.String(),
		"min_chars":  config.Search.MinChars,
		"limit":      config.Search.Limit,
	}

	storageCfg := map[string]interface{}{
		"path":    config.Storage.Path,
		"timeout": config.Storage.Timeout.String(),
	}

	v.Set("api", apiCfg)
	v.Set("search", searchCfg)
	v.Set("recommendations", config.Recommendations)
	v.Set("storage", storageCfg)
	v.Set("serve", config.Serve)
	v.Set("log", config.Log)
	v.Set("ui", config.UI)
	v.Set("keys", config.Keys)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
