package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://127.0.0.1:0",
			Timeout: 5 * time.Second,
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
			Path:    ":memory:",
			Timeout: 1 * time.Second,
		},
		Serve: ServeConfig{
			Addr: ":0",
			Mode: "test",
		},
		Log:  LogConfig{Level: "off"},
		UI:   defaultConfig().UI,
		Keys: defaultConfig().Keys,
	}
}
