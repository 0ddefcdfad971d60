// Package file loads vendorscout configuration from a TOML file.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
	"github.com/eventry-labs/vendorscout/internal/dispatch"
)

// ServiceConfig holds one external service's quota configuration.
type ServiceConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64 `toml:"requests_per_second"`

	// Burst is the token bucket capacity.
	Burst int `toml:"burst"`

	// MaxConcurrency caps concurrent calls to the service.
	MaxConcurrency int `toml:"max_concurrency"`

	// CallCost is the tokens one call consumes; APIs billed in
	// composite units set it above 1.
	CallCost int `toml:"call_cost"`
}

// LocationConfig is the rectangular place-search bias.
type LocationConfig struct {
	LowLatitude   float64 `toml:"low_latitude"`
	LowLongitude  float64 `toml:"low_longitude"`
	HighLatitude  float64 `toml:"high_latitude"`
	HighLongitude float64 `toml:"high_longitude"`
}

// Config is the full vendorscout configuration.
type Config struct {
	// DataDir is where the store and run backups live
	// (default ~/.vendorscout/data).
	DataDir string `toml:"data_dir"`

	// GenerativeModel and EmbeddingModel select the Gemini models.
	GenerativeModel string `toml:"generative_model"`
	EmbeddingModel  string `toml:"embedding_model"`

	// Dimensions is the embedding dimensionality.
	Dimensions int `toml:"dimensions"`

	// TopK is the number of vendors returned per category.
	TopK int `toml:"top_k"`

	// QueriesPerCategory caps generated queries per category during
	// collection.
	QueriesPerCategory int `toml:"queries_per_category"`

	// Location biases place searches.
	Location LocationConfig `toml:"location"`

	// Per-service quotas.
	Queries   ServiceConfig `toml:"queries"`
	Embedding ServiceConfig `toml:"embedding"`
	Search    ServiceConfig `toml:"search"`
	Details   ServiceConfig `toml:"details"`
}

// Defaults are conservative, well below the services' published
// limits. The embedding default matches the Gemini free tier
// (100 requests per minute).
func defaults() Config {
	return Config{
		Dimensions:         1536,
		TopK:               20,
		QueriesPerCategory: 2,
		Queries:            ServiceConfig{RequestsPerSecond: 1.0, Burst: 2, MaxConcurrency: 2, CallCost: 1},
		Embedding:          ServiceConfig{RequestsPerSecond: 100.0 / 60.0, Burst: 10, MaxConcurrency: 5, CallCost: 1},
		Search:             ServiceConfig{RequestsPerSecond: 5.0, Burst: 10, MaxConcurrency: 4, CallCost: 1},
		Details:            ServiceConfig{RequestsPerSecond: 8.0, Burst: 10, MaxConcurrency: 4, CallCost: 1},
	}
}

// Load reads configuration from path, applying defaults for unset
// fields. If path is empty, ~/.vendorscout/config.toml is used; a
// missing file yields pure defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".vendorscout", "config.toml")
	}

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// Settings converts the config into run-level pipeline settings.
func (c *Config) Settings() domain.Settings {
	return domain.Settings{
		Dimensions:         c.Dimensions,
		TopK:               c.TopK,
		QueriesPerCategory: c.QueriesPerCategory,
		Location: domain.LocationBias{
			LowLatitude:   c.Location.LowLatitude,
			LowLongitude:  c.Location.LowLongitude,
			HighLatitude:  c.Location.HighLatitude,
			HighLongitude: c.Location.HighLongitude,
		},
	}.Normalised()
}

// DispatcherConfig converts one service's quota into a dispatcher
// configuration.
func (c *ServiceConfig) DispatcherConfig(name string) dispatch.Config {
	return dispatch.Config{
		Name:              name,
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.Burst,
		MaxConcurrency:    c.MaxConcurrency,
		CallCost:          c.CallCost,
	}
}
