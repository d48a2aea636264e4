package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the ranker service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Search    SearchConfig    `yaml:"search"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Index     IndexConfig     `yaml:"index"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Synonyms  SynonymsConfig  `yaml:"synonyms"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CatalogConfig points at the JSONL corpus file.
type CatalogConfig struct {
	Path       string `yaml:"path"`
	Watch      bool   `yaml:"watch"`       // rebuild the index when the file changes
	DebounceMs int    `yaml:"debounce_ms"` // quiet period before a watched rebuild
}

// SearchConfig holds query defaults.
type SearchConfig struct {
	DefaultLimit   int    `yaml:"default_limit"`
	Mode           string `yaml:"mode"` // index, field, hybrid
	ExpandSynonyms *bool  `yaml:"expand_synonyms"`
}

// ScoringConfig holds field weights for the field-weighted scorer.
type ScoringConfig struct {
	Weights WeightsConfig `yaml:"weights"`
}

// WeightsConfig holds per-field weights. Zero means "use the default".
type WeightsConfig struct {
	Title       float64 `yaml:"title"`
	ID          float64 `yaml:"id"`
	Tags        float64 `yaml:"tags"`
	Description float64 `yaml:"description"`
	Content     float64 `yaml:"content"`
}

// IndexConfig holds BM25 parameters.
type IndexConfig struct {
	K1 float64 `yaml:"k1"`
	B  float64 `yaml:"b"`
}

// EmbeddingConfig holds hash embedding settings.
type EmbeddingConfig struct {
	Dimensions         int     `yaml:"dimensions"`
	DuplicateThreshold float64 `yaml:"duplicate_threshold"`
}

// SynonymsConfig optionally overrides the compiled-in synonym table.
type SynonymsConfig struct {
	Path string `yaml:"path"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads, expands, defaults and validates one config file.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Catalog.DebounceMs <= 0 {
		c.Catalog.DebounceMs = 250
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 20
	}
	if c.Search.Mode == "" {
		c.Search.Mode = "index"
	}
	if c.Search.ExpandSynonyms == nil {
		expand := true
		c.Search.ExpandSynonyms = &expand
	}
	w := &c.Scoring.Weights
	if w.Title == 0 {
		w.Title = 10
	}
	if w.ID == 0 {
		w.ID = 9
	}
	if w.Tags == 0 {
		w.Tags = 6
	}
	if w.Description == 0 {
		w.Description = 4
	}
	if w.Content == 0 {
		w.Content = 1.5
	}
	if c.Index.K1 == 0 {
		c.Index.K1 = 1.2
	}
	if c.Index.B == 0 {
		c.Index.B = 0.75
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 128
	}
	if c.Embedding.DuplicateThreshold == 0 {
		c.Embedding.DuplicateThreshold = 0.95
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required")
	}
	switch c.Search.Mode {
	case "index", "field", "hybrid":
		// ok
	default:
		return fmt.Errorf("search.mode must be \"index\", \"field\" or \"hybrid\", got %q", c.Search.Mode)
	}
	w := c.Scoring.Weights
	for name, v := range map[string]float64{
		"title": w.Title, "id": w.ID, "tags": w.Tags, "description": w.Description, "content": w.Content,
	} {
		if v < 0 {
			return fmt.Errorf("scoring.weights.%s must be non-negative, got %v", name, v)
		}
	}
	if c.Index.K1 < 0 {
		return fmt.Errorf("index.k1 must be non-negative, got %v", c.Index.K1)
	}
	if c.Index.B < 0 || c.Index.B > 1 {
		return fmt.Errorf("index.b must be in [0, 1], got %v", c.Index.B)
	}
	if c.Embedding.DuplicateThreshold < 0 || c.Embedding.DuplicateThreshold > 1 {
		return fmt.Errorf("embedding.duplicate_threshold must be in [0, 1], got %v", c.Embedding.DuplicateThreshold)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
