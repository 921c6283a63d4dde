package insight

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL    = "https://api.openai.com/v1"
	defaultModel      = "gpt-4o-mini"
	defaultTimeout    = 60 * time.Second
	defaultMaxRetries = 3

	envAPIKey     = "INSIGHT_API_KEY"
	envBaseURL    = "INSIGHT_BASE_URL"
	envModel      = "INSIGHT_MODEL"
	envTimeout    = "INSIGHT_TIMEOUT"
	envMaxRetries = "INSIGHT_MAX_RETRIES"
)

// Config holds runtime settings for the insight generator.
type Config struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	Timeout     time.Duration `yaml:"-"`
	MaxRetries  int           `yaml:"max_retries"`
	Temperature *float64      `yaml:"temperature,omitempty"`

	timeoutRaw string
}

// LoadConfig reads configuration from disk.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open insight config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from a reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	var raw struct {
		BaseURL     string   `yaml:"base_url"`
		APIKey      string   `yaml:"api_key"`
		Model       string   `yaml:"model"`
		Timeout     string   `yaml:"timeout"`
		MaxRetries  int      `yaml:"max_retries"`
		Temperature *float64 `yaml:"temperature"`
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read insight config: %w", err)
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal insight config: %w", err)
	}

	cfg := &Config{
		BaseURL:     raw.BaseURL,
		APIKey:      raw.APIKey,
		Model:       raw.Model,
		MaxRetries:  raw.MaxRetries,
		Temperature: raw.Temperature,
		timeoutRaw:  raw.Timeout,
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	if err := cfg.parseTimeout(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("insight config: api_key is required")
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("insight config: base_url is required")
	}
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("insight config: model is required")
	}
	if c.Timeout <= 0 {
		return errors.New("insight config: timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return errors.New("insight config: max_retries cannot be negative")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = defaultBaseURL
	}
	if strings.TrimSpace(c.Model) == "" {
		c.Model = defaultModel
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = defaultMaxRetries
	}
}

func (c *Config) applyEnvOverrides() {
	c.BaseURL = expandAndOverride(c.BaseURL, envBaseURL)
	c.APIKey = expandAndOverride(c.APIKey, envAPIKey)
	c.Model = expandAndOverride(c.Model, envModel)

	if raw := os.Getenv(envTimeout); raw != "" {
		c.timeoutRaw = raw
	} else {
		c.timeoutRaw = os.ExpandEnv(c.timeoutRaw)
	}

	if raw := os.Getenv(envMaxRetries); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			c.MaxRetries = v
		}
	}
}

func (c *Config) parseTimeout() error {
	if strings.TrimSpace(c.timeoutRaw) == "" {
		c.Timeout = defaultTimeout
		return nil
	}

	d, err := time.ParseDuration(c.timeoutRaw)
	if err != nil {
		return fmt.Errorf("insight config: invalid timeout %q: %w", c.timeoutRaw, err)
	}
	if d <= 0 {
		return fmt.Errorf("insight config: timeout must be positive, got %s", d)
	}
	c.Timeout = d
	return nil
}

func expandAndOverride(current, envKey string) string {
	current = os.ExpandEnv(current)
	if envVal := os.Getenv(envKey); envVal != "" {
		return envVal
	}
	return current
}
