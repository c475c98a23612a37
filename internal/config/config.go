package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bascurtiz/orpheusdl-qobuz/internal/metadata"
)

// Config contains the program configuration: the module's global and session
// settings plus the options the downloader host passes to it.
type Config struct {
	// Global module settings.
	AppID         string `yaml:"app_id"`
	AppSecret     string `yaml:"app_secret"`
	QualityFormat string `yaml:"quality_format"`

	// Session settings. Either username+password or user_id+auth_token.
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	UserID     string `yaml:"user_id"`
	AuthToken  string `yaml:"auth_token"`
	UseIDToken bool   `yaml:"use_id_token"`

	// Host options.
	QualityTier       string  `yaml:"quality_tier"`
	Verbose           bool    `yaml:"verbose"`
	OutputDir         string  `yaml:"output_dir"`
	ParallelJobs      int     `yaml:"parallel_jobs"`
	EmbedLyrics       bool    `yaml:"embed_lyrics"`
	EmbedCover        bool    `yaml:"embed_cover"`
	SearchLimit       int     `yaml:"search_limit"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	APIURL            string  `yaml:"api_url,omitempty"`
	LogFile           string  `yaml:"log_file"`
	SessionFile       string  `yaml:"session_file"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		AppID:         "798273057",
		AppSecret:     "abb21364945c0583309667d13ca3d93a",
		QualityFormat: "{sample_rate}kHz {bit_depth}bit",
		QualityTier:   "hifi",
		OutputDir:     filepath.Join(homeDir(), "Music", "Qobuz"),
		ParallelJobs:  2,
		EmbedCover:    true,
		SearchLimit:   10,
		SessionFile:   GetDefaultSessionPath(),
	}
}

// LoadConfigFile loads configuration from a YAML file.
// If path is empty, searches standard locations. Returns defaults if no file found.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.OutputDir = ExpandHome(cfg.OutputDir)
	cfg.LogFile = ExpandHome(cfg.LogFile)
	cfg.SessionFile = ExpandHome(cfg.SessionFile)

	return cfg, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() string {
	home := homeDir()
	locations := []string{
		"./qobuz.yaml",
		"./qobuz.yml",
		filepath.Join(home, ".config", "orpheusdl-qobuz", "config.yaml"),
		filepath.Join(home, ".config", "orpheusdl-qobuz", "config.yml"),
	}

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SaveConfigFile saves the current configuration to a YAML file
func SaveConfigFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default config file path
func GetDefaultConfigPath() string {
	return filepath.Join(homeDir(), ".config", "orpheusdl-qobuz", "config.yaml")
}

// GetDefaultLogPath returns the default log file path
func GetDefaultLogPath() string {
	return filepath.Join(homeDir(), ".local", "share", "orpheusdl-qobuz", "logs", "qobuz.log")
}

// GetDefaultSessionPath returns the default session token store path
func GetDefaultSessionPath() string {
	return filepath.Join(homeDir(), ".local", "share", "orpheusdl-qobuz", "session.yaml")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

// Tier returns the parsed quality tier.
func (c *Config) Tier() (metadata.QualityTier, error) {
	return metadata.ParseQualityTier(c.QualityTier)
}

// HasEmailPassword reports whether both username and password are set.
func (c *Config) HasEmailPassword() bool {
	return strings.TrimSpace(c.Username) != "" && strings.TrimSpace(c.Password) != ""
}

// HasIDToken reports whether both user_id and auth_token are set.
func (c *Config) HasIDToken() bool {
	return strings.TrimSpace(c.UserID) != "" && strings.TrimSpace(c.AuthToken) != ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.AppID == "" {
		return fmt.Errorf("app_id cannot be empty")
	}
	if c.AppSecret == "" {
		return fmt.Errorf("app_secret cannot be empty")
	}

	if _, err := c.Tier(); err != nil {
		return err
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}

	if c.ParallelJobs < 1 {
		return fmt.Errorf("parallel jobs must be at least 1, got %d", c.ParallelJobs)
	}
	if c.ParallelJobs > 10 {
		return fmt.Errorf("parallel jobs cannot exceed 10 (to avoid rate limiting), got %d", c.ParallelJobs)
	}

	if c.SearchLimit < 1 || c.SearchLimit > 500 {
		return fmt.Errorf("search_limit must be between 1 and 500, got %d", c.SearchLimit)
	}

	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second cannot be negative, got %.2f", c.RequestsPerSecond)
	}

	if c.APIURL != "" && !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("api_url must start with http:// or https://")
	}

	return nil
}
