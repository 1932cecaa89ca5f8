package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Profile struct {
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Model   string `mapstructure:"model" yaml:"model"`
}

type Config struct {
	Profiles         map[string]Profile `mapstructure:"profiles" yaml:"profiles"`
	ActiveProfile    string             `mapstructure:"active_profile" yaml:"active_profile"`
	Workspace        string             `mapstructure:"workspace" yaml:"workspace"`
	UserInstructions string             `mapstructure:"user_instructions" yaml:"user_instructions,omitempty"`
	MaxTokens        int                `mapstructure:"max_tokens" yaml:"max_tokens"`
	LogLevel         string             `mapstructure:"log_level" yaml:"log_level"`

	currentProfile *Profile
	configDir      string
}

// LoadConfig reads config.yaml from the config directory, creating a
// default one on first run. Environment variables prefixed HULY_CODER
// override file values.
func LoadConfig() (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("HULY_CODER")
	v.AutomaticEnv()
	v.SetDefault("active_profile", "default")
	v.SetDefault("workspace", ".")
	v.SetDefault("max_tokens", 128000)
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createDefaultConfig(configDir)
		}
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	config.configDir = configDir

	if err := config.normalizeWorkspace(); err != nil {
		return nil, err
	}
	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}
	return &config, nil
}

func (c *Config) IsValid() bool {
	return c.currentProfile != nil && c.currentProfile.APIKey != ""
}

func (c *Config) GetAPIKey() string {
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.APIKey
}

func (c *Config) GetModel() string {
	if c.currentProfile == nil {
		return "gpt-4o-mini"
	}
	return c.currentProfile.Model
}

func (c *Config) GetBaseURL() string {
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.BaseURL
}

// HistoryPath is where the conversation history document is persisted.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.configDir, "history.json")
}

// LogDir is where log files are written.
func (c *Config) LogDir() string {
	return filepath.Join(c.configDir, "logs")
}

func getConfigDir() (string, error) {
	// Use HULY_CODER_HOME if set, otherwise the user's home directory
	if home := os.Getenv("HULY_CODER_HOME"); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".huly-coder"), nil
}

func createDefaultConfig(configDir string) (*Config, error) {
	config := &Config{
		Profiles: map[string]Profile{
			"default": {
				APIKey:  "",
				BaseURL: "",
				Model:   "gpt-4o-mini",
			},
		},
		ActiveProfile: "default",
		Workspace:     ".",
		MaxTokens:     128000,
		LogLevel:      "info",
		configDir:     configDir,
	}
	if err := config.Save(); err != nil {
		return nil, err
	}
	if err := config.normalizeWorkspace(); err != nil {
		return nil, err
	}
	if err := config.setCurrentProfile(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save writes the config back as YAML.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	path := filepath.Join(c.configDir, "config.yaml")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// SetWorkspace overrides the workspace for this run, normalizing the path
// and creating the directory. The override is not persisted.
func (c *Config) SetWorkspace(path string) error {
	c.Workspace = path
	return c.normalizeWorkspace()
}

// normalizeWorkspace makes the workspace path absolute and ensures the
// directory exists.
func (c *Config) normalizeWorkspace() error {
	abs, err := filepath.Abs(c.Workspace)
	if err != nil {
		return fmt.Errorf("invalid workspace path: %w", err)
	}
	c.Workspace = abs
	if err := os.MkdirAll(c.Workspace, 0755); err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	return nil
}

func (c *Config) setCurrentProfile() error {
	if c.Profiles == nil {
		return fmt.Errorf("no profiles defined")
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// If active profile doesn't exist, try to use the first available profile
		for name, p := range c.Profiles {
			c.ActiveProfile = name
			profile = p
			exists = true
			break
		}
	}

	if !exists {
		return fmt.Errorf("no valid profiles found")
	}

	c.currentProfile = &profile
	return nil
}
