package service

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/xolan/timecard/internal/config"
	"github.com/xolan/timecard/internal/osutil"
)

// ErrConfigExists is returned by Init when a config file is already there.
var ErrConfigExists = errors.New("config file already exists")

// ConfigService provides operations for managing configuration
type ConfigService struct {
	configPath string
	config     config.Config
}

// NewConfigService creates a new ConfigService
func NewConfigService(configPath string, cfg config.Config) *ConfigService {
	return &ConfigService{
		configPath: configPath,
		config:     cfg,
	}
}

// Get returns the current configuration
func (s *ConfigService) Get() config.Config {
	return s.config
}

// GetPath returns the path to the config file
func (s *ConfigService) GetPath() string {
	return s.configPath
}

// Exists checks if the config file exists
func (s *ConfigService) Exists() bool {
	_, err := os.Stat(s.configPath)
	return err == nil
}

// Update validates cfg, writes it to the config file and makes it current
func (s *ConfigService) Update(cfg config.Config) error {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := s.writeConfig(cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	s.config = cfg
	return nil
}

// Init writes the commented sample config. It never replaces an existing
// file.
func (s *ConfigService) Init() error {
	if s.Exists() {
		return fmt.Errorf("%w at %s", ErrConfigExists, s.configPath)
	}

	sample := config.GenerateSampleConfig()
	if err := osutil.WriteFileAtomic(s.configPath, []byte(sample), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reload reloads the configuration from disk
func (s *ConfigService) Reload() error {
	cfg, err := config.LoadOrDefault(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	s.config = cfg
	return nil
}

// Encode returns cfg as TOML
func Encode(cfg config.Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# timecard configuration file\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ConfigService) writeConfig(cfg config.Config) error {
	content, err := Encode(cfg)
	if err != nil {
		return err
	}
	return osutil.WriteFileAtomic(s.configPath, content, 0644)
}
