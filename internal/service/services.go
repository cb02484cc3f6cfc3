package service

import (
	"github.com/xolan/timecard/internal/config"
)

// Services holds all service instances used by the application
type Services struct {
	Config *ConfigService
}

// NewServicesWithPath creates a new Services instance for the config file at
// configPath, starting from cfg until it is reloaded
func NewServicesWithPath(configPath string, cfg config.Config) *Services {
	return &Services{
		Config: NewConfigService(configPath, cfg),
	}
}
