package external

import (
	"grokcord/sources/configuration"
)

type OutsidersConfig struct {
	StartupPort            int
	SystemMetricsPort      int
	ApplicationMetricsPort int
}

func NewOutsidersConfig(config *configuration.Config) *OutsidersConfig {
	return &OutsidersConfig{
		StartupPort:            config.Service.StartupPort,
		SystemMetricsPort:      config.Service.SystemMetricsPort,
		ApplicationMetricsPort: config.Service.ApplicationMetricsPort,
	}
}
