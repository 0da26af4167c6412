package network

import (
	"time"

	"grokcord/sources/configuration"
)

type NetworkConfig struct {
	ProxyAddress string
	ProxyUser    string
	ProxyPass    string
	Timeout      time.Duration
}

func NewNetworkConfig(config *configuration.Config) *NetworkConfig {
	timeout := time.Duration(config.Network.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &NetworkConfig{
		ProxyAddress: config.Proxy.URL,
		ProxyUser:    config.Proxy.User,
		ProxyPass:    config.Proxy.Password,
		Timeout:      timeout,
	}
}
