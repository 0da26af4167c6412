package network

import (
	"grokcord/sources/tracing"

	"golang.org/x/net/proxy"
)

// NewProxyDialer returns a SOCKS5 dialer, or proxy.Direct when no proxy is configured.
func NewProxyDialer(config *NetworkConfig, log *tracing.Logger) (proxy.Dialer, error) {
	if config.ProxyAddress == "" {
		return proxy.Direct, nil
	}

	var auth *proxy.Auth
	if config.ProxyUser != "" {
		auth = &proxy.Auth{User: config.ProxyUser, Password: config.ProxyPass}
	}

	dialer, err := proxy.SOCKS5("tcp", config.ProxyAddress, auth, proxy.Direct)
	if err != nil {
		log.E("Failed to create proxy dialer", tracing.ProxyUrl, config.ProxyAddress, tracing.InnerError, err)
		return nil, err
	}

	log.I("Outgoing traffic goes through SOCKS5 proxy", tracing.ProxyUrl, config.ProxyAddress)
	return dialer, nil
}
