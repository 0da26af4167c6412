package network

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"grokcord/sources/configuration"
	"grokcord/sources/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/proxy"
)

func TestNewNetworkConfig(t *testing.T) {
	config := NewNetworkConfig(&configuration.Config{})
	assert.Equal(t, 60*time.Second, config.Timeout)
	assert.Empty(t, config.ProxyAddress)

	config = NewNetworkConfig(&configuration.Config{
		Proxy:   configuration.ProxyConfig{URL: "localhost:9050", User: "u", Password: "p"},
		Network: configuration.NetworkConfig{TimeoutSeconds: 5},
	})
	assert.Equal(t, 5*time.Second, config.Timeout)
	assert.Equal(t, "localhost:9050", config.ProxyAddress)
}

func TestDirectDialerWithoutProxy(t *testing.T) {
	log := tracing.NewLogger(io.Discard, "error")

	dialer, err := NewProxyDialer(&NetworkConfig{}, log)
	require.NoError(t, err)
	assert.Equal(t, proxy.Direct, dialer)
}

func TestClientReachesServerDirectly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	}))
	defer server.Close()

	log := tracing.NewLogger(io.Discard, "error")
	config := &NetworkConfig{Timeout: 5 * time.Second}
	dialer, err := NewProxyDialer(config, log)
	require.NoError(t, err)

	client := NewProxyClient(dialer, config, log)
	response, err := client.Get(server.URL)
	require.NoError(t, err)
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))
}
