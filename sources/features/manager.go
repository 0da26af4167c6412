package features

import (
	"context"

	"grokcord/sources/tracing"

	"github.com/Unleash/unleash-client-go/v4"
)

const (
	FeatureImageGeneration = "bot/images/generation"
	FeaturePDFExtraction   = "bot/attachments/pdf"
	FeatureBrevityPolicy   = "conversation/brevity"
)

// FeatureManager answers toggle lookups. Without an Unleash client every
// lookup returns the caller's default.
type FeatureManager struct {
	client *unleash.Client
	config *FeatureConfig
	log    *tracing.Logger
}

func NewFeatureManager(config *FeatureConfig, log *tracing.Logger) (*FeatureManager, error) {
	if !config.Enabled {
		log.I("Feature toggles disabled, built-in defaults are in effect")
		return &FeatureManager{config: config, log: log}, nil
	}

	client, err := unleash.NewClient(
		unleash.WithUrl(config.UnleashAPIURL),
		unleash.WithAppName(config.UnleashAppName),
		unleash.WithInstanceId(config.UnleashInstanceID),
		unleash.WithRefreshInterval(config.RefreshInterval),
		unleash.WithListener(&unleashListener{log: log}),
	)

	if err != nil {
		log.E("Failed to initialize Unleash client", tracing.InnerError, err)
		return nil, err
	}

	log.I("Unleash client initialized successfully",
		"api_url", config.UnleashAPIURL,
		"app_name", config.UnleashAppName,
		"instance_id", config.UnleashInstanceID,
		"refresh_interval", config.RefreshInterval.String(),
	)

	return &FeatureManager{
		client: client,
		config: config,
		log:    log,
	}, nil
}

// NewStaticFeatureManager returns a manager that always answers with defaults.
func NewStaticFeatureManager(log *tracing.Logger) *FeatureManager {
	return &FeatureManager{config: &FeatureConfig{}, log: log}
}

func (f *FeatureManager) IsEnabled(featureName string) bool {
	return f.IsEnabledDefault(featureName, false)
}

func (f *FeatureManager) IsEnabledDefault(featureName string, defaultValue bool) bool {
	if f == nil || f.client == nil {
		return defaultValue
	}
	return f.client.IsEnabled(featureName, unleash.WithFallback(defaultValue))
}

func (f *FeatureManager) Close() error {
	if f.client == nil {
		return nil
	}
	f.log.I("Closing Unleash client")
	return f.client.Close()
}

type unleashListener struct {
	log *tracing.Logger
}

func (l *unleashListener) OnReady() {
	l.log.I("Unleash client ready")
}

func (l *unleashListener) OnError(err error) {
	l.log.E("Unleash client error", tracing.InnerError, err)
}

func (l *unleashListener) OnWarning(warning error) {
	l.log.W("Unleash client warning", tracing.InnerError, warning)
}

func (l *unleashListener) OnCount(name string, enabled bool) {
}

func (l *unleashListener) OnSent(payload unleash.MetricsData) {
}

func (l *unleashListener) OnRegistered(payload unleash.ClientData) {
	l.log.I("Unleash client registered", "instance_id", payload.InstanceID)
}

func (f *FeatureManager) OnStop(ctx context.Context) error {
	return f.Close()
}
