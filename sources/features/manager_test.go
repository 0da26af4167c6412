package features

import (
	"io"
	"testing"

	"grokcord/sources/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledManagerReturnsDefaults(t *testing.T) {
	log := tracing.NewLogger(io.Discard, "error")

	fm, err := NewFeatureManager(&FeatureConfig{Enabled: false}, log)
	require.NoError(t, err)

	assert.True(t, fm.IsEnabledDefault(FeatureBrevityPolicy, true))
	assert.False(t, fm.IsEnabledDefault(FeatureImageGeneration, false))
	assert.False(t, fm.IsEnabled(FeaturePDFExtraction))
	assert.NoError(t, fm.Close())
}

func TestNilManagerReturnsDefaults(t *testing.T) {
	var fm *FeatureManager
	assert.True(t, fm.IsEnabledDefault(FeaturePDFExtraction, true))
}

func TestStaticManager(t *testing.T) {
	fm := NewStaticFeatureManager(tracing.NewLogger(io.Discard, "error"))
	assert.True(t, fm.IsEnabledDefault(FeatureImageGeneration, true))
	assert.NoError(t, fm.Close())
}
