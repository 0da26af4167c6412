package collector

import (
	"io"
	"testing"

	"grokcord/sources/conversation"
	"grokcord/sources/metrics"
	"grokcord/sources/repository"
	"grokcord/sources/tracing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gauge(t *testing.T, name string) float64 {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() == name {
			return family.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestCollectStatsReportsLiveTranscripts(t *testing.T) {
	log := tracing.NewLogger(io.Discard, "error")
	store := conversation.NewStore(conversation.StoreOptions{MaxSize: 100})
	store.Append(conversation.Key{UserID: "1", ChannelID: "1"}, conversation.RoleUser, "hi")
	store.Append(conversation.Key{UserID: "2", ChannelID: "1"}, conversation.RoleUser, "hello")

	s := &StatsCollector{
		log:     log,
		metrics: metrics.NewMetricsService(log),
		store:   store,
		usage:   repository.NewUsageRepository(nil),
	}
	s.collectStats()

	assert.Equal(t, float64(2), gauge(t, "grokcord_stats_live_transcripts"))
}
