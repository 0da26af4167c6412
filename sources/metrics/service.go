package metrics

import (
	"time"

	"grokcord/sources/tracing"

	"github.com/prometheus/client_golang/prometheus"
)

type MetricsService struct {
	log *tracing.Logger
}

var (
	messagesHandled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grokcord_messages_handled_total",
			Help: "Total number of messages handled by the bot",
		},
		[]string{"status"},
	)

	messagesIgnored = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grokcord_messages_ignored_total",
			Help: "Total number of messages ignored",
		},
		[]string{"reason"},
	)

	commandsUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grokcord_commands_used_total",
			Help: "Total number of commands used",
		},
		[]string{"command"},
	)

	messagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grokcord_messages_sent_total",
			Help: "Total number of reply chunks sent by the diplomat",
		},
		[]string{"status"},
	)

	tokenUsage = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grokcord_token_usage_total",
			Help: "Total number of tokens used",
		},
		[]string{"model", "type"},
	)

	costUsage = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grokcord_cost_usage_total",
			Help: "Total estimated cost incurred",
		},
		[]string{"model", "type"},
	)

	aiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grokcord_ai_request_duration_seconds",
			Help:    "Duration of AI provider requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	aiRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grokcord_ai_retries_total",
			Help: "Total number of retried AI provider requests",
		},
		[]string{"provider"},
	)

	breakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "grokcord_ai_breaker_state",
			Help: "Circuit breaker state: 0 closed, 1 half-open, 2 open",
		},
		[]string{"name"},
	)

	messageProcessingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "grokcord_message_processing_duration_seconds",
			Help:    "Total duration of message processing",
			Buckets: prometheus.DefBuckets,
		},
	)

	brevitySelected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grokcord_brevity_selected_total",
			Help: "Total number of requests per selected brevity policy",
		},
		[]string{"brevity"},
	)

	turnsEvicted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "grokcord_transcript_turns_evicted_total",
			Help: "Total number of turns dropped by truncation",
		},
	)

	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "grokcord_rate_limited_total",
			Help: "Total number of messages rejected by the rate limiter",
		},
	)

	documentsExtracted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grokcord_documents_extracted_total",
			Help: "Total number of PDF attachments processed",
		},
		[]string{"status"},
	)

	imagesGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grokcord_images_generated_total",
			Help: "Total number of image generation requests",
		},
		[]string{"status"},
	)

	statsLiveTranscripts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "grokcord_stats_live_transcripts",
			Help: "Number of transcripts currently held in memory",
		},
	)

	statsTotalUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "grokcord_stats_total_users",
			Help: "Total number of users recorded in usage",
		},
	)

	statsTotalCost = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "grokcord_stats_total_cost",
			Help: "Total cost recorded in usage",
		},
	)

	statsTotalTokens = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "grokcord_stats_total_tokens",
			Help: "Total tokens recorded in usage",
		},
	)

	statsDAU = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "grokcord_stats_dau",
			Help: "Daily Active Users (last 24h)",
		},
	)
)

func init() {
	prometheus.MustRegister(messagesHandled)
	prometheus.MustRegister(messagesIgnored)
	prometheus.MustRegister(commandsUsed)
	prometheus.MustRegister(messagesSent)
	prometheus.MustRegister(tokenUsage)
	prometheus.MustRegister(costUsage)
	prometheus.MustRegister(aiRequestDuration)
	prometheus.MustRegister(aiRetries)
	prometheus.MustRegister(breakerState)
	prometheus.MustRegister(messageProcessingDuration)
	prometheus.MustRegister(brevitySelected)
	prometheus.MustRegister(turnsEvicted)
	prometheus.MustRegister(rateLimited)
	prometheus.MustRegister(documentsExtracted)
	prometheus.MustRegister(imagesGenerated)
	prometheus.MustRegister(statsLiveTranscripts)
	prometheus.MustRegister(statsTotalUsers)
	prometheus.MustRegister(statsTotalCost)
	prometheus.MustRegister(statsTotalTokens)
	prometheus.MustRegister(statsDAU)
}

func NewMetricsService(log *tracing.Logger) *MetricsService {
	return &MetricsService{
		log: log,
	}
}

func (s *MetricsService) RecordMessageHandled(status string) {
	messagesHandled.WithLabelValues(status).Inc()
}

func (s *MetricsService) RecordMessageIgnored(reason string) {
	messagesIgnored.WithLabelValues(reason).Inc()
}

func (s *MetricsService) RecordCommandUsed(command string) {
	commandsUsed.WithLabelValues(command).Inc()
}

func (s *MetricsService) RecordMessageSent(status string) {
	messagesSent.WithLabelValues(status).Inc()
}

func (s *MetricsService) RecordUsage(tokens int, cost float64, model string, usageType string) {
	tokenUsage.WithLabelValues(model, usageType).Add(float64(tokens))
	costUsage.WithLabelValues(model, usageType).Add(cost)
}

func (s *MetricsService) RecordDialerUsage(tokens int, cost float64, model string) {
	s.RecordUsage(tokens, cost, model, "dialer")
}

func (s *MetricsService) RecordAIRequestDuration(duration time.Duration, model string) {
	aiRequestDuration.WithLabelValues(model).Observe(duration.Seconds())
}

func (s *MetricsService) RecordAIRetry(provider string) {
	aiRetries.WithLabelValues(provider).Inc()
}

func (s *MetricsService) SetBreakerState(name string, state float64) {
	breakerState.WithLabelValues(name).Set(state)
}

func (s *MetricsService) RecordMessageProcessingDuration(duration time.Duration) {
	messageProcessingDuration.Observe(duration.Seconds())
}

func (s *MetricsService) RecordBrevity(brevity string) {
	brevitySelected.WithLabelValues(brevity).Inc()
}

func (s *MetricsService) RecordTurnsEvicted(count int) {
	if count > 0 {
		turnsEvicted.Add(float64(count))
	}
}

func (s *MetricsService) RecordRateLimited() {
	rateLimited.Inc()
}

func (s *MetricsService) RecordDocumentExtracted(status string) {
	documentsExtracted.WithLabelValues(status).Inc()
}

func (s *MetricsService) RecordImageGenerated(status string) {
	imagesGenerated.WithLabelValues(status).Inc()
}

func (s *MetricsService) SetLiveTranscripts(count float64) {
	statsLiveTranscripts.Set(count)
}

func (s *MetricsService) SetTotalUsers(count float64) {
	statsTotalUsers.Set(count)
}

func (s *MetricsService) SetTotalCost(cost float64) {
	statsTotalCost.Set(cost)
}

func (s *MetricsService) SetTotalTokens(tokens float64) {
	statsTotalTokens.Set(tokens)
}

func (s *MetricsService) SetDAU(count float64) {
	statsDAU.Set(count)
}
