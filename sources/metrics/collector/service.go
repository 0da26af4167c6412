package collector

import (
	"context"
	"time"

	"grokcord/sources/conversation"
	"grokcord/sources/metrics"
	"grokcord/sources/repository"
	"grokcord/sources/tracing"

	"go.uber.org/fx"
)

type StatsCollector struct {
	log     *tracing.Logger
	metrics *metrics.MetricsService
	store   *conversation.Store
	usage   *repository.UsageRepository
	stop    chan struct{}
	done    chan struct{}
}

func NewStatsCollector(
	lc fx.Lifecycle,
	log *tracing.Logger,
	metrics *metrics.MetricsService,
	store *conversation.Store,
	usage *repository.UsageRepository,
) *StatsCollector {
	s := &StatsCollector{
		log:     log,
		metrics: metrics,
		store:   store,
		usage:   usage,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go s.start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(s.stop)
			<-s.done
			return nil
		},
	})

	return s
}

func (s *StatsCollector) start() {
	defer close(s.done)

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	tracing.ReportExecution(s.log, s.collectStats, reportStats)

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			tracing.ReportExecution(s.log, s.collectStats, reportStats)
		}
	}
}

func (s *StatsCollector) collectStats() {
	s.metrics.SetLiveTranscripts(float64(s.store.Len()))

	if !s.usage.Enabled() {
		return
	}

	if count, err := s.usage.GetTotalUsersCount(s.log); err == nil {
		s.metrics.SetTotalUsers(float64(count))
	} else {
		s.log.E("Failed to collect total users stats", tracing.InnerError, err)
	}

	if cost, err := s.usage.GetTotalCost(s.log); err == nil {
		s.metrics.SetTotalCost(cost.InexactFloat64())
	} else {
		s.log.E("Failed to collect total cost stats", tracing.InnerError, err)
	}

	if tokens, err := s.usage.GetTotalTokens(s.log); err == nil {
		s.metrics.SetTotalTokens(float64(tokens))
	} else {
		s.log.E("Failed to collect total tokens stats", tracing.InnerError, err)
	}

	if count, err := s.usage.GetActiveUsersCount(s.log, time.Now().Add(-24*time.Hour)); err == nil {
		s.metrics.SetDAU(float64(count))
	} else {
		s.log.E("Failed to collect DAU stats", tracing.InnerError, err)
	}
}

func reportStats(l *tracing.Logger) {
	l.D("Stats collected")
}
