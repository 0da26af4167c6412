package conversation

import (
	"context"
	"time"

	"grokcord/sources/features"
	"grokcord/sources/tracing"

	"go.uber.org/fx"
)

var Module = fx.Module("conversation",
	fx.Provide(
		NewContextConfig,
		NewSizer,
		func(config *ContextConfig, sizer Sizer, fm *features.FeatureManager, log *tracing.Logger) *Store {
			store := NewStore(StoreOptions{
				MaxSize:    config.MaxSize,
				MaxTurns:   config.MaxTurns,
				Sizer:      sizer,
				Classifier: NewClassifier(config.SimpleWordThreshold, config.ShortQuestionWords),
				Policies:   NewPolicies(config.SimpleMaxTokens, config.DetailedMaxTokens),
				Brevity: func() bool {
					return fm.IsEnabledDefault(features.FeatureBrevityPolicy, true)
				},
			})

			log.I("Conversation store initialized", "size_metric", sizer.Unit(), "max_size", config.MaxSize, "max_turns", config.MaxTurns, "idle_ttl", config.IdleTTL.String())
			return store
		},
	),

	fx.Invoke(func(lc fx.Lifecycle, store *Store, config *ContextConfig, log *tracing.Logger) {
		if config.IdleTTL <= 0 {
			return
		}

		janitor := NewJanitor(store, config.IdleTTL, log)
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go janitor.Run()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				janitor.Stop()
				return nil
			},
		})
	}),
)

// Janitor periodically evicts idle transcripts.
type Janitor struct {
	store    *Store
	idle     time.Duration
	interval time.Duration
	log      *tracing.Logger
	stop     chan struct{}
	done     chan struct{}
}

// NewJanitor sweeps every idle/2, but not more often than once a second.
func NewJanitor(store *Store, idle time.Duration, log *tracing.Logger) *Janitor {
	return &Janitor{
		store:    store,
		idle:     idle,
		interval: max(idle/2, time.Second),
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (x *Janitor) Run() {
	defer close(x.done)

	ticker := time.NewTicker(x.interval)
	defer ticker.Stop()

	for {
		select {
		case <-x.stop:
			return
		case <-ticker.C:
			tracing.ReportExecutionForRIn(x.log, func() int { return x.store.Sweep(x.idle) }, func(l *tracing.Logger, evicted int) {
				if evicted > 0 {
					l.I("Idle transcripts evicted", "evicted", evicted, "remaining", x.store.Len())
				}
			})
		}
	}
}

func (x *Janitor) Stop() {
	close(x.stop)
	<-x.done
}
