package discord

import (
	"sync"
	"time"

	"grokcord/sources/tracing"
)

// Discord shows a typing indicator for about ten seconds per request.
const typingInterval = 8 * time.Second

type typer interface {
	ChannelTyping(channelID string) error
}

// TypingManager keeps one typing loop per channel alive while replies are
// being produced there. Nested starts on the same channel share the loop.
type TypingManager struct {
	typer    typer
	interval time.Duration
	active   map[string]*typingLoop
	mu       sync.Mutex
	log      *tracing.Logger
}

type typingLoop struct {
	holders int
	stop    chan struct{}
}

func NewTypingManager(typer typer, log *tracing.Logger) *TypingManager {
	return &TypingManager{
		typer:    typer,
		interval: typingInterval,
		active:   make(map[string]*typingLoop),
		log:      log,
	}
}

// Start begins showing the indicator in channelID; the returned func releases it.
func (tm *TypingManager) Start(channelID string) func() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	loop, exists := tm.active[channelID]
	if !exists {
		loop = &typingLoop{stop: make(chan struct{})}
		tm.active[channelID] = loop
		go tm.run(channelID, loop.stop)
	}
	loop.holders++

	var once sync.Once
	return func() {
		once.Do(func() { tm.release(channelID, loop) })
	}
}

func (tm *TypingManager) release(channelID string, loop *typingLoop) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	loop.holders--
	if loop.holders > 0 {
		return
	}

	close(loop.stop)
	if tm.active[channelID] == loop {
		delete(tm.active, channelID)
	}
}

// Active returns the number of channels currently showing the indicator.
func (tm *TypingManager) Active() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return len(tm.active)
}

func (tm *TypingManager) run(channelID string, stop chan struct{}) {
	ticker := time.NewTicker(tm.interval)
	defer ticker.Stop()

	tm.send(channelID)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			tm.send(channelID)
		}
	}
}

func (tm *TypingManager) send(channelID string) {
	if err := tm.typer.ChannelTyping(channelID); err != nil {
		tm.log.W("Failed to send typing action", tracing.InnerError, err, tracing.ChannelId, channelID)
	}
}
