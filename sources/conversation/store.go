package conversation

import (
	"math"
	"strings"
	"sync"
	"time"
)

type StoreOptions struct {
	// MaxSize is the ceiling enforced after every append, measured by Sizer.
	// Zero or less leaves transcripts unbounded.
	MaxSize int
	// MaxTurns additionally caps the number of kept turns; 0 disables it.
	MaxTurns   int
	Sizer      Sizer
	Classifier Classifier
	Policies   Policies
	// Brevity reports whether brevity policies are in effect; nil means always.
	Brevity func() bool
	Now     func() time.Time
}

// Footprint describes a transcript right after a mutation.
type Footprint struct {
	Turns   int
	Size    int
	Evicted int
}

// Store owns every live transcript. Each transcript is locked on its own, so
// different keys never wait on each other.
type Store struct {
	transcripts sync.Map
	options     StoreOptions
}

type sizedTurn struct {
	Turn
	size int
}

type transcript struct {
	mu      sync.Mutex
	turns   []sizedTurn
	size    int
	touched time.Time
	// dead is set under mu once the transcript has left the map.
	dead bool
}

func NewStore(options StoreOptions) *Store {
	if options.Sizer == nil {
		options.Sizer = CharSizer{}
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.MaxSize <= 0 {
		options.MaxSize = math.MaxInt
	}
	return &Store{options: options}
}

func (x *Store) Unit() string {
	return x.options.Sizer.Unit()
}

func (x *Store) MaxSize() int {
	return x.options.MaxSize
}

func (x *Store) lookup(key Key) (*transcript, bool) {
	if value, ok := x.transcripts.Load(key); ok {
		return value.(*transcript), true
	}
	return nil, false
}

func (x *Store) obtain(key Key) *transcript {
	if t, ok := x.lookup(key); ok {
		return t
	}
	value, _ := x.transcripts.LoadOrStore(key, &transcript{})
	return value.(*transcript)
}

// acquire returns the live transcript for key, locked. A transcript evicted
// between lookup and lock is skipped and a fresh one is obtained.
func (x *Store) acquire(key Key) *transcript {
	for {
		t := x.obtain(key)
		t.mu.Lock()
		if !t.dead {
			return t
		}
		t.mu.Unlock()
	}
}

// retire removes t from the map. The caller holds t.mu.
func (x *Store) retire(key Key, t *transcript) bool {
	if !x.transcripts.CompareAndDelete(key, t) {
		return false
	}
	t.dead = true
	return true
}

// Append adds a turn and trims the transcript back under the configured ceiling.
// Blank text and roles other than user/assistant are ignored.
func (x *Store) Append(key Key, role Role, text string) Footprint {
	if strings.TrimSpace(text) == "" || !role.valid() {
		return x.footprint(key)
	}

	t := x.acquire(key)
	defer t.mu.Unlock()

	size := x.options.Sizer.Size(text)
	t.turns = append(t.turns, sizedTurn{Turn: Turn{Role: role, Text: text}, size: size})
	t.size += size
	t.touched = x.options.Now()

	evicted := t.truncate(x.options.MaxSize, x.options.MaxTurns)
	return Footprint{Turns: len(t.turns), Size: t.size, Evicted: evicted}
}

// Truncate drops the oldest turns while the transcript is larger than maxSize.
func (x *Store) Truncate(key Key, maxSize int) Footprint {
	t, ok := x.lookup(key)
	if !ok {
		return Footprint{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	evicted := t.truncate(maxSize, 0)
	return Footprint{Turns: len(t.turns), Size: t.size, Evicted: evicted}
}

// BuildRequest snapshots the transcript and picks the policy from the latest user turn.
func (x *Store) BuildRequest(key Key) Request {
	turns := x.Turns(key)

	brevity := Detailed
	if x.options.Brevity == nil || x.options.Brevity() {
		for i := len(turns) - 1; i >= 0; i-- {
			if turns[i].Role == RoleUser {
				brevity = x.options.Classifier.Classify(turns[i].Text)
				break
			}
		}
	}

	return Request{Policy: x.options.Policies.Select(brevity), Turns: turns}
}

// Turns returns a copy of the transcript in chronological order.
func (x *Store) Turns(key Key) []Turn {
	t, ok := x.lookup(key)
	if !ok {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.turns) == 0 {
		return nil
	}

	turns := make([]Turn, len(t.turns))
	for i, turn := range t.turns {
		turns[i] = turn.Turn
	}
	return turns
}

func (x *Store) Size(key Key) int {
	return x.footprint(key).Size
}

func (x *Store) footprint(key Key) Footprint {
	t, ok := x.lookup(key)
	if !ok {
		return Footprint{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return Footprint{Turns: len(t.turns), Size: t.size}
}

// Forget drops the transcript for key and reports whether one existed.
func (x *Store) Forget(key Key) bool {
	t, ok := x.lookup(key)
	if !ok {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return x.retire(key, t)
}

// Len is the number of live transcripts.
func (x *Store) Len() int {
	count := 0
	x.transcripts.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// Sweep evicts transcripts that have not been appended to for longer than idle.
func (x *Store) Sweep(idle time.Duration) int {
	if idle <= 0 {
		return 0
	}

	deadline := x.options.Now().Add(-idle)
	evicted := 0

	x.transcripts.Range(func(key, value any) bool {
		t := value.(*transcript)
		t.mu.Lock()
		stale := t.touched.Before(deadline)
		if stale && x.retire(key.(Key), t) {
			evicted++
		}
		t.mu.Unlock()
		return true
	})

	return evicted
}

func (t *transcript) truncate(maxSize, maxTurns int) int {
	drop := 0
	for drop < len(t.turns) && (t.size > maxSize || (maxTurns > 0 && len(t.turns)-drop > maxTurns)) {
		t.size -= t.turns[drop].size
		drop++
	}

	if drop > 0 {
		kept := make([]sizedTurn, len(t.turns)-drop)
		copy(kept, t.turns[drop:])
		t.turns = kept
	}

	return drop
}
