package timer

import (
	"context"
	"sync"

	"countdown/internal/core/model"

	"github.com/jonboulle/clockwork"
)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to timestamp events.
func WithClock(clock clockwork.Clock) Option {
	return func(store *Store) {
		if clock != nil {
			store.clock = clock
		}
	}
}

type observerEntry struct {
	id       int
	observer Observer
}

type subscriberEntry struct {
	id int
	ch chan Event
}

// Store owns the countdown state and is the only place it changes.
type Store struct {
	// dispatchMu serializes transitions together with their notifications.
	dispatchMu sync.Mutex

	mu          sync.RWMutex
	state       model.TimerState
	clock       clockwork.Clock
	observers   []observerEntry
	subscribers []subscriberEntry
	nextID      int
	closed      bool
}

// New creates a Store holding the initial state.
func New(initial model.TimerState, options ...Option) *Store {
	store := &Store{
		state: initial,
		clock: clockwork.NewRealClock(),
	}
	for _, option := range options {
		option(store)
	}
	return store
}

// State returns a snapshot of the current state.
func (store *Store) State() model.TimerState {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

// Apply transitions the state and notifies observers before returning.
// Observers must not call Apply themselves.
func (store *Store) Apply(intent Intent) model.TimerState {
	state, _ := store.ApplyContext(context.Background(), intent)
	return state
}

// ApplyContext is Apply that drops the intent when ctx is canceled by the
// time the transition would run. The bool reports whether it was applied.
func (store *Store) ApplyContext(ctx context.Context, intent Intent) (model.TimerState, bool) {
	store.dispatchMu.Lock()
	defer store.dispatchMu.Unlock()

	store.mu.Lock()
	if store.closed || ctx.Err() != nil {
		state := store.state
		store.mu.Unlock()
		return state, false
	}
	event := Event{
		Intent:   intent,
		Previous: store.state,
		State:    Reduce(store.state, intent),
		At:       store.clock.Now(),
	}
	store.state = event.State
	observers := append([]observerEntry(nil), store.observers...)
	subscribers := append([]subscriberEntry(nil), store.subscribers...)
	store.mu.Unlock()

	for _, entry := range observers {
		entry.observer(event)
	}
	for _, entry := range subscribers {
		select {
		case entry.ch <- event:
		default:
		}
	}
	return event.State, true
}

// Observe registers a synchronous observer. The returned func removes it.
func (store *Store) Observe(observer Observer) func() {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.closed {
		return func() {}
	}
	store.nextID++
	id := store.nextID
	store.observers = append(store.observers, observerEntry{id: id, observer: observer})
	return func() {
		store.mu.Lock()
		defer store.mu.Unlock()
		for i, entry := range store.observers {
			if entry.id == id {
				store.observers = append(store.observers[:i:i], store.observers[i+1:]...)
				return
			}
		}
	}
}

// Subscribe registers a buffered observer channel. Events are dropped when
// the buffer is full. The returned func removes and closes the channel.
func (store *Store) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	store.mu.Lock()
	if store.closed {
		store.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	store.nextID++
	id := store.nextID
	store.subscribers = append(store.subscribers, subscriberEntry{id: id, ch: ch})
	store.mu.Unlock()

	return ch, func() {
		// Wait for an in-flight notification so the channel is not closed under it.
		store.dispatchMu.Lock()
		defer store.dispatchMu.Unlock()
		store.mu.Lock()
		defer store.mu.Unlock()
		for i, entry := range store.subscribers {
			if entry.id == id {
				store.subscribers = append(store.subscribers[:i:i], store.subscribers[i+1:]...)
				close(entry.ch)
				return
			}
		}
	}
}

// Close disposes the store. Subscriber channels are closed and later
// intents are ignored.
func (store *Store) Close() {
	store.dispatchMu.Lock()
	defer store.dispatchMu.Unlock()

	store.mu.Lock()
	if store.closed {
		store.mu.Unlock()
		return
	}
	store.closed = true
	subscribers := store.subscribers
	store.subscribers = nil
	store.observers = nil
	store.mu.Unlock()

	for _, entry := range subscribers {
		close(entry.ch)
	}
}
