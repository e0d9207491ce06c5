// Package events implements the small pub/sub bus the capture engine uses
// to notify a UI shell of state changes. It generalizes the teacher's
// single ad hoc app.Event.Emit("state-changed", ...) call into a typed,
// multi-topic bus so more than one listener (the tray icon, a future
// window, tests) can subscribe independently.
package events

import "sync"

// Name identifies one topic on the bus.
type Name string

const (
	RecordingStatus     Name = "recording-status"
	ClipSaved           Name = "clip-saved"
	RecordingError      Name = "recording-error"
	FilesystemChanged   Name = "filesystem-changed"
	PreInitStatus       Name = "pre-init-status-changed"
	PreInitIdleShutdown Name = "pre-init-idle-shutdown"
	ProjectRequired     Name = "project-required"
)

// ClipSavedPayload is the payload of a ClipSaved event.
type ClipSavedPayload struct {
	Path       string `json:"path"`
	DurationMs int64  `json:"duration_ms"`
}

// ErrorPayload is the payload of a RecordingError event.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handler receives an event's payload.
type Handler func(payload any)

type subscription struct {
	queue chan any
	done  chan struct{}
}

// Bus is a minimal, concurrency-safe fan-out publisher. Emit never blocks
// the caller on subscriber work. Status events for a single recording are
// guaranteed to be emitted in order, Recording then Idle, because each
// subscription drains its own events strictly in emission order on a
// dedicated goroutine: Emit only ever enqueues.
type Bus struct {
	mu   sync.RWMutex
	subs map[Name][]*subscription
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Name][]*subscription)}
}

// Subscribe registers h to be called, in order, whenever name is emitted.
// Returns an unsubscribe function.
func (b *Bus) Subscribe(name Name, h Handler) func() {
	sub := &subscription{
		queue: make(chan any, 64),
		done:  make(chan struct{}),
	}

	go func() {
		for {
			select {
			case payload := <-sub.queue:
				h(payload)
			case <-sub.done:
				return
			}
		}
	}()

	b.mu.Lock()
	b.subs[name] = append(b.subs[name], sub)
	b.mu.Unlock()

	unsubscribed := false
	var once sync.Mutex
	return func() {
		once.Lock()
		defer once.Unlock()
		if unsubscribed {
			return
		}
		unsubscribed = true

		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[name]
		for i, s := range list {
			if s == sub {
				b.subs[name] = append(list[:i], list[i+1:]...)
				break
			}
		}
		close(sub.done)
	}
}

// Emit notifies every subscriber of name with payload. Delivery to a given
// subscriber is ordered relative to other Emit calls for the same name;
// delivery across different subscribers is independent.
func (b *Bus) Emit(name Name, payload any) {
	b.mu.RLock()
	subs := append([]*subscription(nil), b.subs[name]...)
	b.mu.RUnlock()

	for _, s := range subs {
		select {
		case s.queue <- payload:
		default:
			// Subscriber fell behind; drop rather than block the recording
			// hot path emitting this event.
		}
	}
}
