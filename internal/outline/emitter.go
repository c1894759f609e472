package outline

import "sync"

// DefaultUpdateEvent is the event carrying a rebuilt outline.
const DefaultUpdateEvent = "update:toc"

// Handler receives an event payload.
type Handler func(payload any)

type subscription struct {
	id int
	fn Handler
}

// Emitter dispatches named events to subscribers synchronously, in
// subscription order.
type Emitter struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string][]subscription
}

// NewEmitter creates an emitter without subscribers.
func NewEmitter() *Emitter {
	return &Emitter{subs: make(map[string][]subscription)}
}

// On subscribes fn to event and returns a function that removes it.
func (e *Emitter) On(event string, fn Handler) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID
	e.subs[event] = append(e.subs[event], subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { e.off(event, id) })
	}
}

func (e *Emitter) off(event string, id int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	subs := e.subs[event]
	for i, s := range subs {
		if s.id == id {
			e.subs[event] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(e.subs[event]) == 0 {
		delete(e.subs, event)
	}
}

// Emit calls every subscriber of event with payload.
func (e *Emitter) Emit(event string, payload any) {
	e.mu.RLock()
	subs := append([]subscription(nil), e.subs[event]...)
	e.mu.RUnlock()

	for _, s := range subs {
		s.fn(payload)
	}
}
