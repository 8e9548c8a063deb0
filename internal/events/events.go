// Package events provides synchronous publish/subscribe primitives.
//
// [Subject] replays its latest value to every new subscriber, which suits state such as the current session.
// [Signal] carries no payload and does not replay; subscribers re-query the state they care about.
//
// Delivery happens on the publishing goroutine, in subscription order, before Publish/Notify/Fire returns.
// Each Subscribe call returns an unsubscribe func that the subscriber owns.
package events

import "sync"

type subscription[T any] struct {
	id int
	fn func(T)
}

// registry is the ordered subscriber list shared by [Subject] and [Signal].
type registry[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription[T]
}

func (r *registry[T]) add(fn func(T)) (int, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.subs = append(r.subs, subscription[T]{id: id, fn: fn})

	var once sync.Once
	return id, func() { once.Do(func() { r.remove(id) }) }
}

func (r *registry[T]) remove(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.subs {
		if s.id == id {
			r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
			return
		}
	}
}

// snapshot copies the subscriber list so callbacks run without the lock held.
func (r *registry[T]) snapshot() []subscription[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]subscription[T], len(r.subs))
	copy(out, r.subs)
	return out
}

func (r *registry[T]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Subject holds a current value and broadcasts every change.
type Subject[T any] struct {
	mu    sync.RWMutex
	value T
	reg   registry[T]
}

// NewSubject creates a [Subject] whose current value is initial.
func NewSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{value: initial}
}

// Value returns the current value.
func (s *Subject[T]) Value() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Publish replaces the current value and delivers it to every subscriber.
func (s *Subject[T]) Publish(v T) {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()

	for _, sub := range s.reg.snapshot() {
		sub.fn(v)
	}
}

// Set replaces the current value without delivering it. Pair it with [Subject.Notify] when the
// value must change under a caller's lock but delivery has to wait until that lock is released.
func (s *Subject[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()
}

// Notify delivers the current value to every subscriber.
//
// The value is read at delivery time, so a later [Subject.Set] that lands first is what subscribers see.
func (s *Subject[T]) Notify() {
	v := s.Value()
	for _, sub := range s.reg.snapshot() {
		sub.fn(v)
	}
}

// Subscribe registers fn and immediately calls it with the current value.
func (s *Subject[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	_, unsubscribe = s.reg.add(fn)
	fn(s.Value())
	return unsubscribe
}

// Subscribers returns the number of active subscriptions.
func (s *Subject[T]) Subscribers() int { return s.reg.len() }

// Signal is a content-less, fire-only notification.
type Signal struct {
	reg registry[struct{}]
}

// NewSignal creates a [Signal] with no subscribers.
func NewSignal() *Signal { return &Signal{} }

// Fire notifies every subscriber.
func (s *Signal) Fire() {
	for _, sub := range s.reg.snapshot() {
		sub.fn(struct{}{})
	}
}

// Subscribe registers fn. It is not called until the next [Signal.Fire].
func (s *Signal) Subscribe(fn func()) (unsubscribe func()) {
	_, unsubscribe = s.reg.add(func(struct{}) { fn() })
	return unsubscribe
}

// Subscribers returns the number of active subscriptions.
func (s *Signal) Subscribers() int { return s.reg.len() }
