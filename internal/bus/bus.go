// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package bus implements the typed publish/subscribe channel that decouples
// action producers (the HTTP API, the remote service) from the stores that
// react to them. Every subscriber owns a buffered channel drained by a
// single consumer goroutine, so each store processes actions strictly in
// arrival order without shared mutable state.
package bus

import "sync"

// subscriberBuffer is the per-subscriber channel capacity. Dispatch blocks
// once a subscriber falls this far behind rather than dropping actions.
const subscriberBuffer = 256

// Action is a tagged value carried on the bus. Concrete action families are
// closed sets of structs defined by their producers; consumers type-switch
// over the kinds they recognize and ignore the rest.
type Action any

// Dispatcher fans dispatched actions out to every live subscription.
type Dispatcher struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]*Subscription
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: make(map[int]*Subscription)}
}

// Subscribe registers a new subscription. The caller must drain C until it
// calls Close, otherwise dispatchers will eventually block.
func (d *Dispatcher) Subscribe() *Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	sub := &Subscription{
		id: d.nextID,
		d:  d,
		ch: make(chan Action, subscriberBuffer),
	}
	d.subs[sub.id] = sub
	return sub
}

// Dispatch delivers the action to every subscription in registration order.
// Delivery to one subscriber never reorders actions for another: each
// subscriber sees dispatches in the order this method was called.
func (d *Dispatcher) Dispatch(action Action) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, sub := range d.subs {
		sub.ch <- action
	}
}

// Subscription is one consumer's ordered view of the bus.
type Subscription struct {
	id   int
	d    *Dispatcher
	ch   chan Action
	once sync.Once
}

// C returns the channel actions are delivered on. It is closed by Close.
func (s *Subscription) C() <-chan Action {
	return s.ch
}

// Close removes the subscription from the dispatcher and closes its channel.
// Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.d.mu.Lock()
		delete(s.d.subs, s.id)
		s.d.mu.Unlock()
		close(s.ch)
	})
}
