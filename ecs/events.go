package ecs

import (
	"slices"

	"github.com/google/uuid"
)

// Handler receives an event payload.
type Handler func(payload any)

// Subscription is a registered handler on a Channel.
type Subscription struct {
	ID      uuid.UUID
	Event   string
	handler Handler
	channel *Channel
	once    bool
}

// Cancel detaches the handler. Cancelling twice is harmless.
func (s *Subscription) Cancel() {
	if s.channel == nil {
		return
	}
	s.channel.unsubscribe(s)
	s.channel = nil
}

// Channel is a synchronous event channel. Handlers run on the emitting
// goroutine, in subscription order, before Emit returns.
type Channel struct {
	subscribers map[string][]*Subscription
}

func NewChannel() *Channel {
	return &Channel{subscribers: make(map[string][]*Subscription)}
}

// On subscribes handler to event.
func (ch *Channel) On(event string, handler Handler) *Subscription {
	return ch.subscribe(event, handler, false)
}

// Once subscribes handler to the next emission of event only.
func (ch *Channel) Once(event string, handler Handler) *Subscription {
	return ch.subscribe(event, handler, true)
}

func (ch *Channel) subscribe(event string, handler Handler, once bool) *Subscription {
	if handler == nil {
		panic("ecs: nil event handler")
	}
	sub := &Subscription{
		ID:      uuid.New(),
		Event:   event,
		handler: handler,
		channel: ch,
		once:    once,
	}
	ch.subscribers[event] = append(ch.subscribers[event], sub)
	return sub
}

func (ch *Channel) unsubscribe(sub *Subscription) {
	subs := slices.DeleteFunc(ch.subscribers[sub.Event], func(s *Subscription) bool {
		return s.ID == sub.ID
	})
	if len(subs) == 0 {
		delete(ch.subscribers, sub.Event)
		return
	}
	ch.subscribers[sub.Event] = subs
}

// Emit delivers payload to every subscriber of event. Handlers subscribed
// during delivery first see the next emission.
func (ch *Channel) Emit(event string, payload any) {
	for _, sub := range slices.Clone(ch.subscribers[event]) {
		if sub.channel == nil {
			continue
		}
		if sub.once {
			sub.Cancel()
		}
		sub.handler(payload)
	}
}

// Len returns the number of handlers subscribed to event.
func (ch *Channel) Len(event string) int {
	return len(ch.subscribers[event])
}
