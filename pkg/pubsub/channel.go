// Package pubsub implements a bounded broadcast channel with a fixed
// number of publisher and subscriber slots.
package pubsub

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrMaximumSubscribersReached is returned when all subscriber slots are taken.
	ErrMaximumSubscribersReached = errors.New("maximum subscribers reached")
	// ErrMaximumPublishersReached is returned when all publisher slots are taken.
	ErrMaximumPublishersReached = errors.New("maximum publishers reached")
	// ErrClosed is returned when using a closed publisher or subscriber.
	ErrClosed = errors.New("closed")
)

// Policy decides what Publish does when a subscriber queue is full.
type Policy int

const (
	// Block makes the publisher wait until every subscriber has room.
	Block Policy = iota
	// DropOldest overwrites the oldest queued value of a full subscriber.
	DropOldest
)

func (p Policy) String() string {
	switch p {
	case Block:
		return "block"
	case DropOldest:
		return "drop-oldest"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy parses the name returned by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "block", "":
		return Block, nil
	case "drop-oldest", "drop":
		return DropOldest, nil
	}
	return Block, fmt.Errorf("unknown policy %q", s)
}

// LaggedError reports values a subscriber missed because its queue overflowed.
type LaggedError struct {
	Missed uint64
}

func (e *LaggedError) Error() string {
	return fmt.Sprintf("subscriber lagged, %d values missed", e.Missed)
}

// Stats is a snapshot of channel counters.
type Stats struct {
	Published   uint64
	Dropped     uint64
	Subscribers int
	Publishers  int
}

// Channel broadcasts every published value to all subscribers.
// Each subscriber owns a queue of Capacity values.
type Channel[T any] struct {
	capacity       int
	maxSubscribers int
	maxPublishers  int
	policy         Policy

	lock       sync.Mutex
	changed    chan struct{}
	subs       []*Subscriber[T]
	publishers int
	published  uint64
	dropped    uint64
}

// New creates a Channel.
func New[T any](capacity, maxSubscribers, maxPublishers int, policy Policy) *Channel[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Channel[T]{
		capacity:       capacity,
		maxSubscribers: maxSubscribers,
		maxPublishers:  maxPublishers,
		policy:         policy,
		changed:        make(chan struct{}),
	}
}

// Capacity returns the queue depth of each subscriber.
func (c *Channel[T]) Capacity() int {
	return c.capacity
}

// Policy returns the overflow policy.
func (c *Channel[T]) Policy() Policy {
	return c.policy
}

// Subscriber registers a subscriber slot.
func (c *Channel[T]) Subscriber() (*Subscriber[T], error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if len(c.subs) >= c.maxSubscribers {
		return nil, ErrMaximumSubscribersReached
	}
	s := &Subscriber[T]{ch: c, queue: newRing[T](c.capacity)}
	c.subs = append(c.subs, s)
	return s, nil
}

// MustSubscriber is Subscriber, panicking when no slot is left.
func (c *Channel[T]) MustSubscriber() *Subscriber[T] {
	s, err := c.Subscriber()
	if err != nil {
		panic(err)
	}
	return s
}

// Publisher registers a publisher slot.
func (c *Channel[T]) Publisher() (*Publisher[T], error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.publishers >= c.maxPublishers {
		return nil, ErrMaximumPublishersReached
	}
	c.publishers++
	return &Publisher[T]{ch: c}, nil
}

// MustPublisher is Publisher, panicking when no slot is left.
func (c *Channel[T]) MustPublisher() *Publisher[T] {
	p, err := c.Publisher()
	if err != nil {
		panic(err)
	}
	return p
}

// Stats returns a snapshot of the counters.
func (c *Channel[T]) Stats() Stats {
	c.lock.Lock()
	defer c.lock.Unlock()
	return Stats{
		Published:   c.published,
		Dropped:     c.dropped,
		Subscribers: len(c.subs),
		Publishers:  c.publishers,
	}
}

// notify wakes up everyone waiting on the channel state. Must be called
// with lock held.
func (c *Channel[T]) notify() {
	close(c.changed)
	c.changed = make(chan struct{})
}

func (c *Channel[T]) anyFull() bool {
	for _, s := range c.subs {
		if s.queue.full() {
			return true
		}
	}
	return false
}

func (c *Channel[T]) deliver(v T) {
	for _, s := range c.subs {
		if s.queue.push(v) {
			s.lag++
			c.dropped++
		}
	}
	c.published++
	c.notify()
}

// publish returns the wait channel when the value can't be delivered yet.
func (c *Channel[T]) publish(p *Publisher[T], v T) (<-chan struct{}, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	if c.policy == Block && c.anyFull() {
		return c.changed, nil
	}
	c.deliver(v)
	return nil, nil
}

func (c *Channel[T]) next(s *Subscriber[T], reportLag bool) (v T, wait <-chan struct{}, err error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if s.closed {
		return v, nil, ErrClosed
	}
	if s.lag > 0 {
		missed := s.lag
		s.lag = 0
		if reportLag {
			return v, nil, &LaggedError{Missed: missed}
		}
	}
	var ok bool
	if v, ok = s.queue.pop(); ok {
		c.notify()
		return v, nil, nil
	}
	return v, c.changed, nil
}

func (c *Channel[T]) removeSubscriber(s *Subscriber[T]) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for n, sub := range c.subs {
		if sub == s {
			c.subs = append(c.subs[:n], c.subs[n+1:]...)
			break
		}
	}
	c.notify()
}

func (c *Channel[T]) removePublisher(p *Publisher[T]) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	c.publishers--
	c.notify()
}

// Publisher is the sending end of a Channel.
type Publisher[T any] struct {
	ch     *Channel[T]
	closed bool
}

// Publish delivers v to every subscriber. With the Block policy it waits
// until all subscriber queues have room or ctx is done.
func (p *Publisher[T]) Publish(ctx context.Context, v T) error {
	for {
		wait, err := p.ch.publish(p, v)
		if err != nil || wait == nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-wait:
		}
	}
}

// TryPublish delivers v without waiting. It returns false when the
// Block policy would have to wait.
func (p *Publisher[T]) TryPublish(v T) bool {
	wait, err := p.ch.publish(p, v)
	return err == nil && wait == nil
}

// Close releases the publisher slot.
func (p *Publisher[T]) Close() error {
	p.ch.removePublisher(p)
	return nil
}

// Subscriber is the receiving end of a Channel.
type Subscriber[T any] struct {
	ch     *Channel[T]
	queue  *ring[T]
	lag    uint64
	closed bool
}

// Next waits for the next value. If values were dropped since the last
// read, a *LaggedError is returned first.
func (s *Subscriber[T]) Next(ctx context.Context) (T, error) {
	return s.wait(ctx, true)
}

// NextPure waits for the next value, ignoring lag notices.
func (s *Subscriber[T]) NextPure(ctx context.Context) (T, error) {
	return s.wait(ctx, false)
}

// TryNext returns the next queued value without waiting.
func (s *Subscriber[T]) TryNext() (T, bool) {
	v, wait, err := s.ch.next(s, false)
	return v, err == nil && wait == nil
}

// Len returns the number of queued values.
func (s *Subscriber[T]) Len() int {
	s.ch.lock.Lock()
	defer s.ch.lock.Unlock()
	return s.queue.len()
}

// Close releases the subscriber slot. Queued values are discarded.
func (s *Subscriber[T]) Close() error {
	s.ch.removeSubscriber(s)
	return nil
}

func (s *Subscriber[T]) wait(ctx context.Context, reportLag bool) (T, error) {
	for {
		v, wait, err := s.ch.next(s, reportLag)
		if err != nil || wait == nil {
			return v, err
		}
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-wait:
		}
	}
}
