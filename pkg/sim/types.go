// Package sim provides in-memory badge peripherals for running the demos
// on a host.
package sim

import (
	"sync"

	fx "github.com/robotalks/badge.go/pkg/framework"
)

// Object is a simulated peripheral.
type Object interface {
	fx.Named
}

// ChangeListener listens for changes of simulated peripherals.
type ChangeListener interface {
	ObjectChanged(Object)
}

// ChangeListenerFunc is the func form of ChangeListener.
type ChangeListenerFunc func(Object)

// ObjectChanged implements ChangeListener.
func (f ChangeListenerFunc) ObjectChanged(obj Object) {
	f(obj)
}

// ChangeCaster keeps listeners and casts notifications to them.
type ChangeCaster struct {
	lock      sync.RWMutex
	listeners []ChangeListener
}

// SubscribeChange adds a listener.
func (c *ChangeCaster) SubscribeChange(ln ChangeListener) {
	c.lock.Lock()
	c.listeners = append(c.listeners, ln)
	c.lock.Unlock()
}

// ObjectChanged implements ChangeListener.
func (c *ChangeCaster) ObjectChanged(obj Object) {
	c.lock.RLock()
	listeners := c.listeners
	c.lock.RUnlock()
	for _, ln := range listeners {
		ln.ObjectChanged(obj)
	}
}
