/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package busregistry

import (
	"slices"
	"sync"

	"github.com/suparena/busregistry/errors"
)

// State is the lifecycle state of a SubscriptionRegistry.
type State int32

const (
	// StateUnbound buffers registrations until the bus supplies an endpoint address.
	StateUnbound State = iota
	// StateBound persists registrations immediately. Once bound, a registry never unbinds.
	StateBound
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateBound:
		return "bound"
	default:
		return "unknown"
	}
}

// lifecycle owns the state flag, the bound address and the deferred queue.
// The three change together under one mutex so a Register racing a Bind is
// either queued before the drain or persisted after it, never lost.
type lifecycle struct {
	mu       sync.Mutex
	state    State
	address  string
	deferred []string
}

// deferOrAddress queues names while unbound. When bound it returns the endpoint
// address and true, leaving the caller to persist.
func (l *lifecycle) deferOrAddress(names []string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateBound {
		return l.address, true
	}
	l.deferred = append(l.deferred, names...)
	return "", false
}

// bind moves Unbound to Bound and hands back the drained queue.
func (l *lifecycle) bind(address string) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateBound {
		return nil, errors.ErrAlreadyBound
	}
	l.state = StateBound
	l.address = address

	drained := l.deferred
	l.deferred = nil
	return drained, nil
}

func (l *lifecycle) snapshot() (State, string, []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state, l.address, slices.Clone(l.deferred)
}
