// Package changes decides when the IDE's tool list has changed.
package changes

import (
	"bytes"
	"sync"
)

// Change is the outcome of observing one tool listing.
type Change int

const (
	// ChangeNone means the listing matches the previous one.
	ChangeNone Change = iota
	// ChangeBaseline means this is the first listing ever observed.
	ChangeBaseline
	// ChangeChanged means the listing differs from the previous one.
	ChangeChanged
)

func (c Change) String() string {
	switch c {
	case ChangeNone:
		return "none"
	case ChangeBaseline:
		return "baseline"
	case ChangeChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// Notifier is told that the tool list changed. payload is the new listing.
type Notifier interface {
	NotifyToolsChanged(payload []byte)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(payload []byte)

// NotifyToolsChanged calls f(payload).
func (f NotifierFunc) NotifyToolsChanged(payload []byte) {
	f(payload)
}

// Detector compares successive tool listings.
//
// The stored listing is in one of three states: unset (nothing observed yet),
// the empty sentinel (set by Reset after a failed resolution) or the last
// observed payload. Only a transition away from a set listing notifies.
type Detector struct {
	mu       sync.Mutex
	notifier Notifier
	seen     bool
	last     []byte
}

// NewDetector creates a detector reporting to n. n may be nil and set later.
func NewDetector(n Notifier) *Detector {
	return &Detector{notifier: n}
}

// SetNotifier replaces the notifier.
func (d *Detector) SetNotifier(n Notifier) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notifier = n
}

// Observe records a successful tool listing and notifies at most once.
func (d *Detector) Observe(payload []byte) Change {
	d.mu.Lock()
	if !d.seen {
		d.seen = true
		d.last = bytes.Clone(payload)
		d.mu.Unlock()
		return ChangeBaseline
	}
	if bytes.Equal(d.last, payload) {
		d.mu.Unlock()
		return ChangeNone
	}
	d.last = bytes.Clone(payload)
	n := d.notifier
	d.mu.Unlock()

	if n != nil {
		n.NotifyToolsChanged(bytes.Clone(payload))
	}
	return ChangeChanged
}

// Reset sets the stored listing to the empty sentinel. The next non-empty
// listing is then reported as a change, even if it matches one seen before.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = true
	d.last = nil
}

// Last returns a copy of the stored listing.
func (d *Detector) Last() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return bytes.Clone(d.last)
}
