package resource

import (
	"math"

	"github.com/wippyai/peer-interop/errors"
)

// ID is the integer handle exchanged across the native boundary in place of
// a managed object. IDs below FirstID are reserved.
type ID int32

const (
	// FirstID is the first ID handed out by a fresh holder.
	FirstID ID = 100

	// LastID is the last ID before the counter wraps back to FirstID.
	LastID ID = math.MaxInt32
)

// ErrNotFound matches any lookup of an unknown resource ID.
var ErrNotFound = &errors.Error{Phase: errors.PhaseResource, Kind: errors.KindNotFound}

// EventType identifies a resource lifecycle notification.
type EventType uint8

const (
	EventRegistered EventType = iota
	EventHeld
	EventReleased
	EventEvicted
)

func (t EventType) String() string {
	switch t {
	case EventRegistered:
		return "registered"
	case EventHeld:
		return "held"
	case EventReleased:
		return "released"
	case EventEvicted:
		return "evicted"
	}
	return "unknown"
}

// Event represents a resource lifecycle event. Count is the holders count
// after the operation; it is 0 for EventEvicted.
type Event struct {
	Value any
	ID    ID
	Count int32
	Type  EventType
}

// Observer receives notifications about resource lifecycle events.
// Observers are called outside the holder lock, in operation order per goroutine.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// OnResourceEvent calls f(e).
func (f ObserverFunc) OnResourceEvent(e Event) { f(e) }

// Dropper is optionally implemented by held values that need cleanup
// when their last holder releases them.
type Dropper interface {
	Drop()
}
