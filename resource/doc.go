// Package resource provides the reference-counted resource holder.
//
// Managed objects and callbacks never cross the native boundary. Instead they
// are registered here and only their integer IDs are exchanged. The native
// side adjusts lifetimes through hold and release calls.
//
// # Lifecycle
//
//	holder := resource.NewHolder()
//
//	id := holder.RegisterAndHold(obj) // count 1, id 100 on a fresh holder
//	_ = holder.Hold(id)                // count 2
//	_ = holder.Release(id)             // count 1
//	_ = holder.Release(id)             // evicted
//	err := holder.Release(id)          // errors.Is(err, resource.ErrNotFound)
//
// IDs start at FirstID and increase monotonically. When the counter reaches
// LastID it wraps back to FirstID and skips IDs that are still live.
//
// # Observers
//
// Observers receive EventRegistered, EventHeld, EventReleased and EventEvicted:
//
//	cancel := holder.Subscribe(resource.ObserverFunc(func(e resource.Event) {
//	    if e.Type == resource.EventEvicted {
//	        log.Printf("resource %d evicted", e.ID)
//	    }
//	}))
//	defer cancel()
//
// Values implementing Dropper are dropped when evicted.
//
// # Process-wide Holder
//
// Default returns a shared holder for callers that do not inject their own.
// Tests and multi-peer hosts should prefer NewHolder.
package resource
