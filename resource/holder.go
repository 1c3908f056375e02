package resource

import (
	"io"
	"reflect"
	"sort"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/peer-interop/errors"
)

type entry struct {
	value any
	count int32
}

type subscription struct {
	o Observer
}

// Holder maps resource IDs to managed objects with manual reference counting.
// It is safe for concurrent use.
type Holder struct {
	entries   map[ID]*entry
	observers []*subscription
	next      ID
	mu        sync.Mutex
	obsMu     sync.RWMutex
}

// NewHolder creates an empty holder whose first ID is FirstID.
func NewHolder() *Holder {
	return &Holder{
		entries: make(map[ID]*entry),
		next:    FirstID,
	}
}

var (
	defaultHolder     *Holder
	defaultHolderOnce sync.Once
)

// Default returns the process-wide holder.
func Default() *Holder {
	defaultHolderOnce.Do(func() {
		defaultHolder = NewHolder()
	})
	return defaultHolder
}

// RegisterAndHold stores v with a holders count of 1 and returns a fresh ID.
// IDs are never reused while live.
func (h *Holder) RegisterAndHold(v any) ID {
	h.mu.Lock()
	id := h.allocate()
	h.entries[id] = &entry{value: v, count: 1}
	h.mu.Unlock()

	Logger().Debug("resource registered", zap.Int32("id", int32(id)))
	h.notify(Event{Type: EventRegistered, ID: id, Value: v, Count: 1})
	return id
}

// allocate must be called with mu held.
func (h *Holder) allocate() ID {
	for {
		id := h.next
		if h.next == LastID {
			h.next = FirstID
		} else {
			h.next++
		}
		if _, live := h.entries[id]; !live {
			return id
		}
	}
}

// Hold increments the holders count of id.
func (h *Holder) Hold(id ID) error {
	h.mu.Lock()
	e, ok := h.entries[id]
	if !ok {
		h.mu.Unlock()
		return errors.NotFound(errors.PhaseResource, "resource", id)
	}
	e.count++
	count, value := e.count, e.value
	h.mu.Unlock()

	h.notify(Event{Type: EventHeld, ID: id, Value: value, Count: count})
	return nil
}

// Release decrements the holders count of id and evicts the entry when the
// count reaches zero.
func (h *Holder) Release(id ID) error {
	h.mu.Lock()
	e, ok := h.entries[id]
	if !ok {
		h.mu.Unlock()
		return errors.NotFound(errors.PhaseResource, "resource", id)
	}
	e.count--
	count, value := e.count, e.value
	if count <= 0 {
		delete(h.entries, id)
	}
	h.mu.Unlock()

	if count > 0 {
		h.notify(Event{Type: EventReleased, ID: id, Value: value, Count: count})
		return nil
	}
	h.evicted(id, value)
	return nil
}

// Get returns the object stored under id.
func (h *Holder) Get(id ID) (any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.entries[id]
	if !ok {
		return nil, errors.NotFound(errors.PhaseResource, "resource", id)
	}
	return e.value, nil
}

// Has reports whether id is live.
func (h *Holder) Has(id ID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.entries[id]
	return ok
}

// Count returns the holders count of id, or 0 if id is not live.
func (h *Holder) Count(id ID) int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if e, ok := h.entries[id]; ok {
		return e.count
	}
	return 0
}

// Len returns the number of live entries.
func (h *Holder) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// IDs returns a sorted snapshot of the live IDs.
func (h *Holder) IDs() []ID {
	h.mu.Lock()
	ids := lo.Keys(h.entries)
	h.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Close evicts every entry regardless of its count. Values implementing
// io.Closer are closed and their errors combined. The holder stays usable
// and numbering restarts at FirstID.
func (h *Holder) Close() error {
	h.mu.Lock()
	entries := h.entries
	h.entries = make(map[ID]*entry)
	h.next = FirstID
	h.mu.Unlock()

	if len(entries) > 0 {
		Logger().Debug("closing holder", zap.Int("live", len(entries)))
	}

	ids := lo.Keys(entries)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var err error
	for _, id := range ids {
		v := entries[id].value
		if c, ok := v.(io.Closer); ok {
			err = multierr.Append(err, c.Close())
		}
		h.evicted(id, v)
	}
	return err
}

// Subscribe adds an observer for lifecycle events. The returned function
// removes this subscription and is the only way to remove observers that
// are not comparable, such as ObserverFunc.
func (h *Holder) Subscribe(o Observer) (cancel func()) {
	sub := &subscription{o: o}
	h.obsMu.Lock()
	h.observers = append(h.observers, sub)
	h.obsMu.Unlock()

	return func() {
		h.obsMu.Lock()
		defer h.obsMu.Unlock()
		h.remove(func(s *subscription) bool { return s == sub })
	}
}

// Unsubscribe removes the first subscription of o. Observers whose dynamic
// type is not comparable are never matched.
func (h *Holder) Unsubscribe(o Observer) {
	t := reflect.TypeOf(o)
	if t == nil || !t.Comparable() {
		return
	}
	h.obsMu.Lock()
	defer h.obsMu.Unlock()
	h.remove(func(s *subscription) bool {
		return reflect.TypeOf(s.o) == t && s.o == o
	})
}

func (h *Holder) remove(match func(*subscription) bool) {
	for i, s := range h.observers {
		if match(s) {
			h.observers = append(h.observers[:i], h.observers[i+1:]...)
			return
		}
	}
}

func (h *Holder) evicted(id ID, v any) {
	if d, ok := v.(Dropper); ok {
		d.Drop()
	}
	Logger().Debug("resource evicted", zap.Int32("id", int32(id)))
	h.notify(Event{Type: EventEvicted, ID: id, Value: v})
}

func (h *Holder) notify(e Event) {
	h.obsMu.RLock()
	defer h.obsMu.RUnlock()
	for _, s := range h.observers {
		s.o.OnResourceEvent(e)
	}
}
