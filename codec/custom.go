package codec

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/wippyai/peer-interop/errors"
)

// SerializeFunc writes v, which was declared as a custom kind.
type SerializeFunc func(s *Serializer, v any) error

// DeserializeFunc reads exactly the bytes its SerializeFunc wrote.
type DeserializeFunc func(d *Deserializer) (any, error)

type serializerEntry struct {
	fn       SerializeFunc
	priority int
}

type deserializerEntry struct {
	fn       DeserializeFunc
	priority int
}

// Registry maps exact kind names to prioritized custom (de)serializers.
// Higher priority wins; equal priorities resolve to the first registered.
// It is safe for concurrent use.
type Registry struct {
	serializers   map[string][]serializerEntry
	deserializers map[string][]deserializerEntry
	mu            sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		serializers:   make(map[string][]serializerEntry),
		deserializers: make(map[string][]deserializerEntry),
	}
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry seeded with "Date".
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		RegisterDate(defaultRegistry)
	})
	return defaultRegistry
}

// RegisterSerializer adds fn for kind.
func (r *Registry) RegisterSerializer(kind string, priority int, fn SerializeFunc) error {
	if kind == "" || fn == nil {
		return errors.Registration(errors.PhaseCustom, "serializer "+kind, errors.Unsupported(errors.PhaseCustom, "empty kind or nil function"))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := append(r.serializers[kind], serializerEntry{fn: fn, priority: priority})
	sort.SliceStable(list, func(i, j int) bool { return list[i].priority > list[j].priority })
	r.serializers[kind] = list
	return nil
}

// RegisterDeserializer adds fn for kind.
func (r *Registry) RegisterDeserializer(kind string, priority int, fn DeserializeFunc) error {
	if kind == "" || fn == nil {
		return errors.Registration(errors.PhaseCustom, "deserializer "+kind, errors.Unsupported(errors.PhaseCustom, "empty kind or nil function"))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := append(r.deserializers[kind], deserializerEntry{fn: fn, priority: priority})
	sort.SliceStable(list, func(i, j int) bool { return list[i].priority > list[j].priority })
	r.deserializers[kind] = list
	return nil
}

// Serializer returns the winning serializer for kind.
func (r *Registry) Serializer(kind string) (SerializeFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.serializers[kind]
	if len(list) == 0 {
		return nil, false
	}
	return list[0].fn, true
}

// Deserializer returns the winning deserializer for kind.
func (r *Registry) Deserializer(kind string) (DeserializeFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.deserializers[kind]
	if len(list) == 0 {
		return nil, false
	}
	return list[0].fn, true
}

// Kinds returns the sorted kinds with at least one registered direction.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	kinds := lo.Uniq(append(lo.Keys(r.serializers), lo.Keys(r.deserializers)...))
	r.mu.RUnlock()
	sort.Strings(kinds)
	return kinds
}

// DateKind is the kind name of time.Time values.
const DateKind = "Date"

// DateLayout is the ISO-8601 layout dates are written in, always UTC with
// millisecond precision.
const DateLayout = "2006-01-02T15:04:05.000Z"

// RegisterDate registers the ISO-8601 string encoding for DateKind at
// priority 0.
func RegisterDate(r *Registry) {
	_ = r.RegisterSerializer(DateKind, 0, serializeDate)
	_ = r.RegisterDeserializer(DateKind, 0, deserializeDate)
}

func serializeDate(s *Serializer, v any) error {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return errors.TypeMismatch(errors.PhaseCustom, []string{DateKind}, "*time.Time(nil)", "string")
		}
		t = *x
	default:
		return errors.TypeMismatch(errors.PhaseCustom, []string{DateKind}, typeName(v), "string")
	}
	s.WriteString(t.UTC().Format(DateLayout))
	return nil
}

func deserializeDate(d *Deserializer) (any, error) {
	str, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, str)
	if err != nil {
		return nil, errors.New(errors.PhaseCustom, errors.KindInvalidData).
			Path(DateKind).
			WireType("string").
			Value(str).
			Cause(err).
			Detail("parse date").
			Build()
	}
	return t, nil
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
