package codec

import (
	"github.com/wippyai/peer-interop/buffer"
	"github.com/wippyai/peer-interop/resource"
)

// Config configures serializers and deserializers.
type Config struct {
	// Holder registers written objects and resolves read ones.
	// Default: resource.Default().
	Holder *resource.Holder

	// Registry supplies custom kinds. Default: DefaultRegistry().
	Registry *Registry

	// GrowHook observes serializer buffer growth.
	GrowHook buffer.GrowHook

	// Hooks are embedded in written callback resources.
	Hooks Hooks

	// InitialCapacity of the serializer buffer. Default: buffer.InitialCapacity.
	InitialCapacity int
}

func (c *Config) withDefaults() Config {
	var out Config
	if c != nil {
		out = *c
	}
	if out.Holder == nil {
		out.Holder = resource.Default()
	}
	if out.Registry == nil {
		out.Registry = DefaultRegistry()
	}
	if out.InitialCapacity <= 0 {
		out.InitialCapacity = buffer.InitialCapacity
	}
	return out
}
