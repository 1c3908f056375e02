package peer

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	interop "github.com/wippyai/peer-interop"
	"github.com/wippyai/peer-interop/buffer"
	"github.com/wippyai/peer-interop/codec"
	"github.com/wippyai/peer-interop/errors"
	"github.com/wippyai/peer-interop/metrics"
	"github.com/wippyai/peer-interop/resource"
)

// Hook identifiers embedded in callback resources written for this peer.
// They name the host functions of the interop module.
const (
	HookHold     codec.Pointer = 1
	HookRelease  codec.Pointer = 2
	HookCall     codec.Pointer = 3
	HookCallSync codec.Pointer = 4
)

// Config holds configuration for peer creation.
type Config struct {
	// Holder backs resource IDs exchanged with the guest.
	// Default: a fresh holder owned and closed by the peer.
	Holder *resource.Holder

	// Dispatcher routes interop.call messages. Default: codec.NewDispatcher().
	Dispatcher *codec.Dispatcher

	// Registry supplies custom kinds. Default: codec.DefaultRegistry().
	Registry *codec.Registry

	// Metrics is optional. When set it observes the holder, serializer
	// buffers and call sizes.
	Metrics *metrics.Collector

	// HostModule is the import module name of the host hooks.
	HostModule string

	// Guest export names.
	MemoryExport string
	MallocExport string
	FreeExport   string

	// MemoryLimitPages sets the maximum guest memory in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		HostModule:   "interop",
		MemoryExport: "memory",
		MallocExport: "malloc",
		FreeExport:   "free",
	}
}

func (c *Config) withDefaults() (Config, bool) {
	out := *DefaultConfig()
	if c != nil {
		if c.Holder != nil {
			out.Holder = c.Holder
		}
		out.Dispatcher = c.Dispatcher
		out.Registry = c.Registry
		out.Metrics = c.Metrics
		out.MemoryLimitPages = c.MemoryLimitPages
		if c.HostModule != "" {
			out.HostModule = c.HostModule
		}
		if c.MemoryExport != "" {
			out.MemoryExport = c.MemoryExport
		}
		if c.MallocExport != "" {
			out.MallocExport = c.MallocExport
		}
		if c.FreeExport != "" {
			out.FreeExport = c.FreeExport
		}
	}
	owned := out.Holder == nil
	if owned {
		out.Holder = resource.NewHolder()
	}
	if out.Dispatcher == nil {
		out.Dispatcher = codec.NewDispatcher()
	}
	if out.Registry == nil {
		out.Registry = codec.DefaultRegistry()
	}
	return out, owned
}

// Peer is a native peer hosted in a wazero runtime.
//
// Calls are serialized by a mutex. Callback handlers run on the calling
// goroutine while the mutex is held and must not call back into the peer.
type Peer struct {
	runtime wazero.Runtime
	host    api.Module
	module  api.Module
	mem     *Memory
	malloc  api.Function
	free    api.Function
	cfg     Config
	hookErr error
	unsub   func()
	mu      sync.Mutex
	owned   bool
}

var _ interop.Boundary = (*Peer)(nil)

// New instantiates the host module and the guest wasm.
func New(ctx context.Context, wasm []byte, cfg *Config) (*Peer, error) {
	c, owned := cfg.withDefaults()

	runtimeCfg := wazero.NewRuntimeConfig()
	if c.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(c.MemoryLimitPages)
	}

	p := &Peer{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		cfg:     c,
		owned:   owned,
	}
	if c.Metrics != nil {
		p.unsub = c.Holder.Subscribe(c.Metrics)
	}

	if err := p.instantiate(ctx, wasm); err != nil {
		_ = p.Close(ctx)
		return nil, err
	}
	Logger().Debug("peer ready", zap.String("host_module", c.HostModule), zap.Uint32("memory_bytes", p.mem.Size()))
	return p, nil
}

func (p *Peer) instantiate(ctx context.Context, wasm []byte) error {
	i32 := []api.ValueType{api.ValueTypeI32}
	i32i32 := []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}

	builder := p.runtime.NewHostModuleBuilder(p.cfg.HostModule)
	builder.NewFunctionBuilder().WithGoModuleFunction(api.GoModuleFunc(p.hostHold), i32, i32).Export("hold")
	builder.NewFunctionBuilder().WithGoModuleFunction(api.GoModuleFunc(p.hostRelease), i32, i32).Export("release")
	builder.NewFunctionBuilder().WithGoModuleFunction(api.GoModuleFunc(p.hostCall), i32i32, i32).Export("call")
	builder.NewFunctionBuilder().WithGoModuleFunction(api.GoModuleFunc(p.hostCall), i32i32, i32).Export("call_sync")

	host, err := builder.Instantiate(ctx)
	if err != nil {
		return errors.Registration(errors.PhasePeer, "host module "+p.cfg.HostModule, err)
	}
	p.host = host

	compiled, err := p.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return errors.Instantiation(err)
	}
	mod, err := p.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		return errors.Instantiation(err)
	}
	p.module = mod

	mem := mod.ExportedMemory(p.cfg.MemoryExport)
	if mem == nil {
		return errors.NotFound(errors.PhasePeer, "memory export", p.cfg.MemoryExport)
	}
	p.mem = &Memory{Mem: mem}

	if p.malloc = mod.ExportedFunction(p.cfg.MallocExport); p.malloc == nil {
		return errors.NotFound(errors.PhasePeer, "malloc export", p.cfg.MallocExport)
	}
	if p.free = mod.ExportedFunction(p.cfg.FreeExport); p.free == nil {
		return errors.NotFound(errors.PhasePeer, "free export", p.cfg.FreeExport)
	}
	return nil
}

// Holder returns the holder backing exchanged resource IDs.
func (p *Peer) Holder() *resource.Holder {
	return p.cfg.Holder
}

// Dispatcher returns the dispatcher for interop.call messages.
func (p *Peer) Dispatcher() *codec.Dispatcher {
	return p.cfg.Dispatcher
}

// Memory returns the guest memory.
func (p *Peer) Memory() interop.Memory {
	return p.mem
}

// Allocator returns the guest allocator bound to ctx.
func (p *Peer) Allocator(ctx context.Context) interop.Allocator {
	return &Allocator{Ctx: ctx, MallocFn: p.malloc, FreeFn: p.free}
}

// Hooks returns the hook identifiers to embed in callback resources.
func (p *Peer) Hooks() codec.Hooks {
	return codec.Hooks{Hold: HookHold, Release: HookRelease, Call: HookCall, CallSync: HookCallSync}
}

// CodecConfig returns a codec configuration wired to this peer.
func (p *Peer) CodecConfig() *codec.Config {
	cfg := &codec.Config{
		Holder:   p.cfg.Holder,
		Registry: p.cfg.Registry,
		Hooks:    p.Hooks(),
	}
	if p.cfg.Metrics != nil {
		cfg.GrowHook = p.cfg.Metrics.GrowHook
	}
	return cfg
}

// NewSerializer returns a serializer wired to this peer.
func (p *Peer) NewSerializer() *codec.Serializer {
	return codec.NewSerializerWithConfig(p.CodecConfig())
}

// NewDeserializer returns a deserializer over data wired to this peer.
func (p *Peer) NewDeserializer(data []byte) *codec.Deserializer {
	return codec.NewDeserializerWithConfig(data, p.CodecConfig())
}

// Call copies args into guest memory, invokes export(ptr, len) -> i64 and
// copies the (ptr << 32 | len) result out. The argument allocation is freed;
// a distinct result allocation is freed too. Errors raised by host hooks
// during the call are returned.
func (p *Peer) Call(ctx context.Context, export string, args []byte) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.module == nil {
		return nil, errors.Closed(errors.PhasePeer, "peer")
	}
	fn := p.module.ExportedFunction(export)
	if fn == nil {
		return nil, errors.NotFound(errors.PhasePeer, "export", export)
	}

	alloc := p.Allocator(ctx)
	al := buffer.NewAllocationList()
	defer al.FreeAndRelease(alloc)

	in, err := buffer.Export(p.mem, alloc, al, args)
	if err != nil {
		return nil, err
	}

	Logger().Debug("peer call", zap.String("export", export), zap.Int("args", len(args)))

	p.hookErr = nil
	results, err := fn.Call(ctx, api.EncodeU32(in.Ptr), api.EncodeU32(in.Len))
	hookErr := p.hookErr
	p.hookErr = nil
	if err != nil {
		return nil, multierr.Append(errors.Wrap(errors.PhasePeer, errors.KindInvalidData, err, "call "+export), hookErr)
	}
	if len(results) == 0 {
		return nil, errors.InvalidData(errors.PhasePeer, []string{export}, "export returned no result")
	}

	data, err := takeResult(p.mem, al, in, results[0])
	if err != nil {
		return nil, multierr.Append(err, hookErr)
	}

	if p.cfg.Metrics != nil {
		p.cfg.Metrics.ObserveCall(len(args), len(data))
	}
	if hookErr != nil {
		return data, hookErr
	}
	return data, nil
}

// takeResult copies the packed result region out of mem. A result
// allocation distinct from the arguments is recorded in al before the copy,
// so it is freed even when the copy fails.
func takeResult(mem interop.Memory, al *buffer.AllocationList, in buffer.Region, packed uint64) ([]byte, error) {
	out := buffer.Region{Ptr: uint32(packed >> 32), Len: uint32(packed)}
	if out.Ptr != 0 && out.Ptr != in.Ptr {
		al.Add(out.Ptr, out.Len)
	}
	return buffer.Import(mem, out)
}

// Invoke calls export with the serializer's bytes, releases the serializer
// and returns a deserializer over the result.
func (p *Peer) Invoke(ctx context.Context, export string, s *codec.Serializer) (*codec.Deserializer, error) {
	out, err := p.Call(ctx, export, s.Bytes())
	err = multierr.Append(err, s.Release())
	if err != nil {
		return nil, err
	}
	return p.NewDeserializer(out), nil
}

func (p *Peer) hookFailed(name string, err error) {
	Logger().Warn("host hook failed", zap.String("hook", name), zap.Error(err))
	p.hookErr = multierr.Append(p.hookErr, err)
}

func status(err error) uint64 {
	if err != nil {
		return api.EncodeI32(-1)
	}
	return api.EncodeI32(0)
}

func (p *Peer) hostHold(_ context.Context, _ api.Module, stack []uint64) {
	id := resource.ID(api.DecodeI32(stack[0]))
	err := p.cfg.Holder.Hold(id)
	if err != nil {
		p.hookFailed("hold", err)
	} else {
		Logger().Debug("host hold", zap.Int32("id", int32(id)))
	}
	stack[0] = status(err)
}

func (p *Peer) hostRelease(_ context.Context, _ api.Module, stack []uint64) {
	id := resource.ID(api.DecodeI32(stack[0]))
	err := p.cfg.Holder.Release(id)
	if err != nil {
		p.hookFailed("release", err)
	} else {
		Logger().Debug("host release", zap.Int32("id", int32(id)))
	}
	stack[0] = status(err)
}

func (p *Peer) hostCall(_ context.Context, mod api.Module, stack []uint64) {
	ptr, length := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])
	err := p.dispatch(mod, ptr, length)
	if err != nil {
		p.hookFailed("call", err)
	}
	stack[0] = status(err)
}

func (p *Peer) dispatch(mod api.Module, ptr, length uint32) error {
	mem := WrapMemory(mod.Memory())
	if mem == nil {
		return errors.NotFound(errors.PhasePeer, "memory of caller", mod.Name())
	}
	data, err := buffer.Import(mem, buffer.Region{Ptr: ptr, Len: length})
	if err != nil {
		return err
	}
	return p.cfg.Dispatcher.Dispatch(p.NewDeserializer(data))
}

// Close closes the guest, the host module and the runtime. A holder owned
// by the peer is closed too; live resources at that point are logged.
func (p *Peer) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.module != nil {
		err = multierr.Append(err, p.module.Close(ctx))
		p.module = nil
	}
	if p.host != nil {
		err = multierr.Append(err, p.host.Close(ctx))
		p.host = nil
	}
	if p.runtime != nil {
		err = multierr.Append(err, p.runtime.Close(ctx))
		p.runtime = nil
	}

	if p.unsub != nil {
		p.unsub()
		p.unsub = nil
	}
	if p.owned {
		if n := p.cfg.Holder.Len(); n > 0 {
			Logger().Warn("closing peer with live resources", zap.Int("live", n))
		}
		err = multierr.Append(err, p.cfg.Holder.Close())
	}
	return err
}
