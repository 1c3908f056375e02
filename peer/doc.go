// Package peer hosts a native peer in a wazero runtime and carries
// serialized calls across the boundary.
//
// The peer imports a host module (default "interop") with four functions,
// each returning 0 on success and -1 on failure:
//
//	hold(id i32) i32             Holder.Hold
//	release(id i32) i32          Holder.Release
//	call(ptr i32, len i32) i32   Dispatcher.Dispatch over the message
//	call_sync(ptr i32, len i32)  same as call
//
// Callback resources written by a peer serializer carry the hook
// identifiers HookHold through HookCallSync.
//
// The peer exports its memory plus malloc(size) -> ptr and free(ptr).
// Every callable export has the signature (ptr i32, len i32) -> i64 and
// returns its result region packed as (ptr << 32) | len.
//
//	p, err := peer.New(ctx, wasm, nil)
//	if err != nil {
//	    return err
//	}
//	defer p.Close(ctx)
//
//	s := p.NewSerializer()
//	s.WriteString("hello")
//	d, err := p.Invoke(ctx, "echo", s)
package peer
