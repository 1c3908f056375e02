package codec

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/peer-interop/errors"
	"github.com/wippyai/peer-interop/resource"
)

// Promise is settled when the native side invokes its continuation
// callback. The continuation is registered in the serializer's holder; the
// promise keeps one extra hold on it until it settles or is canceled.
type Promise[T any] struct {
	err    error
	value  T
	holder *resource.Holder
	decode func(*Deserializer) (T, error)
	done   chan struct{}
	once   sync.Once
	id     resource.ID
}

// HoldAndWriteCallbackForPromise registers a continuation that decodes a T
// with decode and writes it as a callback. The returned promise settles
// when the continuation is dispatched.
func HoldAndWriteCallbackForPromise[T any](s *Serializer, decode func(*Deserializer) (T, error)) *Promise[T] {
	p := &Promise[T]{
		holder: s.holder,
		decode: decode,
		done:   make(chan struct{}),
	}
	p.id = s.HoldAndWriteCallback(p, 0, 0, 0, 0)
	// Cannot fail: the serializer's own hold keeps the entry live.
	_ = s.holder.Hold(p.id)
	return p
}

// HoldAndWriteCallbackForPromiseVoid is HoldAndWriteCallbackForPromise for
// continuations that carry no value.
func HoldAndWriteCallbackForPromiseVoid(s *Serializer) *Promise[struct{}] {
	return HoldAndWriteCallbackForPromise(s, func(*Deserializer) (struct{}, error) {
		return struct{}{}, nil
	})
}

// ID returns the resource ID of the continuation.
func (p *Promise[T]) ID() resource.ID {
	return p.id
}

// Invoke reads the continuation argument and settles the promise. A decode
// failure rejects the promise and is returned.
func (p *Promise[T]) Invoke(d *Deserializer) error {
	var v T
	var err error
	if p.decode != nil {
		v, err = p.decode(d)
	}
	p.settle(v, err)
	return err
}

// Reject settles the promise with err.
func (p *Promise[T]) Reject(err error) {
	var zero T
	p.settle(zero, err)
}

// Cancel rejects a pending promise with a canceled error and drops its hold
// on the continuation.
func (p *Promise[T]) Cancel() {
	p.Reject(errors.Canceled(errors.PhaseCallback, "promise canceled"))
}

func (p *Promise[T]) settle(v T, err error) {
	p.once.Do(func() {
		p.value, p.err = v, err
		close(p.done)
		if rerr := p.holder.Release(p.id); rerr != nil {
			Logger().Warn("release promise continuation", zap.Int32("id", int32(p.id)), zap.Error(rerr))
		}
	})
}

// Done is closed once the promise settles.
func (p *Promise[T]) Done() <-chan struct{} {
	return p.done
}

// Settled reports whether the promise has settled.
func (p *Promise[T]) Settled() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Await blocks until the promise settles or ctx ends. A ctx ending does not
// cancel the promise.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, errors.Wrap(errors.PhaseCallback, errors.KindCanceled, ctx.Err(), "await promise")
	}
}
