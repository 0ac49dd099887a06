package bridge

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/fenwick-labs/camlink-core/internal/sdk"
)

// Logger is the optional logging interface used by the bridge.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Bridge owns the single vendor plugin handle for its lifetime.
//
// The handle is validated once at construction and never replaced. Multiple
// calls may be in flight at once; the bridge imposes no serialisation; the
// plugin is assumed to support overlapping calls for independent windows and
// devices.
type Bridge struct {
	handle sdk.Handle
	logger Logger
}

// New creates a bridge around the supplied plugin handle.
func New(handle sdk.Handle) (*Bridge, error) {
	if handle == nil {
		return nil, ErrNilHandle
	}
	return &Bridge{handle: handle, logger: noopLogger{}}, nil
}

// SetLogger sets the logger for the bridge. Call before first use.
func (b *Bridge) SetLogger(logger Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// CallSync invokes a vendor method and returns its raw result.
//
// A missing method is ErrMethodMissing, never a silent nil. A panicking
// vendor call is recovered and surfaced as a *CallError.
func (b *Bridge) CallSync(method string, args ...any) (any, error) {
	fn, ok := b.handle.Lookup(method)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMethodMissing, method)
	}
	return b.invoke(method, fn, args)
}

// invoke runs fn with a recover guard. Vendor plugins are foreign code;
// a panic becomes a *CallError instead of tearing down the process.
func (b *Bridge) invoke(method string, fn sdk.Func, args []any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			err = &CallError{Method: method, Cause: cause}
		}
	}()
	return fn(args...), nil
}

// outcome is the single settled result of an async call.
type outcome struct {
	data any
	err  error
}

// CallAsync invokes a vendor method and blocks until its outcome settles.
//
// If the last argument is an options object already carrying success/error
// callbacks, those are chained: the caller's callback runs first, then the
// bridge settles. Chained callbacks share the settle-once guard, so the
// caller is invoked at most once even when the vendor fires repeatedly. The
// caller's map is never mutated; a wrapped copy is passed to the plugin.
// Otherwise a fresh options object is appended.
//
// Settle-once: the first of {callback success, callback error, non-nil
// synchronous return} wins. A synchronous return equal to sdk.StatusFailed is
// failure on its own, covering methods that only ever signal failure
// synchronously and success via callback.
//
// ctx abandonment stops the wait but not the underlying plugin operation;
// the vendor surface offers no cancel primitive.
func (b *Bridge) CallAsync(ctx context.Context, method string, args ...any) (any, error) {
	fn, ok := b.handle.Lookup(method)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMethodMissing, method)
	}

	settled := make(chan outcome, 1)
	var once sync.Once
	// chained is the caller's own callback for this signal. Running it
	// inside the guard keeps the caller's delivery settle-once too: a
	// vendor callback firing twice must not re-invoke the caller.
	settle := func(o outcome, chained func()) {
		once.Do(func() {
			if chained != nil {
				chained()
			}
			settled <- o
		})
	}

	var callerSuccess sdk.SuccessFunc
	var callerError sdk.ErrorFunc
	opts := sdk.Options{}
	if n := len(args); n > 0 {
		if found, ok := sdk.AsOptions(args[n-1]); ok {
			callerSuccess, _ = found.Success()
			callerError, _ = found.Error()
			maps.Copy(opts, found)
			args = args[:n-1]
		}
	}

	opts[sdk.OptSuccess] = sdk.SuccessFunc(func(data any) {
		var chained func()
		if callerSuccess != nil {
			chained = func() { callerSuccess(data) }
		}
		settle(outcome{data: data}, chained)
	})
	opts[sdk.OptError] = sdk.ErrorFunc(func(status int, diagnostic string, cause error) {
		var chained func()
		if callerError != nil {
			chained = func() { callerError(status, diagnostic, cause) }
		}
		settle(outcome{err: &CallError{
			Method:     method,
			Status:     status,
			HasStatus:  true,
			Diagnostic: diagnostic,
			Cause:      cause,
		}}, chained)
	})
	args = append(args, opts)

	ret, err := b.invoke(method, fn, args)
	switch {
	case err != nil:
		settle(outcome{err: err}, nil)
	case ret != nil:
		if status, isInt := ret.(int); isInt && status == sdk.StatusFailed {
			settle(outcome{err: &CallError{
				Method:    method,
				Status:    status,
				HasStatus: true,
			}}, nil)
		} else {
			settle(outcome{data: ret}, nil)
		}
	}

	select {
	case o := <-settled:
		if o.err != nil {
			b.logger.Debug("vendor call failed", "method", method, "error", o.err)
		}
		return o.data, o.err
	case <-ctx.Done():
		b.logger.Warn("abandoned wait for vendor call", "method", method)
		return nil, ctx.Err()
	}
}
