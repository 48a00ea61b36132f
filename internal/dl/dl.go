// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package dl wraps the system dynamic loader of the current target: purego on
// linux and darwin, the Win32 loader on windows. Every call is traced at debug
// level on the process logger.
package dl

import (
	"go.uber.org/zap"

	"github.com/ikvm-go/ikvmnative/internal/log"
)

// Handle is an opaque reference to a loaded library. It is never released:
// the operating system reclaims it when the process exits.
type Handle uintptr

// Dynlib is the dynamic loader of the current target.
type Dynlib struct{}

// New returns the dynamic loader of the current target.
func New() *Dynlib {
	return &Dynlib{}
}

// Open loads the library at path, which may also be a bare name resolved
// through the system search paths.
func (*Dynlib) Open(path string) (Handle, error) {
	log.Debug("open", zap.String("path", path))
	handle, err := open(path)
	log.Debug("open done", zap.String("path", path), zap.Uintptr("handle", handle), zap.Error(err))
	return Handle(handle), err
}

// Symbol returns the address of the exported symbol `name`.
func (*Dynlib) Symbol(handle Handle, name string) (uintptr, error) {
	log.Debug("symbol", zap.Uintptr("handle", uintptr(handle)), zap.String("name", name))
	ptr, err := symbol(uintptr(handle), name)
	log.Debug("symbol done", zap.String("name", name), zap.Uintptr("address", ptr), zap.Error(err))
	return ptr, err
}

// Call invokes the C function at fn and returns its integer or pointer result.
func (*Dynlib) Call(fn uintptr, args ...uintptr) uintptr {
	log.Debug("call", zap.Uintptr("fn", fn), zap.Uintptrs("args", args))
	ret := call(fn, args...)
	log.Debug("call done", zap.Uintptr("fn", fn), zap.Uintptr("ret", ret))
	return ret
}

// NewCallback returns a C-callable function pointer for the Go function fn.
// Callbacks are never freed by the runtime.
func (*Dynlib) NewCallback(fn any) uintptr {
	return newCallback(fn)
}

// SupportsResolverHook reports whether libraries can be resolved lazily, at the
// first symbol access. When false, they must be preloaded at startup so that
// later lookups by bare name find the resident module.
func (*Dynlib) SupportsResolverHook() bool {
	return resolverHook
}
