// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Purego only works on linux/macOS with amd64 and arm64 from now
//go:build (linux || darwin) && (amd64 || arm64)

package dl

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// Supported reports whether this target has a dynamic loader backend.
const Supported = true

const resolverHook = true

func open(path string) (uintptr, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, fmt.Errorf("error opening shared library '%s'. Reason: %w", path, err)
	}
	if handle == 0 {
		return 0, fmt.Errorf("shared library handle is nil after loading: %s", path)
	}
	return handle, nil
}

func symbol(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}

// call is the only way to make C calls with this interface.
// purego implementation limits the number of arguments, it will panic if more are provided
// Note: `purego.SyscallN` has 3 return values: these are the following:
//
//	1st - The return value is a pointer or a int of any type
//	2nd - The return value is a float
//	3rd - The value of `errno` at the end of the call
func call(fn uintptr, args ...uintptr) uintptr {
	ret, _, _ := purego.SyscallN(fn, args...)
	return ret
}

func newCallback(fn any) uintptr {
	return purego.NewCallback(fn)
}
