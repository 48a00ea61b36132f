// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build windows

package dl

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/windows"
)

// Supported reports whether this target has a dynamic loader backend.
const Supported = true

const resolverHook = false

func open(path string) (uintptr, error) {
	handle, err := windows.LoadLibrary(path)
	if err != nil {
		return 0, fmt.Errorf("LoadLibrary(%s) failed: %w", path, err)
	}
	return uintptr(handle), nil
}

func symbol(handle uintptr, name string) (uintptr, error) {
	proc, err := windows.GetProcAddress(windows.Handle(handle), name)
	if err != nil {
		return 0, fmt.Errorf("GetProcAddress(%s) failed: %w", name, err)
	}
	return proc, nil
}

func call(fn uintptr, args ...uintptr) uintptr {
	ret, _, _ := syscall.SyscallN(fn, args...)
	return ret
}

func newCallback(fn any) uintptr {
	return windows.NewCallback(fn)
}
