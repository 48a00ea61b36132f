// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Build when the target OS or architecture are not supported
//go:build !windows && ((!linux && !darwin) || (!amd64 && !arm64))

package dl

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ikvm-go/ikvmnative/nativeerrors"
)

const resolverHook = true

// Supported reports whether this target has a dynamic loader backend.
const Supported = false

var errUnsupported = fmt.Errorf("no dynamic loader for %s/%s: %w", runtime.GOOS, runtime.GOARCH,
	nativeerrors.UnsupportedPlatformError{OS: runtime.GOOS, PointerSize: int(unsafe.Sizeof(uintptr(0)))})

func open(string) (uintptr, error) {
	return 0, errUnsupported
}

func symbol(uintptr, string) (uintptr, error) {
	return 0, errUnsupported
}

func call(uintptr, ...uintptr) uintptr {
	return 0
}

func newCallback(any) uintptr {
	return 0
}
