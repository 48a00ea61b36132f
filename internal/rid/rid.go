// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package rid derives the runtime identifiers (RIDs) of the current process,
// e.g. `linux-x64`, used to locate native binaries under `runtimes/<rid>/native`.
package rid

import (
	"iter"
	"runtime"
	"unsafe"

	"github.com/ikvm-go/ikvmnative/nativeerrors"
)

// Arch is the architecture part of a runtime identifier.
type Arch string

const (
	ArchX86 Arch = "x86"
	ArchX64 Arch = "x64"
)

// Operating systems with a known RID prefix, as reported by runtime.GOOS.
const (
	OSWindows = "windows"
	OSLinux   = "linux"
)

// Platform is the immutable description of a process the identifiers are
// derived from.
type Platform struct {
	OS          string
	PointerSize int
}

// Current returns the platform of the running process.
func Current() Platform {
	return Platform{
		OS:          runtime.GOOS,
		PointerSize: int(unsafe.Sizeof(uintptr(0))),
	}
}

// ArchitectureTag maps a native pointer width, in bytes, to its RID
// architecture.
func ArchitectureTag(pointerSize int) (Arch, error) {
	return archTag(runtime.GOOS, pointerSize)
}

// Arch returns the RID architecture of the platform.
func (p Platform) Arch() (Arch, error) {
	return archTag(p.OS, p.PointerSize)
}

func archTag(os string, pointerSize int) (Arch, error) {
	switch pointerSize {
	case 4:
		return ArchX86, nil
	case 8:
		return ArchX64, nil
	default:
		return "", nativeerrors.UnsupportedPlatformError{OS: os, PointerSize: pointerSize}
	}
}

// Identifiers returns the runtime identifiers matching the platform, one per
// operating system it is recognized as. An unknown operating system yields an
// empty sequence rather than an error: the failure then surfaces from the
// loader itself. The returned sequence can be iterated any number of times.
func (p Platform) Identifiers() (iter.Seq[string], error) {
	arch, err := p.Arch()
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		if p.OS == OSWindows && !yield("win-"+string(arch)) {
			return
		}
		if p.OS == OSLinux {
			yield("linux-" + string(arch))
		}
	}, nil
}
