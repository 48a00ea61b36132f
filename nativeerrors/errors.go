// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package nativeerrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingEntryPoint is matched by every error returned when a native entry
// point is called before (or without) the companion library being resolved.
var ErrMissingEntryPoint = errors.New("missing native entry point")

// UnsupportedPlatformError is returned when a runtime identifier or a library
// file name must be produced for a platform this package does not know about.
// It is a hard failure and is never retried.
type UnsupportedPlatformError struct {
	OS          string
	PointerSize int
}

func (e UnsupportedPlatformError) Error() string {
	if e.PointerSize != 4 && e.PointerSize != 8 {
		return fmt.Sprintf("unsupported platform: pointer size of %d bytes on %s", e.PointerSize, e.OS)
	}
	return fmt.Sprintf("unsupported platform: operating system %q", e.OS)
}

// Attempt is a single load attempt made while resolving a library.
type Attempt struct {
	// Path is the name or path handed to the system loader.
	Path string
	// Err is the loader failure, nil when the attempt succeeded.
	Err error
}

// ResolutionError is returned when neither the default system loader nor any
// candidate path produced a library handle.
type ResolutionError struct {
	Library  string
	Attempts []Attempt
}

func (e *ResolutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "unable to resolve native library %q", e.Library)
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "; %s: %v", a.Path, a.Err)
	}
	return b.String()
}

// Unwrap returns the failure of every attempt.
func (e *ResolutionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errs
}

// EntryPointNotFoundError is returned when an entry point cannot be bound,
// either because the library never resolved or because the symbol is absent.
type EntryPointNotFoundError struct {
	Symbol  string
	Library string
	// Err is the underlying cause (resolution or symbol lookup failure).
	Err error
}

func (e *EntryPointNotFoundError) Error() string {
	return fmt.Sprintf("unable to find entry point %q in native library %q: %v", e.Symbol, e.Library, e.Err)
}

func (e *EntryPointNotFoundError) Unwrap() []error {
	return []error{ErrMissingEntryPoint, e.Err}
}

// ManuallyDisabledError is returned when the `ikvmnative.no_native` build tag
// is set.
type ManuallyDisabledError struct{}

func (ManuallyDisabledError) Error() string {
	return "the native companion library has been manually disabled using the `ikvmnative.no_native` go build tag"
}
