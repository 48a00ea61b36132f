// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package ikvmnative

import (
	"errors"
	"iter"
	"slices"

	"go.uber.org/atomic"

	"github.com/ikvm-go/ikvmnative/internal/loader"
	"github.com/ikvm-go/ikvmnative/internal/search"
	"github.com/ikvm-go/ikvmnative/nativeerrors"
)

// LibName is the logical name of the native companion library.
const LibName = "ikvm-native"

// Exported symbols of the native companion library.
const (
	SymbolCallOnLoad      = "ikvm_CallOnLoad"
	SymbolGetJNIEnvVTable = "ikvm_GetJNIEnvVTable"
	SymbolMarshalDelegate = "ikvm_MarshalDelegate"
)

var errNilSymbol = errors.New("symbol resolved to a nil address")

// Library is a native companion library and its entry points. The library is
// resolved by its [Strategy] and each entry point is bound on its first call,
// then cached. All methods are safe for concurrent use.
type Library struct {
	config   Config
	loader   loader.Loader
	strategy Strategy
	// Not nil when the library cannot be used on this target at all.
	unusable error

	callOnLoad      entryPoint
	getJNIEnvVTable entryPoint
	marshalDelegate entryPoint
}

// entryPoint is a symbol bound lazily against the library handle.
type entryPoint struct {
	symbol string
	addr   atomic.Uintptr
}

// New creates a [Library]. With [StrategyEager], the library is loaded before
// New returns and a failure is only reported by the first entry point call.
func New(options ...Option) *Library {
	return newLibrary(nil, options...)
}

func newLibrary(unusable error, options ...Option) *Library {
	lib := &Library{
		config:          newConfig(options...),
		unusable:        unusable,
		callOnLoad:      entryPoint{symbol: SymbolCallOnLoad},
		getJNIEnvVTable: entryPoint{symbol: SymbolGetJNIEnvVTable},
		marshalDelegate: entryPoint{symbol: SymbolMarshalDelegate},
	}

	strategy := lib.config.Strategy
	if unusable != nil {
		// Never touch the system loader of an unusable target.
		strategy = StrategyHook
	}
	sources := loader.Sources{Names: lib.systemNames, Candidates: lib.candidatePaths}
	lib.loader, lib.strategy = loader.Select(strategy, lib.config.System, sources, lib.config.LibraryName)
	return lib
}

func (lib *Library) systemNames(name string) []string {
	return search.SystemNames(lib.config.Platform, name)
}

// candidatePaths is recomputed on every resolution attempt.
func (lib *Library) candidatePaths(name string) (iter.Seq[string], error) {
	return search.CandidatePaths(lib.config.Platform, lib.config.InstallRoot(), name)
}

// Name returns the logical name of the library.
func (lib *Library) Name() string {
	return lib.config.LibraryName
}

// Strategy returns the resolution strategy in use.
func (lib *Library) Strategy() Strategy {
	return lib.strategy
}

// Handle resolves the library, if not already done, and returns its handle.
// The same handle is returned by every call once resolved. A failed resolution
// is retried by the next call.
func (lib *Library) Handle() (Handle, error) {
	if lib.unusable != nil {
		return 0, lib.unusable
	}
	return lib.loader.Resolve(lib.config.LibraryName)
}

// bind returns the address of the entry point, resolving the library first if
// needed. Any failure matches [nativeerrors.ErrMissingEntryPoint].
func (lib *Library) bind(ep *entryPoint) (uintptr, error) {
	if addr := ep.addr.Load(); addr != 0 {
		return addr, nil
	}

	handle, err := lib.Handle()
	if err != nil {
		return 0, &nativeerrors.EntryPointNotFoundError{Symbol: ep.symbol, Library: lib.config.LibraryName, Err: err}
	}

	addr, err := lib.config.System.Symbol(handle, ep.symbol)
	if err == nil && addr == 0 {
		err = errNilSymbol
	}
	if err != nil {
		return 0, &nativeerrors.EntryPointNotFoundError{Symbol: ep.symbol, Library: lib.config.LibraryName, Err: err}
	}

	// Concurrent binders store the same address.
	ep.addr.Store(addr)
	return addr, nil
}

// Diagnostics reports how the library was, or would be, resolved.
func (lib *Library) Diagnostics() Diagnostics {
	diags := Diagnostics{
		Library:     lib.config.LibraryName,
		OS:          lib.config.Platform.OS,
		PointerSize: lib.config.Platform.PointerSize,
		InstallRoot: lib.config.InstallRoot(),
		Strategy:    string(lib.strategy),
	}

	if ids, err := lib.config.Platform.Identifiers(); err == nil {
		diags.RuntimeIdentifiers = slices.Collect(ids)
	} else {
		diags.Errors = append(diags.Errors, err.Error())
	}

	if paths, err := search.CandidatePaths(lib.config.Platform, diags.InstallRoot, diags.Library); err == nil {
		diags.CandidatePaths = slices.Collect(paths)
	} else {
		diags.Errors = append(diags.Errors, err.Error())
	}

	if lib.unusable != nil {
		diags.Errors = append(diags.Errors, lib.unusable.Error())
	}

	state, attempts := lib.loader.Status(lib.config.LibraryName)
	diags.State = state.String()
	for _, a := range attempts {
		report := AttemptReport{Path: a.Path}
		if a.Err != nil {
			report.Error = a.Err.Error()
		}
		diags.Attempts = append(diags.Attempts, report)
	}

	return diags
}
