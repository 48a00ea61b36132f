// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package ikvmnative locates and binds the `ikvm-native` companion library and
// exposes its entry points to the JNI bridge.
//
// The library is first looked up by the system loader under its bare name,
// then under the installation layout of the running binary:
//
//	<install root>/runtimes/<os>-<arch>/native/<file name>
//
// where the file name is `ikvm-native.dll` on Windows and `libikvm-native.so`
// on Linux.
package ikvmnative

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/ikvm-go/ikvmnative/internal/dl"
	"github.com/ikvm-go/ikvmnative/internal/loader"
	"github.com/ikvm-go/ikvmnative/internal/log"
	"github.com/ikvm-go/ikvmnative/internal/support"
)

// The process-wide library is created only once and never replaced: loaded
// modules stay resident until the process exits.
var (
	// The process-wide library. This is only safe to read after calling
	// [Default].
	gLib     *Library
	gLibOnce sync.Once

	// The last resolution error if any. This is only safe to read after
	// having acquired [gMu].
	gLoadErr error
	// Protects the global variables above.
	gMu sync.Mutex
)

func init() {
	// Loaders without lazy resolution need the library resident from the start.
	if ok, _ := targetUsable(); ok && loader.Probe(dl.New()) == StrategyEager {
		Default()
	}
}

// Default returns the process-wide [Library] for `ikvm-native`, creating it on
// first use.
func Default() *Library {
	gLibOnce.Do(func() {
		_, err := targetUsable()
		gLib = newLibrary(err)
	})
	return gLib
}

// Load resolves the process-wide library. It returns true when a handle was
// obtained. Unlike a successful load, a failure is not final: a later call
// tries again.
func Load() (bool, error) {
	if ok, err := targetUsable(); !ok {
		return false, err
	}

	_, err := Default().Handle()

	gMu.Lock()
	defer gMu.Unlock()
	gLoadErr = err
	return err == nil, err
}

// Usable returns true if the native library is usable, false and an error
// otherwise.
//
// The following conditions are checked:
//   - The library did not fail to load (you need to call [Load] first for this
//     case to be taken into account)
//   - The library has not been manually disabled with the `ikvmnative.no_native`
//     go build tag
//   - The target OS/Arch has a dynamic loader and a known pointer width
func Usable() (bool, error) {
	ok, err := targetUsable()

	// Acquire the global state mutex as we are not calling [Load] here, so we
	// need to explicitly avoid a race condition with it.
	gMu.Lock()
	defer gMu.Unlock()
	return ok && gLoadErr == nil, errors.Join(gLoadErr, err)
}

func targetUsable() (bool, error) {
	supportErr := support.NativeSupportErrors()
	disabledErr := support.NativeManuallyDisabledError()
	return supportErr == nil && disabledErr == nil, errors.Join(supportErr, disabledErr)
}

// SetLogger sets the logger resolution attempts and native calls are traced
// with. It defaults to a no-op logger.
func SetLogger(logger *zap.Logger) {
	log.SetLogger(logger)
}

// CallOnLoad calls [Library.CallOnLoad] on the process-wide library.
func CallOnLoad(method, jvm, reserved uintptr) (int32, error) {
	return Default().CallOnLoad(method, jvm, reserved)
}

// GetJNIEnvVTable calls [Library.GetJNIEnvVTable] on the process-wide library.
func GetJNIEnvVTable() (VTable, error) {
	return Default().GetJNIEnvVTable()
}

// MarshalDelegate calls [Library.MarshalDelegate] on the process-wide library.
func MarshalDelegate(callback any) (FunctionPointer, error) {
	return Default().MarshalDelegate(callback)
}
