// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package ikvmnative

import (
	"unsafe"
)

// VTable is the JNI environment function table exported by the native
// library: a pointer to an array of function pointers. It is owned by the
// native library and must not be freed.
type VTable uintptr

// IsNil reports whether the table pointer is NULL.
func (v VTable) IsNil() bool {
	return v == 0
}

// Slot returns the i-th function pointer of the table. The caller is
// responsible for staying within the table bounds.
func (v VTable) Slot(i int) uintptr {
	// We take the address and then dereference it to trick go vet from creating a possible misuse of unsafe.Pointer
	base := *(*unsafe.Pointer)(unsafe.Pointer(&v))
	return *(*uintptr)(unsafe.Add(base, uintptr(i)*unsafe.Sizeof(uintptr(0))))
}

// FunctionPointer is a native-callable pointer produced by
// [Library.MarshalDelegate]. It stays valid only while the Go callback it was
// made from is kept reachable by the caller; invoking it afterwards is
// undefined behavior.
type FunctionPointer uintptr

// CallOnLoad invokes `ikvm_CallOnLoad`, the load hook of a native JNI module.
// The status code is defined by the native side and returned unchanged.
func (lib *Library) CallOnLoad(method, jvm, reserved uintptr) (int32, error) {
	fn, err := lib.bind(&lib.callOnLoad)
	if err != nil {
		return 0, err
	}

	var ret uintptr
	err = tryCall(SymbolCallOnLoad, func() error {
		ret = lib.config.System.Call(fn, method, jvm, reserved)
		return nil
	})
	return int32(ret), err
}

// GetJNIEnvVTable invokes `ikvm_GetJNIEnvVTable` and returns the JNI
// environment function table.
func (lib *Library) GetJNIEnvVTable() (VTable, error) {
	fn, err := lib.bind(&lib.getJNIEnvVTable)
	if err != nil {
		return 0, err
	}

	var ret uintptr
	err = tryCall(SymbolGetJNIEnvVTable, func() error {
		ret = lib.config.System.Call(fn)
		return nil
	})
	return VTable(ret), err
}

// MarshalDelegate turns the Go function `callback` into a C-ABI function
// pointer and hands it to `ikvm_MarshalDelegate`, returning the native-callable
// pointer it produced. The caller must keep `callback` reachable for as long as
// the returned pointer may be invoked.
func (lib *Library) MarshalDelegate(callback any) (FunctionPointer, error) {
	fn, err := lib.bind(&lib.marshalDelegate)
	if err != nil {
		return 0, err
	}

	var ret uintptr
	err = tryCall(SymbolMarshalDelegate, func() error {
		cb := lib.config.System.NewCallback(callback)
		ret = lib.config.System.Call(fn, cb)
		return nil
	})
	return FunctionPointer(ret), err
}
