// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package ikvmnative

import (
	"fmt"

	"github.com/pkg/errors"
)

// PanicError wraps a panic recovered while calling into the native library, or
// while turning a Go function into a native callback for it. Keeping using the
// native library after such an error is unreliable.
type PanicError struct {
	// Symbol is the entry point being called.
	Symbol string
	// Err is the recovered panic value, with the stack it was recovered at.
	Err error
}

// Unwrap the error and return it.
// Required by errors.Is and errors.As functions.
func (e *PanicError) Unwrap() error {
	return e.Err
}

// Error returns the error string representation.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic while calling %s: %v", e.Symbol, e.Err)
}

// tryCall calls `f` on behalf of the entry point `symbol` and recovers from any
// panic occurring while it executes, returning it as a `*PanicError`.
func tryCall(symbol string, f func() error) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			// Note that panic(nil) matches this case and cannot be really tested for.
			return
		}

		switch actual := r.(type) {
		case error:
			err = errors.WithStack(actual)
		case string:
			err = errors.New(actual)
		default:
			err = errors.Errorf("%v", r)
		}

		err = &PanicError{Symbol: symbol, Err: err}
	}()
	return f()
}
