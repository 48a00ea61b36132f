// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package support

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/ikvm-go/ikvmnative/internal/dl"
	"github.com/ikvm-go/ikvmnative/internal/rid"
)

// Errors used to report data using the Usable function
// Store all the errors related to why the native library is unavailable for the current target at runtime.
var nativeSupportErrors []error

// Not nil if the build tag `ikvmnative.no_native` is set
var nativeManuallyDisabledErr error

func init() {
	if !dl.Supported {
		nativeSupportErrors = append(nativeSupportErrors, fmt.Errorf("no dynamic loader available for %s/%s", runtime.GOOS, runtime.GOARCH))
	}
	if _, err := rid.Current().Arch(); err != nil {
		nativeSupportErrors = append(nativeSupportErrors, err)
	}
}

// NativeSupportErrors returns all the errors related to why the native library is unavailable for the current target at runtime.
func NativeSupportErrors() error {
	return errors.Join(nativeSupportErrors...)
}

// NativeManuallyDisabledError returns an error if the build tag `ikvmnative.no_native` is set
func NativeManuallyDisabledError() error {
	return nativeManuallyDisabledErr
}
