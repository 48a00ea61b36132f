// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Manually set ikvmnative.no_native build tag
//go:build ikvmnative.no_native

package support

import "github.com/ikvm-go/ikvmnative/nativeerrors"

func init() {
	nativeManuallyDisabledErr = nativeerrors.ManuallyDisabledError{}
}
