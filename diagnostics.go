// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package ikvmnative

import "errors"

// Diagnostics stores the information about the resolution of a native library.
type Diagnostics struct {
	// Library is the logical library name.
	Library string `json:"library"`
	// OS is the operating system the paths are computed for.
	OS string `json:"os"`
	// PointerSize is the native pointer width in bytes.
	PointerSize int `json:"pointer_size"`
	// RuntimeIdentifiers are the RIDs matching the platform, in search order.
	RuntimeIdentifiers []string `json:"runtime_identifiers"`
	// InstallRoot is the directory holding the `runtimes` tree.
	InstallRoot string `json:"install_root"`
	// CandidatePaths are the fallback files, in search order.
	CandidatePaths []string `json:"candidate_paths"`
	// Strategy is the resolution strategy in use.
	Strategy string `json:"strategy"`
	// State is the resolution state of the library.
	State string `json:"state"`
	// Attempts are the load attempts of the last resolution.
	Attempts []AttemptReport `json:"attempts,omitempty"`
	// Errors are the errors met while computing the identifiers and paths.
	Errors []string `json:"errors,omitempty"`
}

// AttemptReport is a single load attempt.
type AttemptReport struct {
	Path  string `json:"path"`
	Error string `json:"error,omitempty"`
}

// Err rolls up the errors of the diagnostics into a single error value.
// Returns nil if none were reported.
func (d *Diagnostics) Err() error {
	errs := make([]error, 0, len(d.Errors))
	for _, e := range d.Errors {
		errs = append(errs, errors.New(e))
	}
	return errors.Join(errs...)
}
