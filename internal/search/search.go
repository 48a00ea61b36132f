// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package search expands a logical library name into the ordered list of files
// to try under an installation root:
//
//	<root>/runtimes/<rid>/native/<file name>
package search

import (
	"iter"
	"os"
	"path/filepath"

	"github.com/ikvm-go/ikvmnative/internal/rid"
	"github.com/ikvm-go/ikvmnative/nativeerrors"
)

// FileName applies the naming convention of the platform to a logical library
// name: `<name>.dll` on Windows, `lib<name>.so` on Linux.
func FileName(p rid.Platform, name string) (string, error) {
	switch p.OS {
	case rid.OSWindows:
		return name + ".dll", nil
	case rid.OSLinux:
		return "lib" + name + ".so", nil
	default:
		return "", nativeerrors.UnsupportedPlatformError{OS: p.OS, PointerSize: p.PointerSize}
	}
}

// SystemNames returns the platform file name of `name` for the system default
// loader, which does not apply the naming convention by itself on every
// platform. Nothing is returned for a path or on a platform without a
// convention.
func SystemNames(p rid.Platform, name string) []string {
	if filepath.Base(name) != name {
		return nil
	}
	file, err := FileName(p, name)
	if err != nil {
		return nil
	}
	return []string{file}
}

// CandidatePaths returns the files to try for the library `name` below `root`,
// in the order of the platform's runtime identifiers. An empty root yields an
// empty sequence.
func CandidatePaths(p rid.Platform, root, name string) (iter.Seq[string], error) {
	if root == "" {
		return func(func(string) bool) {}, nil
	}

	file, err := FileName(p, name)
	if err != nil {
		return nil, err
	}

	ids, err := p.Identifiers()
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		for id := range ids {
			if !yield(filepath.Join(root, "runtimes", id, "native", file)) {
				return
			}
		}
	}, nil
}

// InstallRoot returns the directory containing the running binary, or an empty
// string when it cannot be determined.
func InstallRoot() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
