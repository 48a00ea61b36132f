// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package rid

import (
	"runtime"
	"slices"
	"testing"
	"unsafe"

	"github.com/ikvm-go/ikvmnative/nativeerrors"
	"github.com/stretchr/testify/require"
)

func TestArchitectureTag(t *testing.T) {
	t.Run("x86", func(t *testing.T) {
		arch, err := ArchitectureTag(4)
		require.NoError(t, err)
		require.Equal(t, ArchX86, arch)
	})

	t.Run("x64", func(t *testing.T) {
		arch, err := ArchitectureTag(8)
		require.NoError(t, err)
		require.Equal(t, ArchX64, arch)
	})

	for _, size := range []int{0, 2, 16} {
		_, err := ArchitectureTag(size)
		require.ErrorIs(t, err, nativeerrors.UnsupportedPlatformError{OS: runtime.GOOS, PointerSize: size})
	}

	t.Run("platform", func(t *testing.T) {
		p := Platform{OS: "plan9", PointerSize: 2}
		_, err := p.Arch()
		require.Equal(t, nativeerrors.UnsupportedPlatformError{OS: "plan9", PointerSize: 2}, err)

		arch, err := Platform{OS: OSWindows, PointerSize: 4}.Arch()
		require.NoError(t, err)
		require.Equal(t, ArchX86, arch)
	})
}

func TestIdentifiers(t *testing.T) {
	for _, tc := range []struct {
		platform Platform
		expected []string
	}{
		{Platform{OS: OSLinux, PointerSize: 8}, []string{"linux-x64"}},
		{Platform{OS: OSLinux, PointerSize: 4}, []string{"linux-x86"}},
		{Platform{OS: OSWindows, PointerSize: 8}, []string{"win-x64"}},
		{Platform{OS: OSWindows, PointerSize: 4}, []string{"win-x86"}},
		{Platform{OS: "plan9", PointerSize: 8}, nil},
	} {
		t.Run(tc.platform.OS, func(t *testing.T) {
			ids, err := tc.platform.Identifiers()
			require.NoError(t, err)
			require.Equal(t, tc.expected, slices.Collect(ids))
			// Restartable
			require.Equal(t, tc.expected, slices.Collect(ids))
		})
	}

	t.Run("unsupported-pointer-size", func(t *testing.T) {
		_, err := Platform{OS: OSLinux, PointerSize: 2}.Identifiers()
		require.ErrorIs(t, err, nativeerrors.UnsupportedPlatformError{OS: OSLinux, PointerSize: 2})
	})
}

func TestCurrent(t *testing.T) {
	p := Current()
	require.Equal(t, runtime.GOOS, p.OS)
	require.Equal(t, int(unsafe.Sizeof(uintptr(0))), p.PointerSize)
}
