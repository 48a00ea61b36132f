// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package loader

import (
	"errors"
	"iter"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ikvm-go/ikvmnative/internal/dl"
	"github.com/ikvm-go/ikvmnative/internal/rid"
	"github.com/ikvm-go/ikvmnative/internal/search"
	"github.com/ikvm-go/ikvmnative/nativeerrors"
)

var errNotFound = errors.New("no such file")

// fakeOpener succeeds only for the paths it knows, and records every call.
type fakeOpener struct {
	mu      sync.Mutex
	known   map[string]dl.Handle
	opened  []string
	hookful bool
}

func (o *fakeOpener) Open(path string) (dl.Handle, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened = append(o.opened, path)
	if h, ok := o.known[path]; ok {
		return h, nil
	}
	return 0, errNotFound
}

func (o *fakeOpener) SupportsResolverHook() bool {
	return o.hookful
}

func (o *fakeOpener) calls() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.opened)
}

func fixed(paths ...string) Sources {
	return Sources{Candidates: func(string) (iter.Seq[string], error) {
		return slices.Values(paths), nil
	}}
}

var linux64 = rid.Platform{OS: rid.OSLinux, PointerSize: 8}

func linuxSources(root string) Sources {
	return Sources{
		Names: func(name string) []string { return search.SystemNames(linux64, name) },
		Candidates: func(name string) (iter.Seq[string], error) {
			return search.CandidatePaths(linux64, root, name)
		},
	}
}

func strategies(opener *fakeOpener, sources Sources) map[string]func() Loader {
	return map[string]func() Loader{
		"eager": func() Loader { return NewEager(opener, sources) },
		"hook":  func() Loader { return NewHook(opener, sources) },
	}
}

func TestResolve(t *testing.T) {
	const name = "ikvm-native"

	t.Run("default-loader-short-circuits", func(t *testing.T) {
		opener := &fakeOpener{known: map[string]dl.Handle{name: 0x1000, "/a": 0x2000}}
		for strategy, newLoader := range strategies(opener, fixed("/a")) {
			t.Run(strategy, func(t *testing.T) {
				opener.opened = nil
				h, err := newLoader().Resolve(name)
				require.NoError(t, err)
				require.Equal(t, dl.Handle(0x1000), h)
				require.Equal(t, []string{name}, opener.calls())
			})
		}
	})

	t.Run("skips-missing-candidate", func(t *testing.T) {
		opener := &fakeOpener{known: map[string]dl.Handle{"/second": 0x2000}}
		for strategy, newLoader := range strategies(opener, fixed("/first", "/second", "/third")) {
			t.Run(strategy, func(t *testing.T) {
				opener.opened = nil
				l := newLoader()
				h, err := l.Resolve(name)
				require.NoError(t, err)
				require.Equal(t, dl.Handle(0x2000), h)
				require.Equal(t, []string{name, "/first", "/second"}, opener.calls())

				state, attempts := l.Status(name)
				require.Equal(t, Resolved, state)
				require.Len(t, attempts, 3)
				require.ErrorIs(t, attempts[1].Err, errNotFound)
				require.NoError(t, attempts[2].Err)
			})
		}
	})

	t.Run("install-layout", func(t *testing.T) {
		const path = "/opt/app/runtimes/linux-x64/native/libikvm-native.so"
		opener := &fakeOpener{known: map[string]dl.Handle{path: 0x3000}}
		h, err := NewHook(opener, linuxSources("/opt/app")).Resolve(name)
		require.NoError(t, err)
		require.Equal(t, dl.Handle(0x3000), h)
		require.Equal(t, []string{name, "libikvm-native.so", path}, opener.calls())
	})

	t.Run("system-file-name", func(t *testing.T) {
		const path = "/opt/app/runtimes/linux-x64/native/libikvm-native.so"
		opener := &fakeOpener{known: map[string]dl.Handle{"libikvm-native.so": 0x3100, path: 0x3000}}
		for strategy, newLoader := range strategies(opener, linuxSources("/opt/app")) {
			t.Run(strategy, func(t *testing.T) {
				opener.opened = nil
				l := newLoader()
				h, err := l.Resolve(name)
				require.NoError(t, err)
				require.Equal(t, dl.Handle(0x3100), h)
				require.Equal(t, []string{name, "libikvm-native.so"}, opener.calls())

				state, attempts := l.Status(name)
				require.Equal(t, Resolved, state)
				require.Len(t, attempts, 2)
				require.ErrorIs(t, attempts[0].Err, errNotFound)
			})
		}
	})

	t.Run("attempt-order", func(t *testing.T) {
		opener := &fakeOpener{}
		_, err := NewHook(opener, linuxSources("/opt/app")).Resolve(name)
		require.Error(t, err)
		require.Equal(t, []string{
			name,
			"libikvm-native.so",
			"/opt/app/runtimes/linux-x64/native/libikvm-native.so",
		}, opener.calls())
	})

	t.Run("idempotent", func(t *testing.T) {
		opener := &fakeOpener{known: map[string]dl.Handle{"/a": 0x4000}}
		for strategy, newLoader := range strategies(opener, fixed("/a")) {
			t.Run(strategy, func(t *testing.T) {
				opener.opened = nil
				l := newLoader()
				first, err := l.Resolve(name)
				require.NoError(t, err)
				second, err := l.Resolve(name)
				require.NoError(t, err)
				require.Equal(t, first, second)
				require.Equal(t, []string{name, "/a"}, opener.calls())
			})
		}
	})

	t.Run("failure", func(t *testing.T) {
		opener := &fakeOpener{}
		for strategy, newLoader := range strategies(opener, fixed("/a", "/b")) {
			t.Run(strategy, func(t *testing.T) {
				opener.opened = nil
				l := newLoader()
				h, err := l.Resolve(name)
				require.Zero(t, h)
				var resErr *nativeerrors.ResolutionError
				require.ErrorAs(t, err, &resErr)
				require.Equal(t, name, resErr.Library)
				require.Len(t, resErr.Attempts, 3)
				require.ErrorIs(t, err, errNotFound)

				state, _ := l.Status(name)
				require.Equal(t, Failed, state)

				// Failures are not cached
				_, err = l.Resolve(name)
				require.Error(t, err)
				require.Len(t, opener.calls(), 6)
			})
		}
	})

	t.Run("retry-after-failure", func(t *testing.T) {
		opener := &fakeOpener{known: map[string]dl.Handle{}}
		l := NewHook(opener, fixed("/a"))
		_, err := l.Resolve(name)
		require.Error(t, err)

		opener.known["/a"] = 0x5000
		h, err := l.Resolve(name)
		require.NoError(t, err)
		require.Equal(t, dl.Handle(0x5000), h)
	})

	t.Run("unsupported-platform", func(t *testing.T) {
		opener := &fakeOpener{}
		darwin := rid.Platform{OS: "darwin", PointerSize: 8}
		l := NewHook(opener, Sources{
			Names: func(name string) []string { return search.SystemNames(darwin, name) },
			Candidates: func(name string) (iter.Seq[string], error) {
				return search.CandidatePaths(darwin, "/opt/app", name)
			},
		})
		_, err := l.Resolve(name)
		require.ErrorIs(t, err, nativeerrors.UnsupportedPlatformError{OS: "darwin", PointerSize: 8})
		require.Equal(t, []string{name}, opener.calls())
	})

	t.Run("zero-handle", func(t *testing.T) {
		opener := &fakeOpener{known: map[string]dl.Handle{name: 0}}
		_, err := NewHook(opener, fixed()).Resolve(name)
		require.ErrorIs(t, err, errZeroHandle)
	})

	t.Run("concurrent", func(t *testing.T) {
		opener := &fakeOpener{known: map[string]dl.Handle{"/a": 0x6000}}
		l := NewHook(opener, fixed("/a"))

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				h, err := l.Resolve(name)
				require.NoError(t, err)
				require.Equal(t, dl.Handle(0x6000), h)
			}()
		}
		wg.Wait()
		require.Equal(t, []string{name, "/a"}, opener.calls())
	})
}

func TestEagerPreload(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		opener := &fakeOpener{known: map[string]dl.Handle{"/a": 0x7000}}
		l := NewEager(opener, fixed("/a"), "ikvm-native")
		// Preloaded before any Resolve call
		require.Equal(t, []string{"ikvm-native", "/a"}, opener.calls())
		state, _ := l.Status("ikvm-native")
		require.Equal(t, Resolved, state)

		h, err := l.Resolve("ikvm-native")
		require.NoError(t, err)
		require.Equal(t, dl.Handle(0x7000), h)
		require.Len(t, opener.calls(), 2)
	})

	t.Run("failure-is-silent", func(t *testing.T) {
		opener := &fakeOpener{}
		var l *Eager
		require.NotPanics(t, func() { l = NewEager(opener, fixed("/a"), "ikvm-native") })
		state, attempts := l.Status("ikvm-native")
		require.Equal(t, Failed, state)
		require.Len(t, attempts, 2)

		_, err := l.Resolve("ikvm-native")
		require.Error(t, err)
	})
}

func TestSelect(t *testing.T) {
	t.Run("probe", func(t *testing.T) {
		require.Equal(t, StrategyHook, Probe(&fakeOpener{hookful: true}))
		require.Equal(t, StrategyEager, Probe(&fakeOpener{hookful: false}))
	})

	t.Run("auto-hook", func(t *testing.T) {
		opener := &fakeOpener{hookful: true}
		l, strategy := Select(StrategyAuto, opener, fixed(), "ikvm-native")
		require.Equal(t, StrategyHook, strategy)
		require.IsType(t, &Hook{}, l)
		require.Empty(t, opener.calls())
	})

	t.Run("auto-eager", func(t *testing.T) {
		opener := &fakeOpener{}
		l, strategy := Select(StrategyAuto, opener, fixed(), "ikvm-native")
		require.Equal(t, StrategyEager, strategy)
		require.IsType(t, &Eager{}, l)
		require.Equal(t, []string{"ikvm-native"}, opener.calls())
	})

	t.Run("forced", func(t *testing.T) {
		_, strategy := Select(StrategyEager, &fakeOpener{hookful: true}, fixed(), "ikvm-native")
		require.Equal(t, StrategyEager, strategy)
		_, strategy = Select(StrategyHook, &fakeOpener{}, fixed(), "ikvm-native")
		require.Equal(t, StrategyHook, strategy)
	})
}

func TestStatusAfterResolution(t *testing.T) {
	opener := &fakeOpener{known: map[string]dl.Handle{"/a": 0x8000}}
	l := NewHook(opener, fixed("/a"))
	state, attempts := l.Status("ikvm-native")
	require.Equal(t, Unresolved, state)
	require.Empty(t, attempts)

	_, err := l.Resolve("ikvm-native")
	require.NoError(t, err)
	state, _ = l.Status("ikvm-native")
	require.NotContains(t, []State{TryingDefault, TryingCandidates}, state)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "resolved", Resolved.String())
	require.Equal(t, "trying-candidates", TryingCandidates.String())
	require.Equal(t, "unknown", State(42).String())
}
