// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package loader resolves a logical library name into a loaded library handle.
// The system default loader is tried first with the bare name, then with the
// platform file names of the library, then every candidate path under the
// installation root, strictly in order.
package loader

import (
	"errors"
	"iter"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/ikvm-go/ikvmnative/internal/dl"
	"github.com/ikvm-go/ikvmnative/internal/log"
	"github.com/ikvm-go/ikvmnative/nativeerrors"
)

// Loader resolves a logical library name into a library handle.
type Loader interface {
	Resolve(name string) (dl.Handle, error)
	Status(name string) (State, []nativeerrors.Attempt)
}

// Opener loads a library by bare name or path.
type Opener interface {
	Open(path string) (dl.Handle, error)
}

// CandidateFunc returns the ordered fallback paths for a library name.
type CandidateFunc func(name string) (iter.Seq[string], error)

// NameFunc returns the names, other than the bare logical name, the system
// default loader is asked for, e.g. `libikvm-native.so`.
type NameFunc func(name string) []string

// Sources tells a loader where a library may be found.
type Sources struct {
	// Optional.
	Names      NameFunc
	Candidates CandidateFunc
}

var errZeroHandle = errors.New("loader returned a nil handle")

// State is the resolution state of a library. TryingDefault and
// TryingCandidates only exist while a resolution is running: [Loader.Status]
// waits for it to complete, so it reports Unresolved, Resolved or Failed.
type State int

const (
	Unresolved State = iota
	TryingDefault
	TryingCandidates
	Resolved
	Failed
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case TryingDefault:
		return "trying-default"
	case TryingCandidates:
		return "trying-candidates"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// entry is the resolution record of one logical library name.
type entry struct {
	handle   atomic.Uintptr
	state    State
	attempts []nativeerrors.Attempt
}

// probe holds the resolution machinery shared by both strategies. The slow
// path is serialized by mu; a resolved handle is read without locking.
type probe struct {
	opener  Opener
	sources Sources

	mu      sync.Mutex
	entries sync.Map // string -> *entry
}

func newProbe(opener Opener, sources Sources) *probe {
	return &probe{opener: opener, sources: sources}
}

func (p *probe) entry(name string) *entry {
	e, _ := p.entries.LoadOrStore(name, &entry{})
	return e.(*entry)
}

// cached returns the handle of an already resolved library.
func (p *probe) cached(name string) (dl.Handle, bool) {
	if h := p.entry(name).handle.Load(); h != 0 {
		return dl.Handle(h), true
	}
	return 0, false
}

// resolve runs the whole resolution sequence for name unless it already
// succeeded. A failure is not cached.
func (p *probe) resolve(name string) (dl.Handle, error) {
	if h, ok := p.cached(name); ok {
		return h, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	e := p.entry(name)
	if h := e.handle.Load(); h != 0 {
		return dl.Handle(h), nil
	}

	e.attempts = e.attempts[:0]
	handle, err := p.try(name, e)
	if err != nil {
		e.state = Failed
		return 0, err
	}

	e.state = Resolved
	e.handle.Store(uintptr(handle))
	return handle, nil
}

func (p *probe) try(name string, e *entry) (dl.Handle, error) {
	e.state = TryingDefault
	if h, ok := p.attempt(e, name); ok {
		return h, nil
	}
	if p.sources.Names != nil {
		for _, alt := range p.sources.Names(name) {
			if h, ok := p.attempt(e, alt); ok {
				return h, nil
			}
		}
	}

	paths, err := p.sources.Candidates(name)
	if err != nil {
		log.Debug("cannot enumerate candidate paths", zap.String("library", name), zap.Error(err))
		return 0, err
	}

	e.state = TryingCandidates
	for path := range paths {
		if h, ok := p.attempt(e, path); ok {
			return h, nil
		}
	}

	return 0, &nativeerrors.ResolutionError{Library: name, Attempts: append([]nativeerrors.Attempt(nil), e.attempts...)}
}

func (p *probe) attempt(e *entry, path string) (dl.Handle, bool) {
	h, err := p.opener.Open(path)
	if err == nil && h == 0 {
		err = errZeroHandle
	}
	e.attempts = append(e.attempts, nativeerrors.Attempt{Path: path, Err: err})
	if err != nil {
		log.Debug("load attempt failed", zap.String("path", path), zap.Error(err))
		return 0, false
	}
	log.Debug("library loaded", zap.String("path", path), zap.Uintptr("handle", uintptr(h)))
	return h, true
}

// Status returns the resolution state of name and the load attempts made by
// its last resolution. It blocks while a resolution is running.
func (p *probe) Status(name string) (State, []nativeerrors.Attempt) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e := p.entry(name)
	return e.state, append([]nativeerrors.Attempt(nil), e.attempts...)
}
