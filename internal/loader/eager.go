// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package loader

import (
	"go.uber.org/zap"

	"github.com/ikvm-go/ikvmnative/internal/dl"
	"github.com/ikvm-go/ikvmnative/internal/log"
)

// Eager preloads libraries when it is created, for loaders where a module made
// resident once is then found by its bare name. A preload failure is only
// logged: the error surfaces at the first call of a dependent entry point.
type Eager struct {
	*probe
}

// NewEager returns an [Eager] loader which immediately preloads the given
// library names.
func NewEager(opener Opener, sources Sources, preload ...string) *Eager {
	l := &Eager{probe: newProbe(opener, sources)}
	for _, name := range preload {
		l.Preload(name)
	}
	return l
}

// Preload resolves name and reports nothing upward.
func (l *Eager) Preload(name string) {
	if _, err := l.resolve(name); err != nil {
		log.Warn("native library preload failed", zap.String("library", name), zap.Error(err))
	}
}

// Resolve returns the preloaded handle of name, retrying the resolution when
// the preload failed.
func (l *Eager) Resolve(name string) (dl.Handle, error) {
	return l.resolve(name)
}
