// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package loader

import "github.com/ikvm-go/ikvmnative/internal/dl"

// Hook resolves libraries lazily, on the first symbol access. On total failure
// it returns a zero handle along with the resolution error so the caller's own
// missing-library path fires.
type Hook struct {
	*probe
}

// NewHook returns a [Hook] loader. Nothing is loaded until [Hook.Resolve].
func NewHook(opener Opener, sources Sources) *Hook {
	return &Hook{probe: newProbe(opener, sources)}
}

func (l *Hook) Resolve(name string) (dl.Handle, error) {
	handle, err := l.resolve(name)
	if err != nil {
		return 0, err
	}
	return handle, nil
}
