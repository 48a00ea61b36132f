// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package loader

// Strategy names a [Loader] implementation.
type Strategy string

const (
	// StrategyAuto picks the strategy from the capabilities of the opener.
	StrategyAuto  Strategy = ""
	StrategyEager Strategy = "eager"
	StrategyHook  Strategy = "hook"
)

// HookCapable is implemented by openers able to tell whether libraries can be
// resolved lazily.
type HookCapable interface {
	SupportsResolverHook() bool
}

// Probe returns the strategy supported by opener: [StrategyHook] when it
// implements [HookCapable] and reports support, [StrategyEager] otherwise.
func Probe(opener Opener) Strategy {
	if c, ok := opener.(HookCapable); ok && c.SupportsResolverHook() {
		return StrategyHook
	}
	return StrategyEager
}

// Select builds the loader for strategy, probing the opener when strategy is
// [StrategyAuto]. The eager loader preloads `name` before returning.
func Select(strategy Strategy, opener Opener, sources Sources, name string) (Loader, Strategy) {
	if strategy == StrategyAuto {
		strategy = Probe(opener)
	}
	if strategy == StrategyEager {
		return NewEager(opener, sources, name), strategy
	}
	return NewHook(opener, sources), StrategyHook
}
