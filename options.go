// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package ikvmnative

import (
	"github.com/ikvm-go/ikvmnative/internal/dl"
	"github.com/ikvm-go/ikvmnative/internal/loader"
	"github.com/ikvm-go/ikvmnative/internal/rid"
	"github.com/ikvm-go/ikvmnative/internal/search"
)

// Handle is an opaque reference to a loaded native library, valid for the
// lifetime of the process.
type Handle = dl.Handle

// Platform describes the operating system and pointer width the runtime
// identifiers are derived from.
type Platform = rid.Platform

// Strategy names the way a library is resolved.
type Strategy = loader.Strategy

const (
	// StrategyAuto selects [StrategyHook] when the system loader supports lazy
	// resolution, [StrategyEager] otherwise.
	StrategyAuto = loader.StrategyAuto
	// StrategyEager resolves the library when it is created and never reports
	// the failure; the first entry point call does.
	StrategyEager = loader.StrategyEager
	// StrategyHook resolves the library on the first entry point call.
	StrategyHook = loader.StrategyHook
)

// System is the dynamic loader a [Library] opens files and calls functions
// with.
type System interface {
	Open(path string) (Handle, error)
	Symbol(handle Handle, name string) (uintptr, error)
	Call(fn uintptr, args ...uintptr) uintptr
	NewCallback(fn any) uintptr
}

// Config is the configuration of a [Library]. It can be created through the use of options
type Config struct {
	// LibraryName is the logical, platform-neutral library name
	LibraryName string
	// InstallRoot returns the directory holding the `runtimes` tree
	InstallRoot func() string
	// Platform is the platform the runtime identifiers and file names are derived from
	Platform Platform
	// System is the dynamic loader
	System System
	// Strategy is the resolution strategy
	Strategy Strategy
}

func newConfig(options ...Option) Config {
	config := Config{
		LibraryName: LibName,
		InstallRoot: search.InstallRoot,
		Platform:    rid.Current(),
		System:      dl.New(),
		Strategy:    StrategyAuto,
	}
	for _, option := range options {
		option(&config)
	}
	return config
}

// Option are the configuration options of a [Library]
type Option func(*Config)

// WithLibraryName is an Option that sets the LibraryName value
func WithLibraryName(name string) Option {
	return func(c *Config) {
		c.LibraryName = name
	}
}

// WithInstallRoot is an Option that sets a fixed InstallRoot directory
func WithInstallRoot(dir string) Option {
	return func(c *Config) {
		c.InstallRoot = func() string { return dir }
	}
}

// WithPlatform is an Option that sets the Platform value
func WithPlatform(platform Platform) Option {
	return func(c *Config) {
		c.Platform = platform
	}
}

// WithSystem is an Option that sets the System value
func WithSystem(system System) Option {
	return func(c *Config) {
		c.System = system
	}
}

// WithStrategy is an Option that sets the Strategy value
func WithStrategy(strategy Strategy) Option {
	return func(c *Config) {
		c.Strategy = strategy
	}
}
