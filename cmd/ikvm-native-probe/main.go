// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// ikvm-native-probe reports where the ikvm-native companion library is looked
// for on this machine, and optionally tries to load it.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"
	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ikvm-go/ikvmnative"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "ikvm-native-probe"
	app.Usage = "inspect the resolution of the ikvm-native companion library"
	app.Writer = out
	app.Flags = []cli.Flag{
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "trace loader calls on stderr"},
	}
	app.Before = func(ctx *cli.Context) error {
		if ctx.Bool("debug") {
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			ikvmnative.SetLogger(logger)
		}
		return nil
	}
	probeFlags := []cli.Flag{
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Value: ikvmnative.LibName, Usage: "logical library name"},
		&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Usage: "installation root, defaults to the directory of this binary"},
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "output format: text, json or dump"},
	}
	app.Commands = []*cli.Command{
		{
			Name:   "paths",
			Usage:  "list the runtime identifiers and candidate paths without loading anything",
			Flags:  probeFlags,
			Action: paths,
		},
		{
			Name:   "resolve",
			Usage:  "load the library and bind its entry points",
			Flags:  probeFlags,
			Action: resolve,
		},
	}
	return app
}

func newLibrary(ctx *cli.Context) *ikvmnative.Library {
	options := []ikvmnative.Option{
		ikvmnative.WithLibraryName(ctx.String("name")),
		// Do not preload anything when only listing paths
		ikvmnative.WithStrategy(ikvmnative.StrategyHook),
	}
	if root := ctx.String("root"); root != "" {
		options = append(options, ikvmnative.WithInstallRoot(root))
	}
	return ikvmnative.New(options...)
}

func paths(ctx *cli.Context) error {
	return report(ctx, newLibrary(ctx).Diagnostics())
}

func resolve(ctx *cli.Context) error {
	lib := newLibrary(ctx)
	_, loadErr := lib.Handle()
	if err := report(ctx, lib.Diagnostics()); err != nil {
		return err
	}
	if loadErr != nil {
		return cli.Exit(loadErr, 1)
	}

	vtable, err := lib.GetJNIEnvVTable()
	if err != nil {
		return cli.Exit(err, 2)
	}
	fmt.Fprintf(ctx.App.Writer, "%s: 0x%x\n", ikvmnative.SymbolGetJNIEnvVTable, uintptr(vtable))
	return nil
}

func report(ctx *cli.Context, diags ikvmnative.Diagnostics) error {
	w := ctx.App.Writer
	switch format := ctx.String("format"); format {
	case "json":
		data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(diags, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "dump":
		cfg := spew.NewDefaultConfig()
		cfg.DisablePointerAddresses = true
		cfg.Fdump(w, diags)
		return nil
	case "text":
		fmt.Fprintf(w, "library:      %s\n", diags.Library)
		fmt.Fprintf(w, "platform:     %s, %d-byte pointers\n", diags.OS, diags.PointerSize)
		fmt.Fprintf(w, "install root: %s\n", diags.InstallRoot)
		fmt.Fprintf(w, "strategy:     %s\n", diags.Strategy)
		fmt.Fprintf(w, "state:        %s\n", diags.State)
		for _, id := range diags.RuntimeIdentifiers {
			fmt.Fprintf(w, "rid:          %s\n", id)
		}
		for _, path := range diags.CandidatePaths {
			fmt.Fprintf(w, "candidate:    %s\n", path)
		}
		for _, a := range diags.Attempts {
			if a.Error == "" {
				fmt.Fprintf(w, "loaded:       %s\n", a.Path)
			} else {
				fmt.Fprintf(w, "failed:       %s (%s)\n", a.Path, a.Error)
			}
		}
		for _, e := range diags.Errors {
			fmt.Fprintf(w, "error:        %s\n", e)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
