// Package main is the entry point for mathedit, a script-driven math
// expression editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dshills/mathfield/internal/app"
)

// Version information (set via ldflags during build).
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mathedit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts app.Options
	var showVersion bool
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to TOML configuration file")
	fs.BoolVar(&opts.Watch, "watch", false, "Reload the configuration file when it changes")
	fs.BoolVar(&opts.Verbose, "v", false, "Log every action at debug level")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "mathedit - edit a math expression with a script\n\n")
		fmt.Fprintf(stderr, "Usage: mathedit [options] [script...]\n\n")
		fmt.Fprintf(stderr, "Reads actions from the scripts, or stdin when none are given, and\n")
		fmt.Fprintf(stderr, "prints the LaTeX value and selection after each one. Scripts ending\n")
		fmt.Fprintf(stderr, "in .lua run as Lua, with each action available as %s.<action>(arg).\n\n", app.LuaModule)
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nActions:\n")
		for _, u := range app.Usage() {
			fmt.Fprintf(stderr, "  %s\n", u)
		}
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if showVersion {
		fmt.Fprintf(stdout, "mathedit %s\n", version)
		return 0
	}
	opts.LogOutput = stderr

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	for _, name := range inputs {
		if err := runInput(ctx, application, name, stdin, stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	if application.Failures() > 0 {
		return 1
	}
	return 0
}

func runInput(ctx context.Context, a *app.Application, name string, stdin io.Reader, stdout io.Writer) error {
	if name == "-" {
		return a.Run(ctx, stdin, stdout)
	}
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if strings.HasSuffix(name, ".lua") {
		return a.RunLua(ctx, name, f, stdout)
	}
	return a.Run(ctx, f, stdout)
}
