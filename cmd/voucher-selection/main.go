package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Cheertaboi/voucher-selection-service/internal/config"
	"github.com/Cheertaboi/voucher-selection-service/internal/logger"
)

const usage = `Usage: voucher-selection [--verbose] [--env-file PATH] <command>

Commands:
  data clean --input PATH --output-csv PATH   clean a raw export (.parquet, .csv, .xlsx) into a CSV
                                              (--input-parquet is accepted for --input)
  db create-table                             create the orders table if missing
  db seed --input-csv PATH                    clean and load a dataset into the orders table
  serve                                       run the HTTP API
`

// errUsage marks command line mistakes; they exit with status 2.
var errUsage = errors.New("usage")

type app struct {
	verbose bool
	envFile string
	stdout  io.Writer
	stderr  io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}

	fs := flag.NewFlagSet("voucher-selection", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&a.verbose, "verbose", false, "debug logging")
	fs.StringVar(&a.envFile, "env-file", ".env", "dotenv file read before the process environment")
	if err := fs.Parse(args); err != nil {
		return a.fail(fmt.Errorf("%w: %v", errUsage, err))
	}

	if err := a.dispatch(ctx, fs.Args()); err != nil {
		return a.fail(err)
	}
	return 0
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	switch args[0] {
	case "serve":
		return a.serve(ctx, args[1:])
	case "data", "db":
		if len(args) < 2 {
			return fmt.Errorf("%w: missing %s subcommand", errUsage, args[0])
		}
		switch args[0] + " " + args[1] {
		case "data clean":
			return a.dataClean(ctx, args[2:])
		case "db create-table":
			return a.dbCreateTable(ctx, args[2:])
		case "db seed":
			return a.dbSeed(ctx, args[2:])
		}
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0]+" "+args[1])
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func (a *app) fail(err error) int {
	if errors.Is(err, errUsage) {
		fmt.Fprintf(a.stderr, "Error: %v\n\n%s", err, usage)
		return 2
	}
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	return 1
}

// subcommand parses the flags of one subcommand and checks that every name
// in required was given a non-empty value.
func subcommand(name string, args []string, setup func(*flag.FlagSet), required ...string) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	setup(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, name, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: %s: unexpected argument %q", errUsage, name, fs.Arg(0))
	}
	for _, r := range required {
		if f := fs.Lookup(r); f == nil || f.Value.String() == "" {
			return fmt.Errorf("%w: %s: --%s is required", errUsage, name, r)
		}
	}
	return nil
}

func (a *app) loadConfig() (config.Config, error) {
	return config.FromEnviron(a.envFile)
}

func (a *app) logger(level string) (*zap.Logger, error) {
	if a.verbose {
		level = "debug"
	}
	return logger.New(level)
}
