package run

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ridge/must/v2"
	"github.com/ridge/parallel"
	"github.com/ridge/reqlog/tlog"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// Logging flags live in their own set so they can be read before the
// program parses the rest of its command line
var fs = pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)

func init() {
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.String("log-format", string(tlog.FormatText), "Log format (json|text)")
	fs.String("log-color", "auto", "Colored logs (yes|no|auto)")
	fs.BoolP("verbose", "v", false, "Enable verbose (debug level) messages")
	fs.Usage = func() {}

	pflag.CommandLine.AddFlagSet(fs)
}

// Tool runs the top-level task of the program with a logger in its
// context. The context is closed on SIGTERM, SIGINT or SIGHUP.
//
// Tool does not return: it exits with code 0 if the task returns nil, with
// the code of a WithExitCode error, and with code 1 otherwise. Deferred
// functions of the caller do not run.
//
//	func main() {
//	    pflag.Parse()
//	    run.Tool(func(ctx context.Context) error {
//	        return doWork(ctx)
//	    })
//	}
func Tool(task func(ctx context.Context) error) {
	ctx := tlog.WithLogger(context.Background(), tlog.New(cliConfig()))

	err := parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("main", parallel.Exit, task)
		spawn("signals", parallel.Exit, waitForShutdown)
		return nil
	})
	if err == nil {
		os.Exit(0)
	}

	tlog.Get(ctx).Error("Error", zap.Error(err))
	var wec WithExitCode
	if errors.As(err, &wec) {
		os.Exit(wec.ExitCode())
	}
	os.Exit(1)
}

// Server is Tool for long-running programs: a task ending with the context
// error after a signal counts as success.
func Server(task func(ctx context.Context) error) {
	Tool(func(ctx context.Context) error {
		err := task(ctx)
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return nil
		}
		return err
	})
}

// WithExitCode is an optional interface that can be implemented by an error
// to choose the exit code of the program
type WithExitCode interface {
	ExitCode() int
}

func cliConfig() tlog.Config {
	if err := fs.Parse(os.Args[1:]); err != nil && !errors.Is(err, pflag.ErrHelp) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var color tlog.Color
	switch arg := must.OK1(fs.GetString("log-color")); arg {
	case "", "auto":
		color = tlog.ColorAuto
	case "yes":
		color = tlog.ColorYes
	case "no":
		color = tlog.ColorNo
	default:
		fmt.Fprintf(os.Stderr, "invalid --log-color value %q\n", arg)
		os.Exit(2)
	}

	format := tlog.Format(must.OK1(fs.GetString("log-format")))
	if format != tlog.FormatText && format != tlog.FormatJSON {
		fmt.Fprintf(os.Stderr, "invalid --log-format value %q\n", format)
		os.Exit(2)
	}

	return tlog.Config{
		Format:  format,
		Color:   color,
		Verbose: must.OK1(fs.GetBool("verbose")),
	}
}
