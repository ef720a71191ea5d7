// reqlog-fmt turns JSON logs (--log-format=json) read from stdin into the
// colored console format.
//
//	reqlog-demo --log-format=json 2>&1 | tee demo.log | reqlog-fmt
package main

import (
	"fmt"
	"os"

	"github.com/ridge/reqlog/tlog/formatter"
	"github.com/spf13/pflag"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

var color = pflag.String("color", "auto", "Colored output (yes|no|auto)")

func main() {
	pflag.Parse()

	var useColor bool
	switch *color {
	case "yes":
		useColor = true
	case "no":
	case "auto":
		useColor = term.IsTerminal(unix.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "invalid --color value %q\n", *color)
		os.Exit(2)
	}

	if err := formatter.Stream(os.Stdin, os.Stdout, useColor); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
