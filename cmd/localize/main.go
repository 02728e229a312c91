// localize translates a JSON document into every language supported by a
// machine translation service.
package main

import (
	"fmt"
	"os"

	"github.com/pricofy/localizer/internal/cli"
)

// Version information (set via -ldflags during build)
var version = "dev"

func main() {
	if err := cli.NewRootCommand(version, cli.NewService).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
