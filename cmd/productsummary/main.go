// Command productsummary shows a customer's financial product summary for a
// support case.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rshade/productsummary/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev" //nolint:gochecknoglobals // Set by the linker.

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	root := cli.NewRootCmd(version)
	root.SilenceErrors = true
	return root.ExecuteContext(context.Background())
}
