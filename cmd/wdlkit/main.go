// Command wdlkit is the wdlkit CLI: parse, check, eval, and serve.
package main

import (
	"fmt"
	"os"

	"github.com/wdlkit/wdlkit/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
