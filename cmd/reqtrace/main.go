package main

import (
	"fmt"
	"os"

	"github.com/qaforge/reqtrace/internal/cli"
	"github.com/qaforge/reqtrace/internal/modules"
)

func main() {
	root := cli.NewRootCommand(modules.Builtin)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
