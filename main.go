package main

import (
	"fmt"
	"os"

	"skylight.app/cli/internal/interfaces/cli"
	"skylight.app/cli/internal/interfaces/di"
)

func main() {
	container, err := di.NewContainer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sky: %v\n", err)
		os.Exit(1)
	}

	if err := cli.NewRootCommand(container.CLI).Execute(); err != nil {
		// Cobra already printed the error.
		os.Exit(1)
	}
}
