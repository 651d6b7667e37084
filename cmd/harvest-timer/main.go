package main

import (
	"fmt"
	"os"

	"harvest-timer/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
