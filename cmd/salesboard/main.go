package main

import (
	"fmt"
	"os"

	"salesboard/internal/cli"
	"salesboard/internal/logging"
)

func main() {
	err := cli.Execute()
	_ = logging.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
