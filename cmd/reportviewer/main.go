// Package main provides the reportviewer command.
package main

import (
	"os"

	"github.com/leapstack-labs/reportviewer/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
