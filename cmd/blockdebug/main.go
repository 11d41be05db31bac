// Package main is the entry point for the blockdebug binary.
package main

import (
	"os"

	"blockdebug/cmd/blockdebug/cli"
)

func main() {
	os.Exit(cli.Execute())
}
