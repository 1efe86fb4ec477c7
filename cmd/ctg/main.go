// Package main implements the contract-graph CLI (ctg).
// It provides commands for parsing contract sources into program trees and
// building per-function control flow and code property graphs.
package main

import (
	"os"

	"github.com/l3aro/contract-graph/cmd/ctg/commands"
)

var version = "dev"

func main() {
	commands.RootCmd.Version = version
	commands.RootCmd.SetVersionTemplate(`ctg version {{.Version}}
`)

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
