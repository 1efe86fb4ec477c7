// Package commands provides the CLI commands for the contract-graph tool.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/l3aro/contract-graph/internal/log"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "ctg",
	Short: "contract-graph - Program graph extraction for contract analysis",
	Long: `contract-graph turns contract source trees into analysis-ready graphs.

Commands:
  ast         Parse source files into program tree artifacts
  cfg         Build per-function control flow graphs from AST artifacts
  cpg         Build per-function code property graphs from compiler IR
  init        Set up configuration interactively

Use "ctg [command] --help" for more information about a command.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	RootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON")
}

// newLogger builds the command logger from the persistent flags.
func newLogger(cmd *cobra.Command) log.Logger {
	logger := log.Default()

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(log.DebugLevel)
	}
	if jsonLogs, _ := cmd.Flags().GetBool("json-logs"); jsonLogs {
		logger.SetJSONOutput(true)
	}

	return logger
}
