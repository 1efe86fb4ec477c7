package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l3aro/contract-graph/internal/config"
	"github.com/l3aro/contract-graph/pkg/pipeline"
)

// cfgCmd represents the cfg command
var cfgCmd = &cobra.Command{
	Use:   "cfg <artifact-dir>",
	Short: "Build per-function control flow graphs from AST artifacts",
	Long: `Reads every AST artifact under the input directory whose name matches the
configured pattern and builds one control flow graph per function found.
Each function yields a <file>.<function>.cfg.dot and a matching .cfg.json
file in the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		output, _ := cmd.Flags().GetString("output")
		pattern, _ := cmd.Flags().GetString("pattern")
		if pattern == "" {
			pattern = cfg.CFGPattern
		}
		jobs, _ := cmd.Flags().GetInt("jobs")
		if jobs <= 0 {
			jobs = cfg.Jobs
		}

		report, err := pipeline.RunCFG(cmd.Context(), pipeline.CFGOptions{
			Input:   args[0],
			Output:  output,
			Pattern: pattern,
			Jobs:    jobs,
		}, logger)
		if err != nil {
			return err
		}

		fmt.Printf("Processed %d artifacts\n", report.Processed())
		return reportFailures(report)
	},
}

func init() {
	cfgCmd.Flags().StringP("output", "o", "cfg-out", "Directory for generated graphs")
	cfgCmd.Flags().StringP("pattern", "p", "", "Artifact name suffix (default from config)")
	cfgCmd.Flags().IntP("jobs", "n", 0, "Concurrent workers (default from config)")
	RootCmd.AddCommand(cfgCmd)
}
