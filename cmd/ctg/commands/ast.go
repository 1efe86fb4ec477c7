package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l3aro/contract-graph/internal/config"
	"github.com/l3aro/contract-graph/pkg/pipeline"
)

// astCmd represents the ast command
var astCmd = &cobra.Command{
	Use:   "ast <input-dir>",
	Short: "Parse source files into program tree artifacts",
	Long: `Parses every supported source file under the input directory and writes
one <file>.ast.json artifact per file, preserving the directory layout.
Files that fail to parse are reported at the end; they do not stop the batch.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		output, _ := cmd.Flags().GetString("output")
		jobs, _ := cmd.Flags().GetInt("jobs")
		if jobs <= 0 {
			jobs = cfg.Jobs
		}

		report, err := pipeline.RunAST(cmd.Context(), pipeline.ASTOptions{
			Input:      args[0],
			Output:     output,
			Extensions: cfg.Extensions,
			Jobs:       jobs,
		}, logger)
		if err != nil {
			return err
		}

		fmt.Printf("Parsed %d files (%d unchanged)\n", report.Processed(), report.Skipped())
		return reportFailures(report)
	},
}

// reportFailures prints per-file failures and returns an error when any
// occurred, so the exit code reflects a partial batch.
func reportFailures(report *pipeline.Report) error {
	failures := report.Failures()
	if len(failures) == 0 {
		return nil
	}
	fmt.Printf("Failed %d files:\n", len(failures))
	for _, f := range failures {
		fmt.Printf("  %s\n", f)
	}
	return fmt.Errorf("%d files failed", len(failures))
}

func init() {
	astCmd.Flags().StringP("output", "o", "ast-out", "Directory for AST artifacts")
	astCmd.Flags().IntP("jobs", "n", 0, "Concurrent workers (default from config)")
	RootCmd.AddCommand(astCmd)
}
