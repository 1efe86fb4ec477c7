package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/l3aro/contract-graph/internal/config"
	"github.com/l3aro/contract-graph/pkg/cpg"
	"github.com/l3aro/contract-graph/pkg/ir"
)

// cpgCmd represents the cpg command
var cpgCmd = &cobra.Command{
	Use:   "cpg [packages...]",
	Short: "Build per-function code property graphs from compiler IR",
	Long: `Compiles a compilation unit to intermediate representation and builds one
code property graph per function: control-flow edges between instruction
nodes plus data-flow edges from the last definition of each variable to its
uses.

By default the unit is compiled from Go packages in the current directory.
With --ir the unit is loaded from a JSON IR dump produced by an external
frontend instead. DOT renderings go to stdout unless --output names a
directory, in which case each function also gets a binary .cpg artifact.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		irPath, _ := cmd.Flags().GetString("ir")
		dir, _ := cmd.Flags().GetString("dir")
		output, _ := cmd.Flags().GetString("output")

		var unit *ir.Unit
		if irPath != "" {
			unit, err = ir.LoadUnit(irPath)
			if err != nil {
				return err
			}
		} else {
			patterns := args
			if len(patterns) == 0 {
				patterns = []string{"./..."}
			}
			unit, err = ir.CompileUnit(dir, patterns, cfg.BuildFlags)
			if err != nil {
				return err
			}
		}

		logger.Info("unit loaded", "name", unit.Name, "functions", len(unit.Functions))

		if output != "" {
			if err := os.MkdirAll(output, 0755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
		}

		for i := range unit.Functions {
			fn := &unit.Functions[i]
			graph := cpg.Build(fn)

			if output == "" {
				if err := graph.WriteDOT(os.Stdout); err != nil {
					return err
				}
				continue
			}

			base := filepath.Join(output, sanitizeName(fn.Name)+".cpg")
			if err := writeGraph(graph, base); err != nil {
				return err
			}
			logger.Debug("wrote graphs", "function", fn.Name)
		}

		return nil
	},
}

// sanitizeName flattens a qualified function name such as
// "example.com/mod/pkg.Foo" into a single file-name-safe component.
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	if sep := string(filepath.Separator); sep != "/" {
		name = strings.ReplaceAll(name, sep, "_")
	}
	return name
}

// writeGraph writes both renderings of one function's graph: the DOT text
// and the binary artifact.
func writeGraph(graph *cpg.Graph, base string) error {
	dotFile, err := os.Create(base + ".dot")
	if err != nil {
		return fmt.Errorf("creating %s.dot: %w", base, err)
	}
	defer dotFile.Close()
	if err := graph.WriteDOT(dotFile); err != nil {
		return fmt.Errorf("writing %s.dot: %w", base, err)
	}

	binFile, err := os.Create(base + ".bin")
	if err != nil {
		return fmt.Errorf("creating %s.bin: %w", base, err)
	}
	defer binFile.Close()
	if err := graph.Save(binFile); err != nil {
		return fmt.Errorf("writing %s.bin: %w", base, err)
	}
	return nil
}

func init() {
	cpgCmd.Flags().String("dir", ".", "Directory to compile the unit from")
	cpgCmd.Flags().String("ir", "", "Load IR from a JSON dump instead of compiling")
	cpgCmd.Flags().StringP("output", "o", "", "Directory for graph artifacts (default: DOT to stdout)")
	RootCmd.AddCommand(cpgCmd)
}
