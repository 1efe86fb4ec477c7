package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/l3aro/contract-graph/internal/log"
	"github.com/l3aro/contract-graph/pkg/ast"
	"github.com/l3aro/contract-graph/pkg/cfg"
)

// CFGOptions configures the control flow graph stage.
type CFGOptions struct {
	Input   string       // Root containing AST artifacts
	Output  string       // Directory for the generated graphs
	Pattern string       // Artifact file name suffix, e.g. ".rs.ast.json"
	Jobs    int          // Concurrent workers; values < 1 mean 1
	Profile *cfg.Profile // Node kind profile; nil means cfg.DefaultProfile()
}

// RunCFG builds control flow graphs for every function in every AST artifact
// under opts.Input whose name ends in opts.Pattern. Each function yields a
// `<stem>.<func>.cfg.dot` and a `<stem>.<func>.cfg.json` file in opts.Output,
// where stem is the artifact name with the ".ast.json" suffix removed.
// Artifacts that fail to load are recorded and skipped.
func RunCFG(ctx context.Context, opts CFGOptions, logger log.Logger) (*Report, error) {
	if err := checkInputRoot(opts.Input); err != nil {
		return nil, err
	}
	if opts.Pattern == "" {
		return nil, fmt.Errorf("artifact pattern must not be empty")
	}

	profile := cfg.DefaultProfile()
	if opts.Profile != nil {
		profile = *opts.Profile
	}

	var artifacts []string
	err := filepath.WalkDir(opts.Input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), opts.Pattern) {
			artifacts = append(artifacts, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", opts.Input, err)
	}

	if err := os.MkdirAll(opts.Output, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}

	report := &Report{}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for _, artifact := range artifacts {
		artifact := artifact
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := lowerOne(artifact, opts.Input, opts.Output, profile, logger)
			if err != nil {
				logger.Warn("cfg generation failed", "path", artifact, "error", err)
				report.addFailure(artifact, err)
				return nil
			}
			logger.Debug("lowered", "path", artifact, "functions", n)
			report.addProcessed()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("cfg stage done",
		"processed", report.Processed(),
		"failed", len(report.Failures()))
	return report, nil
}

// lowerOne builds and writes the graphs for every function in one artifact.
// It returns the number of functions emitted. Outputs mirror the input
// layout: same-named artifacts in different subdirectories keep their own
// graph files.
func lowerOne(path, inRoot, outDir string, profile cfg.Profile, logger log.Logger) (int, error) {
	root, err := ast.ReadFile(path)
	if err != nil {
		return 0, err
	}

	rel, err := filepath.Rel(inRoot, path)
	if err != nil {
		return 0, fmt.Errorf("relativizing %s: %w", path, err)
	}
	stem := strings.TrimSuffix(rel, ".ast.json")
	if err := os.MkdirAll(filepath.Dir(filepath.Join(outDir, stem)), 0755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}

	funcs := cfg.Functions(root, profile)
	if len(funcs) == 0 {
		logger.Debug("no functions found", "path", path)
	}

	for _, def := range funcs {
		logger.Debug("found function", "name", def.Name, "artifact", path)
		graph := cfg.BuildFunction(def, profile)

		base := filepath.Join(outDir, fmt.Sprintf("%s.%s.cfg", stem, def.Name))
		if err := writeDOTFile(base+".dot", graph); err != nil {
			return 0, err
		}
		if err := writeJSONFile(base+".json", graph); err != nil {
			return 0, err
		}
	}

	return len(funcs), nil
}

func writeDOTFile(path string, graph *cfg.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := graph.WriteDOT(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func writeJSONFile(path string, graph *cfg.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := graph.EncodeJSON(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
