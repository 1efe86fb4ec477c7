package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/l3aro/contract-graph/internal/fingerprint"
	"github.com/l3aro/contract-graph/internal/log"
	"github.com/l3aro/contract-graph/internal/scanner"
	"github.com/l3aro/contract-graph/pkg/ast"
)

// ASTOptions configures the parse stage.
type ASTOptions struct {
	Input      string   // Source tree root
	Output     string   // Artifact root; mirrors the input layout
	Extensions []string // Extensions to parse; empty means all supported
	Jobs       int      // Concurrent workers; values < 1 mean 1
}

// RunAST parses every supported source file under opts.Input and writes one
// `<file>.ast.json` artifact per file under opts.Output, preserving the
// relative directory layout. Files that fail to parse are recorded in the
// report and do not stop the batch.
func RunAST(ctx context.Context, opts ASTOptions, logger log.Logger) (*Report, error) {
	if err := checkInputRoot(opts.Input); err != nil {
		return nil, err
	}

	scanOpts := scanner.DefaultOptions()
	scanOpts.Extensions = opts.Extensions
	files, err := scanner.ScanWithOptions(opts.Input, scanOpts)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", opts.Input, err)
	}

	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}

	if err := os.MkdirAll(opts.Output, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	// Fingerprints of prior runs let unchanged files skip re-parsing. A
	// corrupt store just means a full rebuild.
	storePath := filepath.Join(opts.Output, fingerprint.StoreFileName)
	store, err := fingerprint.LoadFromFile(storePath)
	if err != nil {
		logger.Warn("fingerprint store unreadable, rebuilding", "error", err)
		store = fingerprint.NewStore()
	}

	report := &Report{}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for _, file := range files {
		grammar := ast.GrammarForFile(file.Path)
		if grammar == nil {
			logger.Debug("skipping unsupported file", "path", file.Path)
			continue
		}

		file := file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			skipped, err := parseOne(file, grammar, opts.Output, store)
			if err != nil {
				logger.Warn("parse failed", "path", file.Path, "error", err)
				report.addFailure(file.Path, err)
				return nil
			}
			if skipped {
				logger.Debug("unchanged", "path", file.Path)
				report.addSkipped()
				return nil
			}
			logger.Debug("parsed", "path", file.Path, "language", grammar.Name)
			report.addProcessed()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := store.PersistToFile(storePath); err != nil {
		logger.Warn("persisting fingerprint store failed", "error", err)
	}

	logger.Info("ast stage done",
		"processed", report.Processed(),
		"skipped", report.Skipped(),
		"failed", len(report.Failures()))
	return report, nil
}

// parseOne parses a single source file and writes its AST artifact. It
// returns true without reparsing when the file's fingerprint matches the
// previous run and the artifact is still on disk.
func parseOne(file scanner.FileInfo, grammar *ast.Grammar, outRoot string, store *fingerprint.Store) (bool, error) {
	content, err := os.ReadFile(file.FullPath)
	if err != nil {
		return false, fmt.Errorf("reading source: %w", err)
	}

	outPath := filepath.Join(outRoot, file.Path+".ast.json")

	sum := fingerprint.Sum(content)
	if store.Unchanged(file.Path, sum) {
		if _, err := os.Stat(outPath); err == nil {
			return true, nil
		}
	}

	// tree-sitter parsers are not safe for concurrent use, so each unit
	// gets its own.
	parser := ast.NewParser()
	root, err := parser.Parse(content, grammar)
	if err != nil {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return false, fmt.Errorf("creating output directory: %w", err)
	}

	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return false, fmt.Errorf("encoding ast: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return false, fmt.Errorf("writing artifact: %w", err)
	}

	store.Record(file.Path, sum)
	return false, nil
}

// checkInputRoot verifies the input root exists and is a directory. Anything
// wrong here is fatal for the whole stage.
func checkInputRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("input root %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input root %s is not a directory", root)
	}
	return nil
}
