package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3aro/contract-graph/internal/log"
	"github.com/l3aro/contract-graph/pkg/ast"
	"github.com/l3aro/contract-graph/pkg/cfg"
)

func testLogger() log.Logger {
	return log.New(log.Config{Level: log.ErrorLevel, Stderr: &bytes.Buffer{}})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRunASTMissingRootIsFatal(t *testing.T) {
	_, err := RunAST(context.Background(), ASTOptions{
		Input:  filepath.Join(t.TempDir(), "nope"),
		Output: t.TempDir(),
	}, testLogger())
	assert.Error(t, err)
}

func TestRunASTWritesArtifacts(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()

	writeFile(t, filepath.Join(input, "programs", "escrow", "lib.rs"), "fn init() {}\n")
	writeFile(t, filepath.Join(input, "tests", "escrow.ts"), "function run() {}\n")
	writeFile(t, filepath.Join(input, "Cargo.toml"), "[package]\n")

	report, err := RunAST(context.Background(), ASTOptions{
		Input:  input,
		Output: output,
		Jobs:   4,
	}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Processed())
	assert.Empty(t, report.Failures())

	// Artifacts mirror the input layout.
	rsArtifact := filepath.Join(output, "programs", "escrow", "lib.rs.ast.json")
	root, err := ast.ReadFile(rsArtifact)
	require.NoError(t, err)
	assert.Equal(t, "source_file", root.Kind)

	_, err = os.Stat(filepath.Join(output, "tests", "escrow.ts.ast.json"))
	assert.NoError(t, err)

	// The unsupported file produced nothing.
	_, err = os.Stat(filepath.Join(output, "Cargo.toml.ast.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunASTSkipsUnchangedOnRerun(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	writeFile(t, filepath.Join(input, "lib.rs"), "fn a() {}\n")
	writeFile(t, filepath.Join(input, "other.rs"), "fn b() {}\n")

	opts := ASTOptions{Input: input, Output: output}

	first, err := RunAST(context.Background(), opts, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Processed())
	assert.Equal(t, 0, first.Skipped())

	// Nothing changed: the rerun parses nothing.
	second, err := RunAST(context.Background(), opts, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Processed())
	assert.Equal(t, 2, second.Skipped())

	// Touching one file reparses just that file.
	writeFile(t, filepath.Join(input, "lib.rs"), "fn a() { work(); }\n")
	third, err := RunAST(context.Background(), opts, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, third.Processed())
	assert.Equal(t, 1, third.Skipped())
}

func TestRunASTRespectsExtensionFilter(t *testing.T) {
	input := t.TempDir()
	writeFile(t, filepath.Join(input, "lib.rs"), "fn a() {}\n")
	writeFile(t, filepath.Join(input, "client.ts"), "function b() {}\n")

	report, err := RunAST(context.Background(), ASTOptions{
		Input:      input,
		Output:     t.TempDir(),
		Extensions: []string{".rs"},
	}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed())
}

// artifactJSON renders a minimal program tree with one named function.
func artifactJSON(t *testing.T, funcName string) string {
	t.Helper()
	root := &ast.Node{
		Kind: "source_file",
		Children: []*ast.Node{
			{
				Kind: "function_item",
				Children: []*ast.Node{
					{Kind: "identifier", Text: funcName},
					{
						Kind: "block",
						Children: []*ast.Node{
							{Kind: "expression_statement", Text: "work();"},
						},
					},
				},
			},
		},
	}
	data, err := json.Marshal(root)
	require.NoError(t, err)
	return string(data)
}

func TestRunCFGWritesGraphsPerFunction(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()

	writeFile(t, filepath.Join(input, "lib.rs.ast.json"), artifactJSON(t, "deposit"))

	report, err := RunCFG(context.Background(), CFGOptions{
		Input:   input,
		Output:  output,
		Pattern: ".rs.ast.json",
	}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed())

	dotPath := filepath.Join(output, "lib.rs.deposit.cfg.dot")
	dot, err := os.ReadFile(dotPath)
	require.NoError(t, err)
	assert.Contains(t, string(dot), "digraph {")
	assert.Contains(t, string(dot), "work();")

	jsonFile, err := os.Open(filepath.Join(output, "lib.rs.deposit.cfg.json"))
	require.NoError(t, err)
	defer jsonFile.Close()
	graph, err := cfg.DecodeJSON(jsonFile)
	require.NoError(t, err)
	assert.True(t, graph.HasEdge(graph.Entry, graph.Exit))
}

func TestRunCFGMirrorsInputLayout(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()

	// lib.rs is ubiquitous; same-named artifacts in different programs must
	// not collide in the output.
	writeFile(t, filepath.Join(input, "escrow", "lib.rs.ast.json"), artifactJSON(t, "process"))
	writeFile(t, filepath.Join(input, "vault", "lib.rs.ast.json"), artifactJSON(t, "process"))

	report, err := RunCFG(context.Background(), CFGOptions{
		Input:   input,
		Output:  output,
		Pattern: ".rs.ast.json",
		Jobs:    2,
	}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Processed())

	for _, sub := range []string{"escrow", "vault"} {
		jsonFile, err := os.Open(filepath.Join(output, sub, "lib.rs.process.cfg.json"))
		require.NoError(t, err, "each program keeps its own graph")
		graph, err := cfg.DecodeJSON(jsonFile)
		jsonFile.Close()
		require.NoError(t, err)
		assert.True(t, graph.HasEdge(graph.Entry, graph.Exit))

		_, err = os.Stat(filepath.Join(output, sub, "lib.rs.process.cfg.dot"))
		assert.NoError(t, err)
	}

	// Nothing lands flattened at the output root.
	_, err = os.Stat(filepath.Join(output, "lib.rs.process.cfg.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunCFGContinuesPastBadArtifact(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()

	writeFile(t, filepath.Join(input, "good.rs.ast.json"), artifactJSON(t, "f"))
	writeFile(t, filepath.Join(input, "bad.rs.ast.json"), "{broken")

	report, err := RunCFG(context.Background(), CFGOptions{
		Input:   input,
		Output:  output,
		Pattern: ".rs.ast.json",
		Jobs:    2,
	}, testLogger())
	require.NoError(t, err, "a bad artifact must not abort the batch")

	assert.Equal(t, 1, report.Processed())
	failures := report.Failures()
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Path, "bad.rs.ast.json")

	// The good artifact still produced its graphs.
	_, err = os.Stat(filepath.Join(output, "good.rs.f.cfg.dot"))
	assert.NoError(t, err)
}

func TestRunCFGIgnoresNonMatchingFiles(t *testing.T) {
	input := t.TempDir()
	writeFile(t, filepath.Join(input, "notes.txt"), "hello")
	writeFile(t, filepath.Join(input, "lib.ts.ast.json"), artifactJSON(t, "f"))

	report, err := RunCFG(context.Background(), CFGOptions{
		Input:   input,
		Output:  t.TempDir(),
		Pattern: ".rs.ast.json",
	}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Processed())
	assert.Empty(t, report.Failures())
}

func TestRunCFGEmptyPatternIsFatal(t *testing.T) {
	_, err := RunCFG(context.Background(), CFGOptions{
		Input:  t.TempDir(),
		Output: t.TempDir(),
	}, testLogger())
	assert.Error(t, err)
}
