package ast

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammarForFile(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"programs/src/lib.rs", "rust"},
		{"tests/transfer.ts", "typescript"},
		{"migrations/deploy.js", "javascript"},
		{"LIB.RS", "rust"}, // extension match is case-insensitive
		{"README.md", ""},
		{"Cargo.toml", ""},
	}

	for _, tt := range tests {
		g := GrammarForFile(tt.path)
		if tt.want == "" {
			assert.Nil(t, g, tt.path)
			continue
		}
		require.NotNil(t, g, tt.path)
		assert.Equal(t, tt.want, g.Name, tt.path)
	}
}

func TestParseRust(t *testing.T) {
	source := []byte(`fn transfer(amount: u64) -> u64 {
    let fee = amount / 100;
    amount - fee
}
`)
	p := NewParser()
	root, err := p.Parse(source, GrammarForFile("lib.rs"))
	require.NoError(t, err)

	assert.Equal(t, "source_file", root.Kind)
	assert.Equal(t, uint32(0), root.StartByte)
	assert.Equal(t, uint32(len(source)), root.EndByte)

	fn := root.FindChild("function_item")
	require.NotNil(t, fn)
	id := fn.FindChild("identifier")
	require.NotNil(t, id)
	assert.Equal(t, "transfer", id.Text)
}

func TestParserReuse(t *testing.T) {
	p := NewParser()

	rust, err := p.Parse([]byte("fn a() {}"), GrammarForFile("a.rs"))
	require.NoError(t, err)
	assert.Equal(t, "source_file", rust.Kind)

	// The same parser handles a different grammar on the next call.
	ts, err := p.Parse([]byte("function b() {}"), GrammarForFile("b.ts"))
	require.NoError(t, err)
	assert.Equal(t, "program", ts.Kind)
}

func TestFirstLine(t *testing.T) {
	n := &Node{Text: "  let x = foo(\n    1,\n);"}
	assert.Equal(t, "let x = foo(", n.FirstLine())

	single := &Node{Text: "return;"}
	assert.Equal(t, "return;", single.FirstLine())

	empty := &Node{}
	assert.Equal(t, "", empty.FirstLine())
}

func TestReadFile(t *testing.T) {
	root := &Node{
		Kind: "source_file",
		Text: "fn a() {}",
		Children: []*Node{
			{Kind: "function_item", Text: "fn a() {}", EndByte: 9},
		},
	}
	data, err := json.Marshal(root)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "lib.rs.ast.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	loaded, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, root, loaded)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
