package ast

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Grammar binds a source language to its tree-sitter grammar and the file
// extensions it covers.
type Grammar struct {
	Name       string
	Language   *sitter.Language
	Extensions []string
}

// grammars lists the contract source languages the pipeline understands.
// Files with other extensions are skipped before they reach the engine.
var grammars = []*Grammar{
	{
		Name:       "rust",
		Language:   rust.GetLanguage(),
		Extensions: []string{".rs"},
	},
	{
		Name:       "typescript",
		Language:   typescript.GetLanguage(),
		Extensions: []string{".ts"},
	},
	{
		Name:       "javascript",
		Language:   javascript.GetLanguage(),
		Extensions: []string{".js"},
	},
}

// GrammarForFile returns the grammar matching the file's extension, or nil
// when the file type is unsupported.
func GrammarForFile(path string) *Grammar {
	ext := strings.ToLower(filepath.Ext(path))
	for _, g := range grammars {
		for _, e := range g.Extensions {
			if e == ext {
				return g
			}
		}
	}
	return nil
}

// Grammars returns all supported grammars.
func Grammars() []*Grammar {
	return grammars
}
