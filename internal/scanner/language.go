package scanner

import (
	"strings"
)

// languageMap maps file extensions to the languages found in contract
// repositories. The pipeline itself only parses rust, typescript, and
// javascript; the rest are detected so skips can be reported meaningfully.
var languageMap = map[string]string{
	// Rust (on-chain programs)
	".rs": "rust",

	// TypeScript/JavaScript (clients, tests, IDL glue)
	".ts":  "typescript",
	".tsx": "typescript",
	".js":  "javascript",
	".jsx": "javascript",
	".mjs": "javascript",
	".cjs": "javascript",

	// Move / Solidity contracts sometimes live alongside
	".move": "move",
	".sol":  "solidity",

	// Build and metadata files
	".toml": "toml",
	".yaml": "yaml",
	".yml":  "yaml",
	".json": "json",
	".lock": "lockfile",
	".md":   "markdown",
	".sh":   "shell",
}

// DetectLanguage returns the language for a file extension, or "unknown".
func DetectLanguage(ext string) string {
	if lang, ok := languageMap[strings.ToLower(ext)]; ok {
		return lang
	}
	return "unknown"
}

// IsSupported reports whether the extension belongs to a language the
// parsing stage can handle.
func IsSupported(ext string) bool {
	switch DetectLanguage(ext) {
	case "rust", "typescript", "javascript":
		return true
	default:
		return false
	}
}
