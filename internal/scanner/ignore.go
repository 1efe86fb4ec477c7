package scanner

import (
	"path"
	"path/filepath"
	"strings"
)

// Pattern is a single gitignore-style ignore pattern. Supported syntax:
// leading ! for negation, trailing / for directory patterns, leading / to
// anchor at the scan root, and *, ?, [...] and ** wildcards.
type Pattern struct {
	raw      string
	negation bool
	dirOnly  bool
	anchored bool
	segments []string
	base     []string // directory of the ignore file, root-relative
}

// ParsePattern parses a gitignore-style pattern line.
func ParsePattern(line string) Pattern {
	p := Pattern{raw: line}

	if strings.HasPrefix(line, "!") {
		p.negation = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.anchored = true
		line = line[1:]
	}

	p.segments = strings.Split(line, "/")

	return p
}

// Rebase scopes the pattern to dir (root-relative, slash-separated), the
// directory holding a nested ignore file. A rebased pattern matches only
// paths under dir, and anchoring is relative to dir, matching gitignore
// semantics for nested ignore files.
func (p Pattern) Rebase(dir string) Pattern {
	if dir == "" || dir == "." {
		return p
	}
	p.base = strings.Split(filepath.ToSlash(dir), "/")
	return p
}

// String returns the original pattern line.
func (p Pattern) String() string {
	return p.raw
}

// IsNegation reports whether this pattern re-includes matching paths.
func (p Pattern) IsNegation() bool {
	return p.negation
}

// Match reports whether the given root-relative path matches this pattern.
// Directory patterns match the directory and everything under it.
func (p Pattern) Match(relPath string) bool {
	pathSegs := strings.Split(filepath.ToSlash(relPath), "/")

	// A rebased pattern applies only below its ignore file's directory.
	if len(p.base) > 0 {
		if len(pathSegs) <= len(p.base) {
			return false
		}
		for i, seg := range p.base {
			if !strings.EqualFold(seg, pathSegs[i]) {
				return false
			}
		}
		pathSegs = pathSegs[len(p.base):]
	}

	if p.anchored {
		return p.matchAt(p.segments, pathSegs)
	}

	// Unanchored patterns may match at any depth.
	for start := 0; start < len(pathSegs); start++ {
		if p.matchAt(p.segments, pathSegs[start:]) {
			return true
		}
	}
	return false
}

// matchAt matches pattern segments against path segments starting at the
// same position. Directory patterns accept trailing path segments.
func (p Pattern) matchAt(patSegs, pathSegs []string) bool {
	if len(patSegs) == 0 {
		// Pattern consumed: a directory pattern swallows the remainder,
		// a file pattern must have consumed the whole path.
		return p.dirOnly || len(pathSegs) == 0
	}

	if patSegs[0] == "**" {
		if len(patSegs) == 1 {
			return true
		}
		for i := 0; i <= len(pathSegs); i++ {
			if p.matchAt(patSegs[1:], pathSegs[i:]) {
				return true
			}
		}
		return false
	}

	if len(pathSegs) == 0 {
		return false
	}

	if !matchSegment(patSegs[0], pathSegs[0]) {
		return false
	}
	return p.matchAt(patSegs[1:], pathSegs[1:])
}

// matchSegment matches one pattern segment against one path segment.
// Comparison is case-insensitive to behave the same on case-insensitive
// filesystems.
func matchSegment(pat, seg string) bool {
	pat = strings.ToLower(pat)
	seg = strings.ToLower(seg)
	if !strings.ContainsAny(pat, "*?[") {
		return pat == seg
	}
	ok, err := path.Match(pat, seg)
	return err == nil && ok
}
