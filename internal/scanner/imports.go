// Package scanner walks a JavaScript/TypeScript project tree and
// collects which npm packages its source files actually reference.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Directories that never contain first-party source.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
}

// Extensions of files worth scanning.
var sourceExts = map[string]bool{
	".js":  true,
	".jsx": true,
	".ts":  true,
	".tsx": true,
	".mjs": true,
	".cjs": true,
}

// importSpecifiers matches ES imports, re-exports, dynamic imports and
// CommonJS requires, capturing the module specifier.
var importSpecifiers = []*regexp.Regexp{
	regexp.MustCompile(`(?m)\bimport\s+[^'"]*?from\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?m)\bimport\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?m)\bexport\s+[^'"]*?from\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?m)\bimport\s*\(\s*['"]([^'"]+)['"]\s*\)`),
	regexp.MustCompile(`(?m)\brequire\s*\(\s*['"]([^'"]+)['"]\s*\)`),
}

// Imports walks root and returns the set of npm package names
// referenced by its source files. Relative and node: builtin
// specifiers are ignored; subpath imports are collapsed to their
// package name ("lodash/fp" → "lodash", "@scope/pkg/util" → "@scope/pkg").
// Unreadable files are skipped silently.
func Imports(root string) (map[string]bool, error) {
	packages := make(map[string]bool)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !sourceExts[filepath.Ext(path)] {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}

		for _, re := range importSpecifiers {
			for _, match := range re.FindAllStringSubmatch(string(data), -1) {
				if name, ok := packageName(match[1]); ok {
					packages[name] = true
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return packages, nil
}

// packageName collapses a module specifier to its npm package name.
// Returns false for relative paths and node builtins.
func packageName(specifier string) (string, bool) {
	if specifier == "" || strings.HasPrefix(specifier, ".") || strings.HasPrefix(specifier, "/") {
		return "", false
	}
	if strings.HasPrefix(specifier, "node:") {
		return "", false
	}

	parts := strings.Split(specifier, "/")
	if strings.HasPrefix(specifier, "@") {
		if len(parts) < 2 {
			return "", false
		}
		return parts[0] + "/" + parts[1], true
	}
	return parts[0], true
}
