package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
}

func TestImports(t *testing.T) {
	root := t.TempDir()

	writeFile(t, root, "src/index.js", `
import _ from 'lodash';
import { debounce } from 'lodash/fp';
const axios = require('axios');
import('./lazy.js');
import fs from 'node:fs';
`)
	writeFile(t, root, "src/app.tsx", `
import React from "react";
import { Button } from "@mui/material/Button";
export { helper } from "./util";
export * from "@internal/shared";
`)
	writeFile(t, root, "src/lazy.js", `
const chalk = await import('chalk');
`)
	writeFile(t, root, "README.md", `import fake from 'not-code';`)
	writeFile(t, root, "node_modules/lodash/index.js", `require('hidden-dep');`)

	imports, err := Imports(root)
	if err != nil {
		t.Fatalf("Imports failed: %v", err)
	}

	want := []string{"lodash", "axios", "react", "@mui/material", "@internal/shared", "chalk"}
	for _, name := range want {
		if !imports[name] {
			t.Errorf("expected %s to be detected", name)
		}
	}

	for _, name := range []string{"not-code", "hidden-dep", "fs", "./util", "./lazy.js"} {
		if imports[name] {
			t.Errorf("did not expect %s to be detected", name)
		}
	}
}

func TestImports_SubpathCollapsesToPackage(t *testing.T) {
	tests := []struct {
		specifier string
		want      string
		ok        bool
	}{
		{"lodash", "lodash", true},
		{"lodash/fp", "lodash", true},
		{"@scope/pkg", "@scope/pkg", true},
		{"@scope/pkg/deep/path", "@scope/pkg", true},
		{"./relative", "", false},
		{"../up", "", false},
		{"/absolute", "", false},
		{"node:path", "", false},
		{"@broken", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := packageName(tt.specifier)
		if got != tt.want || ok != tt.ok {
			t.Errorf("packageName(%q) = (%q, %v), want (%q, %v)",
				tt.specifier, got, ok, tt.want, tt.ok)
		}
	}
}

func TestImports_EmptyProject(t *testing.T) {
	imports, err := Imports(t.TempDir())
	if err != nil {
		t.Fatalf("Imports failed: %v", err)
	}
	if len(imports) != 0 {
		t.Errorf("expected no imports, got %v", imports)
	}
}
