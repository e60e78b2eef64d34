// Package fileset resolves path arguments into the list of source files
// to process and performs the reads and writes on them.
package fileset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/mend"
)

// Resolve expands args into absolute file paths, in argument order with
// glob matches in lexical order. Each arg is either a literal path or a
// doublestar pattern. A literal that does not exist is an error; a
// pattern that matches nothing contributes no files. Returns
// mend.ErrNoFiles when nothing resolves.
func Resolve(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		matches, err := expand(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, mend.ErrNoFiles
	}
	return files, nil
}

func expand(arg string) ([]string, error) {
	if info, err := os.Stat(arg); err == nil {
		if info.IsDir() {
			return nil, fmt.Errorf("fileset: %s is a directory", arg)
		}
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("fileset: resolve %s: %w", arg, err)
		}
		return []string{abs}, nil
	}

	if !doublestar.ValidatePattern(arg) {
		return nil, fmt.Errorf("fileset: invalid glob pattern: %s", arg)
	}
	if !strings.ContainsAny(arg, "*?[{") {
		return nil, fmt.Errorf("fileset: %s: %w", arg, os.ErrNotExist)
	}
	matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("fileset: match %s: %w", arg, err)
	}
	files := make([]string, len(matches))
	for i, m := range matches {
		abs, err := filepath.Abs(m)
		if err != nil {
			return nil, fmt.Errorf("fileset: resolve %s: %w", m, err)
		}
		files[i] = abs
	}
	return files, nil
}

// Read returns the contents of path.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fileset: read %s: %w", path, err)
	}
	return data, nil
}

// Write replaces the contents of path atomically, preserving the file's
// existing permissions. The data is written to a temp file in the same
// directory and renamed over the target so a crash never leaves a
// half-written source file.
func Write(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, mode); err != nil {
		return fmt.Errorf("fileset: write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("fileset: rename temp file: %w", err)
	}
	return nil
}

// MIMEType guesses the media type for a source file from its extension.
func MIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cs":
		return "text/x-csharp"
	case ".fs":
		return "text/x-fsharp"
	case ".go":
		return "text/x-go"
	case ".py":
		return "text/x-python"
	case ".js":
		return "text/javascript"
	case ".ts":
		return "text/x-typescript"
	default:
		return "text/plain"
	}
}
