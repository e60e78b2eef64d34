package msbuild

import (
	"path/filepath"
	"strings"

	"github.com/fwojciec/mend"
)

// notations are the position markers that separate the path from the
// severity clause, e.g. "Program.cs(12,5): error ..." and the bracketed
// variant some loggers emit.
var notations = []struct {
	open  byte
	close string
}{
	{'(', "): "},
	{'[', "]: "},
}

// Errors returns the error diagnostics in out that name target, in order
// of appearance and including repeats. Paths are resolved against the
// working directory before comparison so relative and absolute spellings
// of the same file match. A target that cannot be resolved yields nil.
func Errors(out, target string) []mend.Diagnostic {
	want, err := normalize(target)
	if err != nil {
		return nil
	}
	var diags []mend.Diagnostic
	for _, line := range strings.Split(sanitize(out), "\n") {
		path, ok := parseLine(line)
		if !ok {
			continue
		}
		got, err := normalize(path)
		if err != nil || got != want {
			continue
		}
		diags = append(diags, mend.Diagnostic{File: got, Line: line})
	}
	return diags
}

// ErrorFiles returns the distinct files named by error diagnostics in
// out, in order of first appearance.
func ErrorFiles(out string) []string {
	seen := make(map[string]struct{})
	var files []string
	for _, line := range strings.Split(sanitize(out), "\n") {
		path, ok := parseLine(line)
		if !ok {
			continue
		}
		abs, err := normalize(path)
		if err != nil {
			continue
		}
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
	}
	return files
}

// parseLine reports whether the sanitized line is an error diagnostic and
// returns the path portion it names.
func parseLine(line string) (string, bool) {
	body := strings.TrimLeft(line, " \t")
	body = trimNodePrefix(body)

	for _, n := range notations {
		path, rest, ok := splitAt(body, n.open, n.close)
		if ok && isError(rest) {
			return path, true
		}
	}
	return "", false
}

// splitAt splits s around the first "<open><line>,<col>><close>" position
// marker. Openers inside the path, as in "Program Files (x86)", do not
// qualify because their interior is not a pair of numbers.
func splitAt(s string, open byte, close string) (path, rest string, ok bool) {
	from := 0
	for {
		i := strings.Index(s[from:], close)
		if i < 0 {
			return "", "", false
		}
		c := from + i
		o := strings.LastIndexByte(s[:c], open)
		if o > 0 && isPosition(s[o+1:c]) {
			return s[:o], s[c+len(close):], true
		}
		from = c + 1
	}
}

// isPosition reports whether s is "<digits>,<digits>".
func isPosition(s string) bool {
	row, col, ok := strings.Cut(s, ",")
	return ok && isDigits(row) && isDigits(col)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isError reports whether the clause after the position marker is an
// error with a code, e.g. "error CS0103: message". Severity matches
// case-insensitively; warnings and bare severities are rejected.
func isError(rest string) bool {
	severity, rest, ok := strings.Cut(rest, " ")
	if !ok || !strings.EqualFold(severity, "error") {
		return false
	}
	code, _, ok := strings.Cut(rest, ":")
	return ok && code != "" && !strings.ContainsAny(code, " \t")
}

// trimNodePrefix strips the "N>" prefix MSBuild adds to each line when
// building with multiple nodes.
func trimNodePrefix(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && s[i] == '>' {
		return s[i+1:]
	}
	return s
}

func normalize(path string) (string, error) {
	return filepath.Abs(strings.TrimSpace(path))
}
