// Package codeblock extracts file content from generation-service replies.
//
// A well-behaved generation returns the whole file inside one fenced code
// block, usually tagged with the target language. The reply is parsed as
// Markdown with goldmark and the first acceptable fence wins; replies
// without any fence fall back to their full text, so an unfenced but
// otherwise valid generation never breaks the pipeline.
package codeblock

import (
	"strings"
	"unicode"

	"github.com/fwojciec/mend"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Aliases returns the accepted fence-tag spellings for a language name.
// Unknown names accept only their own spelling.
func Aliases(lang string) []string {
	switch strings.ToLower(lang) {
	case "csharp", "cs":
		return []string{"csharp", "cs"}
	case "fsharp", "fs":
		return []string{"fsharp", "fs"}
	case "go", "golang":
		return []string{"go", "golang"}
	case "javascript", "js":
		return []string{"javascript", "js"}
	case "python", "py":
		return []string{"python", "py"}
	case "typescript", "ts":
		return []string{"typescript", "ts"}
	default:
		return []string{strings.ToLower(lang)}
	}
}

// Extract returns the file content carried by a reply. Text parts are
// concatenated in order, joined by a single newline; file parts are
// skipped. The first fenced code block whose tag matches one of langs
// (case-insensitive) or that carries no tag at all supplies the content;
// when the reply has no such fence the whole concatenation is used.
// The result has trailing whitespace trimmed, ends with exactly one
// newline, and never contains fence markers.
func Extract(parts []mend.Part, langs ...string) string {
	joined := joinText(parts)
	if block, ok := firstFence([]byte(joined), langs); ok {
		return normalize(block)
	}
	return normalize(joined)
}

func joinText(parts []mend.Part) string {
	var texts []string
	for _, p := range parts {
		if tp, ok := p.(mend.TextPart); ok {
			texts = append(texts, tp.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// firstFence walks the Markdown AST and returns the interior of the first
// fenced code block whose language tag is acceptable.
func firstFence(source []byte, langs []string) (string, bool) {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var block string
	found := false
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if !tagAccepted(string(fence.Language(source)), langs) {
			return ast.WalkContinue, nil
		}
		block = fenceContent(fence, source)
		found = true
		return ast.WalkStop, nil
	})
	return block, found
}

func tagAccepted(tag string, langs []string) bool {
	if tag == "" {
		return true
	}
	for _, l := range langs {
		if strings.EqualFold(tag, l) {
			return true
		}
	}
	return false
}

func fenceContent(fence *ast.FencedCodeBlock, source []byte) string {
	var b strings.Builder
	lines := fence.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}

// normalize trims trailing whitespace and appends exactly one newline.
func normalize(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace) + "\n"
}
