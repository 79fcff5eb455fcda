// Package highlight renders source code to styled HTML.
//
// It wraps github.com/alecthomas/chroma — the Go port of pygments — behind a
// small Renderer interface so the service layer can be tested with a stub
// and the library can be swapped without touching business logic. Rendering
// is a pure function of its inputs: no state, no side effects, same inputs
// always produce the same document.
package highlight

import (
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/nhasan/codebin/internal/apperror"
)

// Renderer converts source text into a complete HTML document.
type Renderer interface {
	Render(code, language, style string, linenos bool, title string) (string, error)
}

// Chroma is the Renderer backed by the chroma library.
type Chroma struct{}

var _ Renderer = Chroma{}

// NewChroma returns a chroma-backed Renderer.
func NewChroma() Chroma {
	return Chroma{}
}

// Render produces a self-contained HTML document: a <style> block with the
// theme's CSS followed by the highlighted markup, with the title (when
// non-empty) in both <title> and a heading. Line numbers, when requested,
// are rendered in a table so they can't be selected along with the code.
//
// The language must resolve to a known lexer; an unknown language is a
// caller contract violation and fails with a validation error. Callers are
// expected to have checked the catalogs first, so this is a backstop.
func (Chroma) Render(code, language, style string, linenos bool, title string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return "", apperror.ValidationFailed("language",
			fmt.Sprintf("no lexer found for language %q", language))
	}
	// Coalesce merges runs of identical token types — smaller output,
	// identical rendering.
	lexer = chroma.Coalesce(lexer)

	theme := styles.Get(style)
	if theme == nil {
		theme = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("highlight: tokenising code: %w", err)
	}

	formatter := chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.WithLineNumbers(linenos),
		chromahtml.LineNumbersInTable(linenos),
	)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	if title != "" {
		fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	}
	b.WriteString("<style>\n")
	if err := formatter.WriteCSS(&b, theme); err != nil {
		return "", fmt.Errorf("highlight: writing CSS: %w", err)
	}
	b.WriteString("</style>\n</head>\n<body>\n")
	if title != "" {
		fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(title))
	}
	if err := formatter.Format(&b, theme, iterator); err != nil {
		return "", fmt.Errorf("highlight: formatting code: %w", err)
	}
	b.WriteString("\n</body>\n</html>\n")

	return b.String(), nil
}
