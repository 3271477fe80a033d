package web

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns plain poem text into HTML. Line breaks are kept, markdown
// syntax in the text is shown literally and raw HTML is never emitted.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a renderer with hard line wraps enabled.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps())),
	}
}

// PoemHTML renders text as a sequence of paragraphs.
func (r *Renderer) PoemHTML(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(escapeMarkdown(text)), &buf); err != nil {
		return "", fmt.Errorf("render poem: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// escapeMarkdown backslash-escapes ASCII punctuation so that model output
// such as "*" or "1." is not read as markup.
func escapeMarkdown(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x80 && strings.ContainsRune("\\`*_{}[]()<>#+-.!|~&\"'", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
