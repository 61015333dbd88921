// Package render converts page blocks to HTML according to their content type.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/stonesign/plaque-cms/internal/model"
)

// Renderer turns stored block content into HTML.
type Renderer struct {
	md goldmark.Markdown
}

// New returns a Renderer. Raw HTML inside markdown is dropped; html blocks are trusted as-is.
func New() *Renderer {
	return &Renderer{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// Block renders a single block.
func (r *Renderer) Block(c model.PageContent) (model.RenderedBlock, error) {
	out := model.RenderedBlock{SectionID: c.SectionID, ContentType: c.ContentType}
	switch c.ContentType {
	case model.ContentText:
		out.HTML = strings.ReplaceAll(html.EscapeString(c.Content), "\n", "<br>\n")
	case model.ContentMarkdown:
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(c.Content), &buf); err != nil {
			return model.RenderedBlock{}, fmt.Errorf("render %s: %w", c.SectionID, err)
		}
		out.HTML = buf.String()
	case model.ContentHTML:
		out.HTML = c.Content
	default:
		return model.RenderedBlock{}, fmt.Errorf("render %s: unknown content type %q", c.SectionID, c.ContentType)
	}
	return out, nil
}

// Page renders blocks in order.
func (r *Renderer) Page(blocks []model.PageContent) ([]model.RenderedBlock, error) {
	out := make([]model.RenderedBlock, 0, len(blocks))
	for _, b := range blocks {
		rb, err := r.Block(b)
		if err != nil {
			return nil, err
		}
		out = append(out, rb)
	}
	return out, nil
}
