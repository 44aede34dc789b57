// Package content turns user-submitted Markdown into HTML that is safe to
// hand to other users.
package content

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	return &Renderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.Table)),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts Markdown to sanitized HTML.
func (r *Renderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

// Clean sanitizes HTML supplied directly, such as the welcome message.
func (r *Renderer) Clean(html string) string {
	return r.policy.Sanitize(html)
}
