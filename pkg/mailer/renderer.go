package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	texttemplate "text/template"

	"github.com/spf13/cast"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const defaultLayout = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{ .Subject }}</title></head>
<body style="font-family: sans-serif; line-height: 1.5;">
{{ .Content }}
</body>
</html>
`

// Rendered is the output of Render.
type Rendered struct {
	Metadata map[string]any
	Subject  string
	HTML     string
	Text     string
}

// Renderer turns markdown templates into HTML messages.
type Renderer struct {
	md     goldmark.Markdown
	layout *template.Template
}

// NewRenderer creates a renderer. An empty layout uses a minimal HTML page;
// layouts receive .Subject and .Content.
func NewRenderer(layout string) (*Renderer, error) {
	if layout == "" {
		layout = defaultLayout
	}
	tmpl, err := template.New("layout").Parse(layout)
	if err != nil {
		return nil, fmt.Errorf("%w: layout: %w", ErrRenderFailed, err)
	}
	return &Renderer{
		// Unsafe is off: raw HTML in submitted values is not passed through.
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		layout: tmpl,
	}, nil
}

// Render executes source against data. The subject comes from the subject
// argument, or the frontmatter "subject" key when empty; both are templates.
func (r *Renderer) Render(source, subject string, data any) (*Rendered, error) {
	tpl, err := ParseTemplate([]byte(source))
	if err != nil {
		return nil, err
	}
	if subject == "" {
		subject = cast.ToString(tpl.Metadata["subject"])
	}

	subj, err := execute("subject", subject, data)
	if err != nil {
		return nil, err
	}
	text, err := execute("body", tpl.Body, data)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := r.md.Convert([]byte(text), &body); err != nil {
		return nil, fmt.Errorf("%w: markdown: %w", ErrRenderFailed, err)
	}

	var page bytes.Buffer
	err = r.layout.Execute(&page, map[string]any{
		"Subject": subj,
		"Content": template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: layout: %w", ErrRenderFailed, err)
	}

	return &Rendered{Metadata: tpl.Metadata, Subject: subj, HTML: page.String(), Text: text}, nil
}

func execute(name, src string, data any) (string, error) {
	tmpl, err := texttemplate.New(name).Option("missingkey=zero").Parse(src)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
	}
	return buf.String(), nil
}
