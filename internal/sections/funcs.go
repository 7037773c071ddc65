package sections

import (
	"bytes"
	"html/template"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/Zachkp/portfolio/internal/content"
)

// Descriptions come from the admin console and are rendered as Markdown. Raw HTML in
// the source is escaped by goldmark and the output is sanitized again before use.
var (
	mdRenderer = goldmark.New(
		goldmark.WithRendererOptions(
			goldmarkHTML.WithHardWraps(),
		),
	)
	htmlSanitizer = bluemonday.UGCPolicy()
)

// Markdown renders md to sanitized HTML.
func Markdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		slog.Warn("rendering markdown", "error", err)
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(htmlSanitizer.SanitizeBytes(buf.Bytes()))
}

// Funcs returns the template helpers of the public page. assetBase is where uploaded
// images are served from.
func Funcs(assetBase string) template.FuncMap {
	return template.FuncMap{
		"markdown": Markdown,
		"link":     content.ExternalLink,
		"image": func(img string) string {
			return content.ImageURL(assetBase, img)
		},
		"stars": func(n int) []int {
			return make([]int, min(max(n, 0), content.MaxStars))
		},
		"initial": func(s string) string {
			for _, r := range strings.TrimSpace(s) {
				return strings.ToUpper(string(r))
			}
			return "?"
		},
		"placeholder": func() string { return content.PlaceholderImage },
	}
}
