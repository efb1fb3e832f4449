package output

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
)

const (
	blockElements = "p, div, ul, ol, h1, h2, h3, h4, h5, h6, table, blockquote, pre"
	lineElements  = "br, li, tr"
)

var excessiveLinesRe = regexp.MustCompile(`\n{3,}`)

// DescriptionRenderer turns the HTML descriptions Spira stores into text
// fit for a terminal.
type DescriptionRenderer struct {
	converter *md.Converter
}

// NewDescriptionRenderer creates a renderer. With markdown disabled the HTML
// tags are simply stripped.
func NewDescriptionRenderer(markdown bool) *DescriptionRenderer {
	if !markdown {
		return &DescriptionRenderer{}
	}

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	return &DescriptionRenderer{converter: converter}
}

// Render converts an HTML fragment. Conversion failures fall back to
// stripping tags.
func (r *DescriptionRenderer) Render(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	if r.converter != nil {
		if markdown, err := r.converter.ConvertString(html); err == nil {
			return clean(markdown)
		}
	}
	return clean(plainText(html))
}

// plainText extracts the text of an HTML fragment, breaking lines around
// block elements.
func plainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	doc.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.BeforeHtml("\n")
		s.AfterHtml("\n")
	})
	doc.Find(lineElements).AfterHtml("\n")
	return doc.Text()
}

func clean(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	s = strings.Join(lines, "\n")

	return strings.TrimSpace(excessiveLinesRe.ReplaceAllString(s, "\n\n"))
}
