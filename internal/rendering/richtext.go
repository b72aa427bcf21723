package rendering

import (
	"bytes"
	"html"
	"html/template"
	"log"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/jonathan/landing-site/internal/types"
)

var blockTags = map[string]string{
	types.NodeParagraph: "p",
	types.NodeHeading1:  "h1",
	types.NodeHeading2:  "h2",
	types.NodeHeading3:  "h3",
	types.NodeHeading4:  "h4",
	types.NodeHeading5:  "h5",
	types.NodeHeading6:  "h6",
	types.NodeULList:    "ul",
	types.NodeOLList:    "ol",
	types.NodeListItem:  "li",
	types.NodeQuote:     "blockquote",
}

var markTags = map[string]string{
	types.MarkBold:      "strong",
	types.MarkItalic:    "em",
	types.MarkUnderline: "u",
	types.MarkCode:      "code",
}

// RichText renders a structured document. Unknown node types render their children only.
func RichText(doc *types.Node) template.HTML {
	if doc == nil {
		return ""
	}
	var sb strings.Builder
	writeNode(&sb, doc)
	return template.HTML(sb.String())
}

func writeNode(sb *strings.Builder, n *types.Node) {
	switch n.NodeType {
	case types.NodeText:
		text := html.EscapeString(n.Value)
		for i := len(n.Marks) - 1; i >= 0; i-- {
			if tag, ok := markTags[n.Marks[i].Type]; ok {
				text = "<" + tag + ">" + text + "</" + tag + ">"
			}
		}
		sb.WriteString(text)
		return
	case types.NodeHR:
		sb.WriteString("<hr>")
		return
	case types.NodeHyperlink:
		sb.WriteString(`<a href="` + html.EscapeString(safeURL(n.URI())) + `" target="_blank" rel="noopener noreferrer">`)
		writeChildren(sb, n)
		sb.WriteString("</a>")
		return
	}

	tag, ok := blockTags[n.NodeType]
	if !ok {
		writeChildren(sb, n)
		return
	}
	sb.WriteString("<" + tag + ">")
	writeChildren(sb, n)
	sb.WriteString("</" + tag + ">")
}

func writeChildren(sb *strings.Builder, n *types.Node) {
	for i := range n.Content {
		writeNode(sb, &n.Content[i])
	}
}

// safeURL keeps http, https, mailto, tel and relative links. Anything else becomes "#".
func safeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "#"
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto", "tel":
		return u.String()
	default:
		return "#"
	}
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown renders a CMS long-text field. Raw HTML in the source is not passed through.
func Markdown(src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		log.Printf("[render] markdown conversion failed: %v", err)
		return template.HTML("<p>" + html.EscapeString(src) + "</p>")
	}
	return template.HTML(buf.String())
}

// Content renders a field that is either a rich-text document or markdown text.
func Content(v any) template.HTML {
	switch c := v.(type) {
	case nil:
		return ""
	case *types.Node:
		return RichText(c)
	case string:
		return Markdown(c)
	default:
		return RichText(types.DocumentFromField(v))
	}
}
