package types

import "strings"

// Rich-text node types.
const (
	NodeDocument  = "document"
	NodeParagraph = "paragraph"
	NodeHeading1  = "heading-1"
	NodeHeading2  = "heading-2"
	NodeHeading3  = "heading-3"
	NodeHeading4  = "heading-4"
	NodeHeading5  = "heading-5"
	NodeHeading6  = "heading-6"
	NodeULList    = "unordered-list"
	NodeOLList    = "ordered-list"
	NodeListItem  = "list-item"
	NodeQuote     = "blockquote"
	NodeHR        = "hr"
	NodeHyperlink = "hyperlink"
	NodeText      = "text"
)

// Mark types applied to text nodes.
const (
	MarkBold      = "bold"
	MarkItalic    = "italic"
	MarkUnderline = "underline"
	MarkCode      = "code"
)

// Node is one node of a structured rich-text document.
type Node struct {
	NodeType string         `json:"nodeType"`
	Value    string         `json:"value,omitempty"`
	Marks    []Mark         `json:"marks,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Content  []Node         `json:"content,omitempty"`
}

// Mark is a text decoration.
type Mark struct {
	Type string `json:"type"`
}

// URI returns the target of a hyperlink node.
func (n *Node) URI() string {
	if n == nil || n.Data == nil {
		return ""
	}
	return stringValue(n.Data["uri"])
}

// PlainText concatenates the text values of the node and its descendants.
func (n *Node) PlainText() string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	n.walkText(&sb)
	return strings.TrimSpace(sb.String())
}

func (n *Node) walkText(sb *strings.Builder) {
	if n.NodeType == NodeText {
		sb.WriteString(n.Value)
		return
	}
	for i := range n.Content {
		n.Content[i].walkText(sb)
	}
	switch n.NodeType {
	case NodeParagraph, NodeHeading1, NodeHeading2, NodeHeading3, NodeHeading4,
		NodeHeading5, NodeHeading6, NodeListItem, NodeQuote:
		sb.WriteString(" ")
	}
}
