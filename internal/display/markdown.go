package display

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// RenderMarkdown flattens markdown to terminal text: headings and paragraphs
// separated by blank lines, list items prefixed with "-" or their number,
// inline markup dropped.
func RenderMarkdown(src string) string {
	source := []byte(src)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var b strings.Builder
	depth := 0

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Heading:
			if entering {
				blankLine(&b)
			} else {
				b.WriteString("\n")
			}

		case *ast.Paragraph, *ast.TextBlock:
			inItem := n.Parent() != nil && n.Parent().Kind() == ast.KindListItem
			if entering {
				if !inItem {
					blankLine(&b)
				} else if n.PreviousSibling() != nil {
					b.WriteString(strings.Repeat("  ", depth))
				}
			} else {
				b.WriteString("\n")
			}

		case *ast.List:
			if entering {
				if depth == 0 {
					blankLine(&b)
				}
				depth++
			} else {
				depth--
			}

		case *ast.ListItem:
			if entering {
				b.WriteString(strings.Repeat("  ", depth-1))
				b.WriteString(bullet(node))
			}

		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(source))
				switch {
				case node.HardLineBreak():
					b.WriteString("\n")
				case node.SoftLineBreak():
					b.WriteString(" ")
				}
			}

		case *ast.String:
			if entering {
				b.Write(node.Value)
			}

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				blankLine(&b)
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					b.WriteString("    ")
					b.Write(seg.Value(source))
				}
			}
			return ast.WalkSkipChildren, nil

		case *ast.ThematicBreak:
			if entering {
				blankLine(&b)
				b.WriteString(strings.Repeat("-", 40))
				b.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

func bullet(item *ast.ListItem) string {
	list, ok := item.Parent().(*ast.List)
	if !ok || !list.IsOrdered() {
		return "- "
	}
	n := list.Start
	for s := item.PreviousSibling(); s != nil; s = s.PreviousSibling() {
		n++
	}
	return strconv.Itoa(n) + ". "
}

// blankLine ends the current block with exactly one empty line.
func blankLine(b *strings.Builder) {
	s := b.String()
	if s == "" || strings.HasSuffix(s, "\n\n") {
		return
	}
	if strings.HasSuffix(s, "\n") {
		b.WriteString("\n")
		return
	}
	b.WriteString("\n\n")
}
