// Package report renders a lineage summary for a processed table: where
// it came from, how its header was fused, and what was inferred about
// its columns.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"sheetsense/domain/table"
)

// BuildMarkdown renders the lineage report for one table as markdown.
func BuildMarkdown(info *table.TableInfo) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Table: %s\n\n", info.Name)
	fmt.Fprintf(&sb, "Source: `%s`, sheet `%s`\n\n", info.FileName, info.SheetName)
	fmt.Fprintf(&sb, "- Physical header rows fused: %d\n", info.Header.HeaderRowCount)
	fmt.Fprintf(&sb, "- Columns: %d\n", info.Header.ColumnCount)
	fmt.Fprintf(&sb, "- Data rows: %d\n\n", info.RowCount)

	sb.WriteString("## Columns\n\n")
	sb.WriteString("| Column | Type |\n|---|---|\n")
	for _, name := range info.Columns {
		fmt.Fprintf(&sb, "| %s | %s |\n", name, info.Types[name])
	}
	sb.WriteString("\n")

	if len(info.Profiles) > 0 {
		sb.WriteString("## Numeric profiles\n\n")
		sb.WriteString("| Column | Count | Mean | Std dev | Min | Median | Max |\n|---|---|---|---|---|---|---|\n")
		for _, name := range info.Columns {
			p, ok := info.Profiles[name]
			if !ok {
				continue
			}
			fmt.Fprintf(&sb, "| %s | %d | %.4g | %.4g | %.4g | %.4g | %.4g |\n",
				name, p.Count, p.Mean, p.StdDev, p.Min, p.Median, p.Max)
		}
		sb.WriteString("\n")
	}

	if len(info.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, w := range info.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderHTML converts a markdown report to an HTML fragment.
func RenderHTML(md string) []byte {
	extensions := parser.CommonExtensions | parser.Tables
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(md))

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}
