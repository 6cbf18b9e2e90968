package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/praxislegal/praxis/internal/invoice/render"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

// GenerateDocument lays out one page per document section. The layout is
// intentionally plain; the HTML rendition carries the firm's styling.
func (p *PDFProvider) GenerateDocument(ctx context.Context, doc render.Document) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	for i, section := range doc.Sections {
		if i > 0 {
			m.AddPages(page.New())
		}
		addSection(m, doc, section)
	}

	generated, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(generated.GetBytes()), nil
}

func addSection(m core.Maroto, doc render.Document, section render.Section) {
	m.AddRow(12,
		text.NewCol(8, section.Title, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, doc.InvoiceNumber, props.Text{
			Size:  10,
			Align: align.Right,
			Top:   3,
		}),
	)

	if section.Empty {
		m.AddRow(12, text.NewCol(12, section.Placeholder, props.Text{
			Size:  10,
			Style: fontstyle.Italic,
		}))
		return
	}

	for _, paragraph := range section.Paragraphs {
		m.AddRow(14, text.NewCol(12, paragraph, props.Text{Size: 10, Top: 2}))
	}

	for _, table := range section.Tables {
		addTable(m, table)
	}
}

func addTable(m core.Maroto, table render.Table) {
	widths := columnWidths(len(table.Headers))

	header := make([]core.Col, 0, len(table.Headers))
	for i, title := range table.Headers {
		header = append(header, text.NewCol(widths[i], title, props.Text{
			Style: fontstyle.Bold,
			Size:  9,
		}))
	}
	m.AddRows(row.New(8).Add(header...))

	for _, cells := range table.Rows {
		cols := make([]core.Col, 0, len(cells))
		for i, cell := range cells {
			width := 1
			if i < len(widths) {
				width = widths[i]
			}
			cols = append(cols, text.NewCol(width, cell, props.Text{Size: 9}))
		}
		m.AddRows(row.New(7).Add(cols...))
	}
	m.AddRow(4, col.New(12))
}

// columnWidths spreads maroto's 12-unit grid across n columns, giving the
// spare units to the leading columns.
func columnWidths(n int) []int {
	if n == 0 {
		return nil
	}
	widths := make([]int, n)
	base := 12 / n
	extra := 12 % n
	for i := range widths {
		widths[i] = base
		if i < extra {
			widths[i]++
		}
	}
	return widths
}
