package render

import (
	"bytes"
	"html/template"
	"strings"
)

// The markup sticks to table-based layout and inline-safe CSS so the
// output opens cleanly in Word as well as browsers.
const documentHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Invoice {{.InvoiceNumber}}</title>
  <style>
    body {
      margin: 0;
      padding: 40px;
      font-family: "Times New Roman", Georgia, serif;
      color: #1a1f36;
      background: #ffffff;
    }
    .page {
      max-width: 760px;
      margin: 0 auto 40px auto;
      page-break-after: always;
    }
    h2 {
      font-size: 20px;
      border-bottom: 2px solid #1a1f36;
      padding-bottom: 8px;
      margin-bottom: 20px;
    }
    p { font-size: 14px; line-height: 1.6; white-space: pre-line; }
    table {
      width: 100%;
      border-collapse: collapse;
      margin-bottom: 24px;
    }
    th {
      text-align: left;
      text-transform: uppercase;
      font-size: 11px;
      color: #444c5e;
      border-bottom: 1px solid #1a1f36;
      padding: 8px 6px;
      letter-spacing: 0.3px;
    }
    td {
      padding: 8px 6px;
      border-bottom: 1px solid #d7dbe3;
      font-size: 13px;
      vertical-align: top;
    }
    .placeholder {
      font-size: 13px;
      color: #697386;
      font-style: italic;
      padding: 20px 0;
    }
  </style>
</head>
<body>
  {{range .Sections}}
  <div class="page">
    <h2>{{.Title}}</h2>
    {{if .Empty}}
      <div class="placeholder">{{.Placeholder}}</div>
    {{else}}
      {{range .Paragraphs}}<p>{{.}}</p>{{end}}
      {{range .Tables}}
      <table>
        <thead>
          <tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
        </thead>
        <tbody>
          {{range .Rows}}
          <tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
          {{end}}
        </tbody>
      </table>
      {{end}}
    {{end}}
  </div>
  {{end}}
</body>
</html>
`

// Renderer turns a structured document into a downloadable rendition.
type Renderer interface {
	RenderHTML(doc Document) (string, error)
}

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() Renderer {
	return &HTMLRenderer{
		tpl: template.Must(template.New("document").Parse(documentHTMLTemplate)),
	}
}

func (r *HTMLRenderer) RenderHTML(doc Document) (string, error) {
	if strings.TrimSpace(doc.InvoiceNumber) == "" {
		doc.InvoiceNumber = "INV-XXXX"
	}
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
