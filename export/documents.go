package export

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"b2b-catalog/models"
	"b2b-catalog/pricing"

	"github.com/go-pdf/fpdf"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/xuri/excelize/v2"
)

// Format names a document export format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatPDF, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType is the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	case FormatHTML:
		return "application/msword"
	}
	return "application/octet-stream"
}

// Extension is the file extension used for downloads.
func (f Format) Extension() string {
	if f == FormatHTML {
		return "doc"
	}
	return string(f)
}

// Table is a header plus string rows, the common input of every document writer.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// ProductTable lays out products for documents. Category ids are resolved to
// names when known.
func ProductTable(products []models.Product, categories []models.Category) Table {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	t := Table{
		Title:   "Ürünler",
		Headers: []string{"ID", "Ürün Adı", "Kod", "Fiyat", "Stok", "Kategori", "Görüntülenme"},
	}
	for _, p := range products {
		category := p.CategoryID
		if name, ok := names[p.CategoryID]; ok {
			category = name
		}
		t.Rows = append(t.Rows, []string{
			p.ID, p.Name, p.Code, pricing.FormatPlain(p.Price), strconv.Itoa(p.Stock), category, strconv.Itoa(p.Views),
		})
	}
	return t
}

// WriteDocument renders products in format f. CSV uses the import-compatible layout.
func WriteDocument(w io.Writer, f Format, products []models.Product, categories []models.Category) error {
	switch f {
	case FormatCSV:
		return WriteProductsCSV(w, products)
	case FormatXLSX:
		return WriteXLSX(w, ProductTable(products, categories))
	case FormatPDF:
		return WritePDF(w, ProductTable(products, categories))
	case FormatHTML:
		return WriteHTML(w, ProductTable(products, categories))
	}
	return fmt.Errorf("unsupported export format %q", f)
}

// WriteXLSX writes t as a single sheet workbook with a styled header row.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Title
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	header := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2E7D32"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	if len(t.Headers) > 0 {
		last, err := excelize.CoordinatesToCellName(len(t.Headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// newPDF creates an A4 document and the translator every string must pass
// through. The core fonts only cover cp1252, so letters outside it (ğ, ş, ı)
// come out as dots.
func newPDF(orientation string) (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 15)
	return pdf, pdf.UnicodeTranslatorFromDescriptor("cp1252")
}

// fit shortens s until it fits into width.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

// WritePDF writes t as a striped landscape table.
func WritePDF(w io.Writer, t Table) error {
	pdf, tr := newPDF("L")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(t.Title), "", 1, "L", false, 0, "")

	if len(t.Headers) > 0 {
		pageW, _ := pdf.GetPageSize()
		left, _, right, _ := pdf.GetMargins()
		colW := (pageW - left - right) / float64(len(t.Headers))

		drawHeader := func() {
			pdf.SetFont("Helvetica", "B", 8)
			pdf.SetFillColor(46, 125, 50)
			pdf.SetTextColor(255, 255, 255)
			for _, h := range t.Headers {
				pdf.CellFormat(colW, 7, fit(pdf, tr(h), colW-2), "1", 0, "L", true, 0, "")
			}
			pdf.Ln(-1)
			pdf.SetFont("Helvetica", "", 8)
			pdf.SetTextColor(0, 0, 0)
		}
		drawHeader()

		_, pageH := pdf.GetPageSize()
		for i, row := range t.Rows {
			if pdf.GetY()+6 > pageH-15 {
				pdf.AddPage()
				drawHeader()
			}
			fill := i%2 == 1
			pdf.SetFillColor(242, 242, 242)
			for _, v := range row {
				pdf.CellFormat(colW, 6, fit(pdf, tr(v), colW-2), "1", 0, "L", fill, 0, "")
			}
			pdf.Ln(-1)
		}
	}
	return pdf.Output(w)
}

const htmlDocument = `<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
table { width: 100%%; border-collapse: collapse; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background-color: #2e7d32; color: white; }
tr:nth-child(even) { background-color: #f2f2f2; }
</style>
</head>
<body>
%s
</body>
</html>
`

// WriteHTML writes t as a word-compatible HTML document.
func WriteHTML(w io.Writer, t Table) error {
	tw := table.NewWriter()
	header := make(table.Row, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, row := range t.Rows {
		r := make(table.Row, len(row))
		for i, v := range row {
			r[i] = v
		}
		tw.AppendRow(r)
	}
	_, err := fmt.Fprintf(w, htmlDocument, html.EscapeString(t.Title), tw.RenderHTML())
	return err
}
