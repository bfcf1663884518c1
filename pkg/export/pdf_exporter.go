package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders case packets and scripts into A4 PDF documents.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

func newPage(title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}
	return pdf
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderSections writes each section as a heading followed by label/value rows.
func (e *PDFExporter) RenderSections(title string, sections []Section) ([]byte, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("pdf requires at least one section")
	}
	pdf := newPage(title)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, s := range sections {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, tr(s.Title), "B", 1, "", false, 0, "")
		pdf.Ln(1)
		for _, f := range s.Fields {
			pdf.SetFont("Arial", "B", 9)
			pdf.CellFormat(55, 6, tr(f.Label), "", 0, "", false, 0, "")
			pdf.SetFont("Arial", "", 9)
			value := f.Value
			if value == "" {
				value = "-"
			}
			pdf.MultiCell(0, 6, tr(value), "", "", false)
		}
		pdf.Ln(3)
	}
	return output(pdf)
}

// RenderText writes plain text, one paragraph per line.
func (e *PDFExporter) RenderText(title, body string) ([]byte, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("pdf requires a body")
	}
	pdf := newPage(title)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 10)
	for _, line := range strings.Split(body, "\n") {
		if line == "" {
			pdf.Ln(3)
			continue
		}
		pdf.MultiCell(0, 6, tr(line), "", "", false)
	}
	return output(pdf)
}
