package document

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/ehc32/Cotizador-V1/internal/pricing"
)

type rgb struct{ r, g, b int }

var (
	colorPrimary   = rgb{41, 128, 185}
	colorSecondary = rgb{52, 73, 94}
	colorAccent    = rgb{231, 76, 60}
	colorMuted     = rgb{127, 140, 141}
	colorStripe    = rgb{236, 240, 241}
	colorWhite     = rgb{255, 255, 255}
)

const (
	pageMargin = 15.0
	bodyWidth  = 180.0
)

// TableRenderer produces the branded layout: header band, area and cost
// tables, highlighted total and notes.
type TableRenderer struct {
	tr func(string) string
}

func (t *TableRenderer) Name() string { return "table" }

func (t *TableRenderer) Render(w io.Writer, q pricing.Quote, meta Meta) error {
	c := buildContent(q, meta)
	pdf := newPDF(meta)
	tr := t.tr

	pdf.SetFooterFunc(func() {
		pdf.SetY(-20)
		pdf.SetFont("Helvetica", "I", 8)
		setText(pdf, colorMuted)
		pdf.CellFormat(0, 5, tr(footerTagline), "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 5, tr(footerContacts), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	setFill(pdf, colorPrimary)
	pdf.Rect(0, 0, 210, 38, "F")
	setText(pdf, colorWhite)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.Text(pageMargin, 17, tr(companyName))
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(pageMargin, 27, tr(documentTitle))
	pdf.SetFont("Helvetica", "", 10)
	dateLabel := tr("Fecha: " + c.date)
	pdf.Text(210-pageMargin-pdf.GetStringWidth(dateLabel), 27, dateLabel)
	pdf.SetY(46)

	t.section(pdf, "INFORMACIÓN DEL CLIENTE")
	pdf.SetFont("Helvetica", "", 10)
	setText(pdf, colorSecondary)
	for _, r := range c.client {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 7, tr(r.label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(bodyWidth-60, 7, tr(r.value), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	t.section(pdf, "RESUMEN DEL PROYECTO")
	t.tableHeader(pdf, []string{"Espacio", "Área"}, []float64{130, 50})
	for i, r := range c.areas {
		fill := i%2 == 1
		setFill(pdf, colorStripe)
		setText(pdf, colorSecondary)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(130, 7, tr(r.label), "LR", 0, "L", fill, 0, "")
		pdf.CellFormat(50, 7, tr(r.value), "LR", 1, "R", fill, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(130, 8, tr("ÁREA TOTAL"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, tr(c.totalArea), "1", 1, "R", false, 0, "")
	pdf.Ln(4)

	t.section(pdf, "COTIZACIÓN")
	widths := []float64{60, 40, 35, 45}
	t.tableHeader(pdf, []string{"Concepto", "Precio por m²", "Área total", "Subtotal"}, widths)
	setText(pdf, colorSecondary)
	pdf.SetFont("Helvetica", "", 10)
	for _, r := range c.costs {
		pdf.CellFormat(widths[0], 7, tr(r.concept), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, tr(r.rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, tr(r.area), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, tr(r.subtotal), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	setFill(pdf, colorAccent)
	setText(pdf, colorWhite)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(bodyWidth-60, 11, tr("TOTAL PROYECTO:"), "", 0, "L", true, 0, "")
	pdf.CellFormat(60, 11, tr(c.total), "", 1, "R", true, 0, "")
	pdf.Ln(6)

	t.section(pdf, "NOTAS IMPORTANTES")
	setText(pdf, colorSecondary)
	pdf.SetFont("Helvetica", "", 9)
	for _, note := range c.notes {
		pdf.MultiCell(bodyWidth, 5, tr("• "+note), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write table pdf: %w", err)
	}
	return nil
}

func (t *TableRenderer) section(pdf *fpdf.Fpdf, title string) {
	setText(pdf, colorSecondary)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(bodyWidth, 8, t.tr(title), "", 1, "L", false, 0, "")
	setDraw(pdf, colorPrimary)
	pdf.SetLineWidth(0.6)
	y := pdf.GetY()
	pdf.Line(pageMargin, y, pageMargin+bodyWidth, y)
	pdf.SetLineWidth(0.2)
	pdf.Ln(3)
}

func (t *TableRenderer) tableHeader(pdf *fpdf.Fpdf, cols []string, widths []float64) {
	setFill(pdf, colorSecondary)
	setText(pdf, colorWhite)
	setDraw(pdf, colorSecondary)
	pdf.SetFont("Helvetica", "B", 10)
	for i, col := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 8, t.tr(col), "1", ln, align, true, 0, "")
	}
}

func newPDF(meta Meta) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 25)
	pdf.SetTitle(documentTitle, true)
	pdf.SetAuthor(companyName, true)
	pdf.SetCreator(companyName, true)
	pdf.SetCreationDate(meta.AsOf)
	pdf.SetModificationDate(meta.AsOf)
	return pdf
}

func setFill(pdf *fpdf.Fpdf, c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }
func setText(pdf *fpdf.Fpdf, c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }
func setDraw(pdf *fpdf.Fpdf, c rgb) { pdf.SetDrawColor(c.r, c.g, c.b) }
