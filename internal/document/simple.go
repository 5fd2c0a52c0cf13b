package document

import (
	"fmt"
	"io"

	"github.com/ehc32/Cotizador-V1/internal/pricing"
)

// SimpleRenderer prints the quote as plain lines of text with no tables or
// colors. It is the fallback when the table layout cannot be produced.
type SimpleRenderer struct {
	tr func(string) string
}

func (s *SimpleRenderer) Name() string { return "simple" }

func (s *SimpleRenderer) Render(w io.Writer, q pricing.Quote, meta Meta) error {
	c := buildContent(q, meta)
	pdf := newPDF(meta)
	pdf.AddPage()

	line := func(style string, size float64, text string) {
		pdf.SetFont("Helvetica", style, size)
		pdf.MultiCell(bodyWidth, size*0.55, s.tr(text), "", "L", false)
	}

	line("B", 16, companyName)
	line("", 12, documentTitle)
	line("", 10, "Fecha: "+c.date)
	pdf.Ln(4)

	line("B", 12, "INFORMACIÓN DEL CLIENTE")
	for _, r := range c.client {
		line("", 10, fmt.Sprintf("%s: %s", r.label, r.value))
	}
	pdf.Ln(3)

	line("B", 12, "RESUMEN DEL PROYECTO")
	for _, r := range c.areas {
		line("", 10, fmt.Sprintf("%s: %s", r.label, r.value))
	}
	line("B", 10, "Área total: "+c.totalArea)
	pdf.Ln(3)

	line("B", 12, "COTIZACIÓN")
	for _, r := range c.costs {
		line("", 10, fmt.Sprintf("%s: %s x %s = %s", r.concept, r.area, r.rate, r.subtotal))
	}
	line("B", 12, "TOTAL PROYECTO: "+c.total)
	pdf.Ln(3)

	line("B", 12, "NOTAS IMPORTANTES")
	for _, note := range c.notes {
		line("", 9, "- "+note)
	}
	pdf.Ln(3)
	line("I", 8, footerTagline)
	line("I", 8, footerContacts)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write simple pdf: %w", err)
	}
	return nil
}
