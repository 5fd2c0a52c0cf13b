package document

import (
	"fmt"
	"time"

	"github.com/ehc32/Cotizador-V1/internal/money"
	"github.com/ehc32/Cotizador-V1/internal/pricing"
)

const (
	companyName    = "SAAVE Arquitectos"
	documentTitle  = "Cotización de Diseño y Construcción"
	footerTagline  = "SAAVE Arquitectos - Construyendo tus sueños"
	footerContacts = "www.saavearquitectos.com | contacto@saavearquitectos.com"
)

var notes = []string{
	"Esta cotización tiene una validez de 30 días a partir de la fecha de emisión.",
	"Los precios pueden variar según las especificaciones finales del proyecto.",
	"No incluye licencias, permisos ni conexiones a servicios públicos.",
	"El diseño incluye planos arquitectónicos y estructurales.",
	"La construcción incluye mano de obra y materiales básicos.",
	"Para más información, contacte a SAAVE Arquitectos.",
}

// Meta carries rendering details that are not part of the quote.
type Meta struct {
	AsOf time.Time
}

type row struct {
	label string
	value string
}

type costRow struct {
	concept  string
	rate     string
	area     string
	subtotal string
}

// content is the renderer-neutral view of a quote. Both renderers print the
// same rows.
type content struct {
	date      string
	client    []row
	areas     []row
	totalArea string
	costs     []costRow
	total     string
	notes     []string
}

func buildContent(q pricing.Quote, meta Meta) content {
	s := q.Summary
	c := content{
		date: meta.AsOf.Format("02/01/2006"),
		client: []row{
			{label: "¿Tiene lote?", value: q.ClientInfo.HasLot},
			{label: "Fecha de cotización", value: meta.AsOf.Format("02/01/2006")},
		},
		totalArea: area(s.TotalArea),
		total:     q.Costs.Total,
		notes:     notes,
	}

	c.areas = append(c.areas,
		row{label: "Áreas base (cocina, sala, comedor, ropas, baño social)", value: area(s.BaseArea)},
		row{label: primaryLabel(s), value: area(s.PrimaryRoomArea)},
	)
	for _, room := range s.SecondaryRooms {
		label := fmt.Sprintf("Habitación %d (%s)", room.Index, room.BedLabel)
		if room.HasPrivateBath {
			label = fmt.Sprintf("Habitación %d (%s + baño privado)", room.Index, room.BedLabel)
		}
		c.areas = append(c.areas, row{label: label, value: area(room.Area)})
	}
	for _, space := range s.AdditionalSpaces {
		c.areas = append(c.areas, row{label: space.Label, value: area(space.Area)})
	}

	c.costs = []costRow{
		{concept: "Diseño arquitectónico", rate: q.RatesPerArea.Design, area: c.totalArea, subtotal: q.Costs.Design},
		{concept: "Construcción", rate: q.RatesPerArea.Construction, area: c.totalArea, subtotal: q.Costs.Construction},
	}
	return c
}

func primaryLabel(s pricing.Summary) string {
	if s.PrimaryBedLabel == "" {
		return "Habitación principal"
	}
	return fmt.Sprintf("Habitación principal (%s)", s.PrimaryBedLabel)
}

func area(v float64) string {
	d, err := money.FromFloat(v)
	if err != nil {
		return "-"
	}
	return money.FormatArea(d)
}
