package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ehc32/Cotizador-V1/internal/catalog"
	"github.com/ehc32/Cotizador-V1/internal/money"
)

// PrivateBathArea is added to an additional bedroom with its own bathroom.
const PrivateBathArea = 3.5

// Catalog is the read-only view of the pricing catalog Compute needs.
// *catalog.Catalog implements it.
type Catalog interface {
	AreaOfBed(catalog.BedType) (float64, error)
	AreaOfSpace(catalog.SpaceID) (float64, error)
	PrimaryEligible(catalog.BedType) bool
	SecondaryEligible(catalog.BedType) bool
	BaseAreas() []catalog.BaseArea
	BaseAreaTotal() float64
	DesignRate() float64
	ConstructionRate() float64
}

var _ Catalog = (*catalog.Catalog)(nil)

// Compute validates req against cat and computes its areas and costs. It
// either returns a complete Quote or an error, never a partial result.
func Compute(req Request, cat Catalog) (Quote, error) {
	if err := req.Validate(cat); err != nil {
		return Quote{}, err
	}

	base, err := money.FromFloat(cat.BaseAreaTotal())
	if err != nil {
		return Quote{}, fmt.Errorf("base area: %w", err)
	}

	primary, err := bedArea(cat, req.PrimaryRoom.BedType, "primaryRoom.bedType")
	if err != nil {
		return Quote{}, err
	}

	bath := decimal.NewFromFloat(PrivateBathArea)
	rooms := make([]RoomLine, 0, len(req.SecondaryRooms))
	secondary := decimal.Zero
	for i, room := range req.SecondaryRooms {
		bed, err := bedArea(cat, room.BedType, fmt.Sprintf("secondaryRooms[%d].bedType", i))
		if err != nil {
			return Quote{}, err
		}
		bathArea := decimal.Zero
		if room.HasPrivateBath {
			bathArea = bath
		}
		area := bed.Add(bathArea)
		secondary = secondary.Add(area)
		rooms = append(rooms, RoomLine{
			Index:          room.Index,
			BedType:        room.BedType,
			BedLabel:       money.Label(string(room.BedType)),
			BedArea:        areaValue(bed),
			HasPrivateBath: room.HasPrivateBath,
			BathArea:       areaValue(bathArea),
			Area:           areaValue(area),
		})
	}

	spaces := make([]SpaceLine, 0, len(req.AdditionalSpaces))
	additional := decimal.Zero
	for i, id := range req.AdditionalSpaces {
		raw, err := cat.AreaOfSpace(id)
		if err != nil {
			return Quote{}, &ValidationError{Field: fmt.Sprintf("additionalSpaces[%d]", i), Err: ErrInvalidSpace, Detail: err.Error()}
		}
		area, err := money.FromFloat(raw)
		if err != nil {
			return Quote{}, fmt.Errorf("additional space %s: %w", id, err)
		}
		additional = additional.Add(area)
		spaces = append(spaces, SpaceLine{
			ID:    id,
			Label: money.Label(string(id)),
			Area:  areaValue(area),
		})
	}

	base = money.RoundArea(base)
	primary = money.RoundArea(primary)
	secondary = money.RoundArea(secondary)
	additional = money.RoundArea(additional)
	total := base.Add(primary).Add(secondary).Add(additional)
	if !total.IsPositive() {
		return Quote{}, fmt.Errorf("%w: got %s", ErrNonPositiveArea, total)
	}

	designRate, err := rate(cat.DesignRate(), "design")
	if err != nil {
		return Quote{}, err
	}
	constructionRate, err := rate(cat.ConstructionRate(), "construction")
	if err != nil {
		return Quote{}, err
	}

	design := money.RoundPesos(total.Mul(designRate))
	construction := money.RoundPesos(total.Mul(constructionRate))
	totalCost := design.Add(construction)

	return Quote{
		ClientInfo: ClientInfo{
			HasLotStatus: req.HasLot,
			HasLot:       req.HasLot.Label(),
		},
		Summary: Summary{
			TotalArea:            areaValue(total),
			BaseArea:             areaValue(base),
			PrimaryRoomArea:      areaValue(primary),
			SecondaryRoomsArea:   areaValue(secondary),
			AdditionalSpacesArea: areaValue(additional),
			PrimaryBedType:       req.PrimaryRoom.BedType,
			PrimaryBedLabel:      money.Label(string(req.PrimaryRoom.BedType)),
			SecondaryRooms:       rooms,
			AdditionalSpaces:     spaces,
		},
		Costs: Costs{
			DesignAmount:       design.IntPart(),
			ConstructionAmount: construction.IntPart(),
			TotalAmount:        totalCost.IntPart(),
			Design:             money.FormatCOP(design),
			Construction:       money.FormatCOP(construction),
			Total:              money.FormatCOP(totalCost),
		},
		RatesPerArea: Rates{
			Design:       money.FormatCOP(designRate),
			Construction: money.FormatCOP(constructionRate),
		},
		DetailedBreakdown: []BreakdownLine{
			{Label: "Áreas base incluidas", Value: fmt.Sprintf("%s (%s)", money.FormatArea(base), baseAreaNames(cat))},
			{Label: "Habitación principal", Value: money.FormatArea(primary)},
			{Label: "Habitaciones adicionales", Value: money.FormatArea(secondary)},
			{Label: "Espacios adicionales", Value: money.FormatArea(additional)},
			{Label: "Área total", Value: money.FormatArea(total)},
		},
	}, nil
}

func bedArea(cat Catalog, bed catalog.BedType, field string) (decimal.Decimal, error) {
	raw, err := cat.AreaOfBed(bed)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: field, Err: ErrInvalidBedType, Detail: err.Error()}
	}
	area, err := money.FromFloat(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bed type %s: %w", bed, err)
	}
	return area, nil
}

func rate(v float64, name string) (decimal.Decimal, error) {
	d, err := money.FromFloat(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s rate: %w", name, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s rate: %w: negative rate %s", name, ErrInvalidAmount, d)
	}
	return d, nil
}

func areaValue(d decimal.Decimal) float64 {
	return money.RoundArea(d).InexactFloat64()
}

func baseAreaNames(cat Catalog) string {
	areas := cat.BaseAreas()
	names := make([]string, 0, len(areas))
	for _, a := range areas {
		names = append(names, a.Label)
	}
	return strings.Join(names, ", ")
}
