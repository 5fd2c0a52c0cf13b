package pricing

import (
	"fmt"
	"math"

	"github.com/ehc32/Cotizador-V1/internal/catalog"
)

type ClientInfo struct {
	HasLotStatus LotStatus `json:"hasLotStatus"`
	HasLot       string    `json:"hasLot"`
}

// RoomLine is the contribution of one additional bedroom.
type RoomLine struct {
	Index          int             `json:"index"`
	BedType        catalog.BedType `json:"bedType"`
	BedLabel       string          `json:"bedLabel"`
	BedArea        float64         `json:"bedArea"`
	HasPrivateBath bool            `json:"hasPrivateBath"`
	BathArea       float64         `json:"bathArea"`
	Area           float64         `json:"area"`
}

// SpaceLine is the contribution of one additional space.
type SpaceLine struct {
	ID    catalog.SpaceID `json:"id"`
	Label string          `json:"label"`
	Area  float64         `json:"area"`
}

// Summary holds the areas in square meters, rounded to two decimals.
// TotalArea is the sum of the four rounded terms.
type Summary struct {
	TotalArea            float64         `json:"totalArea"`
	BaseArea             float64         `json:"baseArea"`
	PrimaryRoomArea      float64         `json:"primaryRoomArea"`
	SecondaryRoomsArea   float64         `json:"secondaryRoomsArea"`
	AdditionalSpacesArea float64         `json:"additionalSpacesArea"`
	PrimaryBedType       catalog.BedType `json:"primaryBedType"`
	PrimaryBedLabel      string          `json:"primaryBedLabel"`
	SecondaryRooms       []RoomLine      `json:"secondaryRooms"`
	AdditionalSpaces     []SpaceLine     `json:"additionalSpaces"`
}

// isZero reports a summary without its area totals. Labels or room lines
// alone do not make a summary.
func (s Summary) isZero() bool {
	return s.TotalArea == 0 && s.BaseArea == 0
}

// Costs are whole Colombian pesos. TotalAmount is DesignAmount plus
// ConstructionAmount.
type Costs struct {
	DesignAmount       int64  `json:"designAmount"`
	ConstructionAmount int64  `json:"constructionAmount"`
	TotalAmount        int64  `json:"totalAmount"`
	Design             string `json:"design"`
	Construction       string `json:"construction"`
	Total              string `json:"total"`
}

// Rates are the formatted per-square-meter rates used for the quote.
type Rates struct {
	Design       string `json:"design"`
	Construction string `json:"construction"`
}

type BreakdownLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Quote is the computed result for one request. It is never modified after
// Compute returns it.
type Quote struct {
	ClientInfo        ClientInfo      `json:"clientInfo"`
	Summary           Summary         `json:"summary"`
	Costs             Costs           `json:"quote"`
	RatesPerArea      Rates           `json:"ratesPerArea"`
	DetailedBreakdown []BreakdownLine `json:"detailedBreakdown"`
}

// MissingSection returns the name of the first mandatory section that is
// absent, or "" when the quote can be rendered.
func (q Quote) MissingSection() string {
	if q.ClientInfo.HasLotStatus == "" && q.ClientInfo.HasLot == "" {
		return "clientInfo"
	}
	if q.Summary.isZero() {
		return "summary"
	}
	if math.IsNaN(q.Summary.TotalArea) || q.Summary.TotalArea <= 0 {
		return "summary.totalArea"
	}
	if q.Costs.Design == "" || q.Costs.Construction == "" || q.Costs.Total == "" {
		return "quote"
	}
	return ""
}

// Admit is the gate between calculation and rendering: only complete quotes
// with a positive total area pass.
func Admit(q Quote) error {
	if section := q.MissingSection(); section != "" {
		return fmt.Errorf("%w: %s", ErrIncompleteQuote, section)
	}
	return nil
}
