package pricing

import (
	"fmt"
	"strings"

	"github.com/ehc32/Cotizador-V1/internal/catalog"
)

// LotStatus says whether the client already owns the lot.
type LotStatus string

const (
	LotOwned           LotStatus = "has-lot"
	LotPendingPurchase LotStatus = "pending-purchase"
)

// ParseLotStatus accepts the canonical values and the legacy "si" /
// "no_en_proceso" wire values.
func ParseLotStatus(raw string) (LotStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(LotOwned), "si", "sí":
		return LotOwned, true
	case string(LotPendingPurchase), "no_en_proceso", "no":
		return LotPendingPurchase, true
	default:
		return LotStatus(raw), false
	}
}

// UnmarshalText normalizes legacy values. Unknown values are kept so that
// Validate can report them against the hasLot field.
func (s *LotStatus) UnmarshalText(text []byte) error {
	*s, _ = ParseLotStatus(string(text))
	return nil
}

func (s LotStatus) Valid() bool {
	return s == LotOwned || s == LotPendingPurchase
}

// Label is the client-facing description of the lot status.
func (s LotStatus) Label() string {
	switch s {
	case LotOwned:
		return "Sí"
	case LotPendingPurchase:
		return "No, en proceso de compra"
	default:
		return string(s)
	}
}

type PrimaryRoom struct {
	BedType catalog.BedType `json:"bedType" yaml:"bedType"`
}

type SecondaryRoom struct {
	Index          int             `json:"index" yaml:"index"`
	BedType        catalog.BedType `json:"bedType" yaml:"bedType"`
	HasPrivateBath bool            `json:"hasPrivateBath" yaml:"hasPrivateBath"`
}

// Request is the set of answers collected for one quote.
type Request struct {
	HasLot           LotStatus         `json:"hasLot" yaml:"hasLot"`
	PrimaryRoom      PrimaryRoom       `json:"primaryRoom" yaml:"primaryRoom"`
	SecondaryRooms   []SecondaryRoom   `json:"secondaryRooms" yaml:"secondaryRooms"`
	AdditionalSpaces []catalog.SpaceID `json:"additionalSpaces" yaml:"additionalSpaces"`
}

// Validate checks the request against the catalog. It returns the first
// problem found as a *ValidationError.
func (r Request) Validate(cat Catalog) error {
	if !r.HasLot.Valid() {
		return invalid("hasLot", ErrInvalidRequest, "unknown lot status %q", r.HasLot)
	}

	if !cat.PrimaryEligible(r.PrimaryRoom.BedType) {
		return invalid("primaryRoom.bedType", ErrInvalidBedType, "%q is not available for the primary room", r.PrimaryRoom.BedType)
	}

	seenRooms := make(map[int]struct{}, len(r.SecondaryRooms))
	for i, room := range r.SecondaryRooms {
		if room.Index <= 0 {
			return invalid(fmt.Sprintf("secondaryRooms[%d].index", i), ErrInvalidRequest, "room index must be positive, got %d", room.Index)
		}
		if _, dup := seenRooms[room.Index]; dup {
			return invalid(fmt.Sprintf("secondaryRooms[%d].index", i), ErrInvalidRequest, "room %d is listed twice", room.Index)
		}
		seenRooms[room.Index] = struct{}{}

		if !cat.SecondaryEligible(room.BedType) {
			return invalid(fmt.Sprintf("secondaryRooms[%d].bedType", i), ErrInvalidBedType, "room %d: %q is not available for additional rooms", room.Index, room.BedType)
		}
	}

	seenSpaces := make(map[catalog.SpaceID]struct{}, len(r.AdditionalSpaces))
	for i, id := range r.AdditionalSpaces {
		field := fmt.Sprintf("additionalSpaces[%d]", i)
		if _, err := cat.AreaOfSpace(id); err != nil {
			return invalid(field, ErrInvalidSpace, "%q is not offered", id)
		}
		if _, dup := seenSpaces[id]; dup {
			return invalid(field, ErrInvalidSpace, "%q is listed twice", id)
		}
		seenSpaces[id] = struct{}{}
	}

	return nil
}
