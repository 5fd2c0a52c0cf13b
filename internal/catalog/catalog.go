// Package catalog holds the pricing reference data used to quote a house:
// per-square-meter rates, the fixed base areas, bed-type areas and the
// optional additional spaces. A Catalog is immutable once built.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyCOP is the only currency a catalog may be priced in.
const CurrencyCOP = "COP"

var (
	ErrUnknownIdentifier = errors.New("unknown catalog identifier")
	ErrInvalidCatalog    = errors.New("invalid catalog")
)

// BedType identifies a bed size; each one maps to a bedroom area.
type BedType string

const (
	BedSencilla         BedType = "sencilla"
	BedDoble            BedType = "doble"
	BedQueen            BedType = "queen"
	BedKing25           BedType = "king_25"
	BedKing27           BedType = "king_27"
	BedCaliforniaKing30 BedType = "california_king_30"
	BedCaliforniaKing32 BedType = "california_king_32"
)

var allBedTypes = []BedType{
	BedSencilla,
	BedDoble,
	BedQueen,
	BedKing25,
	BedKing27,
	BedCaliforniaKing30,
	BedCaliforniaKing32,
}

// AllBedTypes returns every bed type a catalog must price.
func AllBedTypes() []BedType {
	return append([]BedType(nil), allBedTypes...)
}

// SpaceID identifies an optional non-bedroom space.
type SpaceID string

const (
	SpaceEstudio            SpaceID = "estudio"
	SpaceSalaTV             SpaceID = "sala_tv"
	SpaceHabitacionServicio SpaceID = "habitacion_servicio"
	SpaceDepositoPequeno    SpaceID = "deposito_pequeno"
	SpaceDepositoMediano    SpaceID = "deposito_mediano"
	SpaceDepositoGrande     SpaceID = "deposito_grande"
	SpaceSauna              SpaceID = "sauna"
	SpaceTurco              SpaceID = "turco"
	SpacePiscinaPequena     SpaceID = "piscina_pequena"
	SpacePiscinaMediana     SpaceID = "piscina_mediana"
	SpacePiscinaGrande      SpaceID = "piscina_grande"
	SpaceBanoSocialExterior SpaceID = "bano_social_exterior"
)

var allSpaces = []SpaceID{
	SpaceEstudio,
	SpaceSalaTV,
	SpaceHabitacionServicio,
	SpaceDepositoPequeno,
	SpaceDepositoMediano,
	SpaceDepositoGrande,
	SpaceSauna,
	SpaceTurco,
	SpacePiscinaPequena,
	SpacePiscinaMediana,
	SpacePiscinaGrande,
	SpaceBanoSocialExterior,
}

// AllSpaces returns every additional space a catalog must price.
func AllSpaces() []SpaceID {
	return append([]SpaceID(nil), allSpaces...)
}

// BaseArea is one of the rooms included in every quote.
type BaseArea struct {
	Name  string  `json:"name" yaml:"name"`
	Label string  `json:"label" yaml:"label,omitempty"`
	Area  float64 `json:"area" yaml:"area"`
}

// BedSpec prices a bed type and says which bedrooms may use it.
type BedSpec struct {
	ID        BedType `json:"id" yaml:"id"`
	Area      float64 `json:"area" yaml:"area"`
	Primary   bool    `json:"primary" yaml:"primary"`
	Secondary bool    `json:"secondary" yaml:"secondary"`
}

// SpaceSpec prices an additional space.
type SpaceSpec struct {
	ID   SpaceID `json:"id" yaml:"id"`
	Area float64 `json:"area" yaml:"area"`
}

// Definition is the serializable form of a catalog. It is what files, the
// database store and the admin API exchange; New turns it into a Catalog.
type Definition struct {
	Currency         string      `json:"currency" yaml:"currency"`
	DesignRate       float64     `json:"designRate" yaml:"design_rate"`
	ConstructionRate float64     `json:"constructionRate" yaml:"construction_rate"`
	BaseAreas        []BaseArea  `json:"baseAreas" yaml:"base_areas"`
	BedTypes         []BedSpec   `json:"bedTypes" yaml:"bed_types"`
	Spaces           []SpaceSpec `json:"additionalSpaces" yaml:"additional_spaces"`
}

func (d Definition) clone() Definition {
	out := d
	out.BaseAreas = append([]BaseArea(nil), d.BaseAreas...)
	out.BedTypes = append([]BedSpec(nil), d.BedTypes...)
	out.Spaces = append([]SpaceSpec(nil), d.Spaces...)
	return out
}

// Catalog is a validated, read-only pricing catalog. It is safe for
// concurrent use.
type Catalog struct {
	def       Definition
	beds      map[BedType]BedSpec
	spaces    map[SpaceID]float64
	baseTotal float64
}

// New validates def and builds a Catalog from it. Every known bed type and
// additional space must be priced exactly once, and every rate and area must
// be a positive finite number.
func New(def Definition) (*Catalog, error) {
	def = def.clone()
	if def.Currency == "" {
		def.Currency = CurrencyCOP
	}
	if def.Currency != CurrencyCOP {
		return nil, fmt.Errorf("%w: unsupported currency %q", ErrInvalidCatalog, def.Currency)
	}
	if err := checkAmount("design_rate", def.DesignRate); err != nil {
		return nil, err
	}
	if err := checkAmount("construction_rate", def.ConstructionRate); err != nil {
		return nil, err
	}

	if len(def.BaseAreas) == 0 {
		return nil, fmt.Errorf("%w: no base areas", ErrInvalidCatalog)
	}
	baseTotal := decimal.Zero
	seenBase := make(map[string]struct{}, len(def.BaseAreas))
	for i, base := range def.BaseAreas {
		if base.Name == "" {
			return nil, fmt.Errorf("%w: base area without name", ErrInvalidCatalog)
		}
		if _, dup := seenBase[base.Name]; dup {
			return nil, fmt.Errorf("%w: duplicated base area %q", ErrInvalidCatalog, base.Name)
		}
		seenBase[base.Name] = struct{}{}
		if err := checkAmount("base area "+base.Name, base.Area); err != nil {
			return nil, err
		}
		if base.Label == "" {
			def.BaseAreas[i].Label = strings.ReplaceAll(base.Name, "_", " ")
		}
		baseTotal = baseTotal.Add(decimal.NewFromFloat(base.Area))
	}

	beds := make(map[BedType]BedSpec, len(def.BedTypes))
	var hasPrimary, hasSecondary bool
	for _, bed := range def.BedTypes {
		if !knownBed(bed.ID) {
			return nil, fmt.Errorf("%w: %w: bed type %q", ErrInvalidCatalog, ErrUnknownIdentifier, bed.ID)
		}
		if _, dup := beds[bed.ID]; dup {
			return nil, fmt.Errorf("%w: duplicated bed type %q", ErrInvalidCatalog, bed.ID)
		}
		if err := checkAmount("bed type "+string(bed.ID), bed.Area); err != nil {
			return nil, err
		}
		if !bed.Primary && !bed.Secondary {
			return nil, fmt.Errorf("%w: bed type %q is not eligible for any room", ErrInvalidCatalog, bed.ID)
		}
		hasPrimary = hasPrimary || bed.Primary
		hasSecondary = hasSecondary || bed.Secondary
		beds[bed.ID] = bed
	}
	for _, id := range allBedTypes {
		if _, ok := beds[id]; !ok {
			return nil, fmt.Errorf("%w: bed type %q has no area", ErrInvalidCatalog, id)
		}
	}
	if !hasPrimary || !hasSecondary {
		return nil, fmt.Errorf("%w: needs primary and secondary bed types", ErrInvalidCatalog)
	}

	spaces := make(map[SpaceID]float64, len(def.Spaces))
	for _, space := range def.Spaces {
		if !knownSpace(space.ID) {
			return nil, fmt.Errorf("%w: %w: additional space %q", ErrInvalidCatalog, ErrUnknownIdentifier, space.ID)
		}
		if _, dup := spaces[space.ID]; dup {
			return nil, fmt.Errorf("%w: duplicated additional space %q", ErrInvalidCatalog, space.ID)
		}
		if err := checkAmount("additional space "+string(space.ID), space.Area); err != nil {
			return nil, err
		}
		spaces[space.ID] = space.Area
	}
	for _, id := range allSpaces {
		if _, ok := spaces[id]; !ok {
			return nil, fmt.Errorf("%w: additional space %q has no area", ErrInvalidCatalog, id)
		}
	}

	return &Catalog{
		def:       def,
		beds:      beds,
		spaces:    spaces,
		baseTotal: baseTotal.InexactFloat64(),
	}, nil
}

func checkAmount(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %s must be a positive finite number, got %v", ErrInvalidCatalog, name, v)
	}
	return nil
}

func knownBed(id BedType) bool {
	for _, b := range allBedTypes {
		if b == id {
			return true
		}
	}
	return false
}

func knownSpace(id SpaceID) bool {
	for _, s := range allSpaces {
		if s == id {
			return true
		}
	}
	return false
}

// AreaOfBed returns the bedroom area for a bed type.
func (c *Catalog) AreaOfBed(id BedType) (float64, error) {
	bed, ok := c.beds[id]
	if !ok {
		return 0, fmt.Errorf("%w: bed type %q", ErrUnknownIdentifier, id)
	}
	return bed.Area, nil
}

// AreaOfSpace returns the area of an additional space.
func (c *Catalog) AreaOfSpace(id SpaceID) (float64, error) {
	area, ok := c.spaces[id]
	if !ok {
		return 0, fmt.Errorf("%w: additional space %q", ErrUnknownIdentifier, id)
	}
	return area, nil
}

// PrimaryEligible reports whether the bed type may be chosen for the main bedroom.
func (c *Catalog) PrimaryEligible(id BedType) bool {
	return c.beds[id].Primary
}

// SecondaryEligible reports whether the bed type may be chosen for an additional bedroom.
func (c *Catalog) SecondaryEligible(id BedType) bool {
	return c.beds[id].Secondary
}

// BaseAreaTotal is the sum of all base areas.
func (c *Catalog) BaseAreaTotal() float64 { return c.baseTotal }

func (c *Catalog) DesignRate() float64 { return c.def.DesignRate }

func (c *Catalog) ConstructionRate() float64 { return c.def.ConstructionRate }

func (c *Catalog) Currency() string { return c.def.Currency }

// BaseAreas returns the base areas in catalog order.
func (c *Catalog) BaseAreas() []BaseArea {
	return append([]BaseArea(nil), c.def.BaseAreas...)
}

// BedTypes returns the bed specs in catalog order.
func (c *Catalog) BedTypes() []BedSpec {
	return append([]BedSpec(nil), c.def.BedTypes...)
}

// Spaces returns the additional spaces in catalog order.
func (c *Catalog) Spaces() []SpaceSpec {
	return append([]SpaceSpec(nil), c.def.Spaces...)
}

// Definition returns a copy of the definition the catalog was built from.
func (c *Catalog) Definition() Definition {
	return c.def.clone()
}

// WithRates returns a new catalog with the given per-square-meter rates.
func (c *Catalog) WithRates(design, construction float64) (*Catalog, error) {
	def := c.Definition()
	def.DesignRate = design
	def.ConstructionRate = construction
	return New(def)
}

// WithBaseArea returns a new catalog where the named base area is replaced.
func (c *Catalog) WithBaseArea(name string, area float64) (*Catalog, error) {
	def := c.Definition()
	for i := range def.BaseAreas {
		if def.BaseAreas[i].Name == name {
			def.BaseAreas[i].Area = area
			return New(def)
		}
	}
	return nil, fmt.Errorf("%w: base area %q", ErrUnknownIdentifier, name)
}

// WithBedArea returns a new catalog where the bed type area is replaced.
func (c *Catalog) WithBedArea(id BedType, area float64) (*Catalog, error) {
	def := c.Definition()
	for i := range def.BedTypes {
		if def.BedTypes[i].ID == id {
			def.BedTypes[i].Area = area
			return New(def)
		}
	}
	return nil, fmt.Errorf("%w: bed type %q", ErrUnknownIdentifier, id)
}

// WithSpaceArea returns a new catalog where the additional space area is replaced.
func (c *Catalog) WithSpaceArea(id SpaceID, area float64) (*Catalog, error) {
	def := c.Definition()
	for i := range def.Spaces {
		if def.Spaces[i].ID == id {
			def.Spaces[i].Area = area
			return New(def)
		}
	}
	return nil, fmt.Errorf("%w: additional space %q", ErrUnknownIdentifier, id)
}
