package catalog

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	c := Default()
	if got := c.BaseAreaTotal(); got != 53.5 {
		t.Fatalf("expected base area total 53.5, got %v", got)
	}
	if c.DesignRate() != 25000 || c.ConstructionRate() != 850000 {
		t.Fatalf("unexpected rates: design=%v construction=%v", c.DesignRate(), c.ConstructionRate())
	}
	if c.Currency() != CurrencyCOP {
		t.Fatalf("expected COP, got %s", c.Currency())
	}

	area, err := c.AreaOfBed(BedCaliforniaKing32)
	if err != nil || area != 32 {
		t.Fatalf("AreaOfBed(california_king_32) = %v, %v", area, err)
	}
	area, err = c.AreaOfSpace(SpaceDepositoPequeno)
	if err != nil || area != 4 {
		t.Fatalf("AreaOfSpace(deposito_pequeno) = %v, %v", area, err)
	}

	if c.PrimaryEligible(BedSencilla) {
		t.Fatalf("sencilla must not be primary eligible")
	}
	if !c.SecondaryEligible(BedSencilla) || !c.PrimaryEligible(BedQueen) || !c.SecondaryEligible(BedQueen) {
		t.Fatalf("unexpected eligibility for sencilla/queen")
	}
	if c.SecondaryEligible(BedKing25) {
		t.Fatalf("king_25 must not be secondary eligible")
	}

	if len(c.BedTypes()) != len(AllBedTypes()) || len(c.Spaces()) != len(AllSpaces()) {
		t.Fatalf("default catalog is not exhaustive")
	}
}

func TestLookupUnknownIdentifier(t *testing.T) {
	t.Parallel()

	c := Default()
	if _, err := c.AreaOfBed("hamaca"); !errors.Is(err, ErrUnknownIdentifier) {
		t.Fatalf("expected ErrUnknownIdentifier for bed, got %v", err)
	}
	if _, err := c.AreaOfSpace("helipuerto"); !errors.Is(err, ErrUnknownIdentifier) {
		t.Fatalf("expected ErrUnknownIdentifier for space, got %v", err)
	}
	if c.PrimaryEligible("hamaca") || c.SecondaryEligible("hamaca") {
		t.Fatalf("unknown bed type must not be eligible")
	}
}

func TestNewRejectsInvalidDefinitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Definition)
	}{
		{"zero design rate", func(d *Definition) { d.DesignRate = 0 }},
		{"nan construction rate", func(d *Definition) { d.ConstructionRate = math.NaN() }},
		{"infinite rate", func(d *Definition) { d.DesignRate = math.Inf(1) }},
		{"other currency", func(d *Definition) { d.Currency = "USD" }},
		{"no base areas", func(d *Definition) { d.BaseAreas = nil }},
		{"empty base area name", func(d *Definition) { d.BaseAreas[0].Name = "" }},
		{"duplicated base area", func(d *Definition) { d.BaseAreas[1].Name = d.BaseAreas[0].Name }},
		{"negative base area", func(d *Definition) { d.BaseAreas[2].Area = -1 }},
		{"missing bed type", func(d *Definition) { d.BedTypes = d.BedTypes[1:] }},
		{"unknown bed type", func(d *Definition) { d.BedTypes[0].ID = "hamaca" }},
		{"duplicated bed type", func(d *Definition) { d.BedTypes[1].ID = d.BedTypes[0].ID }},
		{"bed not eligible anywhere", func(d *Definition) {
			d.BedTypes[0].Primary = false
			d.BedTypes[0].Secondary = false
		}},
		{"no secondary bed", func(d *Definition) {
			for i := range d.BedTypes {
				d.BedTypes[i].Primary = true
				d.BedTypes[i].Secondary = false
			}
		}},
		{"zero bed area", func(d *Definition) { d.BedTypes[3].Area = 0 }},
		{"missing space", func(d *Definition) { d.Spaces = d.Spaces[:len(d.Spaces)-1] }},
		{"unknown space", func(d *Definition) { d.Spaces[0].ID = "helipuerto" }},
		{"duplicated space", func(d *Definition) { d.Spaces[1].ID = d.Spaces[0].ID }},
		{"nan space area", func(d *Definition) { d.Spaces[4].Area = math.NaN() }},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			def := DefaultDefinition()
			tc.mutate(&def)
			if _, err := New(def); !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestNewDefaultsCurrency(t *testing.T) {
	t.Parallel()

	def := DefaultDefinition()
	def.Currency = ""
	c, err := New(def)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	if c.Currency() != CurrencyCOP {
		t.Fatalf("expected COP default currency, got %q", c.Currency())
	}
}

func TestCatalogIsImmutable(t *testing.T) {
	t.Parallel()

	def := DefaultDefinition()
	c, err := New(def)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	def.BaseAreas[0].Area = 1000
	def.BedTypes[0].Area = 1000
	c.BaseAreas()[0].Area = 1000
	c.Definition().Spaces[0].Area = 1000

	if c.BaseAreaTotal() != 53.5 {
		t.Fatalf("base total changed through caller data: %v", c.BaseAreaTotal())
	}
	if area, _ := c.AreaOfBed(BedSencilla); area != 14 {
		t.Fatalf("bed area changed through caller data: %v", area)
	}
	if c.Spaces()[0].Area != 18 {
		t.Fatalf("space area changed through returned definition")
	}
}

func TestWithUpdatesReturnNewCatalog(t *testing.T) {
	t.Parallel()

	base := Default()

	rated, err := base.WithRates(30000, 900000)
	if err != nil {
		t.Fatalf("with rates: %v", err)
	}
	if rated.DesignRate() != 30000 || base.DesignRate() != 25000 {
		t.Fatalf("expected new design rate only on new catalog")
	}

	kitchen, err := base.WithBaseArea("cocina", 12.5)
	if err != nil {
		t.Fatalf("with base area: %v", err)
	}
	if kitchen.BaseAreaTotal() != 54.5 {
		t.Fatalf("expected base total 54.5, got %v", kitchen.BaseAreaTotal())
	}

	bed, err := base.WithBedArea(BedQueen, 19)
	if err != nil {
		t.Fatalf("with bed area: %v", err)
	}
	if area, _ := bed.AreaOfBed(BedQueen); area != 19 {
		t.Fatalf("expected queen area 19, got %v", area)
	}

	space, err := base.WithSpaceArea(SpaceSauna, 10)
	if err != nil {
		t.Fatalf("with space area: %v", err)
	}
	if area, _ := space.AreaOfSpace(SpaceSauna); area != 10 {
		t.Fatalf("expected sauna area 10, got %v", area)
	}

	if _, err := base.WithBaseArea("garaje", 20); !errors.Is(err, ErrUnknownIdentifier) {
		t.Fatalf("expected ErrUnknownIdentifier, got %v", err)
	}
	if _, err := base.WithBedArea(BedQueen, -2); !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
	if _, err := base.WithSpaceArea("helipuerto", 2); !errors.Is(err, ErrUnknownIdentifier) {
		t.Fatalf("expected ErrUnknownIdentifier, got %v", err)
	}
}

func TestSnapshotSwap(t *testing.T) {
	t.Parallel()

	first := Default()
	snap := NewSnapshot(first)
	next, err := first.WithRates(1, 2)
	if err != nil {
		t.Fatalf("with rates: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := snap.Current()
			if c.DesignRate() != 25000 && c.DesignRate() != 1 {
				t.Errorf("unexpected design rate %v", c.DesignRate())
			}
		}()
	}
	if prev := snap.Swap(next); prev != first {
		t.Fatalf("swap returned unexpected previous catalog")
	}
	wg.Wait()

	if snap.Current() != next {
		t.Fatalf("expected snapshot to hold the new catalog")
	}
}
