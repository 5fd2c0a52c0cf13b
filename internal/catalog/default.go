package catalog

// DefaultDefinition returns the reference catalog for SAAVE Arquitectos.
func DefaultDefinition() Definition {
	return Definition{
		Currency:         CurrencyCOP,
		DesignRate:       25000,
		ConstructionRate: 850000,
		BaseAreas: []BaseArea{
			{Name: "cocina", Label: "cocina", Area: 11.5},
			{Name: "sala", Label: "sala", Area: 13.5},
			{Name: "comedor", Label: "comedor", Area: 18},
			{Name: "ropas", Label: "ropas", Area: 8},
			{Name: "bano_social", Label: "baño social", Area: 2.5},
		},
		BedTypes: []BedSpec{
			{ID: BedSencilla, Area: 14, Secondary: true},
			{ID: BedDoble, Area: 16, Primary: true, Secondary: true},
			{ID: BedQueen, Area: 18, Primary: true, Secondary: true},
			{ID: BedKing25, Area: 25, Primary: true},
			{ID: BedKing27, Area: 27, Primary: true},
			{ID: BedCaliforniaKing30, Area: 30, Primary: true},
			{ID: BedCaliforniaKing32, Area: 32, Primary: true},
		},
		Spaces: []SpaceSpec{
			{ID: SpaceEstudio, Area: 18},
			{ID: SpaceSalaTV, Area: 14},
			{ID: SpaceHabitacionServicio, Area: 14},
			{ID: SpaceDepositoPequeno, Area: 4},
			{ID: SpaceDepositoMediano, Area: 6},
			{ID: SpaceDepositoGrande, Area: 9},
			{ID: SpaceSauna, Area: 9},
			{ID: SpaceTurco, Area: 9},
			{ID: SpacePiscinaPequena, Area: 16},
			{ID: SpacePiscinaMediana, Area: 24},
			{ID: SpacePiscinaGrande, Area: 32},
			{ID: SpaceBanoSocialExterior, Area: 4},
		},
	}
}

// Default returns the reference catalog. It panics if the built-in
// definition is invalid.
func Default() *Catalog {
	c, err := New(DefaultDefinition())
	if err != nil {
		panic(err)
	}
	return c
}
