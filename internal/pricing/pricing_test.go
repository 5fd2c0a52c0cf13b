package pricing

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/ehc32/Cotizador-V1/internal/catalog"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func baseRequest() Request {
	return Request{
		HasLot:      LotOwned,
		PrimaryRoom: PrimaryRoom{BedType: catalog.BedQueen},
	}
}

func TestCompute_ScenarioA_BaseAndPrimaryOnly(t *testing.T) {
	q, err := Compute(baseRequest(), catalog.Default())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	nearlyEqual(t, "baseArea", q.Summary.BaseArea, 53.5)
	nearlyEqual(t, "primaryRoomArea", q.Summary.PrimaryRoomArea, 18)
	nearlyEqual(t, "secondaryRoomsArea", q.Summary.SecondaryRoomsArea, 0)
	nearlyEqual(t, "additionalSpacesArea", q.Summary.AdditionalSpacesArea, 0)
	nearlyEqual(t, "totalArea", q.Summary.TotalArea, 71.5)
	if q.Summary.PrimaryBedLabel != "Queen" {
		t.Fatalf("unexpected primary bed label %q", q.Summary.PrimaryBedLabel)
	}
	if len(q.Summary.SecondaryRooms) != 0 || len(q.Summary.AdditionalSpaces) != 0 {
		t.Fatalf("expected empty breakdown lines")
	}
}

func TestCompute_ScenarioB_SecondaryRoomWithBath(t *testing.T) {
	req := baseRequest()
	req.SecondaryRooms = []SecondaryRoom{{Index: 1, BedType: catalog.BedDoble, HasPrivateBath: true}}

	q, err := Compute(req, catalog.Default())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	nearlyEqual(t, "secondaryRoomsArea", q.Summary.SecondaryRoomsArea, 19.5)
	nearlyEqual(t, "totalArea", q.Summary.TotalArea, 91)

	room := q.Summary.SecondaryRooms[0]
	if room.Index != 1 || room.BedType != catalog.BedDoble || !room.HasPrivateBath {
		t.Fatalf("unexpected room line %+v", room)
	}
	nearlyEqual(t, "room bedArea", room.BedArea, 16)
	nearlyEqual(t, "room bathArea", room.BathArea, PrivateBathArea)
	nearlyEqual(t, "room area", room.Area, 19.5)
}

func TestCompute_ScenarioC_AdditionalSpaces(t *testing.T) {
	req := baseRequest()
	req.AdditionalSpaces = []catalog.SpaceID{catalog.SpaceEstudio, catalog.SpaceDepositoPequeno}

	q, err := Compute(req, catalog.Default())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	nearlyEqual(t, "additionalSpacesArea", q.Summary.AdditionalSpacesArea, 22)
	nearlyEqual(t, "totalArea", q.Summary.TotalArea, 93.5)

	want := []SpaceLine{
		{ID: catalog.SpaceEstudio, Label: "Estudio", Area: 18},
		{ID: catalog.SpaceDepositoPequeno, Label: "Deposito Pequeno", Area: 4},
	}
	if !reflect.DeepEqual(q.Summary.AdditionalSpaces, want) {
		t.Fatalf("space lines = %+v, want %+v", q.Summary.AdditionalSpaces, want)
	}
}

func TestCompute_ScenarioD_Costs(t *testing.T) {
	q, err := Compute(baseRequest(), catalog.Default())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	if q.Costs.DesignAmount != 1787500 {
		t.Fatalf("designAmount = %d", q.Costs.DesignAmount)
	}
	if q.Costs.ConstructionAmount != 60775000 {
		t.Fatalf("constructionAmount = %d", q.Costs.ConstructionAmount)
	}
	if q.Costs.TotalAmount != 62562500 {
		t.Fatalf("totalAmount = %d", q.Costs.TotalAmount)
	}
	if q.Costs.Design != "$\u00a01.787.500" {
		t.Fatalf("design = %q", q.Costs.Design)
	}
	if q.Costs.Construction != "$\u00a060.775.000" {
		t.Fatalf("construction = %q", q.Costs.Construction)
	}
	if q.Costs.Total != "$\u00a062.562.500" {
		t.Fatalf("total = %q", q.Costs.Total)
	}
	if q.RatesPerArea.Design != "$\u00a025.000" || q.RatesPerArea.Construction != "$\u00a0850.000" {
		t.Fatalf("unexpected rates %+v", q.RatesPerArea)
	}
}

func TestCompute_RejectsUnknownBedType(t *testing.T) {
	req := baseRequest()
	req.PrimaryRoom.BedType = "hamaca"

	q, err := Compute(req, catalog.Default())
	if !errors.Is(err, ErrInvalidBedType) {
		t.Fatalf("expected ErrInvalidBedType, got %v", err)
	}
	if !reflect.DeepEqual(q, Quote{}) {
		t.Fatalf("expected no quote on rejection")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "primaryRoom.bedType" {
		t.Fatalf("expected validation error on primaryRoom.bedType, got %v", err)
	}
}

func TestCompute_ValidationNamesTheField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
		err    error
		field  string
	}{
		{
			name:   "primary not eligible",
			mutate: func(r *Request) { r.PrimaryRoom.BedType = catalog.BedSencilla },
			err:    ErrInvalidBedType,
			field:  "primaryRoom.bedType",
		},
		{
			name: "secondary not eligible",
			mutate: func(r *Request) {
				r.SecondaryRooms = []SecondaryRoom{
					{Index: 1, BedType: catalog.BedDoble},
					{Index: 2, BedType: catalog.BedKing25},
				}
			},
			err:   ErrInvalidBedType,
			field: "secondaryRooms[1].bedType",
		},
		{
			name:   "unknown space",
			mutate: func(r *Request) { r.AdditionalSpaces = []catalog.SpaceID{catalog.SpaceSauna, "helipuerto"} },
			err:    ErrInvalidSpace,
			field:  "additionalSpaces[1]",
		},
		{
			name:   "duplicated space",
			mutate: func(r *Request) { r.AdditionalSpaces = []catalog.SpaceID{catalog.SpaceSauna, catalog.SpaceTurco, catalog.SpaceSauna} },
			err:    ErrInvalidSpace,
			field:  "additionalSpaces[2]",
		},
		{
			name:   "unknown lot status",
			mutate: func(r *Request) { r.HasLot = "maybe" },
			err:    ErrInvalidRequest,
			field:  "hasLot",
		},
		{
			name:   "room index not positive",
			mutate: func(r *Request) { r.SecondaryRooms = []SecondaryRoom{{Index: 0, BedType: catalog.BedDoble}} },
			err:    ErrInvalidRequest,
			field:  "secondaryRooms[0].index",
		},
		{
			name: "room index repeated",
			mutate: func(r *Request) {
				r.SecondaryRooms = []SecondaryRoom{
					{Index: 1, BedType: catalog.BedDoble},
					{Index: 1, BedType: catalog.BedQueen},
				}
			},
			err:   ErrInvalidRequest,
			field: "secondaryRooms[1].index",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := baseRequest()
			tc.mutate(&req)

			_, err := Compute(req, catalog.Default())
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("field = %q, want %q", verr.Field, tc.field)
			}
		})
	}
}

func TestCompute_TotalIsSumOfRoundedTerms(t *testing.T) {
	cat := catalog.Default()
	beds := cat.BedTypes()
	spaces := catalog.AllSpaces()

	for i, primary := range beds {
		if !primary.Primary {
			continue
		}
		req := Request{
			HasLot:      LotPendingPurchase,
			PrimaryRoom: PrimaryRoom{BedType: primary.ID},
		}
		for j, bed := range beds {
			if !bed.Secondary {
				continue
			}
			req.SecondaryRooms = append(req.SecondaryRooms, SecondaryRoom{
				Index:          j + 1,
				BedType:        bed.ID,
				HasPrivateBath: (i+j)%2 == 0,
			})
		}
		req.AdditionalSpaces = spaces[:i+1]

		q, err := Compute(req, cat)
		if err != nil {
			t.Fatalf("compute with primary %s: %v", primary.ID, err)
		}
		s := q.Summary
		nearlyEqual(t, "totalArea", s.TotalArea, s.BaseArea+s.PrimaryRoomArea+s.SecondaryRoomsArea+s.AdditionalSpacesArea)
		if q.Costs.TotalAmount != q.Costs.DesignAmount+q.Costs.ConstructionAmount {
			t.Fatalf("totalAmount %d != %d + %d", q.Costs.TotalAmount, q.Costs.DesignAmount, q.Costs.ConstructionAmount)
		}
		if q.Costs.DesignAmount < 0 || q.Costs.ConstructionAmount < 0 {
			t.Fatalf("costs must be non-negative: %+v", q.Costs)
		}
	}
}

func TestCompute_RoundsEachTermBeforeSumming(t *testing.T) {
	def := catalog.DefaultDefinition()
	def.BaseAreas = []catalog.BaseArea{{Name: "cocina", Area: 10.005}}
	for i := range def.BedTypes {
		def.BedTypes[i].Area = 1.005
	}
	for i := range def.Spaces {
		def.Spaces[i].Area = 0.004
	}
	cat, err := catalog.New(def)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	req := baseRequest()
	req.SecondaryRooms = []SecondaryRoom{{Index: 1, BedType: catalog.BedDoble}}
	req.AdditionalSpaces = []catalog.SpaceID{catalog.SpaceEstudio, catalog.SpaceSauna}

	q, err := Compute(req, cat)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	nearlyEqual(t, "baseArea", q.Summary.BaseArea, 10.01)
	nearlyEqual(t, "primaryRoomArea", q.Summary.PrimaryRoomArea, 1.01)
	nearlyEqual(t, "secondaryRoomsArea", q.Summary.SecondaryRoomsArea, 1.01)
	nearlyEqual(t, "additionalSpacesArea", q.Summary.AdditionalSpacesArea, 0.01)
	// 10.005 + 1.005 + 1.005 + 0.008 rounded once would give 12.02.
	nearlyEqual(t, "totalArea", q.Summary.TotalArea, 12.04)
	if q.Costs.DesignAmount != 301000 || q.Costs.ConstructionAmount != 10234000 {
		t.Fatalf("costs must use the rounded total: %+v", q.Costs)
	}
}

func TestCompute_IsDeterministic(t *testing.T) {
	req := baseRequest()
	req.SecondaryRooms = []SecondaryRoom{{Index: 1, BedType: catalog.BedSencilla, HasPrivateBath: true}}
	req.AdditionalSpaces = []catalog.SpaceID{catalog.SpacePiscinaGrande}

	first, err := Compute(req, catalog.Default())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	firstJSON, _ := json.Marshal(first)
	for i := 0; i < 20; i++ {
		next, err := Compute(req, catalog.Default())
		if err != nil {
			t.Fatalf("compute (iteration=%d): %v", i, err)
		}
		nextJSON, _ := json.Marshal(next)
		if string(nextJSON) != string(firstJSON) {
			t.Fatalf("iteration %d differs:\n%s\n%s", i, firstJSON, nextJSON)
		}
	}
}

func TestCompute_DetailedBreakdown(t *testing.T) {
	req := baseRequest()
	req.SecondaryRooms = []SecondaryRoom{{Index: 1, BedType: catalog.BedDoble, HasPrivateBath: true}}

	q, err := Compute(req, catalog.Default())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	want := []BreakdownLine{
		{Label: "Áreas base incluidas", Value: "53.5m² (cocina, sala, comedor, ropas, baño social)"},
		{Label: "Habitación principal", Value: "18m²"},
		{Label: "Habitaciones adicionales", Value: "19.5m²"},
		{Label: "Espacios adicionales", Value: "0m²"},
		{Label: "Área total", Value: "91m²"},
	}
	if !reflect.DeepEqual(q.DetailedBreakdown, want) {
		t.Fatalf("breakdown = %+v", q.DetailedBreakdown)
	}
	if q.ClientInfo.HasLot != "Sí" || q.ClientInfo.HasLotStatus != LotOwned {
		t.Fatalf("unexpected client info %+v", q.ClientInfo)
	}
}

type fakeCatalog struct {
	*catalog.Catalog
	baseTotal  float64
	designRate float64
	constrRate float64
}

func (f fakeCatalog) BaseAreaTotal() float64    { return f.baseTotal }
func (f fakeCatalog) DesignRate() float64       { return f.designRate }
func (f fakeCatalog) ConstructionRate() float64 { return f.constrRate }

func newFake() fakeCatalog {
	c := catalog.Default()
	return fakeCatalog{Catalog: c, baseTotal: c.BaseAreaTotal(), designRate: c.DesignRate(), constrRate: c.ConstructionRate()}
}

func TestCompute_InvariantErrors(t *testing.T) {
	t.Run("non positive area", func(t *testing.T) {
		f := newFake()
		f.baseTotal = -100
		if _, err := Compute(baseRequest(), f); !errors.Is(err, ErrNonPositiveArea) {
			t.Fatalf("expected ErrNonPositiveArea, got %v", err)
		}
	})

	t.Run("nan rate", func(t *testing.T) {
		f := newFake()
		f.designRate = math.NaN()
		if _, err := Compute(baseRequest(), f); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("infinite rate", func(t *testing.T) {
		f := newFake()
		f.constrRate = math.Inf(1)
		if _, err := Compute(baseRequest(), f); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("nan base area", func(t *testing.T) {
		f := newFake()
		f.baseTotal = math.NaN()
		if _, err := Compute(baseRequest(), f); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})
}

func TestRequestDecodesLegacyLotValues(t *testing.T) {
	var req Request
	body := `{"hasLot":"no_en_proceso","primaryRoom":{"bedType":"king_25"},"secondaryRooms":[],"additionalSpaces":[]}`
	if err := json.NewDecoder(strings.NewReader(body)).Decode(&req); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	if req.HasLot != LotPendingPurchase {
		t.Fatalf("expected pending-purchase, got %q", req.HasLot)
	}

	q, err := Compute(req, catalog.Default())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if q.ClientInfo.HasLot != "No, en proceso de compra" {
		t.Fatalf("unexpected lot label %q", q.ClientInfo.HasLot)
	}
	nearlyEqual(t, "totalArea", q.Summary.TotalArea, 78.5)
}

func TestAdmit(t *testing.T) {
	q, err := Compute(baseRequest(), catalog.Default())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if err := Admit(q); err != nil {
		t.Fatalf("expected computed quote to be admitted: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Quote)
		section string
	}{
		{"missing client info", func(q *Quote) { q.ClientInfo = ClientInfo{} }, "clientInfo"},
		{"missing summary", func(q *Quote) { q.Summary = Summary{} }, "summary"},
		{"summary with labels only", func(q *Quote) { q.Summary = Summary{PrimaryBedType: catalog.BedQueen, PrimaryBedLabel: "Queen"} }, "summary"},
		{"zero total area", func(q *Quote) { q.Summary.TotalArea = 0 }, "summary.totalArea"},
		{"missing costs", func(q *Quote) { q.Costs = Costs{} }, "quote"},
	}
	for _, tc := range tests {
		broken := q
		tc.mutate(&broken)
		err := Admit(broken)
		if !errors.Is(err, ErrIncompleteQuote) {
			t.Fatalf("%s: expected ErrIncompleteQuote, got %v", tc.name, err)
		}
		if !strings.Contains(err.Error(), tc.section) {
			t.Fatalf("%s: error %q does not name %s", tc.name, err, tc.section)
		}
		if got := broken.MissingSection(); got != tc.section {
			t.Fatalf("%s: missing section = %q, want %q", tc.name, got, tc.section)
		}
	}
}
