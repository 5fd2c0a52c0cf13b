package flow

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ehc32/Cotizador-V1/internal/catalog"
	"github.com/ehc32/Cotizador-V1/internal/money"
	"github.com/ehc32/Cotizador-V1/internal/pricing"
)

// Step is the position of a session in the question script.
type Step int

const (
	StepLot Step = iota
	StepPrimaryBed
	StepRoomCount
	StepRoomBed
	StepRoomBath
	StepSpaces
	StepConfirm
	StepConfirmed
	StepDeclined
)

var stepNames = [...]string{
	StepLot:        "lot",
	StepPrimaryBed: "primary_bed",
	StepRoomCount:  "room_count",
	StepRoomBed:    "room_bed",
	StepRoomBath:   "room_bath",
	StepSpaces:     "additional_spaces",
	StepConfirm:    "confirm_pdf",
	StepConfirmed:  "confirmed",
	StepDeclined:   "declined",
}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "unknown"
	}
	return stepNames[s]
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Prompt is what the client shows next.
type Prompt struct {
	Step     Step           `json:"step"`
	Question string         `json:"question"`
	Options  []Option       `json:"options,omitempty"`
	Multiple bool           `json:"multiple,omitempty"`
	Room     int            `json:"room,omitempty"`
	Quote    *pricing.Quote `json:"quote,omitempty"`
	Done     bool           `json:"done"`
}

type session struct {
	mu sync.Mutex

	id       string
	step     Step
	lastSeen time.Time

	req          pricing.Request
	roomCount    int
	room         int
	quote        *pricing.Quote
	justComputed bool
}

var (
	yesNo = []Option{
		{ID: "si", Label: "Sí"},
		{ID: "no", Label: "No"},
	}
	lotOptions = []Option{
		{ID: string(pricing.LotOwned), Label: pricing.LotOwned.Label()},
		{ID: string(pricing.LotPendingPurchase), Label: pricing.LotPendingPurchase.Label()},
	}
)

func (s *Store) prompt(sess *session) Prompt {
	cat := s.catalog.Current()
	p := Prompt{Step: sess.step}

	switch sess.step {
	case StepLot:
		p.Question = "¡Hola! Soy el asistente de cotizaciones de SAAVE Arquitectos. ¿Ya tienes un lote para la construcción?"
		p.Options = lotOptions
	case StepPrimaryBed:
		p.Question = "¿Qué tipo de cama tendrá la habitación principal?"
		p.Options = bedOptions(cat, true)
	case StepRoomCount:
		p.Question = fmt.Sprintf("¿Cuántas habitaciones adicionales necesitas? (0 a %d)", s.maxRooms)
		for n := 0; n <= s.maxRooms; n++ {
			p.Options = append(p.Options, Option{ID: strconv.Itoa(n), Label: strconv.Itoa(n)})
		}
	case StepRoomBed:
		p.Room = sess.room
		p.Question = fmt.Sprintf("Habitación adicional %d de %d: ¿qué tipo de cama tendrá?", sess.room, sess.roomCount)
		p.Options = bedOptions(cat, false)
	case StepRoomBath:
		p.Room = sess.room
		p.Question = fmt.Sprintf("Habitación adicional %d de %d: ¿tendrá baño privado? (+%sm²)", sess.room, sess.roomCount, decimal.NewFromFloat(pricing.PrivateBathArea))
		p.Options = yesNo
	case StepSpaces:
		p.Question = "¿Qué espacios adicionales te gustaría incluir? Puedes elegir varios separados por coma o responder \"ninguno\"."
		p.Options = spaceOptions(cat)
		p.Multiple = true
	case StepConfirm:
		p.Question = "¿Te gustaría descargar esta cotización en formato PDF?"
		p.Options = yesNo
		p.Quote = sess.quote
	case StepConfirmed:
		p.Question = "¡Perfecto! Tu cotización está lista para descargar en PDF."
		p.Quote = sess.quote
		p.Done = true
	case StepDeclined:
		p.Question = "Descarga cancelada. Si cambias de opinión responde \"sí\" para descargar tu cotización."
		p.Options = yesNo[:1]
		p.Quote = sess.quote
		p.Done = true
	}
	return p
}

func (s *Store) apply(sess *session, answer string) error {
	cat := s.catalog.Current()

	switch sess.step {
	case StepLot:
		status, ok := pricing.ParseLotStatus(answer)
		if opt, matched := match(answer, lotOptions); matched {
			status, ok = pricing.LotStatus(opt.ID), true
		}
		if !ok {
			return invalidAnswer("responde sí o no")
		}
		sess.req.HasLot = status
		sess.step = StepPrimaryBed

	case StepPrimaryBed:
		opt, ok := match(answer, bedOptions(cat, true))
		if !ok {
			return invalidAnswer("elige uno de los tipos de cama disponibles")
		}
		sess.req.PrimaryRoom = pricing.PrimaryRoom{BedType: catalog.BedType(opt.ID)}
		sess.step = StepRoomCount

	case StepRoomCount:
		n, err := strconv.Atoi(strings.TrimSpace(answer))
		if err != nil || n < 0 || n > s.maxRooms {
			return invalidAnswer(fmt.Sprintf("indica un número entre 0 y %d", s.maxRooms))
		}
		sess.roomCount = n
		sess.req.SecondaryRooms = make([]pricing.SecondaryRoom, 0, n)
		if n == 0 {
			sess.step = StepSpaces
			return nil
		}
		sess.room = 1
		sess.step = StepRoomBed

	case StepRoomBed:
		opt, ok := match(answer, bedOptions(cat, false))
		if !ok {
			return invalidAnswer("elige uno de los tipos de cama disponibles")
		}
		sess.req.SecondaryRooms = append(sess.req.SecondaryRooms, pricing.SecondaryRoom{
			Index:   sess.room,
			BedType: catalog.BedType(opt.ID),
		})
		sess.step = StepRoomBath

	case StepRoomBath:
		opt, ok := match(answer, yesNo)
		if !ok {
			return invalidAnswer("responde sí o no")
		}
		sess.req.SecondaryRooms[len(sess.req.SecondaryRooms)-1].HasPrivateBath = opt.ID == "si"
		if sess.room < sess.roomCount {
			sess.room++
			sess.step = StepRoomBed
			return nil
		}
		sess.step = StepSpaces

	case StepSpaces:
		opts, ok := matchMany(answer, spaceOptions(cat))
		if !ok {
			return invalidAnswer("elige espacios de la lista o responde \"ninguno\"")
		}
		req := sess.req
		req.AdditionalSpaces = make([]catalog.SpaceID, 0, len(opts))
		for _, opt := range opts {
			req.AdditionalSpaces = append(req.AdditionalSpaces, catalog.SpaceID(opt.ID))
		}
		q, err := pricing.Compute(req, cat)
		if err != nil {
			return fmt.Errorf("compute quote: %w", err)
		}
		sess.req = req
		sess.quote = &q
		sess.justComputed = true
		sess.step = StepConfirm

	case StepConfirm, StepDeclined:
		opt, ok := match(answer, yesNo)
		if !ok {
			return invalidAnswer("responde sí o no")
		}
		if opt.ID == "no" {
			sess.step = StepDeclined
			return nil
		}
		if err := pricing.Admit(*sess.quote); err != nil {
			return err
		}
		sess.step = StepConfirmed

	case StepConfirmed:
		return invalidAnswer("la cotización ya está lista para descargar")
	}
	return nil
}

func invalidAnswer(detail string) error {
	return fmt.Errorf("%w: %s", ErrInvalidAnswer, detail)
}

func bedOptions(cat *catalog.Catalog, primary bool) []Option {
	var out []Option
	for _, bed := range cat.BedTypes() {
		if (primary && !bed.Primary) || (!primary && !bed.Secondary) {
			continue
		}
		out = append(out, Option{
			ID:     string(bed.ID),
			Label:  money.Label(string(bed.ID)),
			Detail: money.FormatArea(decimal.NewFromFloat(bed.Area)),
		})
	}
	return out
}

func spaceOptions(cat *catalog.Catalog) []Option {
	spaces := cat.Spaces()
	out := make([]Option, 0, len(spaces))
	for _, space := range spaces {
		out = append(out, Option{
			ID:     string(space.ID),
			Label:  money.Label(string(space.ID)),
			Detail: money.FormatArea(decimal.NewFromFloat(space.Area)),
		})
	}
	return out
}
