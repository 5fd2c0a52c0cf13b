// Package document turns a computed quote into a downloadable PDF.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/ehc32/Cotizador-V1/internal/pricing"
)

const (
	ContentTypePDF = "application/pdf"
	DefaultPrefix  = "quote"
)

var (
	ErrIncompleteData = errors.New("incomplete quote data")
	ErrRender         = errors.New("document rendering failed")
)

// Renderer writes one PDF layout for a quote.
type Renderer interface {
	Name() string
	Render(w io.Writer, q pricing.Quote, meta Meta) error
}

// Mode selects which renderers a Generator uses.
type Mode string

const (
	ModeTable  Mode = "table"
	ModeSimple Mode = "simple"
	ModeAuto   Mode = "auto"
)

func ParseMode(raw string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(raw))); m {
	case "":
		return ModeAuto, nil
	case ModeTable, ModeSimple, ModeAuto:
		return m, nil
	default:
		return "", fmt.Errorf("unsupported document renderer %q", raw)
	}
}

type Options struct {
	Mode   Mode
	Prefix string
	Logger *zap.Logger
}

// Document is a rendered quote ready to be served or written to disk.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
	Renderer    string
}

// Generator validates quotes and renders them with the first renderer that
// succeeds.
type Generator struct {
	renderers []Renderer
	prefix    string
	logger    *zap.Logger
}

// NewGenerator prepares the renderers for the requested mode. In auto mode
// the table renderer is probed with a sample quote and dropped if it fails.
func NewGenerator(opts Options) (*Generator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if !validPrefix(prefix) {
		return nil, fmt.Errorf("invalid document prefix %q", prefix)
	}

	mode := opts.Mode
	if mode == "" {
		mode = ModeAuto
	}

	tr, err := newTranslator()
	if err != nil {
		return nil, err
	}
	table := &TableRenderer{tr: tr}
	simple := &SimpleRenderer{tr: tr}

	g := &Generator{prefix: prefix, logger: logger}
	switch mode {
	case ModeTable:
		g.renderers = []Renderer{table}
	case ModeSimple:
		g.renderers = []Renderer{simple}
	case ModeAuto:
		if err := probe(table); err != nil {
			logger.Warn("table renderer unavailable, using simple renderer",
				zap.String("op", "document.NewGenerator"),
				zap.Error(err),
			)
			g.renderers = []Renderer{simple}
		} else {
			g.renderers = []Renderer{table, simple}
		}
	default:
		return nil, fmt.Errorf("unsupported document renderer %q", mode)
	}

	return g, nil
}

// Renderers lists the renderer names in the order they are tried.
func (g *Generator) Renderers() []string {
	names := make([]string, 0, len(g.renderers))
	for _, r := range g.renderers {
		names = append(names, r.Name())
	}
	return names
}

// Generate validates q and renders it. Validation failures return
// ErrIncompleteData; when every renderer fails the error wraps ErrRender and
// the same quote can be submitted again.
func (g *Generator) Generate(q pricing.Quote, asOf time.Time) (Document, error) {
	if err := Validate(q); err != nil {
		return Document{}, err
	}

	meta := Meta{AsOf: asOf}
	var errs []error
	for _, r := range g.renderers {
		var buf bytes.Buffer
		if err := r.Render(&buf, q, meta); err != nil {
			g.logger.Warn("renderer failed",
				zap.String("op", "document.Generate"),
				zap.String("renderer", r.Name()),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
			continue
		}
		return Document{
			Filename:    Filename(g.prefix, asOf),
			ContentType: ContentTypePDF,
			Data:        buf.Bytes(),
			Renderer:    r.Name(),
		}, nil
	}

	return Document{}, fmt.Errorf("%w: %w", ErrRender, errors.Join(errs...))
}

// Validate rejects quotes missing a mandatory section or with a non-positive
// total area.
func Validate(q pricing.Quote) error {
	if section := q.MissingSection(); section != "" {
		return fmt.Errorf("%w: %s", ErrIncompleteData, section)
	}
	return nil
}

// Filename is "<prefix>-<YYYY-MM-DD>.pdf".
func Filename(prefix string, asOf time.Time) string {
	return fmt.Sprintf("%s-%s.pdf", prefix, asOf.Format("2006-01-02"))
}

func validPrefix(prefix string) bool {
	for _, r := range prefix {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return prefix != ""
}

func newTranslator() (func(string) string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("load cp1252 translator: %w", err)
	}
	return tr, nil
}

func probe(r Renderer) error {
	return r.Render(io.Discard, sampleQuote(), Meta{AsOf: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
}

func sampleQuote() pricing.Quote {
	return pricing.Quote{
		ClientInfo: pricing.ClientInfo{HasLotStatus: pricing.LotOwned, HasLot: pricing.LotOwned.Label()},
		Summary: pricing.Summary{
			TotalArea:       71.5,
			BaseArea:        53.5,
			PrimaryRoomArea: 18,
			PrimaryBedType:  "queen",
			PrimaryBedLabel: "Queen",
		},
		Costs: pricing.Costs{
			DesignAmount:       1787500,
			ConstructionAmount: 60775000,
			TotalAmount:        62562500,
			Design:             "$\u00a01.787.500",
			Construction:       "$\u00a060.775.000",
			Total:              "$\u00a062.562.500",
		},
		RatesPerArea: pricing.Rates{Design: "$\u00a025.000", Construction: "$\u00a0850.000"},
	}
}
