package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ehc32/Cotizador-V1/internal/document"
	"github.com/ehc32/Cotizador-V1/internal/pricing"
)

type quoteOptions struct {
	requestFile string
	pdfPath     string
	format      string
	asOf        string
	renderer    string
}

func newQuoteCmd(a *app) *cobra.Command {
	opts := &quoteOptions{}
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute a quote from a request file",
		Long: `Compute a design and construction quote from a JSON or YAML request.

Examples:
  cotizador quote -r request.yaml
  cotizador quote -r request.json --format json
  cotizador quote -r request.yaml --pdf cotizacion.pdf --as-of 2026-03-14`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd, a, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.requestFile, "request", "r", "", "request file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&opts.pdfPath, "pdf", "", "write the quote as PDF to this file or directory")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format (text, json)")
	cmd.Flags().StringVar(&opts.asOf, "as-of", "", "document date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&opts.renderer, "renderer", "", "PDF renderer (table, simple, auto); overrides DOCUMENT_RENDERER")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}

func runQuote(cmd *cobra.Command, a *app, opts *quoteOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unsupported format %q", opts.format)
	}

	asOf := time.Now()
	if opts.asOf != "" {
		parsed, err := time.Parse("2006-01-02", opts.asOf)
		if err != nil {
			return fmt.Errorf("invalid --as-of: %w", err)
		}
		asOf = parsed
	}

	req, err := readRequest(opts.requestFile)
	if err != nil {
		return err
	}
	cat, err := a.catalog()
	if err != nil {
		return err
	}

	q, err := pricing.Compute(req, cat)
	if err != nil {
		return fmt.Errorf("compute quote: %w", err)
	}
	a.logger.Debug("quote computed",
		zap.String("op", "cli.quote"),
		zap.Float64("total_area", q.Summary.TotalArea),
		zap.Int64("total_amount", q.Costs.TotalAmount),
	)

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(q); err != nil {
			return fmt.Errorf("encode quote: %w", err)
		}
	} else {
		printQuote(out, q)
	}

	if opts.pdfPath == "" {
		return nil
	}
	return writePDF(cmd, a, opts, q, asOf)
}

// readRequest decodes a request file. JSON is chosen by extension; anything
// else is parsed as YAML.
func readRequest(path string) (pricing.Request, error) {
	var req pricing.Request
	raw, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read request: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return req, fmt.Errorf("decode request %s: %w", path, err)
		}
		return req, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("decode request %s: %w", path, err)
	}
	return req, nil
}

func printQuote(w io.Writer, q pricing.Quote) {
	fmt.Fprintf(w, "Lote: %s\n\n", q.ClientInfo.HasLot)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, line := range q.DetailedBreakdown {
		fmt.Fprintf(tw, "%s\t%s\n", line.Label, line.Value)
	}
	fmt.Fprintln(tw, "\t")
	fmt.Fprintf(tw, "Diseño arquitectónico (%s/m²)\t%s\n", q.RatesPerArea.Design, q.Costs.Design)
	fmt.Fprintf(tw, "Construcción (%s/m²)\t%s\n", q.RatesPerArea.Construction, q.Costs.Construction)
	fmt.Fprintf(tw, "Total\t%s\n", q.Costs.Total)
	_ = tw.Flush()
}

func writePDF(cmd *cobra.Command, a *app, opts *quoteOptions, q pricing.Quote, asOf time.Time) error {
	rawMode := a.cfg.DocumentRenderer
	if opts.renderer != "" {
		rawMode = opts.renderer
	}
	mode, err := document.ParseMode(rawMode)
	if err != nil {
		return err
	}
	gen, err := document.NewGenerator(document.Options{Mode: mode, Prefix: a.cfg.DocumentPrefix, Logger: a.logger})
	if err != nil {
		return err
	}

	doc, err := gen.Generate(q, asOf)
	if err != nil {
		return fmt.Errorf("generate pdf: %w", err)
	}

	path := opts.pdfPath
	if info, err := os.Stat(path); (err == nil && info.IsDir()) || strings.HasSuffix(path, string(os.PathSeparator)) {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		path = filepath.Join(path, doc.Filename)
	}
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "PDF (%s) escrito en %s\n", doc.Renderer, path)
	return nil
}
