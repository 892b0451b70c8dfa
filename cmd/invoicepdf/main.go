// Command invoicepdf renders invoice-like JSON records offline, through the
// same draft, layout and pdf pipeline the server uses.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/flexprice/invoicedoc/internal/cache"
	"github.com/flexprice/invoicedoc/internal/config"
	"github.com/flexprice/invoicedoc/internal/domain/record"
	"github.com/flexprice/invoicedoc/internal/draft"
	ierr "github.com/flexprice/invoicedoc/internal/errors"
	"github.com/flexprice/invoicedoc/internal/layout"
	"github.com/flexprice/invoicedoc/internal/logger"
	"github.com/flexprice/invoicedoc/internal/pdf"
	"github.com/flexprice/invoicedoc/internal/s3"
	"github.com/flexprice/invoicedoc/internal/service"
	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli/v2"
)

func init() {
	time.Local = time.UTC
}

func main() {
	if err := newApp(os.Stdout).RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "invoicepdf: %v\n", err)
		os.Exit(1)
	}
}

var (
	inputFlag = &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Usage:    "invoice record JSON file, - for stdin",
		Required: true,
	}
	nowFlag = &cli.StringFlag{
		Name:  "now",
		Usage: "clock override as YYYY-MM-DD",
	}
	defaultsFlag = &cli.BoolFlag{
		Name:  "defaults",
		Usage: "ignore config files and environment, use built-in defaults",
	}
)

func newApp(stdout io.Writer) *cli.App {
	return &cli.App{
		Name:      "invoicepdf",
		Usage:     "render staffing invoices from invoice-like JSON records",
		Writer:    stdout,
		ErrWriter: os.Stderr,
		Commands: []*cli.Command{
			{
				Name:  "render",
				Usage: "write <invoiceNumber>.pdf for a record",
				Flags: []cli.Flag{
					inputFlag,
					nowFlag,
					defaultsFlag,
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "output directory",
						Value:   ".",
					},
					&cli.BoolFlag{
						Name:  "archive",
						Usage: "also store the document in the configured archive",
					},
				},
				Action: renderAction,
			},
			{
				Name:   "draft",
				Usage:  "print the computed draft (period, line items, totals) as JSON",
				Flags:  []cli.Flag{inputFlag, nowFlag, defaultsFlag},
				Action: draftAction,
			},
		},
	}
}

type pipeline struct {
	cfg     *config.Configuration
	log     *logger.Logger
	service service.InvoiceDocumentService
}

func setup(c *cli.Context) (*pipeline, error) {
	cfg := config.GetDefaultConfig()
	if !c.Bool(defaultsFlag.Name) {
		var err error
		if cfg, err = config.NewConfig(); err != nil {
			return nil, err
		}
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	logger.L = log

	s3Service, err := s3.NewService(cfg)
	if err != nil {
		return nil, err
	}
	archive, err := pdf.NewArchive(cfg, s3Service, log)
	if err != nil {
		return nil, err
	}

	previews := pdf.NewPreviewStore(cache.NewInMemoryCache(cfg), cfg, log)
	targets := pdf.NewTargets(pdf.NewGenerator(log), previews, archive, log)
	params := service.NewServiceParams(log, cfg, draft.NewBuilder(cfg, log), layout.NewEngine(), targets)

	return &pipeline{cfg: cfg, log: log, service: service.NewInvoiceDocumentService(params)}, nil
}

func readRecord(c *cli.Context) (record.Record, service.RenderOptions, error) {
	var opts service.RenderOptions
	if now := c.String(nowFlag.Name); now != "" {
		t, err := time.Parse(time.DateOnly, now)
		if err != nil {
			return nil, opts, ierr.WithError(err).
				WithHint("--now must be a date like 2025-11-20").
				Mark(ierr.ErrValidation)
		}
		opts.Now = t
	}

	var (
		data []byte
		err  error
	)
	if path := c.String(inputFlag.Name); path == "-" {
		data, err = io.ReadAll(c.App.Reader)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, opts, ierr.WithError(err).
			WithHint("Failed to read the invoice record").
			Mark(ierr.ErrValidation)
	}

	rec, err := record.Parse(data)
	return rec, opts, err
}

func renderAction(c *cli.Context) error {
	rt, err := setup(c)
	if err != nil {
		return err
	}
	rec, opts, err := readRecord(c)
	if err != nil {
		return err
	}

	dl, err := rt.service.Download(c.Context, rec, opts)
	if err != nil {
		return err
	}

	dir := c.String("out")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, dl.Filename)
	if err := os.WriteFile(path, dl.Data, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, path)

	if c.Bool("archive") {
		location, err := rt.service.Archive(c.Context, dl)
		if err != nil {
			// the local file is already written
			return err
		}
		fmt.Fprintln(c.App.Writer, location)
	}
	return nil
}

func draftAction(c *cli.Context) error {
	rt, err := setup(c)
	if err != nil {
		return err
	}
	rec, opts, err := readRecord(c)
	if err != nil {
		return err
	}

	d, err := rt.service.BuildDraft(c.Context, rec, opts)
	if err != nil {
		return err
	}

	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(out))
	return err
}
