// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the crosswalk stages in order: acquire, extract,
// clean, then write to the spreadsheet and the store.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/pdiddy/crosswalk/internal/acquire"
	"github.com/pdiddy/crosswalk/internal/clean"
	"github.com/pdiddy/crosswalk/internal/extract"
	"github.com/pdiddy/crosswalk/internal/logging"
	"github.com/pdiddy/crosswalk/internal/secrets"
	"github.com/pdiddy/crosswalk/internal/spreadsheet"
	"github.com/pdiddy/crosswalk/internal/store"
	"github.com/pdiddy/crosswalk/pkg/types"
)

// Store is the session the cleaned table is published through.
type Store interface {
	WriteTable(ctx context.Context, library, table string, rows []types.CrosswalkRow) error
	Verify(ctx context.Context, library, table string) error
	Log() string
	Close() error
}

// Pipeline holds the collaborators of one run. New wires the production
// ones; tests replace individual fields.
type Pipeline struct {
	Fetch     func(ctx context.Context, cfg types.SourceConfig, w io.Writer) (string, error)
	Extractor extract.Extractor
	Cleaner   *clean.Cleaner
	OpenStore func(ctx context.Context, cfg types.StoreConfig) (Store, error)
	Out       io.Writer
	Logger    *slog.Logger
}

// RunOptions select which destinations Run writes.
type RunOptions struct {
	SkipSpreadsheet bool
	SkipStore       bool
}

// Result carries every intermediate product of a run.
type Result struct {
	RunID   string
	PDFPath string
	Raw     types.RawTable
	Rows    []types.CrosswalkRow
	Report  clean.Report
}

// New returns a Pipeline that downloads with client, extracts with the PDF
// extractor configured by cfg, and opens stores from connection profiles.
func New(client *http.Client, cfg types.ExtractConfig, out io.Writer, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		Fetch: func(ctx context.Context, src types.SourceConfig, w io.Writer) (string, error) {
			path, _, err := acquire.Fetch(ctx, client, src, w)
			return path, err
		},
		Extractor: extract.NewPDFExtractor(cfg),
		Cleaner:   clean.New(),
		OpenStore: OpenProfile,
		Out:       out,
		Logger:    logger,
	}
}

// OpenProfile opens a store session from the profile named in cfg.
func OpenProfile(ctx context.Context, cfg types.StoreConfig) (Store, error) {
	return OpenSession(ctx, cfg)
}

// OpenSession loads the profile named in cfg, resolves secret references
// in its DSN from cfg.SecretsDir and opens a session on it.
func OpenSession(ctx context.Context, cfg types.StoreConfig) (*store.Session, error) {
	p, err := store.LoadProfile(cfg.ProfilesFile, cfg.Profile)
	if err != nil {
		return nil, err
	}
	sec, err := secrets.Load(cfg.SecretsDir)
	if err != nil {
		return nil, err
	}
	if p.DSN, err = secrets.Expand(p.DSN, sec); err != nil {
		return nil, fmt.Errorf("profile %q: %w", p.Name, err)
	}
	return store.Open(ctx, p)
}

// Prepare acquires the PDF, extracts the configured pages and cleans the
// records. Nothing is written.
func (p *Pipeline) Prepare(ctx context.Context, cfg types.PipelineConfig) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	log := logging.WithRun(p.logger(), res.RunID)

	pdfPath, err := p.Fetch(ctx, cfg.Source, p.Out)
	if err != nil {
		return res, err
	}
	res.PDFPath = pdfPath
	log.Info("source ready", "path", pdfPath, "url", cfg.Source.URL)

	raw, err := p.Extractor.Extract(ctx, pdfPath, cfg.Extract.Pages)
	if err != nil {
		return res, err
	}
	res.Raw = raw
	fmt.Fprintf(p.Out, "extracted: %d records from pages %v\n", len(raw.Rows), cfg.Extract.Pages)

	res.Rows, res.Report = p.Cleaner.Clean(raw.Rows)
	log.Info("cleaned",
		"input", res.Report.Input,
		"output", res.Report.Output,
		"padded", res.Report.Padded,
		"dropped", res.Report.Dropped,
		"relabeled", res.Report.Relabeled,
		"unwrapped", res.Report.Unwrapped,
		"split", res.Report.Split,
	)
	if !res.Report.Split {
		log.Warn("compound code row not found", "code", "32,33")
	}
	return res, nil
}

// Run prepares the table and writes it to the selected destinations. The
// spreadsheet gets the extracted records; the store gets the cleaned rows.
func (p *Pipeline) Run(ctx context.Context, cfg types.PipelineConfig, opts RunOptions) (Result, error) {
	res, err := p.Prepare(ctx, cfg)
	if err != nil {
		return res, err
	}
	log := logging.WithRun(p.logger(), res.RunID)

	if !opts.SkipSpreadsheet {
		if err := spreadsheet.Write(cfg.Spreadsheet, res.Raw); err != nil {
			return res, err
		}
		fmt.Fprintf(p.Out, "wrote: %s (sheet %s)\n", cfg.Spreadsheet.Path, cfg.Spreadsheet.Sheet)
		log.Info("spreadsheet written", "path", cfg.Spreadsheet.Path, "rows", len(res.Raw.Rows))
	}

	if opts.SkipStore {
		return res, nil
	}

	st, err := p.OpenStore(ctx, cfg.Store)
	if err != nil {
		return res, fmt.Errorf("opening store profile %q: %w", cfg.Store.Profile, err)
	}
	if err := Publish(ctx, st, cfg.Store, res.Rows, p.Out); err != nil {
		return res, err
	}
	log.Info("table published", "library", cfg.Store.Library, "table", cfg.Store.Table, "rows", len(res.Rows))
	return res, nil
}

// Publish writes rows through st and waits for the success marker. The
// wait is skipped when the write itself fails. On every path the session
// log is copied to out and the session is closed.
func Publish(ctx context.Context, st Store, cfg types.StoreConfig, rows []types.CrosswalkRow, out io.Writer) (err error) {
	defer func() {
		fmt.Fprint(out, st.Log())
		if closeErr := st.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("closing store session: %w", closeErr))
		}
	}()

	if err := st.WriteTable(ctx, cfg.Library, cfg.Table, rows); err != nil {
		return err
	}
	return store.Confirm(ctx, st, cfg.Library, cfg.Table, store.ConfirmOptions{
		Marker:   cfg.Marker,
		Interval: cfg.PollInterval,
		Timeout:  cfg.ConfirmTimeout,
	})
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
