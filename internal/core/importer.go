package core

// importer.go runs one catalog import end to end:
//
//  1. Acquire a slot from the ImportLimiter
//  2. Parse the file (CSV after BOM strip and UTF-8 cleanup, or XLSX)
//  3. Validate every row; any error aborts with zero writes
//  4. Group variants under their product
//  5. Reconcile groups against the catalog
//  6. Store the report
//
// Fatal problems (unreadable file, missing name column, busy limiter) are
// returned as errors. Row validation failures are not errors: the result
// comes back with Aborted set and every RowError listed.

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/pos/internal/logging"
	"github.com/google/uuid"
)

// DefaultImportTimeout bounds a single import.
const DefaultImportTimeout = 10 * time.Minute

// ImporterOptions configures an Importer. Zero values select defaults.
type ImporterOptions struct {
	Workers       int
	Policy        IdentityPolicy
	MaxConcurrent int
	MaxWait       time.Duration
	Timeout       time.Duration
}

// Importer is the entry point for catalog imports and previews.
type Importer struct {
	store     CatalogStore
	reports   ReportStore
	limiter   *ImportLimiter
	validator *RowValidator
	workers   int
	timeout   time.Duration
}

// NewImporter creates an importer. A nil reports store keeps reports in
// memory for DefaultReportTTL.
func NewImporter(store CatalogStore, reports ReportStore, opts ImporterOptions) *Importer {
	if reports == nil {
		reports = NewMemoryReportStore(DefaultReportTTL)
	}
	if opts.Workers < 1 {
		opts.Workers = DefaultWorkers
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultImportTimeout
	}

	return &Importer{
		store:     store,
		reports:   reports,
		limiter:   NewImportLimiter(opts.MaxConcurrent, opts.MaxWait),
		validator: NewRowValidator(opts.Policy),
		workers:   opts.Workers,
		timeout:   opts.Timeout,
	}
}

// Import reads a catalog file and reconciles it against the store.
func (im *Importer) Import(ctx context.Context, fileName string, r io.Reader) (*ImportResult, error) {
	if err := im.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer im.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, im.timeout)
	defer cancel()

	client := ClientFromContext(ctx)
	result := &ImportResult{
		ID:        uuid.New().String(),
		FileName:  fileName,
		Warnings:  []string{},
		Errors:    []string{},
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
		StartedAt: time.Now(),
	}

	logger := logging.WithFields(ctx,
		"import_id", result.ID,
		"file", fileName,
	)
	logger.Info("import started")

	parsed, bytesRead, err := parseUpload(fileName, r)
	if err != nil {
		logger.Warn("import rejected", "error", err)
		return nil, err
	}
	if err := ValidateHeaders(parsed); err != nil {
		logger.Warn("import rejected", "error", err)
		return nil, err
	}
	result.BytesRead = bytesRead
	result.Dropped = parsed.Dropped
	result.Warnings = append(result.Warnings, droppedWarnings(parsed.Dropped)...)

	if rowErrs := im.validator.ValidateRows(parsed.Rows); len(rowErrs) > 0 {
		result.Aborted = true
		result.Validation = rowErrs
		for _, e := range rowErrs {
			result.Errors = append(result.Errors, e.Error())
		}
		im.finish(ctx, logger, result)
		return result, nil
	}

	groups, orphans := GroupRows(parsed.Rows)
	result.Groups = len(groups)
	result.Orphans = len(orphans)
	result.Warnings = append(result.Warnings, orphanWarnings(orphans)...)

	reconciler := NewReconciler(im.store, im.workers, logger)
	Apply(result, reconciler.Reconcile(ctx, groups))

	im.finish(ctx, logger, result)
	return result, nil
}

// finish stamps the result, stores the report and logs the summary. A
// report that cannot be stored is logged; the import itself already ran.
func (im *Importer) finish(ctx context.Context, logger *slog.Logger, result *ImportResult) {
	result.FinishedAt = time.Now()

	// Store with a fresh deadline so a timed-out import still leaves a report.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := im.reports.Save(saveCtx, result); err != nil {
		logger.Error("failed to store import report", "error", err)
	}

	logger.Info("import finished",
		"aborted", result.Aborted,
		"groups", result.Groups,
		"success", result.Success,
		"errors", len(result.Errors),
		"products_created", result.ProductsCreated,
		"products_updated", result.ProductsUpdated,
		"variants_created", result.VariantsCreated,
		"variants_updated", result.VariantsUpdated,
		"duration", result.FinishedAt.Sub(result.StartedAt),
	)
}

// Preview parses, validates and groups a file without touching the store.
func (im *Importer) Preview(ctx context.Context, fileName string, r io.Reader) (*Preview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parsed, _, err := parseUpload(fileName, r)
	if err != nil {
		return nil, err
	}
	if err := ValidateHeaders(parsed); err != nil {
		return nil, err
	}

	rowErrs := im.validator.ValidateRows(parsed.Rows)
	groups, orphans := GroupRows(parsed.Rows)

	preview := &Preview{
		FileName:   fileName,
		Columns:    parsed.Columns,
		Rows:       len(parsed.Rows),
		Products:   len(groups),
		Orphans:    len(orphans),
		Dropped:    parsed.Dropped,
		Validation: rowErrs,
		Valid:      len(rowErrs) == 0,
		Groups:     make([]GroupSummary, len(groups)),
	}
	for i, g := range groups {
		preview.Variants += len(g.Variants)
		preview.Groups[i] = GroupSummary{
			Line:     g.Product.Line,
			Name:     g.Product.Get(ColName),
			SKU:      g.Product.Get(ColSKU),
			Barcode:  g.Product.Get(ColBarcode),
			Variants: len(g.Variants),
		}
	}
	return preview, nil
}

// Report returns a stored import result.
func (im *Importer) Report(ctx context.Context, id string) (*ImportResult, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrReportNotFound
	}
	return im.reports.Get(ctx, id)
}

// WaitForImports blocks until running imports finish or ctx is done.
func (im *Importer) WaitForImports(ctx context.Context) error {
	return im.limiter.WaitForDrain(ctx)
}

// LimiterStatus reports import slot usage.
func (im *Importer) LimiterStatus() ImportLimiterStatus {
	return im.limiter.Status()
}

// parseUpload picks the parser from the file extension: .xlsx files are
// read as workbooks, anything else as CSV.
func parseUpload(fileName string, r io.Reader) (*ParsedFile, int64, error) {
	if strings.EqualFold(filepath.Ext(fileName), ".xlsx") {
		counter := &CountingReader{reader: r}
		parsed, err := ParseWorkbook(counter)
		return parsed, counter.BytesRead, err
	}

	reader := NewImportReader(r)
	parsed, err := ParseCatalog(reader)
	return parsed, reader.BytesRead, err
}

func droppedWarnings(dropped []DroppedRow) []string {
	out := make([]string, len(dropped))
	for i, d := range dropped {
		out[i] = fmt.Sprintf("Fila %d: número de columnas incorrecto (esperadas %d, encontradas %d), ignorada",
			d.Line, d.Expected, d.Actual)
	}
	return out
}

func orphanWarnings(orphans []Row) []string {
	out := make([]string, len(orphans))
	for i, row := range orphans {
		out[i] = fmt.Sprintf("Fila %d: variante %q sin producto, ignorada", row.Line, row.Get(ColVariantName))
	}
	return out
}
