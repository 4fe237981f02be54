package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/pos/internal/config"
	"github.com/JonMunkholm/pos/internal/core"
	db "github.com/JonMunkholm/pos/internal/database"
)

type importOptions struct {
	file    string
	dryRun  bool
	workers int
	policy  string
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a catalog file (CSV or XLSX)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "Catalog file to import (required)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Parse and validate only; nothing is written")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Concurrent product groups (default: IMPORT_WORKERS)")
	cmd.Flags().StringVar(&opts.policy, "policy", "", "Identity policy: lenient or strict (default: IMPORT_IDENTITY_POLICY)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runImport(ctx context.Context, out io.Writer, opts importOptions) error {
	if opts.workers < 0 {
		return withCode(exitUsage, errors.New("--workers must be positive"))
	}

	f, err := os.Open(opts.file)
	if err != nil {
		return withCode(exitUsage, err)
	}
	defer f.Close()
	name := filepath.Base(opts.file)

	if opts.dryRun {
		return dryRun(ctx, out, name, f, opts)
	}

	cfg, err := config.Load()
	if err != nil {
		return withCode(exitUsage, err)
	}
	if opts.workers == 0 {
		opts.workers = cfg.Import.Workers
	}
	if opts.policy == "" {
		opts.policy = cfg.Import.IdentityPolicy
	}
	policy, err := core.ParseIdentityPolicy(opts.policy)
	if err != nil {
		return withCode(exitUsage, err)
	}

	pool, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return withCode(exitDB, err)
	}
	defer pool.Close()

	importer := core.NewImporter(core.NewPostgresCatalog(pool), nil, core.ImporterOptions{
		Workers: opts.workers,
		Policy:  policy,
		Timeout: cfg.Import.Timeout,
	})

	ctx = core.ContextWithClient(ctx, "", "posctl")
	result, err := importer.Import(ctx, name, f)
	if err != nil {
		return withCode(importErrorCode(err), err)
	}
	if err := printJSON(out, result); err != nil {
		return err
	}

	switch {
	case result.Aborted:
		return withCode(exitValidation, core.ErrValidationFailed)
	case len(result.Errors) > 0:
		return withCode(exitDB, fmt.Errorf("%d of %d product groups failed", result.Groups-result.Success, result.Groups))
	}
	return nil
}

// importErrorCode classifies an error that stopped an import before any
// group ran. File problems are validation failures.
func importErrorCode(err error) int {
	switch {
	case errors.Is(err, core.ErrTooManyImports),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return exitFailure
	case strings.HasPrefix(core.MapError(err).Code, "DB"):
		return exitDB
	}
	return exitValidation
}

// dryRun previews the file without a database. Invalid rows exit with
// the validation code.
func dryRun(ctx context.Context, out io.Writer, name string, r io.Reader, opts importOptions) error {
	policy, err := core.ParseIdentityPolicy(opts.policy)
	if err != nil {
		return withCode(exitUsage, err)
	}

	importer := core.NewImporter(core.NewMemoryCatalog(), nil, core.ImporterOptions{
		Workers: opts.workers,
		Policy:  policy,
	})
	preview, err := importer.Preview(ctx, name, r)
	if err != nil {
		return withCode(exitValidation, err)
	}
	if err := printJSON(out, preview); err != nil {
		return err
	}
	if !preview.Valid {
		return withCode(exitValidation, core.ErrValidationFailed)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
