package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/pos/internal/config"
	"github.com/JonMunkholm/pos/internal/core"
	db "github.com/JonMunkholm/pos/internal/database"
)

func newExportCmd() *cobra.Command {
	var out, format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog in the import layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := core.ParseFormat(format)
			if err != nil {
				return withCode(exitUsage, err)
			}
			if out == "" {
				out = core.ExportFileName(f, time.Now())
			}

			cfg, err := config.Load()
			if err != nil {
				return withCode(exitUsage, err)
			}
			pool, err := db.Open(cmd.Context(), cfg.Database)
			if err != nil {
				return withCode(exitDB, err)
			}
			defer pool.Close()

			catalog := core.NewPostgresCatalog(pool)
			if err := writeOut(out, func(w io.Writer) error {
				return core.ExportCatalog(cmd.Context(), catalog, w, f)
			}); err != nil {
				return withCode(exitDB, err)
			}
			if out != "-" {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output file (default: productos_<date>.<format>)")
	cmd.Flags().StringVar(&format, "format", "csv", "File format: csv or xlsx")
	return cmd
}

func newTemplateCmd() *cobra.Command {
	var out, format string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the sample import file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := core.ParseFormat(format)
			if err != nil {
				return withCode(exitUsage, err)
			}
			if out == "" {
				out = core.TemplateFileName(f)
			}
			if err := writeOut(out, func(w io.Writer) error {
				return core.WriteTemplate(w, f)
			}); err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output file (default: plantilla_productos.<format>)")
	cmd.Flags().StringVar(&format, "format", "csv", "File format: csv or xlsx")
	return cmd
}

// writeOut writes to path, or to stdout when path is "-". A partial file
// is removed on error.
func writeOut(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	err = write(bw)
	if err == nil {
		err = bw.Flush()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
	}
	return err
}
