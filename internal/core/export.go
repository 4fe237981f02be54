package core

// export.go writes the catalog back out in the import layout: each
// product row is followed by its variant rows, product-only cells blank on
// variant rows and variant cells blank on product rows.

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a query or flag value onto a format. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// ContentType returns the MIME type for HTTP downloads.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// ExportFileName names an export taken at t, e.g. productos_2024-05-01.csv.
func ExportFileName(f Format, t time.Time) string {
	return fmt.Sprintf("productos_%s.%s", t.Format("2006-01-02"), f)
}

const productsSheet = "Productos"

// ExportCatalog writes every active product and variant to w.
func ExportCatalog(ctx context.Context, catalog CatalogReader, w io.Writer, format Format) error {
	grid, err := catalogGrid(ctx, catalog)
	if err != nil {
		return err
	}
	switch format {
	case FormatXLSX:
		return writeWorkbook(w, []sheet{{name: productsSheet, rows: grid}})
	default:
		return writeCSV(w, grid)
	}
}

// catalogGrid builds the header plus one row per product and variant.
func catalogGrid(ctx context.Context, catalog CatalogReader) ([][]string, error) {
	products, err := catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	variants, err := catalog.ListVariants(ctx)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[uuid.UUID][]Variant)
	for _, v := range variants {
		byProduct[v.ProductID] = append(byProduct[v.ProductID], v)
	}

	grid := make([][]string, 0, 1+len(products)+len(variants))
	grid = append(grid, append([]string(nil), CatalogColumns...))

	for _, p := range products {
		children := byProduct[p.ID]
		grid = append(grid, gridRow(productCells(p, len(children) > 0)))
		for _, v := range children {
			grid = append(grid, gridRow(variantCells(v)))
		}
	}
	return grid, nil
}

func productCells(p Product, hasVariants bool) map[string]string {
	return map[string]string{
		ColName:           p.Name,
		ColSKU:            p.SKU,
		ColBarcode:        p.Barcode,
		ColPublicPrice:    formatMoney(p.PublicPrice),
		ColWholesalePrice: formatMoney(p.WholesalePrice),
		ColCategory:       p.Category,
		ColBrand:          p.Brand,
		ColHasVariants:    yesNo(hasVariants),
		ColStock:          strconv.Itoa(p.StockQuantity),
		ColMinStock:       strconv.Itoa(p.MinStock),
		ColDescription:    p.Description,
	}
}

func variantCells(v Variant) map[string]string {
	return map[string]string{
		ColVariantName:           v.Name,
		ColVariantSKU:            v.SKU,
		ColVariantBarcode:        v.Barcode,
		ColVariantPublicPrice:    formatMoney(v.PublicPrice),
		ColVariantWholesalePrice: formatMoney(v.WholesalePrice),
		ColVariantStock:          strconv.Itoa(v.StockQuantity),
		ColVariantMinStock:       strconv.Itoa(v.MinStock),
	}
}

// gridRow lays cells out in CatalogColumns order.
func gridRow(cells map[string]string) []string {
	row := make([]string, len(CatalogColumns))
	for i, col := range CatalogColumns {
		row[i] = cells[col]
	}
	return row
}

// writeCSV writes grid as UTF-8 CSV with a leading BOM so spreadsheet
// programs detect the encoding.
func writeCSV(w io.Writer, grid [][]string) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(grid); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

type sheet struct {
	name string
	rows [][]string
}

// writeWorkbook writes sheets to a new workbook; the first sheet is active
// and gets a bold header row.
func writeWorkbook(w io.Writer, sheets []sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return fmt.Errorf("write xlsx: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}

		for r, row := range sh.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return fmt.Errorf("write xlsx: %w", err)
			}
			values := make([]interface{}, len(row))
			for c, v := range row {
				values[c] = v
			}
			if err := f.SetSheetRow(sh.name, cell, &values); err != nil {
				return fmt.Errorf("write xlsx: %w", err)
			}
		}

		if len(sh.rows) > 0 && len(sh.rows[0]) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(sh.rows[0]), 1)
			if err := f.SetCellStyle(sh.name, "A1", last, headerStyle); err != nil {
				return fmt.Errorf("write xlsx: %w", err)
			}
			lastCol, _ := excelize.ColumnNumberToName(len(sh.rows[0]))
			if err := f.SetColWidth(sh.name, "A", lastCol, 20); err != nil {
				return fmt.Errorf("write xlsx: %w", err)
			}
		}
	}

	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
