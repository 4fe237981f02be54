package core

import (
	"io"
)

// TemplateFileName is the download name for the sample file.
func TemplateFileName(f Format) string {
	return "plantilla_productos." + string(f)
}

// templateRows are the sample rows: a simple product, then a product with
// two variants.
var templateRows = []map[string]string{
	{
		ColName:           "Bicicleta Mountain Bike",
		ColSKU:            "MTB-001",
		ColBarcode:        "1234567890123",
		ColPublicPrice:    "299.99",
		ColWholesalePrice: "199.99",
		ColCategory:       "Bicicletas",
		ColBrand:          "Trek",
		ColHasVariants:    "NO",
		ColStock:          "10",
		ColMinStock:       "2",
		ColDescription:    "Bicicleta de montaña con suspensión delantera",
	},
	{
		ColName:           "Casco de Seguridad",
		ColSKU:            "CASCO-001",
		ColBarcode:        "1234567890124",
		ColPublicPrice:    "49.99",
		ColWholesalePrice: "29.99",
		ColCategory:       "Accesorios",
		ColBrand:          "Bell",
		ColHasVariants:    "SI",
		ColStock:          "0",
		ColMinStock:       "3",
		ColDescription:    "Casco de seguridad para ciclismo con ventilación",
	},
	{
		ColVariantName:           "Talla M",
		ColVariantSKU:            "CASCO-M",
		ColVariantBarcode:        "1234567890125",
		ColVariantPublicPrice:    "49.99",
		ColVariantWholesalePrice: "29.99",
		ColVariantStock:          "8",
		ColVariantMinStock:       "2",
	},
	{
		ColVariantName:           "Talla L",
		ColVariantSKU:            "CASCO-L",
		ColVariantBarcode:        "1234567890126",
		ColVariantPublicPrice:    "54.99",
		ColVariantWholesalePrice: "34.99",
		ColVariantStock:          "7",
		ColVariantMinStock:       "1",
	},
}

// columnHelp describes each column on the workbook instructions sheet.
var columnHelp = map[string]string{
	ColName:                  "Nombre del producto. Requerido en filas de producto; vacío en filas de variante",
	ColSKU:                   "Código interno del producto. Se usa para encontrar productos existentes",
	ColBarcode:               "Código de barras. Tiene prioridad sobre el SKU al buscar productos",
	ColPublicPrice:           "Precio al público",
	ColWholesalePrice:        "Precio puesto (mayoreo). El costo se estima como el 80% de este precio",
	ColCategory:              "Categoría",
	ColBrand:                 "Marca",
	ColHasVariants:           "SI si el producto tiene variantes. Las filas de variante debajo del producto también lo activan",
	ColVariantName:           "Nombre de la variante (por ejemplo Talla M). Deja vacío el nombre del producto",
	ColVariantSKU:            "SKU de la variante",
	ColVariantBarcode:        "Código de barras de la variante",
	ColVariantPublicPrice:    "Precio al público de la variante",
	ColVariantWholesalePrice: "Precio puesto de la variante",
	ColVariantStock:          "Existencia de la variante",
	ColVariantMinStock:       "Existencia mínima de la variante",
	ColStock:                 "Existencia. Se guarda en 0 si el producto tiene variantes",
	ColMinStock:              "Existencia mínima",
	ColDescription:           "Descripción",
}

const instructionsSheet = "Instrucciones"

// templateGrid is the header plus the sample rows.
func templateGrid() [][]string {
	grid := [][]string{append([]string(nil), CatalogColumns...)}
	for _, cells := range templateRows {
		grid = append(grid, gridRow(cells))
	}
	return grid
}

func instructionsGrid() [][]string {
	grid := [][]string{{"Columna", "Descripción"}}
	for _, col := range CatalogColumns {
		grid = append(grid, []string{col, columnHelp[col]})
	}
	return grid
}

// WriteTemplate writes the sample catalog file. The workbook form adds an
// instructions sheet.
func WriteTemplate(w io.Writer, format Format) error {
	if format == FormatXLSX {
		return writeWorkbook(w, []sheet{
			{name: productsSheet, rows: templateGrid()},
			{name: instructionsSheet, rows: instructionsGrid()},
		})
	}
	return writeCSV(w, templateGrid())
}
