package core

import "strings"

// Canonical catalog file columns. Export and template files use exactly
// this order.
const (
	ColName                  = "nombre"
	ColSKU                   = "sku"
	ColBarcode               = "codigo_barras"
	ColPublicPrice           = "precio_publico"
	ColWholesalePrice        = "precio_puesto"
	ColCategory              = "categoria"
	ColBrand                 = "marca"
	ColHasVariants           = "tiene_variantes"
	ColVariantName           = "variante_nombre"
	ColVariantSKU            = "variante_sku"
	ColVariantBarcode        = "variante_codigo_barras"
	ColVariantPublicPrice    = "variante_precio_publico"
	ColVariantWholesalePrice = "variante_precio_puesto"
	ColVariantStock          = "variante_stock"
	ColVariantMinStock       = "variante_stock_minimo"
	ColStock                 = "stock"
	ColMinStock              = "stock_minimo"
	ColDescription           = "descripcion"
)

// CatalogColumns lists the canonical header in file order.
var CatalogColumns = []string{
	ColName,
	ColSKU,
	ColBarcode,
	ColPublicPrice,
	ColWholesalePrice,
	ColCategory,
	ColBrand,
	ColHasVariants,
	ColVariantName,
	ColVariantSKU,
	ColVariantBarcode,
	ColVariantPublicPrice,
	ColVariantWholesalePrice,
	ColVariantStock,
	ColVariantMinStock,
	ColStock,
	ColMinStock,
	ColDescription,
}

// columnAliases maps accepted header spellings onto canonical names.
// Keys are already normalised by normalizeHeader.
var columnAliases = map[string]string{
	"name":                    ColName,
	"product_name":            ColName,
	"barcode":                 ColBarcode,
	"codigo_de_barras":        ColBarcode,
	"public_price":            ColPublicPrice,
	"price":                   ColPublicPrice,
	"precio":                  ColPublicPrice,
	"wholesale_price":         ColWholesalePrice,
	"category":                ColCategory,
	"brand":                   ColBrand,
	"has_variants":            ColHasVariants,
	"variant_name":            ColVariantName,
	"variant_sku":             ColVariantSKU,
	"variant_barcode":         ColVariantBarcode,
	"variant_public_price":    ColVariantPublicPrice,
	"variant_wholesale_price": ColVariantWholesalePrice,
	"variant_stock":           ColVariantStock,
	"variant_min_stock":       ColVariantMinStock,
	"min_stock":               ColMinStock,
	"description":             ColDescription,
}

// CanonicalColumn maps a raw header cell onto its canonical column name.
// Headers that match no known column are returned normalised, so they are
// carried through the row map but never read.
func CanonicalColumn(header string) string {
	key := normalizeHeader(header)
	if alias, ok := columnAliases[key]; ok {
		return alias
	}
	return key
}

// normalizeHeader lowercases, strips accents and joins words with
// underscores: "Código Barras" becomes "codigo_barras".
func normalizeHeader(h string) string {
	h = strings.ToLower(foldAccents(CleanCell(h)))
	h = strings.Join(strings.FieldsFunc(h, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '\t'
	}), "_")
	return h
}
