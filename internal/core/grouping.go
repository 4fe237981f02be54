package core

// GroupRows folds rows into product groups in file order. Variant rows seen
// before the first product row have no owner; they are returned separately
// and never reach reconciliation.
func GroupRows(rows []Row) (groups []ProductGroup, orphans []Row) {
	current := -1
	for _, row := range rows {
		switch row.Kind() {
		case RowProduct:
			groups = append(groups, ProductGroup{Product: row})
			current = len(groups) - 1
		case RowVariant:
			if current < 0 {
				orphans = append(orphans, row)
				continue
			}
			groups[current].Variants = append(groups[current].Variants, row)
		}
	}
	return groups, orphans
}

// HasVariants reports whether the group's product should track stock on its
// variants: the flag cell is affirmative or at least one variant follows.
func (g ProductGroup) HasVariants() bool {
	return len(g.Variants) > 0 || IsAffirmative(g.Product.Get(ColHasVariants))
}

// ProductInput maps the product row onto the fields written to the store.
func (g ProductGroup) ProductInput() ProductInput {
	row := g.Product
	wholesale := numberOrZero(row.Get(ColWholesalePrice))
	hasVariants := g.HasVariants()

	stock := 0
	if !hasVariants {
		stock = quantityOrZero(row.Get(ColStock))
	}

	return ProductInput{
		Name:           row.Get(ColName),
		Description:    row.Get(ColDescription),
		SKU:            row.Get(ColSKU),
		Barcode:        row.Get(ColBarcode),
		PublicPrice:    numberOrZero(row.Get(ColPublicPrice)),
		WholesalePrice: wholesale,
		Cost:           wholesale.Mul(estimatedCostRatio),
		Category:       row.Get(ColCategory),
		Brand:          row.Get(ColBrand),
		StockQuantity:  stock,
		MinStock:       quantityOrZero(row.Get(ColMinStock)),
		HasVariants:    hasVariants,
	}
}

// VariantInputFromRow maps a variant row onto the fields written to the store.
func VariantInputFromRow(row Row) VariantInput {
	return VariantInput{
		Name:           row.Get(ColVariantName),
		SKU:            row.Get(ColVariantSKU),
		Barcode:        row.Get(ColVariantBarcode),
		PublicPrice:    numberOrZero(row.Get(ColVariantPublicPrice)),
		WholesalePrice: numberOrZero(row.Get(ColVariantWholesalePrice)),
		StockQuantity:  quantityOrZero(row.Get(ColVariantStock)),
		MinStock:       quantityOrZero(row.Get(ColVariantMinStock)),
	}
}
