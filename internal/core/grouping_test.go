package core

import (
	"testing"
)

func TestGroupRows(t *testing.T) {
	rows := []Row{
		row(2, map[string]string{ColVariantName: "Huerfana"}),
		row(3, map[string]string{ColName: "Casco"}),
		row(4, map[string]string{ColVariantName: "Talla M"}),
		row(5, map[string]string{}),
		row(6, map[string]string{ColVariantName: "Talla L"}),
		row(7, map[string]string{ColName: "Bicicleta"}),
		row(8, map[string]string{ColName: "Luz"}),
		row(9, map[string]string{ColVariantName: "Roja"}),
	}

	groups, orphans := GroupRows(rows)

	if len(orphans) != 1 || orphans[0].Line != 2 {
		t.Fatalf("orphans = %+v, want line 2 only", orphans)
	}
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}

	wantVariants := [][]int{{4, 6}, nil, {9}}
	for i, g := range groups {
		if len(g.Variants) != len(wantVariants[i]) {
			t.Errorf("group %d has %d variants, want %d", i, len(g.Variants), len(wantVariants[i]))
			continue
		}
		for j, v := range g.Variants {
			if v.Line != wantVariants[i][j] {
				t.Errorf("group %d variant %d line = %d, want %d", i, j, v.Line, wantVariants[i][j])
			}
		}
	}

	for _, g := range groups {
		for _, v := range g.Variants {
			if v.Line == 2 {
				t.Error("orphan variant attached to a group")
			}
		}
	}
}

func TestProductGroup_HasVariants(t *testing.T) {
	tests := []struct {
		name  string
		group ProductGroup
		want  bool
	}{
		{
			name:  "flag SI without rows",
			group: ProductGroup{Product: row(2, map[string]string{ColName: "Casco", ColHasVariants: "SI"})},
			want:  true,
		},
		{
			name:  "flag yes",
			group: ProductGroup{Product: row(2, map[string]string{ColName: "Casco", ColHasVariants: "yes"})},
			want:  true,
		},
		{
			name: "flag NO but variant rows present",
			group: ProductGroup{
				Product:  row(2, map[string]string{ColName: "Casco", ColHasVariants: "NO"}),
				Variants: []Row{row(3, map[string]string{ColVariantName: "Talla M"})},
			},
			want: true,
		},
		{
			name:  "no flag no rows",
			group: ProductGroup{Product: row(2, map[string]string{ColName: "Casco"})},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.group.HasVariants(); got != tt.want {
				t.Errorf("HasVariants() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProductGroup_ProductInput(t *testing.T) {
	simple := ProductGroup{Product: row(2, map[string]string{
		ColName:           "Bicicleta",
		ColSKU:            "MTB-001",
		ColPublicPrice:    "299.99",
		ColWholesalePrice: "200",
		ColStock:          "10",
		ColMinStock:       "2",
	})}

	in := simple.ProductInput()
	if in.StockQuantity != 10 || in.MinStock != 2 {
		t.Errorf("stock = %d/%d, want 10/2", in.StockQuantity, in.MinStock)
	}
	if in.Cost.String() != "160" {
		t.Errorf("cost = %s, want 160", in.Cost.String())
	}
	if in.PublicPrice.String() != "299.99" {
		t.Errorf("public price = %s", in.PublicPrice.String())
	}
	if in.HasVariants {
		t.Error("simple product should not have variants")
	}

	withVariants := ProductGroup{
		Product:  row(3, map[string]string{ColName: "Casco", ColStock: "25"}),
		Variants: []Row{row(4, map[string]string{ColVariantName: "Talla M", ColVariantStock: "8"})},
	}
	in = withVariants.ProductInput()
	if !in.HasVariants || in.StockQuantity != 0 {
		t.Errorf("variant product: has_variants=%v stock=%d, want true/0", in.HasVariants, in.StockQuantity)
	}

	vin := VariantInputFromRow(withVariants.Variants[0])
	if vin.Name != "Talla M" || vin.StockQuantity != 8 {
		t.Errorf("variant input = %+v", vin)
	}
}
