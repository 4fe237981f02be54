package core

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// ============================================================================
// Conversion Benchmarks
// ============================================================================

// BenchmarkParseNumber covers the price formats seen in spreadsheet exports.
func BenchmarkParseNumber(b *testing.B) {
	testCases := []string{
		"123",
		"-456.78",
		"$1,234.56",
		"(123.45)",
		"1,234,567.89",
		"  999.99  ",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ParseNumber(tc)
		}
	}
}

func BenchmarkCleanCell(b *testing.B) {
	testCases := []string{
		"Casco",
		"  Casco de Seguridad  ",
		`="00123"`,
		`"quoted"`,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			CleanCell(tc)
		}
	}
}

// ============================================================================
// Pipeline Benchmarks
// ============================================================================

// benchCatalog builds a CSV with one product and two variants per group.
func benchCatalog(groups int) string {
	lines := make([]string, 0, groups*3)
	for i := 0; i < groups; i++ {
		lines = append(lines,
			fmt.Sprintf("Producto %d,SKU-%d,%d,49.99,29.99,Accesorios,Bell,SI,,,,,,,,0,3,", i, i, 1000000+i),
			fmt.Sprintf(",,,,,,,,Talla M,SKU-%d-M,,49.99,29.99,8,2,,,", i),
			fmt.Sprintf(",,,,,,,,Talla L,SKU-%d-L,,54.99,34.99,7,1,,,", i),
		)
	}
	return csvFile(lines...)
}

func BenchmarkParseCatalog(b *testing.B) {
	input := benchCatalog(1000)

	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParseCatalog(NewImportReader(strings.NewReader(input))); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReconcile(b *testing.B) {
	parsed, err := ParseCatalog(NewImportReader(strings.NewReader(benchCatalog(500))))
	if err != nil {
		b.Fatal(err)
	}
	groups, _ := GroupRows(parsed.Rows)

	for _, workers := range []int{1, 4} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				rc := NewReconciler(NewMemoryCatalog(), workers, nil)
				rc.Reconcile(context.Background(), groups)
			}
		})
	}
}
