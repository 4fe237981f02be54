package core

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestImporter(store CatalogStore, policy IdentityPolicy) *Importer {
	return NewImporter(store, nil, ImporterOptions{Workers: 4, Policy: policy, MaxWait: 50 * time.Millisecond})
}

func TestImporter_Import(t *testing.T) {
	store := NewMemoryCatalog()
	im := newTestImporter(store, PolicyLenient)

	input := csvFile(
		",,,,,,,,Huerfana,H-1,,1,1,1,0,,,",
		"Bicicleta,MTB-001,123,299.99,199.99,Bicicletas,Trek,NO,,,,,,,,10,2,Montaña",
		"short,row",
		"Casco,CASCO-001,124,49.99,29.99,Accesorios,Bell,SI,,,,,,,,0,3,",
		",,,,,,,,Talla M,CASCO-M,,49.99,29.99,8,2,,,",
		",,,,,,,,Talla L,CASCO-L,,54.99,34.99,7,1,,,",
	)

	ctx := ContextWithClient(context.Background(), "10.0.0.1", "test-agent")
	result, err := im.Import(ctx, "productos.csv", strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Aborted {
		t.Fatalf("import aborted: %+v", result.Validation)
	}
	if result.Success != 2 || result.Groups != 2 {
		t.Errorf("success=%d groups=%d, want 2/2", result.Success, result.Groups)
	}
	if result.ProductsCreated != 2 || result.VariantsCreated != 2 {
		t.Errorf("created %d products %d variants", result.ProductsCreated, result.VariantsCreated)
	}
	if result.Orphans != 1 || len(result.Dropped) != 1 {
		t.Errorf("orphans=%d dropped=%d, want 1/1", result.Orphans, len(result.Dropped))
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %q", result.Errors)
	}
	if result.IPAddress != "10.0.0.1" || result.UserAgent != "test-agent" {
		t.Errorf("client = %q/%q", result.IPAddress, result.UserAgent)
	}
	if result.BytesRead != int64(len(input)) {
		t.Errorf("bytes read = %d, want %d", result.BytesRead, len(input))
	}

	wantPrefix := []string{
		"Fila 4: número de columnas incorrecto (esperadas 18, encontradas 2), ignorada",
		`Fila 2: variante "Huerfana" sin producto, ignorada`,
		"Producto creado: Bicicleta",
	}
	for i, w := range wantPrefix {
		if i >= len(result.Warnings) || result.Warnings[i] != w {
			t.Errorf("warning %d = %q, want %q", i, result.Warnings[i], w)
		}
	}

	stored, err := im.Report(context.Background(), result.ID)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if stored.Success != result.Success || stored.FileName != "productos.csv" {
		t.Errorf("stored report = %+v", stored)
	}
}

func TestImporter_ValidationAbortsWithoutWrites(t *testing.T) {
	store := newFailingStore()
	im := newTestImporter(store, PolicyLenient)

	input := csvFile(
		"Bicicleta,MTB-001,,299.99,,,,,,,,,,,,10,,",
		"Casco,CASCO-001,,cuarenta,,,,,,,,,,,,0,,",
		",,,,,,,,Talla M,CASCO-M,,x,,8,,,,",
	)

	result, err := im.Import(context.Background(), "productos.csv", strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if !result.Aborted {
		t.Fatal("expected aborted result")
	}
	if len(result.Validation) != 2 || len(result.Errors) != 2 {
		t.Errorf("validation=%d errors=%d, want 2/2", len(result.Validation), len(result.Errors))
	}
	if result.Validation[0].Line != 3 || result.Validation[1].Line != 4 {
		t.Errorf("validation lines = %d, %d", result.Validation[0].Line, result.Validation[1].Line)
	}
	if result.Success != 0 {
		t.Errorf("success = %d, want 0", result.Success)
	}
	if store.writes() != 0 {
		t.Errorf("aborted import wrote %d products", store.writes())
	}
}

func TestImporter_OutOfRangeNumbersAbort(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{name: "huge exponent", input: "nombre,sku,stock\nA,A1,1e900000000\n", field: ColStock},
		{name: "stock overflows integer", input: "nombre,sku,stock\nA,A1,3000000000\n", field: ColStock},
		{name: "price overflows column", input: "nombre,sku,precio_publico\nA,A1,1e12\n", field: ColPublicPrice},
		{name: "decimal comma", input: "nombre,sku,precio_publico\nA,A1,\"1,5\"\n", field: ColPublicPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFailingStore()
			result, err := newTestImporter(store, PolicyLenient).Import(context.Background(), "productos.csv", strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Import returned error: %v", err)
			}
			if !result.Aborted || len(result.Validation) != 1 {
				t.Fatalf("result = %+v, want one validation error", result)
			}
			if got := result.Validation[0].Field; got != tt.field {
				t.Errorf("field = %q, want %q", got, tt.field)
			}
			if store.writes() != 0 {
				t.Errorf("aborted import wrote %d products", store.writes())
			}
		})
	}
}

func TestImporter_StrictPolicyRejectsMissingIdentifiers(t *testing.T) {
	store := NewMemoryCatalog()
	im := newTestImporter(store, PolicyStrict)

	result, err := im.Import(context.Background(), "p.csv", strings.NewReader(csvFile("Sin código,,,1,1,,,,,,,,,,,,,")))
	if err != nil {
		t.Fatal(err)
	}
	if !result.Aborted || len(result.Validation) != 1 {
		t.Fatalf("result = %+v", result)
	}
	if products, _ := store.Counts(); products != 0 {
		t.Errorf("strict import wrote %d products", products)
	}
}

func TestImporter_FatalErrors(t *testing.T) {
	im := newTestImporter(NewMemoryCatalog(), PolicyLenient)

	if _, err := im.Import(context.Background(), "p.csv", strings.NewReader(catalogHeader+"\n")); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("empty file err = %v", err)
	}

	_, err := im.Import(context.Background(), "p.csv", strings.NewReader("sku,precio_publico\nA,1\n"))
	if err == nil || MapError(err).Code != "VAL004" {
		t.Errorf("missing name column err = %v", err)
	}

	_, err = im.Import(context.Background(), "p.xlsx", strings.NewReader("not a workbook"))
	if err == nil || !strings.Contains(err.Error(), "invalid xlsx") {
		t.Errorf("bad workbook err = %v", err)
	}
}

func TestImporter_Busy(t *testing.T) {
	im := NewImporter(NewMemoryCatalog(), nil, ImporterOptions{MaxConcurrent: 1, MaxWait: 20 * time.Millisecond})
	if !im.limiter.TryAcquire() {
		t.Fatal("could not take the only slot")
	}
	defer im.limiter.Release()

	_, err := im.Import(context.Background(), "p.csv", strings.NewReader(csvFile("Casco,,,1,1,,,,,,,,,,,,,")))
	if !errors.Is(err, ErrTooManyImports) {
		t.Errorf("err = %v, want ErrTooManyImports", err)
	}
}

func TestImporter_ImportWorkbook(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTemplate(&buf, FormatXLSX); err != nil {
		t.Fatal(err)
	}

	store := NewMemoryCatalog()
	result, err := newTestImporter(store, PolicyLenient).Import(context.Background(), "plantilla.XLSX", &buf)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Success != 2 || result.VariantsCreated != 2 {
		t.Errorf("result = %+v", result)
	}
	if products, variants := store.Counts(); products != 2 || variants != 2 {
		t.Errorf("store has %d/%d, want 2/2", products, variants)
	}
}

func TestImporter_Preview(t *testing.T) {
	store := NewMemoryCatalog()
	im := newTestImporter(store, PolicyLenient)

	input := csvFile(
		"Casco,CASCO-001,124,49.99,29.99,,,SI,,,,,,,,0,3,",
		",,,,,,,,Talla M,CASCO-M,,abc,,8,2,,,",
	)
	preview, err := im.Preview(context.Background(), "p.csv", strings.NewReader(input))
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	if preview.Valid || len(preview.Validation) != 1 {
		t.Errorf("valid=%v validation=%v", preview.Valid, preview.Validation)
	}
	if preview.Products != 1 || preview.Variants != 1 || preview.Rows != 2 {
		t.Errorf("preview counts = %+v", preview)
	}
	if preview.Groups[0].Name != "Casco" || preview.Groups[0].Variants != 1 {
		t.Errorf("group summary = %+v", preview.Groups[0])
	}
	if products, _ := store.Counts(); products != 0 {
		t.Error("preview wrote to the store")
	}
}

func TestImporter_ReportUnknown(t *testing.T) {
	im := newTestImporter(NewMemoryCatalog(), PolicyLenient)

	for _, id := range []string{"", "nope", "5f1c2c1e-0000-4000-8000-000000000000"} {
		if _, err := im.Report(context.Background(), id); !errors.Is(err, ErrReportNotFound) {
			t.Errorf("Report(%q) err = %v", id, err)
		}
	}
}
