package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
)

// failingStore wraps a MemoryCatalog and fails writes for chosen names.
type failingStore struct {
	*MemoryCatalog

	mu            sync.Mutex
	failProducts  map[string]bool
	failVariants  map[string]bool
	productWrites int
}

func newFailingStore() *failingStore {
	return &failingStore{
		MemoryCatalog: NewMemoryCatalog(),
		failProducts:  make(map[string]bool),
		failVariants:  make(map[string]bool),
	}
}

var errStoreDown = errors.New("connection refused")

func (s *failingStore) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	s.mu.Lock()
	s.productWrites++
	fail := s.failProducts[in.Name]
	s.mu.Unlock()
	if fail {
		return Product{}, errStoreDown
	}
	return s.MemoryCatalog.CreateProduct(ctx, in)
}

func (s *failingStore) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (Product, error) {
	s.mu.Lock()
	s.productWrites++
	fail := s.failProducts[in.Name]
	s.mu.Unlock()
	if fail {
		return Product{}, errStoreDown
	}
	return s.MemoryCatalog.UpdateProduct(ctx, id, in)
}

func (s *failingStore) CreateVariant(ctx context.Context, productID uuid.UUID, in VariantInput) (Variant, error) {
	s.mu.Lock()
	fail := s.failVariants[in.Name]
	s.mu.Unlock()
	if fail {
		return Variant{}, errStoreDown
	}
	return s.MemoryCatalog.CreateVariant(ctx, productID, in)
}

func (s *failingStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productWrites
}

func productRow(line int, name, sku, barcode string) Row {
	return row(line, map[string]string{
		ColName: name, ColSKU: sku, ColBarcode: barcode,
		ColPublicPrice: "10", ColWholesalePrice: "5", ColStock: "1",
	})
}

func variantRow(line int, name, sku, barcode string) Row {
	return row(line, map[string]string{
		ColVariantName: name, ColVariantSKU: sku, ColVariantBarcode: barcode,
		ColVariantPublicPrice: "10", ColVariantStock: "2",
	})
}

func reconcile(t *testing.T, store CatalogStore, workers int, groups []ProductGroup) *ImportResult {
	t.Helper()
	result := &ImportResult{Warnings: []string{}, Errors: []string{}}
	Apply(result, NewReconciler(store, workers, nil).Reconcile(context.Background(), groups))
	return result
}

func TestReconcile_CreatesThenUpdates(t *testing.T) {
	store := NewMemoryCatalog()
	groups := []ProductGroup{
		{Product: productRow(2, "Bicicleta", "MTB-001", "123")},
		{
			Product:  productRow(3, "Casco", "CASCO-001", ""),
			Variants: []Row{variantRow(4, "Talla M", "CASCO-M", ""), variantRow(5, "Talla L", "", "777")},
		},
	}

	first := reconcile(t, store, 1, groups)
	if first.Success != 2 || first.ProductsCreated != 2 || first.VariantsCreated != 2 {
		t.Fatalf("first run = %+v", first)
	}

	second := reconcile(t, store, 1, groups)
	if second.Success != 2 || second.ProductsUpdated != 2 || second.VariantsUpdated != 2 {
		t.Fatalf("second run = %+v", second)
	}
	if second.ProductsCreated != 0 || second.VariantsCreated != 0 {
		t.Errorf("re-import created records: %+v", second)
	}

	products, variants := store.Counts()
	if products != 2 || variants != 2 {
		t.Errorf("store has %d products and %d variants, want 2 and 2", products, variants)
	}

	wantWarnings := []string{
		"Producto actualizado: Bicicleta",
		"Producto actualizado: Casco",
		"Variante actualizada: Talla M",
		"Variante actualizada: Talla L",
	}
	if !reflect.DeepEqual(second.Warnings, wantWarnings) {
		t.Errorf("warnings = %q, want %q", second.Warnings, wantWarnings)
	}
}

func TestReconcile_BarcodeBeforeSKU(t *testing.T) {
	store := NewMemoryCatalog()
	ctx := context.Background()

	byBarcode, _ := store.CreateProduct(ctx, ProductInput{Name: "Por barras", Barcode: "123"})
	bySKU, _ := store.CreateProduct(ctx, ProductInput{Name: "Por sku", SKU: "S-1"})

	reconcile(t, store, 1, []ProductGroup{{Product: productRow(2, "Nuevo", "S-1", "123")}})

	got, err := store.FindProduct(ctx, ByBarcode, "123")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != byBarcode.ID || got.Name != "Nuevo" {
		t.Errorf("barcode match was not updated: %+v", got)
	}

	products, _ := store.ListProducts(ctx)
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}
	for _, p := range products {
		if p.ID == bySKU.ID && p.Name != "Por sku" {
			t.Errorf("sku match should be untouched, got %q", p.Name)
		}
	}
}

func TestReconcile_LenientDuplicatesWithoutIdentifiers(t *testing.T) {
	store := NewMemoryCatalog()
	groups := []ProductGroup{{Product: productRow(2, "Sin código", "", "")}}

	reconcile(t, store, 1, groups)
	reconcile(t, store, 1, groups)

	if products, _ := store.Counts(); products != 2 {
		t.Errorf("store has %d products, want 2", products)
	}
}

func TestReconcile_VariantCountAndStock(t *testing.T) {
	store := NewMemoryCatalog()
	casco := productRow(2, "Casco", "CASCO-001", "")
	casco.Values[ColHasVariants] = "SI"
	casco.Values[ColStock] = "25"

	reconcile(t, store, 1, []ProductGroup{{
		Product:  casco,
		Variants: []Row{variantRow(3, "Talla M", "CASCO-M", ""), variantRow(4, "Talla L", "CASCO-L", "")},
	}})

	p, err := store.FindProduct(context.Background(), BySKU, "CASCO-001")
	if err != nil {
		t.Fatal(err)
	}
	if !p.HasVariants || p.StockQuantity != 0 {
		t.Errorf("product has_variants=%v stock=%d, want true/0", p.HasVariants, p.StockQuantity)
	}

	variants, _ := store.ListVariants(context.Background())
	if len(variants) != 2 {
		t.Fatalf("got %d variants, want 2", len(variants))
	}
	for _, v := range variants {
		if v.ProductID != p.ID {
			t.Errorf("variant %q has product %s, want %s", v.Name, v.ProductID, p.ID)
		}
	}
}

func TestReconcile_VariantMovesToNewParent(t *testing.T) {
	store := NewMemoryCatalog()

	reconcile(t, store, 1, []ProductGroup{{
		Product:  productRow(2, "Casco rojo", "ROJO", ""),
		Variants: []Row{variantRow(3, "Talla M", "M-1", "")},
	}})
	reconcile(t, store, 1, []ProductGroup{{
		Product:  productRow(2, "Casco azul", "AZUL", ""),
		Variants: []Row{variantRow(3, "Talla M", "M-1", "")},
	}})

	ctx := context.Background()
	azul, _ := store.FindProduct(ctx, BySKU, "AZUL")
	v, err := store.FindVariant(ctx, BySKU, "M-1")
	if err != nil {
		t.Fatal(err)
	}
	if v.ProductID != azul.ID {
		t.Errorf("variant parent = %s, want %s", v.ProductID, azul.ID)
	}
	if _, variants := store.Counts(); variants != 1 {
		t.Errorf("store has %d variants, want 1", variants)
	}
}

func TestReconcile_IsolatesFailingGroups(t *testing.T) {
	store := newFailingStore()
	store.failProducts["Roto"] = true
	store.failVariants["Talla X"] = true

	result := reconcile(t, store, 1, []ProductGroup{
		{Product: productRow(2, "Bueno", "B-1", "")},
		{Product: productRow(3, "Roto", "R-1", "")},
		{
			Product:  productRow(4, "Casco", "C-1", ""),
			Variants: []Row{variantRow(5, "Talla X", "X", ""), variantRow(6, "Talla Y", "Y", "")},
		},
		{Product: productRow(7, "Otro bueno", "B-2", "")},
	})

	if result.Success != 2 {
		t.Errorf("success = %d, want 2", result.Success)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("errors = %q, want 2 entries", result.Errors)
	}
	if !strings.HasPrefix(result.Errors[0], "Error en producto Roto: ") {
		t.Errorf("first error = %q", result.Errors[0])
	}
	if !strings.HasPrefix(result.Errors[1], "Error en producto Casco: ") {
		t.Errorf("second error = %q", result.Errors[1])
	}

	// The product row of a group whose variant failed stays written; the
	// variants after the failing one are skipped.
	if _, err := store.FindProduct(context.Background(), BySKU, "C-1"); err != nil {
		t.Errorf("product of partially failed group missing: %v", err)
	}
	if _, err := store.FindVariant(context.Background(), BySKU, "Y"); !errors.Is(err, ErrNotFound) {
		t.Errorf("variant after failure should not exist, got %v", err)
	}
	if _, err := store.FindProduct(context.Background(), BySKU, "B-2"); err != nil {
		t.Errorf("group after failures missing: %v", err)
	}
}

func TestReconcile_Cancelled(t *testing.T) {
	store := newFailingStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	groups := []ProductGroup{
		{Product: productRow(2, "Uno", "U-1", "")},
		{Product: productRow(3, "Dos", "D-1", "")},
	}
	outcomes := NewReconciler(store, 1, nil).Reconcile(ctx, groups)

	for i, o := range outcomes {
		if !errors.Is(o.Err, errImportCancelled) {
			t.Errorf("outcome %d err = %v, want import cancelled", i, o.Err)
		}
	}
	if store.writes() != 0 {
		t.Errorf("cancelled reconcile wrote %d products", store.writes())
	}
}

// catalogGroups builds a file with shared identifiers across groups so lane
// planning has something to merge.
func catalogGroups(n int) []ProductGroup {
	groups := make([]ProductGroup, 0, n)
	line := 2
	for i := 0; i < n; i++ {
		sku := fmt.Sprintf("SKU-%03d", i%(n/2))
		g := ProductGroup{Product: productRow(line, fmt.Sprintf("Producto %03d", i), sku, "")}
		line++
		for j := 0; j < i%3; j++ {
			g.Variants = append(g.Variants, variantRow(line, fmt.Sprintf("Variante %03d-%d", i, j), fmt.Sprintf("V-%03d-%d", i%7, j), ""))
			line++
		}
		groups = append(groups, g)
	}
	return groups
}

func exportString(t *testing.T, catalog CatalogReader) string {
	t.Helper()
	var buf bytes.Buffer
	if err := ExportCatalog(context.Background(), catalog, &buf, FormatCSV); err != nil {
		t.Fatalf("ExportCatalog failed: %v", err)
	}
	return buf.String()
}

func TestReconcile_ConcurrentMatchesSequential(t *testing.T) {
	groups := catalogGroups(40)

	for _, seeded := range []bool{false, true} {
		t.Run(fmt.Sprintf("seeded=%v", seeded), func(t *testing.T) {
			sequential := NewMemoryCatalog()
			concurrent := NewMemoryCatalog()
			if seeded {
				reconcile(t, sequential, 1, groups[:10])
				reconcile(t, concurrent, 1, groups[:10])
			}

			want := reconcile(t, sequential, 1, groups)
			got := reconcile(t, concurrent, 8, groups)

			if !reflect.DeepEqual(got.Warnings, want.Warnings) {
				t.Errorf("warnings differ:\n got %q\nwant %q", got.Warnings, want.Warnings)
			}
			if !reflect.DeepEqual(got.Errors, want.Errors) {
				t.Errorf("errors differ: got %q want %q", got.Errors, want.Errors)
			}
			if got.ProductsCreated != want.ProductsCreated || got.ProductsUpdated != want.ProductsUpdated ||
				got.VariantsCreated != want.VariantsCreated || got.VariantsUpdated != want.VariantsUpdated {
				t.Errorf("counts differ: got %+v want %+v", got, want)
			}
			if exportString(t, concurrent) != exportString(t, sequential) {
				t.Error("final catalog differs between concurrent and sequential runs")
			}
		})
	}
}

func TestPlanLanes(t *testing.T) {
	store := NewMemoryCatalog()
	rc := NewReconciler(store, 4, nil)

	groups := []ProductGroup{
		{Product: productRow(2, "A", "SKU-1", "")},
		{Product: productRow(3, "B", "SKU-2", "")},
		{Product: productRow(4, "C", "", "SKU-1")},
		{Product: productRow(5, "D", "SKU-1", "")},
		{
			Product:  productRow(6, "E", "SKU-3", ""),
			Variants: []Row{variantRow(7, "V", "VAR-1", "")},
		},
		{
			Product:  productRow(8, "F", "SKU-4", ""),
			Variants: []Row{variantRow(9, "V", "VAR-1", "")},
		},
	}

	lanes, err := rc.planLanes(context.Background(), groups)
	if err != nil {
		t.Fatalf("planLanes failed: %v", err)
	}

	// Barcode and SKU keys are separate namespaces, so C stays alone.
	want := [][]int{{0, 3}, {1}, {2}, {4, 5}}
	if !reflect.DeepEqual(lanes, want) {
		t.Errorf("lanes = %v, want %v", lanes, want)
	}
}

func TestPlanLanes_MergesOnStoredRecord(t *testing.T) {
	store := NewMemoryCatalog()
	ctx := context.Background()
	if _, err := store.CreateProduct(ctx, ProductInput{Name: "Existente", SKU: "S-1", Barcode: "B-1"}); err != nil {
		t.Fatal(err)
	}

	rc := NewReconciler(store, 4, nil)
	lanes, err := rc.planLanes(ctx, []ProductGroup{
		{Product: productRow(2, "Por sku", "S-1", "")},
		{Product: productRow(3, "Por barras", "", "B-1")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(lanes) != 1 {
		t.Errorf("lanes = %v, want one lane for the shared stored product", lanes)
	}
}
