package core

// reconcile.go decides create vs update for each product group.
//
// Products are looked up by barcode, then by SKU. Variants use the same two
// steps against all variants, not only the parent's. A persistence failure
// aborts its own group and the remaining groups still run.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// errImportCancelled is recorded for groups not reconciled before the
// import context ended.
var errImportCancelled = errors.New("import cancelled")

// DefaultWorkers is the reconciliation pool size when none is configured.
const DefaultWorkers = 4

// Reconciler writes product groups to a CatalogStore. With more than one
// worker the store must be safe for concurrent use.
type Reconciler struct {
	store   CatalogStore
	workers int
	logger  *slog.Logger
}

// NewReconciler creates a reconciler. workers < 1 means DefaultWorkers.
func NewReconciler(store CatalogStore, workers int, logger *slog.Logger) *Reconciler {
	if workers < 1 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{store: store, workers: workers, logger: logger}
}

// Outcome is what reconciling one group produced.
type Outcome struct {
	Line            int
	Product         string
	Warnings        []string
	Err             error
	ProductCreated  bool
	ProductUpdated  bool
	VariantsCreated int
	VariantsUpdated int
}

// Succeeded reports whether the group was written without error.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// ErrorMessage renders the per-group error line.
func (o Outcome) ErrorMessage() string {
	if o.Err == nil {
		return ""
	}
	return fmt.Sprintf("Error en producto %s: %s", o.Product, o.Err.Error())
}

// Reconcile processes every group and returns outcomes in group order,
// whatever order the work completed in.
func (rc *Reconciler) Reconcile(ctx context.Context, groups []ProductGroup) []Outcome {
	outcomes := make([]Outcome, len(groups))
	if len(groups) == 0 {
		return outcomes
	}

	lanes := [][]int{sequentialLane(len(groups))}
	if rc.workers > 1 && len(groups) > 1 {
		planned, err := rc.planLanes(ctx, groups)
		if err != nil {
			rc.logger.Warn("lane planning failed, reconciling sequentially", "error", err)
		} else {
			lanes = planned
		}
	}

	var eg errgroup.Group
	eg.SetLimit(rc.workers)
	for _, lane := range lanes {
		eg.Go(func() error {
			for _, i := range lane {
				outcomes[i] = rc.reconcileGroup(ctx, groups[i])
			}
			return nil
		})
	}
	_ = eg.Wait()

	return outcomes
}

// Apply folds outcomes into an import result in order.
func Apply(result *ImportResult, outcomes []Outcome) {
	for _, o := range outcomes {
		result.Warnings = append(result.Warnings, o.Warnings...)
		if o.ProductCreated {
			result.ProductsCreated++
		}
		if o.ProductUpdated {
			result.ProductsUpdated++
		}
		result.VariantsCreated += o.VariantsCreated
		result.VariantsUpdated += o.VariantsUpdated

		if o.Err != nil {
			result.Errors = append(result.Errors, o.ErrorMessage())
			continue
		}
		result.Success++
	}
}

func (rc *Reconciler) reconcileGroup(ctx context.Context, g ProductGroup) Outcome {
	in := g.ProductInput()
	out := Outcome{Line: g.Product.Line, Product: in.Name}

	if err := ctx.Err(); err != nil {
		out.Err = errImportCancelled
		return out
	}

	existing, found, err := rc.findProduct(ctx, in.Barcode, in.SKU)
	if err != nil {
		out.Err = err
		return out
	}

	var product Product
	if found {
		product, err = rc.store.UpdateProduct(ctx, existing.ID, in)
		if err != nil {
			out.Err = fmt.Errorf("update product: %w", err)
			return out
		}
		out.ProductUpdated = true
		out.Warnings = append(out.Warnings, "Producto actualizado: "+in.Name)
	} else {
		product, err = rc.store.CreateProduct(ctx, in)
		if err != nil {
			out.Err = fmt.Errorf("create product: %w", err)
			return out
		}
		out.ProductCreated = true
		out.Warnings = append(out.Warnings, "Producto creado: "+in.Name)
	}

	for _, row := range g.Variants {
		if err := ctx.Err(); err != nil {
			out.Err = errImportCancelled
			return out
		}

		vin := VariantInputFromRow(row)
		current, found, err := rc.findVariant(ctx, vin.Barcode, vin.SKU)
		if err != nil {
			out.Err = err
			return out
		}

		if found {
			if _, err := rc.store.UpdateVariant(ctx, current.ID, product.ID, vin); err != nil {
				out.Err = fmt.Errorf("update variant %s: %w", vin.Name, err)
				return out
			}
			out.VariantsUpdated++
			out.Warnings = append(out.Warnings, "Variante actualizada: "+vin.Name)
			continue
		}

		if _, err := rc.store.CreateVariant(ctx, product.ID, vin); err != nil {
			out.Err = fmt.Errorf("create variant %s: %w", vin.Name, err)
			return out
		}
		out.VariantsCreated++
		out.Warnings = append(out.Warnings, "Variante creada: "+vin.Name)
	}

	rc.logger.Debug("product group reconciled",
		"line", g.Product.Line,
		"product", in.Name,
		"variants", len(g.Variants),
	)
	return out
}

// findProduct looks up by barcode, then SKU.
func (rc *Reconciler) findProduct(ctx context.Context, barcode, sku string) (Product, bool, error) {
	for _, key := range identityKeys(barcode, sku) {
		p, err := rc.store.FindProduct(ctx, key.field, key.value)
		if err == nil {
			return p, true, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Product{}, false, fmt.Errorf("find product by %s: %w", key.field, err)
		}
	}
	return Product{}, false, nil
}

// findVariant looks up by barcode, then SKU.
func (rc *Reconciler) findVariant(ctx context.Context, barcode, sku string) (Variant, bool, error) {
	for _, key := range identityKeys(barcode, sku) {
		v, err := rc.store.FindVariant(ctx, key.field, key.value)
		if err == nil {
			return v, true, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Variant{}, false, fmt.Errorf("find variant by %s: %w", key.field, err)
		}
	}
	return Variant{}, false, nil
}

type identityKey struct {
	field IdentityField
	value string
}

// identityKeys returns the lookups to try, in order, skipping empty values.
func identityKeys(barcode, sku string) []identityKey {
	keys := make([]identityKey, 0, 2)
	if barcode != "" {
		keys = append(keys, identityKey{ByBarcode, barcode})
	}
	if sku != "" {
		keys = append(keys, identityKey{BySKU, sku})
	}
	return keys
}
