package invoice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/pos/internal/core"
	"github.com/JonMunkholm/pos/internal/logging"
	"github.com/JonMunkholm/pos/internal/settings"
)

// Entry is the inventory movement recorded for a saved item.
type Entry struct {
	Quantity    int
	Reason      string
	ReferenceID string
}

// Store persists invoice products.
type Store interface {
	// SKUExists reports whether any product already uses sku.
	SKUExists(ctx context.Context, sku string) (bool, error)

	// CreateWithEntry creates the product and its entrada movement together.
	CreateWithEntry(ctx context.Context, in core.ProductInput, entry Entry) (uuid.UUID, error)
}

// SettingsSource supplies the tax rate used for costs.
type SettingsSource interface {
	Get(ctx context.Context) (settings.Settings, error)
}

// SaveRequest carries the header and the items chosen for saving.
type SaveRequest struct {
	Info  Info   `json:"info"`
	Items []Item `json:"items" validate:"required,min=1,dive"`
}

// SavedProduct identifies a product created from an item.
type SavedProduct struct {
	ID   uuid.UUID `json:"id"`
	SKU  string    `json:"sku"`
	Name string    `json:"name"`
}

// SaveResult lists what was created and why other items were skipped.
type SaveResult struct {
	Saved    int            `json:"saved"`
	Products []SavedProduct `json:"products"`
	Errors   []string       `json:"errors"`
}

// Service runs invoice extraction and saving.
type Service struct {
	parser    TextExtractor
	store     Store
	settings  SettingsSource
	margin    float64
	suppliers []string
	validate  *validator.Validate
}

// Options configures a Service.
type Options struct {
	MarginPercent  float64
	KnownSuppliers []string
}

// NewService creates an invoice service. parser may be nil, in which case
// only text submissions work.
func NewService(parser TextExtractor, store Store, source SettingsSource, opts Options) *Service {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return &Service{
		parser:    parser,
		store:     store,
		settings:  source,
		margin:    opts.MarginPercent,
		suppliers: opts.KnownSuppliers,
		validate:  v,
	}
}

// ExtractDocument sends the document to the text parser and extracts it.
func (s *Service) ExtractDocument(ctx context.Context, fileName string, r io.Reader) (*Extraction, error) {
	if s.parser == nil {
		return nil, ErrParserNotConfigured
	}
	text, err := s.parser.ExtractText(ctx, fileName, r)
	if err != nil {
		return nil, err
	}
	return s.ExtractText(ctx, text)
}

// ExtractText extracts an invoice from plain text.
func (s *Service) ExtractText(ctx context.Context, text string) (*Extraction, error) {
	taxRate := settings.Defaults().TaxRate
	if s.settings != nil {
		current, err := s.settings.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
		taxRate = current.TaxRate
	}

	ex, err := NewExtractor(NewPricing(taxRate, s.margin), s.suppliers).Extract(text)
	logging.FromContext(ctx).Info("invoice extracted",
		"supplier", ex.Info.Supplier,
		"folio", ex.Info.Folio,
		"items", len(ex.Items),
	)
	return ex, err
}

// Save creates a product per item and records its entrada movement. An
// item whose clave is already a product SKU is skipped; one failing item
// does not stop the others.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*SaveResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	logger := logging.WithFields(ctx, "folio", req.Info.Folio, "supplier", req.Info.Supplier)
	result := &SaveResult{Products: []SavedProduct{}, Errors: []string{}}
	reason := fmt.Sprintf("Entrada por factura %s - %s", req.Info.Folio, req.Info.Supplier)

	for _, item := range req.Items {
		in := productInput(item)

		if item.Clave != "" {
			exists, err := s.store.SKUExists(ctx, item.Clave)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Error al guardar %s: %v", in.Name, err))
				continue
			}
			if exists {
				result.Errors = append(result.Errors, fmt.Sprintf("Producto con clave %s ya existe", item.Clave))
				continue
			}
		}

		id, err := s.store.CreateWithEntry(ctx, in, Entry{
			Quantity:    item.Quantity,
			Reason:      reason,
			ReferenceID: req.Info.Folio,
		})
		if err != nil {
			logger.Warn("invoice item not saved", "clave", item.Clave, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("Error al guardar %s: %v", in.Name, err))
			continue
		}

		result.Saved++
		result.Products = append(result.Products, SavedProduct{ID: id, SKU: item.Clave, Name: in.Name})
	}

	logger.Info("invoice saved",
		slog.Int("saved", result.Saved),
		slog.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// productInput builds the new product for an item. Public and wholesale
// price both start at the selling price.
func productInput(item Item) core.ProductInput {
	name := item.SuggestedName
	if name == "" {
		name = Suggest(item.Description).Name
	}
	if name == "" {
		name = item.Description
	}

	return core.ProductInput{
		Name:           name,
		Description:    item.Description,
		SKU:            item.Clave,
		PublicPrice:    item.SellingPrice,
		WholesalePrice: item.SellingPrice,
		Cost:           item.Cost,
		Category:       item.SuggestedCategory,
		Brand:          item.SuggestedBrand,
		StockQuantity:  item.Quantity,
		MinStock:       max(1, item.Quantity/10),
		HasVariants:    false,
	}
}
