package invoice

// extract.go reads header fields and line items from invoice text.
//
// Header fields are searched on every line and the last match wins.
// Line items come in two shapes:
//
//	2 12345 CADENA KMC 116 ESLABONES 150.00 300.00
//
// on one line (quantity, clave, description, unit price, amount), or split
// over three lines:
//
//	2 12345
//	CADENA KMC 116 ESLABONES
//	150.00 300.00

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	msgNoProducts  = "No se pudieron extraer productos de la factura"
	msgFewProducts = "Se encontraron pocos productos, verifica el formato de la factura"
)

var (
	folioPattern    = regexp.MustCompile(`(?i)folio:\s*([A-Z]?\d+)`)
	datePattern     = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4})`)
	totalPattern    = regexp.MustCompile(`(?i)\btotal[:\s]*(\d+\.?\d*)`)
	supplierPattern = regexp.MustCompile(`(?i)^\s*(?:proveedor|emisor)\s*:\s*(.+)$`)

	// itemPatterns are tried in order. The first carries an 8-digit SAT
	// product key between quantity and clave.
	itemPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(\d+)\s+\d{8}\s+(\w+)\s+(.+?)\s+(\d+\.?\d*)\s+(\d+\.?\d*)$`),
		regexp.MustCompile(`^(\d+)\s+(\d+)\s+(.+?)\s+(\d+\.?\d*)\s+(\d+\.?\d*)$`),
		regexp.MustCompile(`^(\d+)\s+(\w+\d+)\s+(.+?)\s+(\d+\.?\d*)\s+(\d+\.?\d*)$`),
	}

	splitHeadPattern  = regexp.MustCompile(`^\d+\s+\d+$`)
	splitDescPattern  = regexp.MustCompile(`^\p{Lu}`)
	splitPricePattern = regexp.MustCompile(`^\d+\.?\d*\s+\d+\.?\d*$`)
)

// Extractor reads invoices with a pricing rule and a list of supplier names
// recognised anywhere in the text.
type Extractor struct {
	pricing   Pricing
	suppliers []string
}

// NewExtractor creates an extractor.
func NewExtractor(pricing Pricing, knownSuppliers []string) *Extractor {
	return &Extractor{pricing: pricing, suppliers: knownSuppliers}
}

// Extract parses text. When no item is found the extraction is still
// returned, with its Errors set, together with ErrNoProducts.
func (e *Extractor) Extract(text string) (*Extraction, error) {
	lines := nonEmptyLines(text)

	ex := &Extraction{
		Info:     e.readInfo(lines),
		Items:    e.readItems(lines),
		Errors:   []string{},
		Warnings: []string{},
	}

	if len(ex.Items) == 0 {
		ex.Errors = append(ex.Errors, msgNoProducts)
	}
	if len(ex.Items) < 2 {
		ex.Warnings = append(ex.Warnings, msgFewProducts)
	}
	if len(ex.Items) == 0 {
		return ex, ErrNoProducts
	}
	return ex, nil
}

func nonEmptyLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func (e *Extractor) readInfo(lines []string) Info {
	var info Info
	for _, line := range lines {
		if m := supplierPattern.FindStringSubmatch(line); m != nil {
			info.Supplier = strings.TrimSpace(m[1])
		} else if name, ok := e.knownSupplier(line); ok {
			info.Supplier = name
		}

		if m := folioPattern.FindStringSubmatch(line); m != nil {
			info.Folio = m[1]
		}
		if m := datePattern.FindStringSubmatch(line); m != nil {
			info.Date = m[1]
		}
		if m := totalPattern.FindStringSubmatch(line); m != nil {
			if d, err := decimal.NewFromString(m[1]); err == nil {
				info.Total = d
			}
		}
	}
	return info
}

// knownSupplier matches a configured supplier by its full name or its
// first word.
func (e *Extractor) knownSupplier(line string) (string, bool) {
	upper := strings.ToUpper(line)
	for _, name := range e.suppliers {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToUpper(name)
		if first, _, ok := strings.Cut(key, " "); ok {
			key = first
		}
		if strings.Contains(upper, key) {
			return name, true
		}
	}
	return "", false
}

// splitItem accumulates a line item spread over several lines.
type splitItem struct {
	quantity    int
	clave       string
	description string
}

func (e *Extractor) readItems(lines []string) []Item {
	items := []Item{}
	var pending splitItem

	for _, line := range lines {
		for _, p := range itemPatterns {
			m := p.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if item, ok := e.newItem(m[1], m[2], m[3], m[4], m[5]); ok {
				items = append(items, item)
			}
			break
		}

		switch {
		case splitHeadPattern.MatchString(line):
			fields := strings.Fields(line)
			qty, _ := strconv.Atoi(fields[0])
			pending = splitItem{quantity: qty, clave: fields[1]}
		case pending.quantity > 0 && splitDescPattern.MatchString(line):
			pending.description = line
		case pending.quantity > 0 && pending.description != "" && splitPricePattern.MatchString(line):
			fields := strings.Fields(line)
			if item, ok := e.newItem(strconv.Itoa(pending.quantity), pending.clave, pending.description, fields[0], fields[1]); ok {
				items = append(items, item)
			}
			pending = splitItem{}
		}
	}
	return items
}

// newItem converts matched text into an Item. Items without a positive
// quantity and price, or with a description of three characters or less,
// are rejected.
func (e *Extractor) newItem(qtyText, clave, description, priceText, totalText string) (Item, bool) {
	qty, err := strconv.Atoi(qtyText)
	if err != nil || qty <= 0 {
		return Item{}, false
	}
	price, err := decimal.NewFromString(priceText)
	if err != nil || !price.IsPositive() {
		return Item{}, false
	}
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) <= 3 {
		return Item{}, false
	}
	total, _ := decimal.NewFromString(totalText)

	cost, selling := e.pricing.Price(price)
	s := Suggest(description)

	return Item{
		Quantity:          qty,
		Clave:             clave,
		Description:       description,
		UnitPrice:         price,
		Cost:              cost,
		SellingPrice:      selling,
		Total:             total,
		SuggestedName:     s.Name,
		SuggestedCategory: s.Category,
		SuggestedBrand:    s.Brand,
	}, true
}
