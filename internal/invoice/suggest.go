package invoice

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultCategory is used when no keyword matches.
const DefaultCategory = "Repuestos"

type keywordRule struct {
	value    string
	keywords []string
}

// categoryRules are checked in order; the first rule with a matching
// keyword wins.
var categoryRules = []keywordRule{
	{"Transmisión", []string{"cambio", "tras", "desv"}},
	{"Frenos", []string{"palanc", "freno"}},
	{"Ruedas", []string{"llanta", "rin", "rueda"}},
	{"Transmisión", []string{"cadena", "chain"}},
	{"Pedales", []string{"pedal"}},
	{"Asientos", []string{"asiento", "silla"}},
	{"Dirección", []string{"manubrio", "manillar"}},
	{"Iluminación", []string{"luz", "faro"}},
	{"Seguridad", []string{"casco"}},
}

var brandRules = []keywordRule{
	{"Shimano", []string{"shimano"}},
	{"Shine", []string{"shine", "shin"}},
	{"SRAM", []string{"sram"}},
	{"Trek", []string{"trek"}},
	{"Giant", []string{"giant"}},
	{"Specialized", []string{"specialized"}},
}

// Suggestion is the catalog data proposed for an item description.
type Suggestion struct {
	Name     string
	Category string
	Brand    string
}

var (
	standaloneNumber = regexp.MustCompile(`\b\d+\b`)
	spaces           = regexp.MustCompile(`\s+`)
)

// Suggest proposes a name, category and brand for a description.
func Suggest(description string) Suggestion {
	folded := fold(description)

	s := Suggestion{Category: DefaultCategory}
	if v, ok := matchRule(categoryRules, folded); ok {
		s.Category = v
	}
	if v, ok := matchRule(brandRules, folded); ok {
		s.Brand = v
	}

	name := standaloneNumber.ReplaceAllString(description, "")
	s.Name = strings.TrimSpace(spaces.ReplaceAllString(name, " "))
	return s
}

func matchRule(rules []keywordRule, folded string) (string, bool) {
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(folded, kw) {
				return rule.value, true
			}
		}
	}
	return "", false
}

// fold lowercases s and strips combining accents.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
