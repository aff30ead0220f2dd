package storefront

import "strings"

// NeutralColor is shown for color names the table does not know.
const NeutralColor = "#CCCCCC"

// MissingLabel stands in for an empty color or size.
const MissingLabel = "-"

const whiteSwatchBorder = "2px solid #ddd"

var colorTable = map[string]string{
	"burgundy":   "#800020",
	"maroon":     "#800000",
	"dark brown": "#5C4033",
	"brown":      "#964B00",
	"black":      "#000000",
	"white":      "#FFFFFF",
	"navy":       "#000080",
	"blue":       "#0000FF",
	"gray":       "#808080",
	"grey":       "#808080",
	"red":        "#FF0000",
	"green":      "#008000",
	"yellow":     "#FFFF00",
	"orange":     "#FFA500",
	"pink":       "#FFC0CB",
	"purple":     "#800080",
	"beige":      "#F5F5DC",
	"cream":      "#FFFDD0",
	"khaki":      "#C3B091",
	"olive":      "#808000",
	"tan":        "#D2B48C",
}

// Swatch is how a line item's color is drawn. A swatch with an empty Hex
// has no color and is rendered as its Label ("-").
type Swatch struct {
	Label  string `json:"label"`
	Hex    string `json:"hex,omitempty"`
	Border string `json:"border,omitempty"`
}

// Missing reports whether the item had no color.
func (s Swatch) Missing() bool {
	return s.Hex == ""
}

// ResolveColor maps a free-text color name to its swatch. Lookup ignores
// case and surrounding space. White gets a border so it stays visible on a
// light background.
func ResolveColor(label string) Swatch {
	if label == "" {
		return Swatch{Label: MissingLabel}
	}

	name := strings.ToLower(strings.TrimSpace(label))
	hex, ok := colorTable[name]
	if !ok {
		hex = NeutralColor
	}

	s := Swatch{Label: label, Hex: hex}
	if name == "white" {
		s.Border = whiteSwatchBorder
	}
	return s
}
