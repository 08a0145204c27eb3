package product

import "strings"

// Product represents a product row of the directory.
type Product struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Category   string            `json:"category"`
	Unit       string            `json:"unit"`
	UOM        string            `json:"uom"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// WidthKeys returns the attribute keys probed for the width of a product
// in the given backend category code, highest priority first.
func WidthKeys(code string) []string {
	return []string{
		"width_" + code,
		"width-" + code,
		"width_" + strings.Replace(code, "_", "-", 1),
		code + "_width",
		"width",
	}
}

// Width returns the first present, non-empty width attribute for the category code.
func (p Product) Width(code string) string {
	for _, key := range WidthKeys(code) {
		if v := strings.TrimSpace(p.Attributes[key]); v != "" {
			return v
		}
	}

	return ""
}
