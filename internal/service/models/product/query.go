package product

// QueryProductsModel represents filter parameters for searching products.
// Label is the category as shown in the form, Code its backend alias.
type QueryProductsModel struct {
	Label string `json:"label"`
	Code  string `json:"code"`
	Name  string `json:"name,omitempty"`
	Limit int    `json:"limit,omitempty"`
}
