package customer

// QueryCustomersModel represents filter parameters for searching customers.
type QueryCustomersModel struct {
	Name   string `json:"name"`
	Branch string `json:"branch,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}
