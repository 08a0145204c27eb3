package customer

// DefaultAccountStatus is used when the directory row carries no status.
const DefaultAccountStatus = "Active"

// Customer represents a customer row of the directory.
type Customer struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"contactNo"`
	Address       string `json:"address"`
	AccountStatus string `json:"accountStatus"`
	Branch        string `json:"branch"`
}

// AddressColumns lists the directory address columns in lookup order.
var AddressColumns = []string{"address", "billing_address", "full_address", "customer_address"}

// ResolveAddress returns the first non-empty address among the directory columns.
func ResolveAddress(columns map[string]string) string {
	for _, col := range AddressColumns {
		if v := columns[col]; v != "" {
			return v
		}
	}

	return ""
}

// Status returns the account status, falling back to DefaultAccountStatus.
func (c Customer) Status() string {
	if c.AccountStatus == "" {
		return DefaultAccountStatus
	}

	return c.AccountStatus
}
