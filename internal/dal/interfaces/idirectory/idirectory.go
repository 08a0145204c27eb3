package idirectory

import (
	"context"

	"github.com/corray333/backend-labs/portal/internal/service/models/customer"
	"github.com/corray333/backend-labs/portal/internal/service/models/product"
)

// IDirectoryRepository is an interface for the customer/product directory.
type IDirectoryRepository interface {
	SearchCustomers(ctx context.Context, filter customer.QueryCustomersModel) ([]customer.Customer, error)
	SearchProducts(ctx context.Context, filter product.QueryProductsModel) ([]product.Product, error)
}
