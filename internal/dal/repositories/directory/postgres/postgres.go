package postgresrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/portal/internal/service/models/customer"
	"github.com/corray333/backend-labs/portal/internal/service/models/product"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultCustomerLimit = 10
	defaultProductLimit  = 50
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// DirectoryRepository searches the customers and products tables.
type DirectoryRepository struct {
	conn querier
}

// NewDirectoryRepository creates a new directory repository over a pool or transaction.
func NewDirectoryRepository(conn querier) *DirectoryRepository {
	return &DirectoryRepository{
		conn: conn,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// contains builds an ILIKE pattern matching s anywhere in the column.
func contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func buildCustomerQuery(filter customer.QueryCustomersModel) (string, []any, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultCustomerLimit
	}

	query := sq.Select(
		"id",
		"customer_name",
		"email_id",
		"mob_no",
		"address",
		"billing_address",
		"full_address",
		"customer_address",
		"account_status",
		"branch",
	).
		From("customers").
		Where(sq.ILike{"customer_name": contains(filter.Name)})

	if filter.Branch != "" {
		query = query.Where(sq.Eq{"branch": filter.Branch})
	}

	return query.
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

func buildProductQuery(filter product.QueryProductsModel) (string, []any, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultProductLimit
	}

	query := sq.Select(
		"id",
		"name",
		"category",
		"unit",
		"uom",
		"width",
		"attributes",
	).
		From("products").
		Where(sq.Or{
			sq.ILike{"unit": contains(filter.Code)},
			sq.ILike{"category": contains(filter.Code)},
			sq.ILike{"unit": contains(filter.Label)},
			sq.ILike{"category": contains(filter.Label)},
		})

	if name := strings.TrimSpace(filter.Name); name != "" {
		query = query.Where(sq.ILike{"name": contains(name)})
	}

	return query.
		OrderBy("name ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

// SearchCustomers returns customers whose name contains the filter text,
// scoped to the filter branch when one is set.
func (r *DirectoryRepository) SearchCustomers(
	ctx context.Context,
	filter customer.QueryCustomersModel,
) ([]customer.Customer, error) {
	ctx, span := otel.Tracer("portal-svc").Start(ctx, "directory.SearchCustomers")
	defer span.End()
	span.SetAttributes(attribute.String("branch", filter.Branch))

	query, args, err := buildCustomerQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build customer query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var result []customer.Customer
	for rows.Next() {
		var (
			c         customer.Customer
			addresses = make([]string, len(customer.AddressColumns))
		)
		err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Email,
			&c.Phone,
			&addresses[0],
			&addresses[1],
			&addresses[2],
			&addresses[3],
			&c.AccountStatus,
			&c.Branch,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}

		columns := make(map[string]string, len(addresses))
		for i, col := range customer.AddressColumns {
			columns[col] = addresses[i]
		}
		c.Address = customer.ResolveAddress(columns)

		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// SearchProducts returns products of the filter category, optionally
// narrowed by name, sorted by name.
func (r *DirectoryRepository) SearchProducts(
	ctx context.Context,
	filter product.QueryProductsModel,
) ([]product.Product, error) {
	ctx, span := otel.Tracer("portal-svc").Start(ctx, "directory.SearchProducts")
	defer span.End()
	span.SetAttributes(attribute.String("category", filter.Label))

	query, args, err := buildProductQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build product query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var result []product.Product
	for rows.Next() {
		var (
			p     product.Product
			width string
			raw   []byte
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Unit, &p.UOM, &width, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		p.Attributes, err = decodeAttributes(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attributes of product %s: %w", p.ID, err)
		}
		if width != "" {
			if _, ok := p.Attributes["width"]; !ok {
				p.Attributes["width"] = width
			}
		}

		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// decodeAttributes flattens a JSON object of extra product columns into strings.
func decodeAttributes(raw []byte) (map[string]string, error) {
	attrs := make(map[string]string)
	if len(bytes.TrimSpace(raw)) == 0 {
		return attrs, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return nil, err
	}

	for key, v := range values {
		switch val := v.(type) {
		case nil:
		case string:
			attrs[key] = val
		default:
			attrs[key] = fmt.Sprint(val)
		}
	}

	return attrs, nil
}
