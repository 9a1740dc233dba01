package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ellas-cupcakery/storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var customerColumns = map[string]string{
	"name":            "name",
	"email":           "email",
	"preferences":     "preferences",
	"loyalty_points":  "loyalty_points",
	"last_order_date": "last_order_date",
	"is_first_time":   "is_first_time",
}

// CustomerRepository implements domain.CustomerRepository
type CustomerRepository struct {
	db DBTX
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(db DBTX) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// CreateCustomer inserts a new customer profile
func (r *CustomerRepository) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	prefs, err := json.Marshal(customer.Preferences)
	if err != nil {
		return fmt.Errorf("repository: failed to encode preferences: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO customers (id, name, email, preferences, loyalty_points, last_order_date, is_first_time)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		customer.ID, customer.Name, customer.Email, prefs,
		customer.LoyaltyPoints, customer.LastOrderDate, customer.IsFirstTime,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrRecordExists
		}
		return fmt.Errorf("repository: failed to create customer %q: %w", customer.ID, err)
	}
	return nil
}

// GetCustomerByID fetches one customer
func (r *CustomerRepository) GetCustomerByID(ctx context.Context, id string) (*domain.Customer, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, email, preferences, loyalty_points, last_order_date, is_first_time
		 FROM customers
		 WHERE id = $1`,
		id,
	)

	customer, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("repository: failed to get customer %q: %w", id, err)
	}
	return customer, nil
}

// GetCustomerByEmail fetches one customer by email, case-insensitively
func (r *CustomerRepository) GetCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, email, preferences, loyalty_points, last_order_date, is_first_time
		 FROM customers
		 WHERE LOWER(email) = LOWER($1)`,
		email,
	)

	customer, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("repository: failed to get customer by email: %w", err)
	}
	return customer, nil
}

// GetAllCustomers fetches the whole customers collection
func (r *CustomerRepository) GetAllCustomers(ctx context.Context) (map[string]domain.Customer, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, email, preferences, loyalty_points, last_order_date, is_first_time
		 FROM customers`,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to get customers: %w", err)
	}
	defer rows.Close()

	customers := make(map[string]domain.Customer)
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan customer: %w", err)
		}
		customers[customer.ID] = *customer
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating customers: %w", err)
	}
	return customers, nil
}

// UpdateCustomerFields applies a partial, column-whitelisted update
func (r *CustomerRepository) UpdateCustomerFields(ctx context.Context, id string, updates map[string]any) error {
	if prefs, ok := updates["preferences"]; ok {
		encoded, err := json.Marshal(prefs)
		if err != nil {
			return fmt.Errorf("repository: failed to encode preferences: %w", err)
		}
		updates["preferences"] = encoded
	}

	assignments, args, err := buildAssignments(customerColumns, updates)
	if err != nil {
		return err
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE customers SET %s WHERE id = $%d`, assignments, len(args))
	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("repository: failed to update customer %q: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// AddLoyaltyPoints atomically increments a customer's points balance and
// stamps the last order date
func (r *CustomerRepository) AddLoyaltyPoints(ctx context.Context, id string, points int) error {
	result, err := r.db.Exec(ctx,
		`UPDATE customers
		 SET loyalty_points = loyalty_points + $1, last_order_date = NOW()
		 WHERE id = $2`,
		points, id,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to add loyalty points for %q: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// DeleteCustomer removes a customer profile. Used when duplicate profiles
// are merged on first contact.
func (r *CustomerRepository) DeleteCustomer(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete customer %q: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// ReassignOrders points every order of one customer at another
func (r *CustomerRepository) ReassignOrders(ctx context.Context, fromCustomerID, toCustomerID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE orders SET customer_id = $1 WHERE customer_id = $2`,
		toCustomerID, fromCustomerID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to reassign orders from %q: %w", fromCustomerID, err)
	}
	return nil
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	customer := &domain.Customer{}
	var prefs []byte

	err := row.Scan(&customer.ID, &customer.Name, &customer.Email, &prefs,
		&customer.LoyaltyPoints, &customer.LastOrderDate, &customer.IsFirstTime)
	if err != nil {
		return nil, err
	}
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &customer.Preferences); err != nil {
			return nil, fmt.Errorf("failed to decode preferences: %w", err)
		}
	}
	return customer, nil
}
