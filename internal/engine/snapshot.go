package engine

import (
	"context"
	"maps"

	"github.com/ellas-cupcakery/storefront/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Snapshot is a full point-in-time copy of the collections one surface
// tracks. Customers may be nil for surfaces that only watch orders.
type Snapshot struct {
	Orders    map[string]domain.Order
	Customers map[string]domain.Customer
}

// Clone returns an independent shallow copy of the snapshot
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Orders:    maps.Clone(s.Orders),
		Customers: maps.Clone(s.Customers),
	}
}

// FetchFunc resolves to a full collection snapshot or fails. Each surface
// is constructed with its own fetch function; the poller knows nothing
// about what is being fetched.
type FetchFunc func(ctx context.Context) (Snapshot, error)

// OrderFilter selects which orders a surface tracks
type OrderFilter func(domain.Order) bool

// AllOrders tracks every order in the store
func AllOrders(domain.Order) bool { return true }

// ActiveOrdersFor tracks the given customer's orders that have not
// reached a terminal status. This is the customer status widget's view.
func ActiveOrdersFor(customerID string) OrderFilter {
	return func(o domain.Order) bool {
		return o.CustomerID == customerID && o.Active()
	}
}

func filterOrders(orders map[string]domain.Order, filter OrderFilter) map[string]domain.Order {
	if filter == nil {
		return orders
	}
	filtered := make(map[string]domain.Order, len(orders))
	for id, o := range orders {
		if filter(o) {
			filtered[id] = o
		}
	}
	return filtered
}

// FetchOrders returns a fetch function reading only the orders collection
func FetchOrders(client domain.StoreClient, filter OrderFilter) FetchFunc {
	return func(ctx context.Context) (Snapshot, error) {
		orders, err := client.FetchOrders(ctx)
		if err != nil {
			return Snapshot{}, err
		}
		return Snapshot{Orders: filterOrders(orders, filter)}, nil
	}
}

// FetchOrdersWithCustomers returns a fetch function reading the orders and
// customers collections in parallel, failing if either read fails
func FetchOrdersWithCustomers(client domain.StoreClient, filter OrderFilter) FetchFunc {
	return func(ctx context.Context) (Snapshot, error) {
		var (
			orders    map[string]domain.Order
			customers map[string]domain.Customer
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			orders, err = client.FetchOrders(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			customers, err = client.FetchCustomers(gctx)
			return err
		})

		if err := g.Wait(); err != nil {
			return Snapshot{}, err
		}
		return Snapshot{Orders: filterOrders(orders, filter), Customers: customers}, nil
	}
}
