package domain

import "context"

// StoreClient defines how surfaces read whole collections from the record
// store and submit partial mutations back. The store offers no transaction
// or locking primitive; callers get the current snapshot and last-write-wins
// on concurrent updates.
type StoreClient interface {
	FetchOrders(ctx context.Context) (map[string]Order, error)
	FetchCustomers(ctx context.Context) (map[string]Customer, error)
	FetchMenu(ctx context.Context) (map[string]MenuItem, error)
	FetchSiteSettings(ctx context.Context) (SiteSettings, error)
	SubmitUpdate(ctx context.Context, collection, itemID string, updates map[string]any) error
	SubmitCreate(ctx context.Context, collection string, item any) error
	SubmitDelete(ctx context.Context, collection, itemID string) error
}

// OrderRepository defines order persistence on the store side
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrderByID(ctx context.Context, id string) (*Order, error)
	GetAllOrders(ctx context.Context) (map[string]Order, error)
	UpdateOrderFields(ctx context.Context, id string, updates map[string]any) error
	GetUnawardedPaidOrders(ctx context.Context) ([]*Order, error)
}

// CustomerRepository defines customer persistence on the store side
type CustomerRepository interface {
	CreateCustomer(ctx context.Context, customer *Customer) error
	GetCustomerByID(ctx context.Context, id string) (*Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*Customer, error)
	GetAllCustomers(ctx context.Context) (map[string]Customer, error)
	UpdateCustomerFields(ctx context.Context, id string, updates map[string]any) error
	AddLoyaltyPoints(ctx context.Context, id string, points int) error
	DeleteCustomer(ctx context.Context, id string) error
	ReassignOrders(ctx context.Context, fromCustomerID, toCustomerID string) error
}

// MenuRepository defines menu persistence on the store side
type MenuRepository interface {
	CreateMenuItem(ctx context.Context, item *MenuItem) error
	GetAllMenuItems(ctx context.Context) (map[string]MenuItem, error)
	UpdateMenuItemFields(ctx context.Context, id string, updates map[string]any) error
	DeleteMenuItem(ctx context.Context, id string) error
}

// FeedbackRepository defines feedback persistence on the store side
type FeedbackRepository interface {
	CreateFeedback(ctx context.Context, entry *FeedbackEntry) error
	GetAllFeedback(ctx context.Context) (map[string]FeedbackEntry, error)
}

// SettingsRepository defines site settings persistence on the store side
type SettingsRepository interface {
	GetSettings(ctx context.Context) (SiteSettings, error)
	SetSettings(ctx context.Context, updates SiteSettings) error
}

// Notifier sends customer-facing notifications about order updates
type Notifier interface {
	NotifyStatusChange(ctx context.Context, customer *Customer, orderID string, status OrderStatus) error
}
