package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ellas-cupcakery/storefront/internal/domain"
)

// OrderRepositoryMock mocks domain.OrderRepository
type OrderRepositoryMock struct {
	mock.Mock
}

func (m *OrderRepositoryMock) CreateOrder(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepositoryMock) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderRepositoryMock) GetAllOrders(ctx context.Context) (map[string]domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Order), args.Error(1)
}

func (m *OrderRepositoryMock) UpdateOrderFields(ctx context.Context, id string, updates map[string]any) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *OrderRepositoryMock) GetUnawardedPaidOrders(ctx context.Context) ([]*domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Order), args.Error(1)
}

// CustomerRepositoryMock mocks domain.CustomerRepository
type CustomerRepositoryMock struct {
	mock.Mock
}

func (m *CustomerRepositoryMock) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *CustomerRepositoryMock) GetCustomerByID(ctx context.Context, id string) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *CustomerRepositoryMock) GetCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *CustomerRepositoryMock) GetAllCustomers(ctx context.Context) (map[string]domain.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Customer), args.Error(1)
}

func (m *CustomerRepositoryMock) UpdateCustomerFields(ctx context.Context, id string, updates map[string]any) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *CustomerRepositoryMock) AddLoyaltyPoints(ctx context.Context, id string, points int) error {
	args := m.Called(ctx, id, points)
	return args.Error(0)
}

func (m *CustomerRepositoryMock) DeleteCustomer(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CustomerRepositoryMock) ReassignOrders(ctx context.Context, fromCustomerID, toCustomerID string) error {
	args := m.Called(ctx, fromCustomerID, toCustomerID)
	return args.Error(0)
}

// MenuRepositoryMock mocks domain.MenuRepository
type MenuRepositoryMock struct {
	mock.Mock
}

func (m *MenuRepositoryMock) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MenuRepositoryMock) GetAllMenuItems(ctx context.Context) (map[string]domain.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.MenuItem), args.Error(1)
}

func (m *MenuRepositoryMock) UpdateMenuItemFields(ctx context.Context, id string, updates map[string]any) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MenuRepositoryMock) DeleteMenuItem(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// FeedbackRepositoryMock mocks domain.FeedbackRepository
type FeedbackRepositoryMock struct {
	mock.Mock
}

func (m *FeedbackRepositoryMock) CreateFeedback(ctx context.Context, entry *domain.FeedbackEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *FeedbackRepositoryMock) GetAllFeedback(ctx context.Context) (map[string]domain.FeedbackEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.FeedbackEntry), args.Error(1)
}

// SettingsRepositoryMock mocks domain.SettingsRepository
type SettingsRepositoryMock struct {
	mock.Mock
}

func (m *SettingsRepositoryMock) GetSettings(ctx context.Context) (domain.SiteSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.SiteSettings), args.Error(1)
}

func (m *SettingsRepositoryMock) SetSettings(ctx context.Context, updates domain.SiteSettings) error {
	args := m.Called(ctx, updates)
	return args.Error(0)
}

// NotifierMock mocks domain.Notifier
type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) NotifyStatusChange(ctx context.Context, customer *domain.Customer, orderID string, status domain.OrderStatus) error {
	args := m.Called(ctx, customer, orderID, status)
	return args.Error(0)
}
