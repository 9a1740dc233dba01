package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ellas-cupcakery/storefront/internal/domain"
)

// StoreClientMock mocks domain.StoreClient
type StoreClientMock struct {
	mock.Mock
}

func (m *StoreClientMock) FetchOrders(ctx context.Context) (map[string]domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Order), args.Error(1)
}

func (m *StoreClientMock) FetchCustomers(ctx context.Context) (map[string]domain.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Customer), args.Error(1)
}

func (m *StoreClientMock) FetchMenu(ctx context.Context) (map[string]domain.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.MenuItem), args.Error(1)
}

func (m *StoreClientMock) FetchSiteSettings(ctx context.Context) (domain.SiteSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.SiteSettings), args.Error(1)
}

func (m *StoreClientMock) SubmitUpdate(ctx context.Context, collection, itemID string, updates map[string]any) error {
	args := m.Called(ctx, collection, itemID, updates)
	return args.Error(0)
}

func (m *StoreClientMock) SubmitCreate(ctx context.Context, collection string, item any) error {
	args := m.Called(ctx, collection, item)
	return args.Error(0)
}

func (m *StoreClientMock) SubmitDelete(ctx context.Context, collection, itemID string) error {
	args := m.Called(ctx, collection, itemID)
	return args.Error(0)
}
