package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ellas-cupcakery/storefront/internal/domain"
	"github.com/ellas-cupcakery/storefront/internal/repository/postgres"
)

// Collections exposed through the data API
const (
	CollectionOrders    = "orders"
	CollectionCustomers = "customers"
	CollectionMenu      = "menu"
	CollectionFeedback  = "feedback"
	CollectionSettings  = "site_settings"
)

// RecordService implements the record store operations behind the data API
type RecordService struct {
	orderRepo    domain.OrderRepository
	customerRepo domain.CustomerRepository
	menuRepo     domain.MenuRepository
	feedbackRepo domain.FeedbackRepository
	settingsRepo domain.SettingsRepository
	notifier     domain.Notifier
	logger       *zap.Logger
}

// NewRecordService creates a new RecordService
func NewRecordService(
	orderRepo domain.OrderRepository,
	customerRepo domain.CustomerRepository,
	menuRepo domain.MenuRepository,
	feedbackRepo domain.FeedbackRepository,
	settingsRepo domain.SettingsRepository,
	notifier domain.Notifier,
	logger *zap.Logger,
) *RecordService {
	return &RecordService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		menuRepo:     menuRepo,
		feedbackRepo: feedbackRepo,
		settingsRepo: settingsRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

// GetSettings returns the site settings document
func (s *RecordService) GetSettings(ctx context.Context) (domain.SiteSettings, error) {
	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("record service: failed to load settings: %w", err)
	}
	return settings, nil
}

// GetCollection returns every record of the named collection keyed by id
func (s *RecordService) GetCollection(ctx context.Context, collection string) (any, error) {
	switch collection {
	case CollectionOrders:
		orders, err := s.orderRepo.GetAllOrders(ctx)
		if err != nil {
			return nil, fmt.Errorf("record service: failed to load orders: %w", err)
		}
		return orders, nil
	case CollectionCustomers:
		customers, err := s.customerRepo.GetAllCustomers(ctx)
		if err != nil {
			return nil, fmt.Errorf("record service: failed to load customers: %w", err)
		}
		return customers, nil
	case CollectionMenu:
		menu, err := s.menuRepo.GetAllMenuItems(ctx)
		if err != nil {
			return nil, fmt.Errorf("record service: failed to load menu: %w", err)
		}
		return menu, nil
	case CollectionFeedback:
		feedback, err := s.feedbackRepo.GetAllFeedback(ctx)
		if err != nil {
			return nil, fmt.Errorf("record service: failed to load feedback: %w", err)
		}
		return feedback, nil
	default:
		return nil, ErrUnknownCollection
	}
}

// UpdateRecord applies a partial update to a single record. Only the fields
// present in updates change; everything else keeps its stored value.
func (s *RecordService) UpdateRecord(ctx context.Context, collection, itemID string, updates map[string]any) error {
	if len(updates) == 0 {
		return ErrInvalidPayload
	}
	if itemID == "" && collection != CollectionSettings {
		return ErrInvalidPayload
	}

	switch collection {
	case CollectionOrders:
		return s.updateOrder(ctx, itemID, updates)
	case CollectionCustomers:
		err := s.customerRepo.UpdateCustomerFields(ctx, itemID, updates)
		return s.mapRepoError(err, "customer", itemID)
	case CollectionMenu:
		err := s.menuRepo.UpdateMenuItemFields(ctx, itemID, updates)
		return s.mapRepoError(err, "menu item", itemID)
	case CollectionSettings:
		// Settings form a single document; itemID is ignored.
		if err := s.settingsRepo.SetSettings(ctx, domain.SiteSettings(updates)); err != nil {
			return fmt.Errorf("record service: failed to update settings: %w", err)
		}
		return nil
	case CollectionFeedback:
		return ErrCollectionReadOnly
	default:
		return ErrUnknownCollection
	}
}

func (s *RecordService) updateOrder(ctx context.Context, orderID string, updates map[string]any) error {
	if err := validateOrderUpdates(updates); err != nil {
		return err
	}

	prev, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return s.mapRepoError(err, "order", orderID)
	}

	if err := s.orderRepo.UpdateOrderFields(ctx, orderID, updates); err != nil {
		return s.mapRepoError(err, "order", orderID)
	}

	// Status changes are customer-visible, so they trigger an email.
	// Notification failures never fail the update itself.
	if raw, ok := updates["status"]; ok {
		newStatus := domain.OrderStatus(fmt.Sprint(raw))
		if newStatus != prev.Status {
			s.notifyStatusChange(ctx, prev, newStatus)
		}
	}

	return nil
}

func (s *RecordService) notifyStatusChange(ctx context.Context, order *domain.Order, status domain.OrderStatus) {
	customer, err := s.customerRepo.GetCustomerByID(ctx, order.CustomerID)
	if err != nil {
		s.logger.Warn("status notification skipped: customer lookup failed",
			zap.String("order_id", order.ID),
			zap.String("customer_id", order.CustomerID),
			zap.Error(err))
		return
	}

	if err := s.notifier.NotifyStatusChange(ctx, customer, order.ID, status); err != nil {
		s.logger.Warn("status notification failed",
			zap.String("order_id", order.ID),
			zap.String("customer_id", customer.ID),
			zap.Error(err))
	}
}

// AddRecord creates a new record in the named collection from a raw JSON
// payload. Orders get a generated id and default statuses when absent.
func (s *RecordService) AddRecord(ctx context.Context, collection string, item json.RawMessage) (string, error) {
	switch collection {
	case CollectionOrders:
		return s.addOrder(ctx, item)
	case CollectionCustomers:
		return s.addCustomer(ctx, item)
	case CollectionMenu:
		return s.addMenuItem(ctx, item)
	case CollectionFeedback:
		return s.addFeedback(ctx, item)
	default:
		return "", ErrUnknownCollection
	}
}

func (s *RecordService) addOrder(ctx context.Context, item json.RawMessage) (string, error) {
	var order domain.Order
	if err := json.Unmarshal(item, &order); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidPayload, err)
	}

	if order.ID == "" {
		order.ID = generateOrderID()
	}
	if order.Status == "" {
		order.Status = domain.StatusPendingPayment
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = domain.PaymentUnpaid
	}
	if order.Timestamp.IsZero() {
		order.Timestamp = time.Now().UTC()
	}
	if err := order.Validate(); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidPayload, err)
	}

	if err := s.orderRepo.CreateOrder(ctx, &order); err != nil {
		return "", s.mapRepoError(err, "order", order.ID)
	}
	return order.ID, nil
}

// addCustomer creates a customer profile. A profile with the same email but
// a different id is treated as the same person: its loyalty points, order
// history and preferences fold into the new profile and the old one goes away.
func (s *RecordService) addCustomer(ctx context.Context, item json.RawMessage) (string, error) {
	var customer domain.Customer
	if err := json.Unmarshal(item, &customer); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidPayload, err)
	}
	if customer.ID == "" || customer.Email == "" {
		return "", fmt.Errorf("%w: customer id and email are required", ErrInvalidPayload)
	}

	dup, err := s.customerRepo.GetCustomerByEmail(ctx, customer.Email)
	if err != nil && !errors.Is(err, postgres.ErrCustomerNotFound) {
		return "", fmt.Errorf("record service: duplicate lookup for %q failed: %w", customer.Email, err)
	}

	if dup != nil && dup.ID != customer.ID {
		customer = mergeCustomer(customer, dup)

		if err := s.customerRepo.ReassignOrders(ctx, dup.ID, customer.ID); err != nil {
			return "", fmt.Errorf("record service: failed to reassign orders from %q: %w", dup.ID, err)
		}
		if err := s.customerRepo.DeleteCustomer(ctx, dup.ID); err != nil {
			return "", fmt.Errorf("record service: failed to remove merged customer %q: %w", dup.ID, err)
		}
		s.logger.Info("merged duplicate customer profile",
			zap.String("email", customer.Email),
			zap.String("kept_id", customer.ID),
			zap.String("merged_id", dup.ID))
	}

	if err := s.customerRepo.CreateCustomer(ctx, &customer); err != nil {
		if errors.Is(err, postgres.ErrRecordExists) {
			// Same id resubmitted: overwrite the mutable profile fields.
			updates := map[string]any{
				"name":        customer.Name,
				"email":       customer.Email,
				"preferences": customer.Preferences,
			}
			if err := s.customerRepo.UpdateCustomerFields(ctx, customer.ID, updates); err != nil {
				return "", s.mapRepoError(err, "customer", customer.ID)
			}
			return customer.ID, nil
		}
		return "", s.mapRepoError(err, "customer", customer.ID)
	}
	return customer.ID, nil
}

func (s *RecordService) addMenuItem(ctx context.Context, item json.RawMessage) (string, error) {
	var menuItem domain.MenuItem
	if err := json.Unmarshal(item, &menuItem); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidPayload, err)
	}
	if menuItem.ID == "" || menuItem.Name == "" {
		return "", fmt.Errorf("%w: menu item id and name are required", ErrInvalidPayload)
	}

	if err := s.menuRepo.CreateMenuItem(ctx, &menuItem); err != nil {
		return "", s.mapRepoError(err, "menu item", menuItem.ID)
	}
	return menuItem.ID, nil
}

func (s *RecordService) addFeedback(ctx context.Context, item json.RawMessage) (string, error) {
	var entry domain.FeedbackEntry
	if err := json.Unmarshal(item, &entry); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidPayload, err)
	}
	if entry.Text == "" {
		return "", fmt.Errorf("%w: feedback text is required", ErrInvalidPayload)
	}

	if entry.ID == "" {
		entry.ID = generateFeedbackID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	if err := s.feedbackRepo.CreateFeedback(ctx, &entry); err != nil {
		return "", s.mapRepoError(err, "feedback", entry.ID)
	}
	return entry.ID, nil
}

// DeleteRecord removes a record. Only menu items can be deleted through the
// data API; orders, customers and feedback stay for history.
func (s *RecordService) DeleteRecord(ctx context.Context, collection, itemID string) error {
	if itemID == "" {
		return ErrInvalidPayload
	}

	switch collection {
	case CollectionMenu:
		err := s.menuRepo.DeleteMenuItem(ctx, itemID)
		return s.mapRepoError(err, "menu item", itemID)
	case CollectionOrders, CollectionCustomers, CollectionFeedback:
		return ErrCollectionReadOnly
	default:
		return ErrUnknownCollection
	}
}

// mapRepoError converts repository sentinels into service sentinels and
// wraps everything else
func (s *RecordService) mapRepoError(err error, kind, id string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, postgres.ErrOrderNotFound),
		errors.Is(err, postgres.ErrCustomerNotFound),
		errors.Is(err, postgres.ErrMenuItemNotFound):
		return ErrRecordNotFound
	case errors.Is(err, postgres.ErrRecordExists):
		return ErrRecordExists
	case errors.Is(err, postgres.ErrNoUpdatableField):
		return ErrNoUpdatableField
	}
	return fmt.Errorf("record service: %s %q: %w", kind, id, err)
}

func validateOrderUpdates(updates map[string]any) error {
	if raw, ok := updates["status"]; ok {
		status := domain.OrderStatus(fmt.Sprint(raw))
		if !status.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
		}
	}
	if raw, ok := updates["payment_status"]; ok {
		payment := domain.PaymentStatus(fmt.Sprint(raw))
		if !payment.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownPaymentStatus, payment)
		}
	}
	return nil
}

// mergeCustomer folds the duplicate profile into the incoming one
func mergeCustomer(incoming domain.Customer, dup *domain.Customer) domain.Customer {
	incoming.LoyaltyPoints += dup.LoyaltyPoints

	seen := make(map[string]bool, len(incoming.Preferences))
	for _, p := range incoming.Preferences {
		seen[p] = true
	}
	for _, p := range dup.Preferences {
		if !seen[p] {
			incoming.Preferences = append(incoming.Preferences, p)
			seen[p] = true
		}
	}

	if incoming.Name == "" {
		incoming.Name = dup.Name
	}
	if dup.LastOrderDate != nil {
		if incoming.LastOrderDate == nil || dup.LastOrderDate.After(*incoming.LastOrderDate) {
			incoming.LastOrderDate = dup.LastOrderDate
		}
	}
	if !dup.IsFirstTime {
		incoming.IsFirstTime = false
	}
	return incoming
}

// generateOrderID produces a short order id like O-3F2A9C41
func generateOrderID() string {
	return "O-" + strings.ToUpper(uuid.NewString()[:8])
}

// generateFeedbackID produces a short feedback id like F-3F2A9C41
func generateFeedbackID() string {
	return "F-" + strings.ToUpper(uuid.NewString()[:8])
}
