package postgres

import "errors"

// Record errors
var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrRecordExists     = errors.New("record already exists")
	ErrNoUpdatableField = errors.New("no updatable field in request")
)
