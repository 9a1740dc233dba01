package service

import "errors"

// Record mutation errors
var (
	ErrRecordNotFound       = errors.New("record not found")
	ErrRecordExists         = errors.New("record already exists")
	ErrUnknownCollection    = errors.New("unknown collection")
	ErrCollectionReadOnly   = errors.New("collection does not support this operation")
	ErrInvalidPayload       = errors.New("invalid record payload")
	ErrNoUpdatableField     = errors.New("no updatable field in payload")
	ErrUnknownStatus        = errors.New("unknown status value")
	ErrUnknownPaymentStatus = errors.New("unknown payment status value")
)

// Vendor access errors
var (
	ErrInvalidAccessCode    = errors.New("invalid access code")
	ErrVendorAccessDisabled = errors.New("vendor access disabled")
)
