package errors

import "errors"

var (
	ErrAlreadyExists         = errors.New("already exists")
	ErrNotFound              = errors.New("not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidOrder          = errors.New("invalid order")
	ErrInvalidStatus         = errors.New("invalid status")
	ErrInvalidPickupDelivery = errors.New("invalid pickup/delivery value")
	ErrInvalidPaymentStatus  = errors.New("invalid payment status")
	ErrInvalidPrice          = errors.New("invalid price")
	ErrInvalidDeliveryTime   = errors.New("invalid delivery date/time")
	ErrStorageNotConfigured  = errors.New("photo storage is not configured")
	ErrEmptyImport           = errors.New("no orders found in the file")
)
