package model

import "time"

// PhotoUpload is an image attached to a create or edit request.
type PhotoUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

// OrderInput carries the fields of the manual order form.
type OrderInput struct {
	// OrderID is generated on create when empty and left unchanged on update.
	OrderID          string
	CustomerID       string
	Details          string
	Status           OrderStatus
	DeliveryDateTime time.Time
	PickupDelivery   PickupDelivery
	PaymentStatus    PaymentStatus
	Price            *float64
	// KeepPhotos replaces the stored photo list on update before new uploads
	// are appended. Nil keeps the stored list.
	KeepPhotos []string
}

// ImportFailure is one row rejected during a batch import.
type ImportFailure struct {
	OrderID string
	Reason  string
}

// ImportResult counts the outcome of a batch import.
type ImportResult struct {
	Imported int
	Skipped  int
	// Errors holds one message per failed row, in row order.
	Errors   []string
	Failures []ImportFailure
}
