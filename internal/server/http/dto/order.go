package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Number accepts a JSON number, a numeric string or null.
type Number string

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(strings.TrimSpace(s))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = Number(num.String())
	return nil
}

// OrderRequest is the create and edit payload, sent as JSON or multipart form.
type OrderRequest struct {
	OrderID          string `json:"order_id" form:"order_id"`
	CustomerID       string `json:"customer_id" form:"customer_id" validate:"required"`
	Details          string `json:"details" form:"details"`
	Status           string `json:"status" form:"status" validate:"omitempty,order_status"`
	DeliveryDateTime string `json:"delivery_date_time" form:"delivery_date_time" validate:"required,timestamp"`
	PickupDelivery   string `json:"pickup_delivery" form:"pickup_delivery" validate:"required,pickup_delivery"`
	PaymentStatus    string `json:"payment_status" form:"payment_status" validate:"omitempty,payment_status"`
	Price            Number `json:"price" form:"price" validate:"omitempty,price"`
	// ExistingPhotos is the photo list to keep on edit. It applies when
	// non-empty or when ReplacePhotos is set.
	ExistingPhotos []string `json:"existing_photos" form:"existing_photos"`
	ReplacePhotos  bool     `json:"replace_photos" form:"replace_photos"`
}

// OrderResponse is the API view of an order.
type OrderResponse struct {
	ID               string    `json:"id"`
	OrderID          string    `json:"order_id"`
	CustomerID       string    `json:"customer_id"`
	Details          *string   `json:"details"`
	Status           string    `json:"status"`
	DeliveryDateTime time.Time `json:"delivery_date_time"`
	PickupDelivery   string    `json:"pickup_delivery"`
	PaymentStatus    string    `json:"payment_status"`
	Price            *float64  `json:"price"`
	Photos           []string  `json:"photos"`
	PhotoURLs        []string  `json:"photo_urls"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// OrderListResponse is the filtered list plus the date filter options.
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Dates  []string        `json:"dates"`
}

// ImportResponse summarises a batch import.
type ImportResponse struct {
	Message  string   `json:"message"`
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ErrorResponse reports a rejected request.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
