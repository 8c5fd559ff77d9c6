package model

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/bloomorders/internal/domain/errors"
)

// OrderStatus describes fulfilment lifecycle.
type OrderStatus string

const (
	OrderStatusOrdered OrderStatus = "Ordered"
	OrderStatusReady   OrderStatus = "Ready"
	OrderStatusDone    OrderStatus = "Done"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{OrderStatusOrdered, OrderStatusReady, OrderStatusDone}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusOrdered, OrderStatusReady, OrderStatusDone:
		return true
	}
	return false
}

// ParseOrderStatus converts raw text into a status.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", domainErrors.ErrInvalidStatus, raw)
	}
	return s, nil
}

// PickupDelivery tells how the order leaves the shop.
type PickupDelivery string

const (
	PickupDeliveryPickup   PickupDelivery = "Pickup"
	PickupDeliveryDelivery PickupDelivery = "Delivery"
)

// Valid reports whether p is a known fulfilment method.
func (p PickupDelivery) Valid() bool {
	return p == PickupDeliveryPickup || p == PickupDeliveryDelivery
}

// ParsePickupDelivery converts raw text into a fulfilment method.
func ParsePickupDelivery(raw string) (PickupDelivery, error) {
	p := PickupDelivery(raw)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", domainErrors.ErrInvalidPickupDelivery, raw)
	}
	return p, nil
}

// PaymentStatus describes whether the customer has paid.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusUnpaid  PaymentStatus = "Unpaid"
	PaymentStatusPending PaymentStatus = "Pending"
)

// Valid reports whether p is a known payment status.
func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentStatusPaid, PaymentStatusUnpaid, PaymentStatusPending:
		return true
	}
	return false
}

// ParsePaymentStatus converts raw text into a payment status.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	p := PaymentStatus(raw)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", domainErrors.ErrInvalidPaymentStatus, raw)
	}
	return p, nil
}

// Order is a single customer purchase tracked from placement to completion.
type Order struct {
	ID               string
	OrderID          string
	CustomerID       string
	Details          *string
	Status           OrderStatus
	DeliveryDateTime time.Time
	PickupDelivery   PickupDelivery
	PaymentStatus    PaymentStatus
	Price            *float64
	Photos           []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OrderFields is the writable part of an order passed to insert and update.
type OrderFields struct {
	OrderID          string
	CustomerID       string
	Details          *string
	Status           OrderStatus
	DeliveryDateTime time.Time
	PickupDelivery   PickupDelivery
	PaymentStatus    PaymentStatus
	Price            *float64
	Photos           []string
}

// Fields returns the writable part of o.
func (o Order) Fields() OrderFields {
	return OrderFields{
		OrderID:          o.OrderID,
		CustomerID:       o.CustomerID,
		Details:          o.Details,
		Status:           o.Status,
		DeliveryDateTime: o.DeliveryDateTime,
		PickupDelivery:   o.PickupDelivery,
		PaymentStatus:    o.PaymentStatus,
		Price:            o.Price,
		Photos:           o.Photos,
	}
}

// Validate checks enum membership and the non-negative price rule.
func (f OrderFields) Validate() error {
	if strings.TrimSpace(f.OrderID) == "" {
		return fmt.Errorf("%w: order_id is required", domainErrors.ErrInvalidOrder)
	}
	if !f.Status.Valid() {
		return fmt.Errorf("%w: %q", domainErrors.ErrInvalidStatus, f.Status)
	}
	if !f.PickupDelivery.Valid() {
		return fmt.Errorf("%w: %q", domainErrors.ErrInvalidPickupDelivery, f.PickupDelivery)
	}
	if !f.PaymentStatus.Valid() {
		return fmt.Errorf("%w: %q", domainErrors.ErrInvalidPaymentStatus, f.PaymentStatus)
	}
	if f.Price != nil && *f.Price < 0 {
		return fmt.Errorf("%w: %v", domainErrors.ErrInvalidPrice, *f.Price)
	}
	if f.DeliveryDateTime.IsZero() {
		return domainErrors.ErrInvalidDeliveryTime
	}
	return nil
}

// CleanPhotos trims entries and drops empty ones, keeping order.
func CleanPhotos(photos []string) []string {
	out := make([]string, 0, len(photos))
	for _, p := range photos {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// OptionalText returns nil for blank text.
func OptionalText(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

const (
	orderIDLength   = 8
	orderIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// GenerateOrderID returns a random base-36 business code.
func GenerateOrderID() string {
	var b strings.Builder
	b.Grow(orderIDLength)
	limit := big.NewInt(int64(len(orderIDAlphabet)))
	for range orderIDLength {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic(fmt.Sprintf("generate order id: %v", err))
		}
		b.WriteByte(orderIDAlphabet[n.Int64()])
	}
	return b.String()
}

// CanonicalLayout is the interchange form YYYY-MM-DD HH:MM:SS+00.
const CanonicalLayout = "2006-01-02 15:04:05-07"

// FormatCanonical renders t in UTC using CanonicalLayout.
func FormatCanonical(t time.Time) string {
	return t.UTC().Format(CanonicalLayout)
}

// ParseCanonical parses a canonical timestamp into an instant. Years past
// 9999 are accepted; the calendar check then runs against a stand-in year
// with the same leap rule.
func ParseCanonical(s string) (time.Time, error) {
	year, rest, ok := splitLongYear(s)
	if !ok {
		t, err := time.Parse(CanonicalLayout, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", domainErrors.ErrInvalidDeliveryTime, err)
		}
		return t, nil
	}

	standIn := 2001
	if isLeapYear(year) {
		standIn = 2000
	}
	t, err := time.Parse(CanonicalLayout, fmt.Sprintf("%04d%s", standIn, rest))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", domainErrors.ErrInvalidDeliveryTime, err)
	}
	return time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, t.Location()), nil
}

// splitLongYear cuts a leading year of five or more digits from s.
func splitLongYear(s string) (int, string, bool) {
	end := strings.IndexByte(s, '-')
	if end < 5 {
		return 0, "", false
	}
	year, err := strconv.Atoi(s[:end])
	if err != nil || year < 0 {
		return 0, "", false
	}
	return year, s[end:], true
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}
