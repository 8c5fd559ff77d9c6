package test

import (
	"context"
	"strings"
	"time"

	"github.com/polkiloo/bloomorders/internal/domain/model"
	"github.com/polkiloo/bloomorders/internal/query"
)

// SampleOrder returns a fully populated order for HTTP tests.
func SampleOrder(id string) model.Order {
	details := "Red roses"
	price := 45.5
	at := time.Date(2024, 2, 14, 10, 30, 0, 0, time.UTC)
	return model.Order{
		ID:               id,
		OrderID:          "ORD-" + id,
		CustomerID:       "Alice",
		Details:          &details,
		Status:           model.OrderStatusOrdered,
		DeliveryDateTime: at,
		PickupDelivery:   model.PickupDeliveryDelivery,
		PaymentStatus:    model.PaymentStatusPaid,
		Price:            &price,
		Photos:           []string{"a.jpg"},
		CreatedAt:        at,
		UpdatedAt:        at,
	}
}

// OrderCall stores arguments of create and update invocations.
type OrderCall struct {
	ID      string
	Input   model.OrderInput
	Uploads []model.PhotoUpload
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	OrdersFn func(context.Context, query.View) ([]model.Order, []string, error)
	OrderFn  func(context.Context, string) (*model.Order, error)
	CreateFn func(context.Context, model.OrderInput, []model.PhotoUpload) (*model.Order, error)
	UpdateFn func(context.Context, string, model.OrderInput, []model.PhotoUpload) (*model.Order, error)
	DeleteFn func(context.Context, string) error

	Views   *[]query.View
	Created *[]OrderCall
	Updated *[]OrderCall
}

// Orders returns a single sample order unless overridden.
func (s OrderFacadeStub) Orders(ctx context.Context, view query.View) ([]model.Order, []string, error) {
	if s.Views != nil {
		*s.Views = append(*s.Views, view)
	}
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, view)
	}
	return []model.Order{SampleOrder("1")}, []string{"2024-02-14"}, nil
}

// Order returns a sample order for any id unless overridden.
func (s OrderFacadeStub) Order(ctx context.Context, id string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	o := SampleOrder(id)
	return &o, nil
}

// CreateOrder echoes the input as a stored order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, in model.OrderInput, uploads []model.PhotoUpload) (*model.Order, error) {
	if s.Created != nil {
		*s.Created = append(*s.Created, OrderCall{Input: in, Uploads: uploads})
	}
	if s.CreateFn != nil {
		return s.CreateFn(ctx, in, uploads)
	}
	return echoOrder("new", in, uploads), nil
}

// UpdateOrder echoes the input as the updated order.
func (s OrderFacadeStub) UpdateOrder(ctx context.Context, id string, in model.OrderInput, uploads []model.PhotoUpload) (*model.Order, error) {
	if s.Updated != nil {
		*s.Updated = append(*s.Updated, OrderCall{ID: id, Input: in, Uploads: uploads})
	}
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, in, uploads)
	}
	return echoOrder(id, in, uploads), nil
}

// DeleteOrder succeeds unless overridden.
func (s OrderFacadeStub) DeleteOrder(ctx context.Context, id string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

// PhotoURL prefixes relative paths with a fixed CDN host.
func (s OrderFacadeStub) PhotoURL(path string) string {
	if strings.HasPrefix(path, "http") {
		return path
	}
	return "https://cdn.test/" + path
}

func echoOrder(id string, in model.OrderInput, uploads []model.PhotoUpload) *model.Order {
	photos := append([]string{}, in.KeepPhotos...)
	for _, u := range uploads {
		photos = append(photos, u.Name)
	}
	return &model.Order{
		ID:               id,
		OrderID:          in.OrderID,
		CustomerID:       in.CustomerID,
		Details:          model.OptionalText(in.Details),
		Status:           in.Status,
		DeliveryDateTime: in.DeliveryDateTime,
		PickupDelivery:   in.PickupDelivery,
		PaymentStatus:    in.PaymentStatus,
		Price:            in.Price,
		Photos:           photos,
	}
}

// ImportFacadeStub simulates batch imports.
type ImportFacadeStub struct {
	ImportFn func(context.Context, string) (model.ImportResult, error)
	Texts    *[]string
}

// ImportOrders reports one imported order per non-empty line after the header.
func (s ImportFacadeStub) ImportOrders(ctx context.Context, text string) (model.ImportResult, error) {
	if s.Texts != nil {
		*s.Texts = append(*s.Texts, text)
	}
	if s.ImportFn != nil {
		return s.ImportFn(ctx, text)
	}
	lines := strings.Split(strings.TrimSpace(text), "\n")
	return model.ImportResult{Imported: len(lines) - 1}, nil
}

// HealthFacadeStub reports configured readiness.
type HealthFacadeStub struct {
	PingErr error
}

// Ping returns the configured error.
func (s HealthFacadeStub) Ping(context.Context) error {
	return s.PingErr
}

// ShopFacadeStub aggregates facade dependencies for HTTP layer tests.
type ShopFacadeStub struct {
	SessionFacadeStub
	OrderFacadeStub
	ImportFacadeStub
	HealthFacadeStub
}
