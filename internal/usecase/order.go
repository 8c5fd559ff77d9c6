package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/bloomorders/internal/domain/errors"
	"github.com/polkiloo/bloomorders/internal/domain/model"
	"github.com/polkiloo/bloomorders/internal/domain/repository"
)

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders repository.OrderRepository
	photos repository.PhotoStorage
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, photos repository.PhotoStorage) *OrderUseCase {
	return &OrderUseCase{orders: orders, photos: photos}
}

// List returns all orders by delivery time, latest first.
func (u *OrderUseCase) List(ctx context.Context) ([]model.Order, error) {
	return u.orders.List(ctx)
}

// Get returns the order or nil when it does not exist.
func (u *OrderUseCase) Get(ctx context.Context, id string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, id)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Create uploads attached photos, then inserts the order.
func (u *OrderUseCase) Create(ctx context.Context, in model.OrderInput, uploads []model.PhotoUpload) (*model.Order, error) {
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, fmt.Errorf("%w: customer_id is required", domainErrors.ErrInvalidOrder)
	}

	fields := model.OrderFields{
		OrderID:          strings.TrimSpace(in.OrderID),
		CustomerID:       strings.TrimSpace(in.CustomerID),
		Details:          model.OptionalText(in.Details),
		Status:           in.Status,
		DeliveryDateTime: in.DeliveryDateTime,
		PickupDelivery:   in.PickupDelivery,
		PaymentStatus:    in.PaymentStatus,
		Price:            in.Price,
	}
	if fields.OrderID == "" {
		fields.OrderID = model.GenerateOrderID()
	}
	if fields.Status == "" {
		fields.Status = model.OrderStatusOrdered
	}
	if fields.PaymentStatus == "" {
		fields.PaymentStatus = model.PaymentStatusPending
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	urls, err := u.upload(ctx, uploads)
	if err != nil {
		return nil, err
	}
	fields.Photos = urls

	order, err := u.orders.Insert(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// Update overwrites every editable field of order id. Newly uploaded photos
// are appended to the kept list.
func (u *OrderUseCase) Update(ctx context.Context, id string, in model.OrderInput, uploads []model.PhotoUpload) (*model.Order, error) {
	current, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, fmt.Errorf("%w: customer_id is required", domainErrors.ErrInvalidOrder)
	}

	fields := model.OrderFields{
		OrderID:          current.OrderID,
		CustomerID:       strings.TrimSpace(in.CustomerID),
		Details:          model.OptionalText(in.Details),
		Status:           in.Status,
		DeliveryDateTime: in.DeliveryDateTime,
		PickupDelivery:   in.PickupDelivery,
		PaymentStatus:    in.PaymentStatus,
		Price:            in.Price,
		Photos:           current.Photos,
	}
	if orderID := strings.TrimSpace(in.OrderID); orderID != "" {
		fields.OrderID = orderID
	}
	if fields.Status == "" {
		fields.Status = current.Status
	}
	if fields.PaymentStatus == "" {
		fields.PaymentStatus = current.PaymentStatus
	}
	if in.KeepPhotos != nil {
		fields.Photos = in.KeepPhotos
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	urls, err := u.upload(ctx, uploads)
	if err != nil {
		return nil, err
	}
	fields.Photos = model.CleanPhotos(append(append([]string{}, fields.Photos...), urls...))

	order, err := u.orders.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return order, nil
}

// Delete removes order id.
func (u *OrderUseCase) Delete(ctx context.Context, id string) error {
	return u.orders.Delete(ctx, id)
}

// PhotoURL resolves a stored photo reference into a link. Absolute URLs are
// returned as is.
func (u *OrderUseCase) PhotoURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http") || u.photos == nil {
		return path
	}
	return u.photos.PublicURL(path)
}

// upload stores photos one at a time and returns their public URLs.
func (u *OrderUseCase) upload(ctx context.Context, uploads []model.PhotoUpload) ([]string, error) {
	urls := make([]string, 0, len(uploads))
	if len(uploads) == 0 {
		return urls, nil
	}
	if u.photos == nil {
		return nil, domainErrors.ErrStorageNotConfigured
	}
	for _, p := range uploads {
		path, err := u.photos.Upload(ctx, p.Data, p.Name, p.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload photo %q: %w", p.Name, err)
		}
		urls = append(urls, u.photos.PublicURL(path))
	}
	return urls, nil
}
