package repository

import (
	"context"

	"github.com/polkiloo/bloomorders/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// List returns all orders by delivery_date_time descending.
	List(ctx context.Context) ([]model.Order, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	// Insert fails with ErrAlreadyExists when order_id is taken.
	Insert(ctx context.Context, fields model.OrderFields) (*model.Order, error)
	// Update fails with ErrNotFound when id is unknown.
	Update(ctx context.Context, id string, fields model.OrderFields) (*model.Order, error)
	Delete(ctx context.Context, id string) error
}
