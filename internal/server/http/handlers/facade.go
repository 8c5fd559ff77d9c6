package handlers

import (
	"context"

	"github.com/polkiloo/bloomorders/internal/domain/model"
	"github.com/polkiloo/bloomorders/internal/query"
)

// SessionFacade describes staff session capabilities required by handlers.
type SessionFacade interface {
	AuthEnabled() bool
	Login(ctx context.Context, password string) (string, error)
	ParseToken(token string) (string, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	Orders(ctx context.Context, view query.View) ([]model.Order, []string, error)
	Order(ctx context.Context, id string) (*model.Order, error)
	CreateOrder(ctx context.Context, in model.OrderInput, uploads []model.PhotoUpload) (*model.Order, error)
	UpdateOrder(ctx context.Context, id string, in model.OrderInput, uploads []model.PhotoUpload) (*model.Order, error)
	DeleteOrder(ctx context.Context, id string) error
	PhotoURL(path string) string
}

// ImportFacade runs batch imports.
type ImportFacade interface {
	ImportOrders(ctx context.Context, text string) (model.ImportResult, error)
}

// HealthFacade reports backend readiness.
type HealthFacade interface {
	Ping(ctx context.Context) error
}

// ShopFacade aggregates the full set of operations used across handlers.
type ShopFacade interface {
	SessionFacade
	OrderFacade
	ImportFacade
	HealthFacade
}
