package app

import (
	"context"

	"github.com/polkiloo/bloomorders/internal/domain/model"
	"github.com/polkiloo/bloomorders/internal/domain/repository"
	"github.com/polkiloo/bloomorders/internal/query"
	"github.com/polkiloo/bloomorders/internal/usecase"
)

type ShopFacade struct {
	auth    *usecase.AuthUseCase
	orders  *usecase.OrderUseCase
	imports *usecase.ImportUseCase
	store   repository.Factory
}

func NewShopFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase, imports *usecase.ImportUseCase, store repository.Factory) *ShopFacade {
	return &ShopFacade{auth: auth, orders: orders, imports: imports, store: store}
}

func (f *ShopFacade) AuthEnabled() bool {
	return f.auth.Enabled()
}

func (f *ShopFacade) Login(ctx context.Context, password string) (string, error) {
	return f.auth.Login(ctx, password)
}

func (f *ShopFacade) ParseToken(token string) (string, error) {
	return f.auth.ParseToken(token)
}

// Orders runs view over the full order list. The second result holds the
// distinct delivery days of all orders for the date filter.
func (f *ShopFacade) Orders(ctx context.Context, view query.View) ([]model.Order, []string, error) {
	all, err := f.orders.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return query.Apply(all, view), query.DateKeys(all, view.Location), nil
}

func (f *ShopFacade) Order(ctx context.Context, id string) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

func (f *ShopFacade) CreateOrder(ctx context.Context, in model.OrderInput, uploads []model.PhotoUpload) (*model.Order, error) {
	return f.orders.Create(ctx, in, uploads)
}

func (f *ShopFacade) UpdateOrder(ctx context.Context, id string, in model.OrderInput, uploads []model.PhotoUpload) (*model.Order, error) {
	return f.orders.Update(ctx, id, in, uploads)
}

func (f *ShopFacade) DeleteOrder(ctx context.Context, id string) error {
	return f.orders.Delete(ctx, id)
}

func (f *ShopFacade) PhotoURL(path string) string {
	return f.orders.PhotoURL(path)
}

func (f *ShopFacade) ImportOrders(ctx context.Context, text string) (model.ImportResult, error) {
	return f.imports.ImportText(ctx, text)
}

func (f *ShopFacade) Ping(ctx context.Context) error {
	return f.store.Ping(ctx)
}
