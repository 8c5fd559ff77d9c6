package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/bloomorders/internal/domain/errors"
	"github.com/polkiloo/bloomorders/internal/domain/model"
)

const orderColumns = `id, order_id, customer_id, details, status, delivery_date_time,
                      pickup_delivery, payment_status, price, photos, created_at, updated_at`

type orderRepository struct {
	storage *Storage
}

func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders ORDER BY delivery_date_time DESC, created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	result := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return result, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}
	return order, nil
}

func (r *orderRepository) Insert(ctx context.Context, f model.OrderFields) (*model.Order, error) {
	const query = `INSERT INTO orders (id, order_id, customer_id, details, status, delivery_date_time,
                   pickup_delivery, payment_status, price, photos)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                   RETURNING created_at, updated_at`

	order := fromFields(r.storage.newID(), f)
	err := r.storage.pool.QueryRow(ctx, query,
		order.ID, order.OrderID, order.CustomerID, order.Details, string(order.Status), order.DeliveryDateTime,
		string(order.PickupDelivery), string(order.PaymentStatus), order.Price, order.Photos,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *orderRepository) Update(ctx context.Context, id string, f model.OrderFields) (*model.Order, error) {
	const query = `UPDATE orders SET order_id=$2, customer_id=$3, details=$4, status=$5, delivery_date_time=$6,
                   pickup_delivery=$7, payment_status=$8, price=$9, photos=$10, updated_at=NOW()
                   WHERE id=$1
                   RETURNING created_at, updated_at`

	order := fromFields(id, f)
	err := r.storage.pool.QueryRow(ctx, query,
		order.ID, order.OrderID, order.CustomerID, order.Details, string(order.Status), order.DeliveryDateTime,
		string(order.PickupDelivery), string(order.PaymentStatus), order.Price, order.Photos,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func fromFields(id string, f model.OrderFields) model.Order {
	photos := f.Photos
	if photos == nil {
		photos = []string{}
	}
	return model.Order{
		ID:               id,
		OrderID:          f.OrderID,
		CustomerID:       f.CustomerID,
		Details:          f.Details,
		Status:           f.Status,
		DeliveryDateTime: f.DeliveryDateTime,
		PickupDelivery:   f.PickupDelivery,
		PaymentStatus:    f.PaymentStatus,
		Price:            f.Price,
		Photos:           photos,
	}
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o                       model.Order
		status, pickup, payment string
	)
	if err := row.Scan(
		&o.ID, &o.OrderID, &o.CustomerID, &o.Details, &status, &o.DeliveryDateTime,
		&pickup, &payment, &o.Price, &o.Photos, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)
	o.PickupDelivery = model.PickupDelivery(pickup)
	o.PaymentStatus = model.PaymentStatus(payment)
	if o.Photos == nil {
		o.Photos = []string{}
	}
	return &o, nil
}
