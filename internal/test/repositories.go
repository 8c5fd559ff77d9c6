package test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/bloomorders/internal/domain/errors"
	"github.com/polkiloo/bloomorders/internal/domain/model"
)

// OrderUpdateCall stores information about Update invocations.
type OrderUpdateCall struct {
	ID     string
	Fields model.OrderFields
}

// OrderRepositoryStub stores orders in-memory and enforces order_id uniqueness.
type OrderRepositoryStub struct {
	ListFn    func(context.Context) ([]model.Order, error)
	GetByIDFn func(context.Context, string) (*model.Order, error)
	InsertFn  func(context.Context, model.OrderFields) (*model.Order, error)
	UpdateFn  func(context.Context, string, model.OrderFields) (*model.Order, error)
	DeleteFn  func(context.Context, string) error

	Inserted    []model.OrderFields
	UpdateCalls []OrderUpdateCall
	Deleted     []string

	mu     sync.Mutex
	orders map[string]*model.Order
	next   int
}

// NewOrderRepositoryStub constructs stub repository seeded with orders.
func NewOrderRepositoryStub(seed ...model.Order) *OrderRepositoryStub {
	s := &OrderRepositoryStub{orders: make(map[string]*model.Order)}
	for i := range seed {
		o := seed[i]
		if o.ID == "" {
			s.next++
			o.ID = fmt.Sprintf("id-%d", s.next)
		}
		s.orders[o.ID] = &o
	}
	return s
}

// List returns stored orders by delivery time descending.
func (s *OrderRepositoryStub) List(ctx context.Context) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, *o)
	}
	slices.SortFunc(out, func(a, b model.Order) int {
		if c := b.DeliveryDateTime.Compare(a.DeliveryDateTime); c != 0 {
			return c
		}
		return compareIDs(a.ID, b.ID)
	})
	return out, nil
}

// GetByID returns stored order or not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[id]; ok {
		order := *o
		return &order, nil
	}
	return nil, domainErrors.ErrNotFound
}

// Insert records the call and stores the order unless order_id is taken.
func (s *OrderRepositoryStub) Insert(ctx context.Context, fields model.OrderFields) (*model.Order, error) {
	s.mu.Lock()
	s.Inserted = append(s.Inserted, fields)
	s.mu.Unlock()
	if s.InsertFn != nil {
		return s.InsertFn(ctx, fields)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orders == nil {
		s.orders = make(map[string]*model.Order)
	}
	if s.takenLocked(fields.OrderID, "") {
		return nil, fmt.Errorf("insert order: %w", domainErrors.ErrAlreadyExists)
	}
	s.next++
	now := time.Now().UTC()
	order := orderFromFields(fmt.Sprintf("id-%d", s.next), fields, now, now)
	s.orders[order.ID] = &order
	out := order
	return &out, nil
}

// Update records the call and overwrites the stored order.
func (s *OrderRepositoryStub) Update(ctx context.Context, id string, fields model.OrderFields) (*model.Order, error) {
	s.mu.Lock()
	s.UpdateCalls = append(s.UpdateCalls, OrderUpdateCall{ID: id, Fields: fields})
	s.mu.Unlock()
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, fields)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if s.takenLocked(fields.OrderID, id) {
		return nil, fmt.Errorf("update order: %w", domainErrors.ErrAlreadyExists)
	}
	order := orderFromFields(id, fields, current.CreatedAt, time.Now().UTC())
	s.orders[id] = &order
	out := order
	return &out, nil
}

// Delete removes order or returns not found.
func (s *OrderRepositoryStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	s.Deleted = append(s.Deleted, id)
	s.mu.Unlock()
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

// Len reports number of stored orders.
func (s *OrderRepositoryStub) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *OrderRepositoryStub) takenLocked(orderID, exceptID string) bool {
	for id, o := range s.orders {
		if id != exceptID && o.OrderID == orderID {
			return true
		}
	}
	return false
}

func orderFromFields(id string, f model.OrderFields, created, updated time.Time) model.Order {
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
		Photos:           slices.Clone(f.Photos),
		CreatedAt:        created,
		UpdatedAt:        updated,
	}
}

func compareIDs(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// PhotoUploadCall records one Upload invocation.
type PhotoUploadCall struct {
	Name        string
	ContentType string
	Size        int
}

// PhotoStorageStub keeps uploads in memory.
type PhotoStorageStub struct {
	UploadFn func(context.Context, []byte, string, string) (string, error)
	BaseURL  string
	Uploads  []PhotoUploadCall

	mu sync.Mutex
}

// Upload records the call and returns a sequential path.
func (s *PhotoStorageStub) Upload(ctx context.Context, data []byte, name, contentType string) (string, error) {
	s.mu.Lock()
	s.Uploads = append(s.Uploads, PhotoUploadCall{Name: name, ContentType: contentType, Size: len(data)})
	n := len(s.Uploads)
	s.mu.Unlock()
	if s.UploadFn != nil {
		return s.UploadFn(ctx, data, name, contentType)
	}
	return fmt.Sprintf("upload-%d-%s", n, name), nil
}

// PublicURL joins BaseURL and path.
func (s *PhotoStorageStub) PublicURL(path string) string {
	base := s.BaseURL
	if base == "" {
		base = "https://cdn.test/order-photos"
	}
	return base + "/" + path
}
