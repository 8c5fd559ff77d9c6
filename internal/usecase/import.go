package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/polkiloo/bloomorders/internal/csvimport"
	domainErrors "github.com/polkiloo/bloomorders/internal/domain/errors"
	"github.com/polkiloo/bloomorders/internal/domain/model"
	"github.com/polkiloo/bloomorders/internal/domain/repository"
)

// ImportError reports a batch where some rows failed. Rows that succeeded
// stay persisted.
type ImportError struct {
	Failed    int
	Succeeded int
	Errors    []string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("Failed to import %d orders. %d orders imported successfully.", e.Failed, e.Succeeded)
}

// ImportUseCase persists parsed import rows one by one.
type ImportUseCase struct {
	orders repository.OrderRepository
	log    *slog.Logger
	now    func() time.Time
}

// NewImportUseCase constructs ImportUseCase.
func NewImportUseCase(orders repository.OrderRepository, log *slog.Logger) *ImportUseCase {
	return &ImportUseCase{orders: orders, log: log, now: time.Now}
}

// ImportText parses a comma or tab separated export and imports it.
func (u *ImportUseCase) ImportText(ctx context.Context, text string) (model.ImportResult, error) {
	rows := csvimport.ParseAuto(text)
	if len(rows) == 0 {
		return model.ImportResult{}, domainErrors.ErrEmptyImport
	}
	return u.Import(ctx, rows)
}

// Import inserts rows in order. A failing row is recorded and the batch
// moves on. The returned error is an *ImportError when any row failed, or
// the context error when the batch was cancelled between rows.
func (u *ImportUseCase) Import(ctx context.Context, rows []csvimport.Row) (model.ImportResult, error) {
	var res model.ImportResult
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if row.OrderID == "" {
			res.Skipped++
			continue
		}

		if err := u.importRow(ctx, row); err != nil {
			msg := fmt.Sprintf("Failed to import order %s: %v", row.OrderID, err)
			res.Errors = append(res.Errors, msg)
			res.Failures = append(res.Failures, model.ImportFailure{OrderID: row.OrderID, Reason: err.Error()})
			u.log.Warn("import row failed", slog.String("order_id", row.OrderID), slog.Any("error", err))
			continue
		}
		res.Imported++
	}

	if len(res.Errors) > 0 {
		u.log.Error("import finished with errors",
			slog.Int("failed", len(res.Errors)),
			slog.Int("imported", res.Imported),
		)
		return res, &ImportError{Failed: len(res.Errors), Succeeded: res.Imported, Errors: res.Errors}
	}
	u.log.Info("import finished", slog.Int("imported", res.Imported), slog.Int("skipped", res.Skipped))
	return res, nil
}

func (u *ImportUseCase) importRow(ctx context.Context, row csvimport.Row) error {
	fields, err := rowFields(row, u.now())
	if err != nil {
		return err
	}
	_, err = u.orders.Insert(ctx, fields)
	return err
}

// rowFields applies import defaults and normalizers to row. Imported orders
// are assumed closed: Done, Pickup and Paid unless stated.
func rowFields(row csvimport.Row, now time.Time) (model.OrderFields, error) {
	status, err := model.ParseOrderStatus(orDefault(row.Status, string(model.OrderStatusDone)))
	if err != nil {
		return model.OrderFields{}, err
	}
	pickup, err := model.ParsePickupDelivery(orDefault(row.PickupDelivery, string(model.PickupDeliveryPickup)))
	if err != nil {
		return model.OrderFields{}, err
	}
	payment, err := model.ParsePaymentStatus(orDefault(row.PaymentStatus, string(model.PaymentStatusPaid)))
	if err != nil {
		return model.OrderFields{}, err
	}
	delivery, err := model.ParseCanonical(csvimport.NormalizeDate(row.DeliveryDateTime, now))
	if err != nil {
		return model.OrderFields{}, err
	}

	fields := model.OrderFields{
		OrderID:          row.OrderID,
		CustomerID:       row.CustomerID,
		Details:          model.OptionalText(row.Details),
		Status:           status,
		DeliveryDateTime: delivery,
		PickupDelivery:   pickup,
		PaymentStatus:    payment,
		Price:            csvimport.NormalizePrice(row.Price),
		Photos:           csvimport.NormalizePhotos(row.Photos),
	}
	return fields, fields.Validate()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
