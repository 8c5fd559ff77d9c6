package query

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/polkiloo/bloomorders/internal/domain/model"
)

// Column names a sortable order field.
type Column string

const (
	ColumnDeliveryDateTime Column = "delivery_date_time"
	ColumnPrice            Column = "price"
	ColumnCustomerID       Column = "customer_id"
	ColumnDetails          Column = "details"
	ColumnPickupDelivery   Column = "pickup_delivery"
	ColumnPaymentStatus    Column = "payment_status"
	ColumnStatus           Column = "status"
)

// Direction is the sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Sort selects the column and direction of the final stage.
type Sort struct {
	Column    Column
	Direction Direction
}

// Toggle flips the direction for the same column and resets to ascending
// for a different one.
func (s Sort) Toggle(c Column) Sort {
	if s.Column == c {
		if s.Direction == Ascending {
			return Sort{Column: c, Direction: Descending}
		}
		return Sort{Column: c, Direction: Ascending}
	}
	return Sort{Column: c, Direction: Ascending}
}

// ParseColumn validates a column name.
func ParseColumn(raw string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := comparators[c]; !ok {
		return "", fmt.Errorf("unknown sort column %q", raw)
	}
	return c, nil
}

// ParseDirection validates a direction name.
func ParseDirection(raw string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(raw))); d {
	case Ascending, Descending:
		return d, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", raw)
}

type comparator func(a, b *model.Order) int

var comparators = map[Column]comparator{
	ColumnDeliveryDateTime: func(a, b *model.Order) int {
		return a.DeliveryDateTime.Compare(b.DeliveryDateTime)
	},
	ColumnPrice: func(a, b *model.Order) int {
		return cmp.Compare(priceOrZero(a.Price), priceOrZero(b.Price))
	},
	ColumnCustomerID: func(a, b *model.Order) int {
		return strings.Compare(strings.ToLower(a.CustomerID), strings.ToLower(b.CustomerID))
	},
	ColumnDetails: func(a, b *model.Order) int {
		return strings.Compare(strings.ToLower(textOrEmpty(a.Details)), strings.ToLower(textOrEmpty(b.Details)))
	},
	ColumnPickupDelivery: func(a, b *model.Order) int {
		return strings.Compare(string(a.PickupDelivery), string(b.PickupDelivery))
	},
	ColumnPaymentStatus: func(a, b *model.Order) int {
		return strings.Compare(string(a.PaymentStatus), string(b.PaymentStatus))
	},
	ColumnStatus: func(a, b *model.Order) int {
		return strings.Compare(string(a.Status), string(b.Status))
	},
}

func priceOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func textOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
