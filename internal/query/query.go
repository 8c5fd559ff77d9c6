// Package query derives the displayed order list from filters, search text
// and sort state.
package query

import (
	"slices"
	"strings"
	"time"

	"github.com/polkiloo/bloomorders/internal/domain/model"
)

// PickupDeliveryAll disables the pickup/delivery filter.
const PickupDeliveryAll = "All"

// DayLayout formats calendar-day keys.
const DayLayout = "2006-01-02"

// View is the filter, search and sort state applied to an order list.
type View struct {
	// Statuses keeps orders with one of these statuses; empty keeps all.
	Statuses []model.OrderStatus
	// PickupDelivery is "Pickup", "Delivery", or empty/PickupDeliveryAll.
	PickupDelivery string
	// Dates keeps orders delivered on one of these YYYY-MM-DD days.
	Dates  []string
	Search string
	Sort   Sort
	// Location is the viewer's zone for day keys; nil means time.Local.
	Location *time.Location
}

// DefaultView shows every order, most recent delivery first.
func DefaultView() View {
	return View{
		PickupDelivery: PickupDeliveryAll,
		Sort:           Sort{Column: ColumnDeliveryDateTime, Direction: Descending},
	}
}

// Apply runs the status, pickup/delivery, date, search and sort stages in
// that order. The input slice is left untouched.
func Apply(orders []model.Order, v View) []model.Order {
	loc := v.location()
	out := make([]model.Order, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		if !matchStatus(o, v.Statuses) ||
			!matchPickupDelivery(o, v.PickupDelivery) ||
			!matchDate(o, v.Dates, loc) ||
			!matchSearch(o, v.Search) {
			continue
		}
		out = append(out, *o)
	}

	if compare, ok := comparators[v.Sort.Column]; ok {
		desc := v.Sort.Direction == Descending
		slices.SortStableFunc(out, func(a, b model.Order) int {
			if desc {
				return -compare(&a, &b)
			}
			return compare(&a, &b)
		})
	}
	return out
}

// DayKey is the calendar day of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DayLayout)
}

// DateKeys lists the distinct delivery days of orders, latest first.
func DateKeys(orders []model.Order, loc *time.Location) []string {
	seen := make(map[string]struct{}, len(orders))
	keys := make([]string, 0, len(orders))
	for i := range orders {
		k := DayKey(orders[i].DeliveryDateTime, loc)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	slices.Sort(keys)
	slices.Reverse(keys)
	return keys
}

func (v View) location() *time.Location {
	if v.Location == nil {
		return time.Local
	}
	return v.Location
}

func matchStatus(o *model.Order, statuses []model.OrderStatus) bool {
	return len(statuses) == 0 || slices.Contains(statuses, o.Status)
}

func matchPickupDelivery(o *model.Order, want string) bool {
	if want == "" || want == PickupDeliveryAll {
		return true
	}
	return string(o.PickupDelivery) == want
}

func matchDate(o *model.Order, days []string, loc *time.Location) bool {
	return len(days) == 0 || slices.Contains(days, DayKey(o.DeliveryDateTime, loc))
}

func matchSearch(o *model.Order, q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(o.CustomerID), q) || strings.Contains(strings.ToLower(o.OrderID), q) {
		return true
	}
	return o.Details != nil && strings.Contains(strings.ToLower(*o.Details), q)
}
