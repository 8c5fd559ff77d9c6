package model

import (
	"fmt"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/bloomorders/internal/domain/errors"
)

// zonedLayouts carry their own offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	CanonicalLayout,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05-07",
}

// wallLayouts are read as wall-clock time in the caller's zone.
var wallLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// ParseTimestamp reads an instant from API input. Values without an offset,
// such as HTML datetime-local fields, are taken in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range wallLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", domainErrors.ErrInvalidDeliveryTime, s)
}
