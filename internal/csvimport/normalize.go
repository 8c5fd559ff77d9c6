package csvimport

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/polkiloo/bloomorders/internal/domain/model"
)

// NormalizeDate converts "M/D/YYYY H:MM[:SS]" into the canonical timestamp
// form. Components are taken as literal wall-clock values in UTC and are
// not checked against the calendar. Anything it cannot read yields now.
func NormalizeDate(s string, now time.Time) string {
	fallback := model.FormatCanonical(now)

	parts := strings.Fields(s)
	if len(parts) < 2 {
		return fallback
	}

	date := strings.Split(parts[0], "/")
	clock := strings.Split(parts[1], ":")
	if len(date) < 3 || len(clock) < 2 {
		return fallback
	}

	month, okMonth := leadingInt(date[0])
	day, okDay := leadingInt(date[1])
	year, okYear := leadingInt(date[2])
	hour, okHour := leadingInt(clock[0])
	minute, okMinute := leadingInt(clock[1])
	if !okMonth || !okDay || !okYear || !okHour || !okMinute {
		return fallback
	}

	var second int
	if len(clock) > 2 {
		second, _ = leadingInt(clock[2])
	}

	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d+00", year, month, day, hour, minute, second)
}

// NormalizePrice keeps digits and dots and reads the longest decimal
// prefix. It returns nil when nothing numeric is left.
func NormalizePrice(s string) *float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	end, digits, dot := 0, 0, false
	for end < len(cleaned) {
		c := cleaned[end]
		if c == '.' {
			if dot {
				break
			}
			dot = true
		} else {
			digits++
		}
		end++
	}
	if digits == 0 {
		return nil
	}

	v, err := strconv.ParseFloat(cleaned[:end], 64)
	if err != nil {
		return nil
	}
	return &v
}

// NormalizePhotos splits a comma separated list into trimmed, non-empty paths.
func NormalizePhotos(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return model.CleanPhotos(strings.Split(s, ","))
}

// leadingInt reads an optionally signed run of leading digits.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}
