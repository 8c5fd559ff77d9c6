// Package csvimport turns delimited order exports into typed rows.
package csvimport

import "strings"

const (
	// Comma separates fields in CSV exports.
	Comma = ','
	// Tab separates fields in the legacy spreadsheet export.
	Tab = '\t'
)

// Record maps a normalized column name to its trimmed value.
type Record map[string]string

// headerAliases maps legacy spreadsheet headings onto column names.
var headerAliases = map[string]string{
	"order id":           ColumnOrderID,
	"customer id":        ColumnCustomerID,
	"delivery date/time": ColumnDeliveryDateTime,
	"photo":              ColumnPhotos,
	"more photo":         ColumnMorePhotos,
	"pickup/delivery":    ColumnPickupDelivery,
	"payment status":     ColumnPaymentStatus,
}

// Column names understood by the importer.
const (
	ColumnOrderID          = "order_id"
	ColumnCustomerID       = "customer_id"
	ColumnDetails          = "details"
	ColumnStatus           = "status"
	ColumnDeliveryDateTime = "delivery_date_time"
	ColumnPhotos           = "photos"
	ColumnMorePhotos       = "more_photos"
	ColumnPickupDelivery   = "pickup_delivery"
	ColumnPaymentStatus    = "payment_status"
	ColumnPrice            = "price"
)

// Tokenize splits text into a header and one record per data line.
// Records without an order_id are dropped.
func Tokenize(text string, delim rune) ([]string, []Record) {
	lines := splitLines(text)
	if len(lines) < 2 {
		return nil, nil
	}

	header := splitFields(lines[0], delim)
	for i, h := range header {
		header[i] = normalizeHeader(h)
	}

	records := make([]Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := splitFields(line, delim)
		rec := make(Record, len(header))
		for i, key := range header {
			var v string
			if i < len(values) {
				v = values[i]
			}
			if _, dup := rec[key]; dup && v == "" {
				continue
			}
			rec[key] = v
		}
		if rec[ColumnOrderID] == "" {
			continue
		}
		records = append(records, rec)
	}
	return header, records
}

// DetectDelimiter picks tab when the header line has more tabs than commas
// outside quotes, comma otherwise.
func DetectDelimiter(text string) rune {
	lines := splitLines(text)
	if len(lines) == 0 {
		return Comma
	}
	var tabs, commas int
	inQuotes := false
	for _, r := range lines[0] {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case inQuotes:
		case r == Tab:
			tabs++
		case r == Comma:
			commas++
		}
	}
	if tabs > commas {
		return Tab
	}
	return Comma
}

func normalizeHeader(h string) string {
	key := strings.ToLower(strings.TrimSpace(h))
	if alias, ok := headerAliases[key]; ok {
		return alias
	}
	return key
}

// splitLines cuts text on newlines outside quoted fields and drops blank
// lines. Quote characters stay in the returned lines.
func splitLines(text string) []string {
	var (
		lines    []string
		current  strings.Builder
		inQuotes bool
	)
	flush := func() {
		if strings.TrimSpace(current.String()) != "" {
			lines = append(lines, current.String())
		}
		current.Reset()
	}
	for _, r := range text {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == '\n' && !inQuotes:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return lines
}

// splitFields cuts one logical line on delim outside quotes. A doubled
// quote inside a quoted field yields one literal quote.
func splitFields(line string, delim rune) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}
