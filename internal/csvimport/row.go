package csvimport

import "strings"

// Row is one import line with every known column pulled out of the record.
// Empty strings mean the column was absent or blank.
type Row struct {
	OrderID          string
	CustomerID       string
	Details          string
	Status           string
	DeliveryDateTime string
	Photos           string
	PickupDelivery   string
	PaymentStatus    string
	Price            string
}

// RowFromRecord reads the known columns of rec. Legacy "More Photo"
// values are appended to the photo list.
func RowFromRecord(rec Record) Row {
	photos := rec[ColumnPhotos]
	if more := rec[ColumnMorePhotos]; more != "" {
		if photos != "" {
			photos += ","
		}
		photos += more
	}
	return Row{
		OrderID:          strings.TrimSpace(rec[ColumnOrderID]),
		CustomerID:       rec[ColumnCustomerID],
		Details:          rec[ColumnDetails],
		Status:           rec[ColumnStatus],
		DeliveryDateTime: rec[ColumnDeliveryDateTime],
		Photos:           photos,
		PickupDelivery:   rec[ColumnPickupDelivery],
		PaymentStatus:    rec[ColumnPaymentStatus],
		Price:            rec[ColumnPrice],
	}
}

// Parse tokenizes text and converts each record into a Row.
func Parse(text string, delim rune) []Row {
	_, records := Tokenize(text, delim)
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, RowFromRecord(rec))
	}
	return rows
}

// ParseAuto detects the delimiter from the header line and parses text.
func ParseAuto(text string) []Row {
	return Parse(text, DetectDelimiter(text))
}
