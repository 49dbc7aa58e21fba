package feed

import "time"

// Column names in the published sheet.
const (
	ColumnEventID       = "Event ID"
	ColumnItemSKU       = "Item SKU"
	ColumnImage         = "Image"
	ColumnImageItem     = "ImageItem"
	ColumnImageLocation = "ImageLocation"
	ColumnStartDate     = "Start Date"
	ColumnEndDate       = "End Date"
)

// Variant describes how many images each row carries.
type Variant int

const (
	// VariantSingle rows have one Image column.
	VariantSingle Variant = iota
	// VariantDual rows have ImageItem and ImageLocation columns.
	VariantDual
)

// Slots returns the number of image slots per item.
func (v Variant) Slots() int {
	if v == VariantDual {
		return 2
	}
	return 1
}

func (v Variant) String() string {
	if v == VariantDual {
		return "dual"
	}
	return "single"
}

// Item is one row of the feed.
type Item struct {
	ID             string
	Name           string
	ImagePrimary   string
	ImageSecondary string // empty when the row has no second image
	Start          time.Time
	End            time.Time
}

// Feed is the parsed result of one fetch.
type Feed struct {
	Items   []Item
	Variant Variant
	// Duplicates lists ids whose later rows were dropped.
	Duplicates []string
}
