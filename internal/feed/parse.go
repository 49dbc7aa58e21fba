package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// Parse reads a CSV export and maps its named columns to items. Rows with an
// empty Event ID are skipped; repeated ids keep their first row.
func Parse(r io.Reader) (Feed, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Feed{}, fmt.Errorf("feed is empty")
		}
		return Feed{}, fmt.Errorf("read header: %w", err)
	}

	cols := indexColumns(header)
	idCol, ok := cols[ColumnEventID]
	if !ok {
		return Feed{}, fmt.Errorf("missing %q column", ColumnEventID)
	}
	nameCol, ok := cols[ColumnItemSKU]
	if !ok {
		return Feed{}, fmt.Errorf("missing %q column", ColumnItemSKU)
	}

	out := Feed{Variant: VariantSingle}
	primaryCol, secondaryCol := -1, -1
	if col, ok := cols[ColumnImageItem]; ok {
		out.Variant = VariantDual
		primaryCol = col
		if loc, ok := cols[ColumnImageLocation]; ok {
			secondaryCol = loc
		}
	} else if col, ok := cols[ColumnImage]; ok {
		primaryCol = col
	}
	startCol := lookup(cols, ColumnStartDate)
	endCol := lookup(cols, ColumnEndDate)

	seen := make(map[string]struct{})
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return Feed{}, fmt.Errorf("read row %d: %w", line, err)
		}

		id := field(record, idCol)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			out.Duplicates = append(out.Duplicates, id)
			continue
		}
		seen[id] = struct{}{}

		out.Items = append(out.Items, Item{
			ID:             id,
			Name:           field(record, nameCol),
			ImagePrimary:   field(record, primaryCol),
			ImageSecondary: field(record, secondaryCol),
			Start:          ParseDate(field(record, startCol)),
			End:            ParseDate(field(record, endCol)),
		})
	}
	return out, nil
}

// ParseDate parses the date formats a spreadsheet export commonly produces.
// Unparseable input yields the zero time.
func ParseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if _, exists := cols[name]; !exists {
			cols[name] = i
		}
	}
	return cols
}

func lookup(cols map[string]int, name string) int {
	if col, ok := cols[name]; ok {
		return col
	}
	return -1
}

func field(record []string, col int) string {
	if col < 0 || col >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[col])
}
