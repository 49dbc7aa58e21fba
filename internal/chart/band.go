package chart

import "math"

// Band is an ordinal scale that splits an integer range into equal bands, one
// per distinct domain value. Padding applies to both the inner gaps and the
// outer edges, and bands are centred in the range.
type Band struct {
	domain   []string
	index    map[string]int
	size     int
	padding  float64
	reversed bool

	step      float64
	start     float64
	bandwidth float64
}

// NewBand builds a scale over values (duplicates collapse to their first
// occurrence) spanning [0, size). When reversed, the first value sits at the
// far end of the range.
func NewBand(values []string, size int, padding float64, reversed bool) Band {
	b := Band{
		index:    make(map[string]int, len(values)),
		size:     max(size, 0),
		padding:  clamp(padding, 0, 0.95),
		reversed: reversed,
	}
	for _, v := range values {
		if _, ok := b.index[v]; ok {
			continue
		}
		b.index[v] = len(b.domain)
		b.domain = append(b.domain, v)
	}

	n := float64(len(b.domain))
	if n == 0 {
		return b
	}
	span := float64(b.size)
	b.step = span / math.Max(1, n-b.padding+2*b.padding)
	b.start = (span - b.step*(n-b.padding)) / 2
	b.bandwidth = b.step * (1 - b.padding)
	return b
}

// Domain returns the distinct values in order.
func (b Band) Domain() []string {
	out := make([]string, len(b.domain))
	copy(out, b.domain)
	return out
}

// Position returns the band's leading coordinate for v.
func (b Band) Position(v string) (int, bool) {
	i, ok := b.index[v]
	if !ok {
		return 0, false
	}
	if b.reversed {
		i = len(b.domain) - 1 - i
	}
	pos := int(math.Round(b.start + b.step*float64(i)))
	return min(max(pos, 0), max(b.size-1, 0)), true
}

// Bandwidth returns the size of each band, at least one cell when the range
// is non-empty.
func (b Band) Bandwidth() int {
	if len(b.domain) == 0 || b.size == 0 {
		return 0
	}
	return max(int(math.Floor(b.bandwidth)), 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
