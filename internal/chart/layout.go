package chart

import "github.com/five82/lineup/internal/queue"

// RowPadding is the gap ratio between name rows.
const RowPadding = 0.1

// Cell is one positioned record.
type Cell struct {
	ID         string
	Name       string
	Index      int
	X, Y       int
	Width      int
	Height     int
	Background string
	Fill       string
}

// Label is an axis tick label. Pos and Span are along the axis.
type Label struct {
	Text string
	Pos  int
	Span int
}

// Layout is the geometry of one render, in terminal cells relative to the
// plot origin.
type Layout struct {
	Width   int
	Height  int
	Cells   []Cell
	XLabels []Label
	YLabels []Label
}

// Compute lays q out on a width x height plot: columns are item ids, rows are
// item names, both in queue order with the first name on the bottom row. It
// depends on nothing but its arguments.
func Compute(q queue.Queue, width, height int) Layout {
	out := Layout{Width: max(width, 0), Height: max(height, 0)}
	if q.Empty() || out.Width == 0 || out.Height == 0 {
		return out
	}

	x := NewBand(q.IDs(), out.Width, 0, false)
	y := NewBand(q.Names(), out.Height, RowPadding, true)
	bw, bh := x.Bandwidth(), y.Bandwidth()

	out.Cells = make([]Cell, 0, q.Len())
	for i := 0; i < q.Len(); i++ {
		item := q.At(i)
		cx, _ := x.Position(item.ID)
		cy, _ := y.Position(item.Name)
		out.Cells = append(out.Cells, Cell{
			ID:         item.ID,
			Name:       item.Name,
			Index:      i,
			X:          cx,
			Y:          cy,
			Width:      bw,
			Height:     bh,
			Background: RowColor(i),
			Fill:       FillColor(i),
		})
	}

	for _, id := range x.Domain() {
		pos, _ := x.Position(id)
		out.XLabels = append(out.XLabels, Label{Text: id, Pos: pos, Span: bw})
	}
	for _, name := range y.Domain() {
		pos, _ := y.Position(name)
		out.YLabels = append(out.YLabels, Label{Text: name, Pos: pos, Span: bh})
	}
	return out
}
