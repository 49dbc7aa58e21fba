package chart

// Category10 is the classic ten-colour categorical palette.
var Category10 = []string{
	"#1f77b4",
	"#ff7f0e",
	"#2ca02c",
	"#d62728",
	"#9467bd",
	"#8c564b",
	"#e377c2",
	"#7f7f7f",
	"#bcbd22",
	"#17becf",
}

// Row background fills, alternated by record index.
const (
	RowEven = "#ffffff"
	RowOdd  = "#eeeeee"
)

// FillColor returns the palette colour for the i-th cell of a render.
func FillColor(i int) string {
	if i < 0 {
		i = -i
	}
	return Category10[i%len(Category10)]
}

// RowColor returns the alternating background for the i-th record.
func RowColor(i int) string {
	if i%2 != 0 {
		return RowOdd
	}
	return RowEven
}
