package pages

import "math"

const (
	chartWidth   = 720.0
	chartHeight  = 360.0
	marginLeft   = 48.0
	marginRight  = 16.0
	marginTop    = 24.0
	marginBottom = 72.0
	barFill      = 0.7
	maxTicks     = 5
)

var palette = []string{
	"#636efa", "#ef553b", "#00cc96", "#ab63fa", "#ffa15a", "#19d3f3",
	"#ff6692", "#b6e880", "#ff97ff", "#fecb52",
}

type Bar struct {
	Genre  string
	Count  int
	X      float64
	Y      float64
	Width  float64
	Height float64
	// LabelX is the horizontal center of the bar.
	LabelX float64
	Color  string
}

type Tick struct {
	Value int
	Y     float64
}

// Chart is a bar chart laid out in SVG user units.
type Chart struct {
	Title   string
	Width   float64
	Height  float64
	Left    float64
	Right   float64
	Bottom  float64
	LabelY  float64
	Bars    []Bar
	Ticks   []Tick
	MaxTick int
}

// NewChart lays out one bar per genre, in the given order.
func NewChart(counts []GenreCount) *Chart {
	c := &Chart{
		Title:  "Books by Genre",
		Width:  chartWidth,
		Height: chartHeight,
		Left:   marginLeft,
		Right:  chartWidth - marginRight,
		Bottom: chartHeight - marginBottom,
		LabelY: chartHeight - marginBottom + 18,
	}

	if len(counts) == 0 {
		return c
	}

	maxCount := 0
	for _, gc := range counts {
		if gc.Count > maxCount {
			maxCount = gc.Count
		}
	}

	step := int(math.Ceil(float64(maxCount) / maxTicks))
	if step < 1 {
		step = 1
	}
	c.MaxTick = step * int(math.Ceil(float64(maxCount)/float64(step)))

	plotHeight := c.Bottom - marginTop
	scale := plotHeight / float64(c.MaxTick)

	for v := 0; v <= c.MaxTick; v += step {
		c.Ticks = append(c.Ticks, Tick{Value: v, Y: c.Bottom - float64(v)*scale})
	}

	slot := (c.Right - c.Left) / float64(len(counts))
	width := slot * barFill

	for i, gc := range counts {
		h := float64(gc.Count) * scale
		x := c.Left + float64(i)*slot + (slot-width)/2

		c.Bars = append(c.Bars, Bar{
			Genre:  gc.Genre,
			Count:  gc.Count,
			X:      x,
			Y:      c.Bottom - h,
			Width:  width,
			Height: h,
			LabelX: x + width/2,
			Color:  palette[i%len(palette)],
		})
	}

	return c
}
