package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight = 10
	minPlotWidth      = 10
	fallbackWidth     = 80
	axisTop           = "max"
	axisBottom        = "min"
	axisSeparator     = " │ "
	colorReset        = "\x1b[0m"
)

// Each series gets a dash pattern so the plot stays readable without color.
var dashes = []struct {
	name   string
	period int
	on     int
}{
	{"solid", 1, 1},
	{"dashed", 6, 3},
	{"dotted", 4, 1},
}

var palette = []string{"\x1b[36m", "\x1b[35m", "\x1b[33m"}

// canvas is a grid of braille cells, two dots wide and four tall.
type canvas struct {
	width, height int
	cells         [][]uint8
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &canvas{width: width, height: height, cells: cells}
}

var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func (c *canvas) set(x, y int) {
	cx, cy := x/2, y/4
	if x < 0 || y < 0 || cy >= c.height || cx >= c.width {
		return
	}
	c.cells[cy][cx] |= dotBits[x%2][y%4]
}

// line draws with Bresenham, skipping dots outside the dash pattern.
func (c *canvas) line(x0, y0, x1, y1, period, on int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		if period <= 1 || x0%period < on {
			c.set(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// PlotSeries renders a multi-line text plot for the provided series.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	return PlotSeriesWithColor(w, title, series, width, height, false)
}

// PlotSeriesWithColor renders a plot; each series is scaled to the range of its raw values.
func PlotSeriesWithColor(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	kept := series[:0:0]
	for _, s := range series {
		if len(s.Values) > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	layers := make([]*canvas, len(kept))
	var legend []string
	var ranges []string
	for i, s := range kept {
		lo, hi := bounds(s.Values)
		values := resample(s.Values, width)
		if math.Abs(hi-lo) < 1e-9 {
			lo--
			hi++
		}
		dash := dashes[i%len(dashes)]
		layer := newCanvas(width, height)
		rows := height * 4
		prevX, prevY := -1, -1
		for x, v := range values {
			y := int(math.Round((1 - (v-lo)/(hi-lo)) * float64(rows-1)))
			y = clamp(y, 0, rows-1)
			if prevX < 0 {
				layer.set(x*2, y)
			} else {
				layer.line(prevX, prevY, x*2, y, dash.period, dash.on)
			}
			prevX, prevY = x*2, y
		}
		layers[i] = layer
		legend = append(legend, fmt.Sprintf("%s (%s)", s.Name, dash.name))
		ranges = append(ranges, fmt.Sprintf("%s %.1f..%.1f", s.Name, lo, hi))
	}

	useColor := colorEnabled(w, forceColor)
	axisWidth := runewidth.StringWidth(axisTop)
	out := []string{}
	if title != "" {
		out = append(out, title)
	}
	out = append(out, strings.Join(ranges, "  "))
	for y := 0; y < height; y++ {
		label := ""
		switch y {
		case 0:
			label = axisTop
		case height - 1:
			label = axisBottom
		}
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", axisWidth, label, axisSeparator))
		for x := 0; x < width; x++ {
			var mask uint8
			owner := -1
			for i, layer := range layers {
				if m := layer.cells[y][x]; m != 0 {
					mask |= m
					if owner < 0 {
						owner = i
					}
				}
			}
			ch := rune(0x2800 + int(mask))
			if useColor && owner >= 0 {
				row.WriteString(palette[owner%len(palette)])
				row.WriteRune(ch)
				row.WriteString(colorReset)
				continue
			}
			row.WriteRune(ch)
		}
		out = append(out, row.String())
	}
	out = append(out, "Legend: "+strings.Join(legend, "  "))
	return writeLines(w, out)
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	width := totalWidth - runewidth.StringWidth(axisTop) - runewidth.StringWidth(axisSeparator)
	if width < minPlotWidth {
		return minPlotWidth
	}
	return width
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

func colorEnabled(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// resample averages buckets when shrinking and interpolates when stretching.
func resample(values []float64, width int) []float64 {
	n := len(values)
	out := make([]float64, width)
	switch {
	case n == width:
		copy(out, values)
	case n > width:
		for i := range out {
			start := i * n / width
			end := (i + 1) * n / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(n-1) / float64(width-1)
			idx := int(pos)
			if idx >= n-1 {
				out[i] = values[n-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
