package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/projsim/internal/ballistics"
	"github.com/san-kum/projsim/internal/sim"
)

// HeightPlot charts height against sample index, downsampled to width points.
func HeightPlot(tr sim.Trajectory, width, height int, caption string) string {
	if len(tr) == 0 {
		return ""
	}
	return asciigraph.Plot(tr.Downsample(width).Heights(),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PathPlot draws the flight path in world x/y on a braille canvas of w×h
// cells, with equal scaling on both axes, and marks the target with a cross.
func PathPlot(tr sim.Trajectory, target ballistics.Vec2, w, h int) string {
	c := NewCanvas(w, h)
	if len(tr) == 0 {
		return c.String()
	}

	minX, maxX := target.X, target.X
	minY, maxY := target.Y, target.Y
	for _, s := range tr {
		minX, maxX = math.Min(minX, s.Pos.X), math.Max(maxX, s.Pos.X)
		minY, maxY = math.Min(minY, s.Pos.Y), math.Max(maxY, s.Pos.Y)
	}

	dotsX, dotsY := c.Dots()
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	scale := math.Min(float64(dotsX-1), float64(dotsY-1)) / span

	project := func(p ballistics.Vec2) (int, int) {
		x := int(math.Round((p.X - minX) * scale))
		y := dotsY - 1 - int(math.Round((p.Y-minY)*scale))
		return x, y
	}

	path := tr.Downsample(dotsX * 2)
	px, py := project(path[0].Pos)
	for _, s := range path[1:] {
		x, y := project(s.Pos)
		c.DrawLine(px, py, x, y)
		px, py = x, y
	}

	tx, ty := project(target)
	c.Cross(tx, ty)
	return c.String()
}
