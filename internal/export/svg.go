package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/projsim/internal/ballistics"
	"github.com/san-kum/projsim/internal/sim"
)

// TrajectoryToSVG draws the flight path as a polyline in world coordinates,
// padded by 10% on each side, with the target marked as a red circle.
// Fewer than two samples yields an empty string.
func TrajectoryToSVG(tr sim.Trajectory, target ballistics.Vec2, width, height int, strokeColor string) string {
	if len(tr) < 2 {
		return ""
	}

	minX, maxX := target.X, target.X
	minY, maxY := target.Y, target.Y
	for _, s := range tr {
		if s.Pos.X < minX {
			minX = s.Pos.X
		}
		if s.Pos.X > maxX {
			maxX = s.Pos.X
		}
		if s.Pos.Y < minY {
			minY = s.Pos.Y
		}
		if s.Pos.Y > maxY {
			maxY = s.Pos.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	project := func(p ballistics.Vec2) (float64, float64) {
		return (p.X - minX) / rangeX * float64(width),
			float64(height) - (p.Y-minY)/rangeY*float64(height)
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, s := range tr.Downsample(2 * width) {
		x, y := project(s.Pos)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString(`"/>
`)

	tx, ty := project(target)
	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="4" fill="none" stroke="#ff4444" stroke-width="1.5"/>
</svg>`, tx, ty)
	return sb.String()
}
