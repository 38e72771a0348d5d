package viz

import (
	"github.com/pursuitlab/slap/internal/traj"
)

// Projection maps world coordinates onto canvas sub-pixels, preserving the
// y-up convention of the plane.
type Projection struct {
	minX, minY float64
	scaleX     float64
	scaleY     float64
	height     int
}

// NewProjection fits the given world points into a canvas of w x h
// characters, with a 10% margin.
func NewProjection(points []traj.Point, w, h int) Projection {
	minX, maxX := -1.0, 1.0
	minY, maxY := -1.0, 1.0
	if len(points) > 0 {
		minX, maxX = points[0].X, points[0].X
		minY, maxY = points[0].Y, points[0].Y
		for _, p := range points {
			if p.X < minX {
				minX = p.X
			}
			if p.X > maxX {
				maxX = p.X
			}
			if p.Y < minY {
				minY = p.Y
			}
			if p.Y > maxY {
				maxY = p.Y
			}
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

	subW := w*2 - 1
	subH := h*4 - 1
	return Projection{
		minX:   minX,
		minY:   minY,
		scaleX: float64(subW) / (maxX - minX),
		scaleY: float64(subH) / (maxY - minY),
		height: subH,
	}
}

// Px converts a world point to sub-pixel coordinates.
func (p Projection) Px(pt traj.Point) (int, int) {
	x := int((pt.X - p.minX) * p.scaleX)
	y := p.height - int((pt.Y-p.minY)*p.scaleY)
	return x, y
}

// Radius converts a world-space radius to sub-pixels along x.
func (p Projection) Radius(r float64) int {
	return int(r * p.scaleX)
}

// DrawPath draws a polyline of world points.
func DrawPath(c *Canvas, proj Projection, points []traj.Point) {
	for i := 1; i < len(points); i++ {
		x0, y0 := proj.Px(points[i-1])
		x1, y1 := proj.Px(points[i])
		c.DrawLine(x0, y0, x1, y1)
	}
}
