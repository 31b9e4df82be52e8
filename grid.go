package main

// intPoint represents an integer coordinate on the simulation grid.
type intPoint struct {
	x int
	y int
}

// buildPerimeterTargets precomputes the grid edge cells used when casting
// field-of-view visibility rays.
func buildPerimeterTargets() []intPoint {
	points := make([]intPoint, 0, 2*(w+h))
	for x := 0; x < w; x++ {
		points = append(points, intPoint{x: x, y: 0})
		points = append(points, intPoint{x: x, y: h - 1})
	}
	for y := 1; y < h-1; y++ {
		points = append(points, intPoint{x: 0, y: y})
		points = append(points, intPoint{x: w - 1, y: y})
	}
	return points
}

// fovPerimeterTargets caches the perimeter cells used for visibility checks.
var fovPerimeterTargets = buildPerimeterTargets()

// clampCoord constrains v to lie within the inclusive [min, max] range.
func clampCoord(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// plotGridLine walks the cells of a line with Bresenham's integer algorithm,
// invoking visit for each cell including both endpoints.
func plotGridLine(x0, y0, x1, y1 int, visit func(x, y int)) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := y0 - y1
	if dy > 0 {
		dy = -dy
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		visit(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}
