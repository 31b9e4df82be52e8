package main

import "math"

// refreshVisibleMask recomputes the field-of-view occlusion mask around the
// sonar. Cells are stamped with the current generation; anything carrying an
// older stamp is hidden by the renderer. The mask only needs recomputing when
// the sonar moves to a new cell or changes heading.
func (g *Game) refreshVisibleMask() {
	if len(g.visibleStamp) != w*h {
		g.visibleStamp = make([]uint32, w*h)
	}
	cx := clampCoord(int(math.Round(g.sx)), 0, w-1)
	cy := clampCoord(int(math.Round(g.sy)), 0, h-1)
	heading := math.Atan2(g.headingY, g.headingX)
	if g.lastVisCX == cx && g.lastVisCY == cy && g.lastVisHeading == heading {
		return
	}
	if g.visibleGen == ^uint32(0) {
		for i := range g.visibleStamp {
			g.visibleStamp[i] = 0
		}
		g.visibleGen = 1
	} else {
		g.visibleGen++
	}
	g.visibleStamp[cy*w+cx] = g.visibleGen

	fx, fy := g.headingX, g.headingY
	if fx == 0 && fy == 0 {
		fx, fy = 0, -1
	}
	mag := math.Hypot(fx, fy)
	fx /= mag
	fy /= mag

	fovDeg := *fovDegreesFlag
	if fovDeg < 1 {
		fovDeg = 1
	} else if fovDeg > 180 {
		fovDeg = 180
	}
	cosHalf := math.Cos(toRadians(fovDeg) / 2)
	cosHalfSq := cosHalf * cosHalf

	for _, target := range fovPerimeterTargets {
		vx := float64(target.x - cx)
		vy := float64(target.y - cy)
		dot := vx*fx + vy*fy
		if dot <= 0 || dot*dot < (vx*vx+vy*vy)*cosHalfSq {
			continue
		}
		g.castVisibilityRay(cx, cy, target.x, target.y)
	}
	g.lastVisCX, g.lastVisCY = cx, cy
	g.lastVisHeading = heading
}

// castVisibilityRay stamps the cells along a Bresenham line as visible,
// stopping at the first wall cell after stamping it.
func (g *Game) castVisibilityRay(x0, y0, x1, y1 int) {
	blocked := false
	plotGridLine(x0, y0, x1, y1, func(x, y int) {
		if blocked || x < 0 || x >= w || y < 0 || y >= h {
			return
		}
		g.visibleStamp[y*w+x] = g.visibleGen
		if g.isWall(x, y) && !(x == x1 && y == y1) {
			blocked = true
		}
	})
}
