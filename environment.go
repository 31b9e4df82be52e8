package main

import "math"

// generateWalls procedurally places reflecting wall segments, keeping a clear
// exclusion radius around the sonar. Each segment gets its own absorption
// coefficient around the configured base value.
func (g *Game) generateWalls() {
	base := *wallAbsorptionFlag
	if base < 0 {
		base = 0
	} else if base > 1 {
		base = 1
	}
	g.walls = g.walls[:0]
	for s := 0; s < wallSegmentCount; s++ {
		length := wallMinLen + g.levelRand.Float64()*(wallMaxLen-wallMinLen)
		angle := g.levelRand.Float64() * 2 * math.Pi
		x := 2 + g.levelRand.Float64()*float64(w-4)
		y := 2 + g.levelRand.Float64()*float64(h-4)
		p1 := point{x: x, y: y}
		p2 := point{
			x: clampFloat(x+math.Cos(angle)*length, 2, float64(w-2)),
			y: clampFloat(y+math.Sin(angle)*length, 2, float64(h-2)),
		}
		if g.tooCloseToSonar(p1, p2) {
			continue
		}
		absorption := base + (g.levelRand.Float64()*2-1)*wallAbsorptionJitter
		if absorption < 0 {
			absorption = 0
		} else if absorption > 1 {
			absorption = 1
		}
		g.walls = append(g.walls, wallSegment{p1: p1, p2: p2, absorption: absorption})
	}
	g.rasterizeWalls()
	g.lastVisCX, g.lastVisCY = -1, -1
}

// tooCloseToSonar reports whether any part of the candidate segment falls
// inside the exclusion radius around the sonar position.
func (g *Game) tooCloseToSonar(p1, p2 point) bool {
	sonar := point{x: g.sx, y: g.sy}
	return distancePointToSegment(sonar, p1, p2) < wallExclusionRadius
}

// distancePointToSegment returns the distance from p to the closest point on
// the segment between a and b.
func distancePointToSegment(p, a, b point) float64 {
	dx := b.x - a.x
	dy := b.y - a.y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.distanceTo(a)
	}
	t := ((p.x-a.x)*dx + (p.y-a.y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.distanceTo(point{x: a.x + t*dx, y: a.y + t*dy})
}

// rasterizeWalls marks the grid cells covered by wall segments. The grid is
// used for movement collision, overlays, and the visibility mask.
func (g *Game) rasterizeWalls() {
	if len(g.wallGrid) != w*h {
		g.wallGrid = make([]bool, w*h)
	} else {
		for i := range g.wallGrid {
			g.wallGrid[i] = false
		}
	}
	for _, seg := range g.walls {
		plotGridLine(int(seg.p1.x), int(seg.p1.y), int(seg.p2.x), int(seg.p2.y), func(x, y int) {
			if x <= 0 || x >= w-1 || y <= 0 || y >= h-1 {
				return
			}
			g.wallGrid[y*w+x] = true
		})
	}
	g.maskDirty = true
	g.wallsDirty = true
}

// isWall reports whether the coordinates reference a wall cell. Out-of-bounds
// coordinates count as walls.
func (g *Game) isWall(x, y int) bool {
	if x < 0 || x >= w || y < 0 || y >= h {
		return true
	}
	if len(g.wallGrid) == 0 {
		return false
	}
	return g.wallGrid[y*w+x]
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
