package main

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// enableAutoWalk schedules scripted movement for a limited duration.
func (g *Game) enableAutoWalk(duration time.Duration) {
	g.autoWalk = true
	g.autoWalkDeadline = time.Now().Add(duration)
	g.autoWalkFrameCount = 0
}

// moveSonar integrates a movement vector into the sonar position, clamping to
// the playfield and testing each axis against the wall grid separately so the
// sonar slides along a wall instead of sticking to it. The heading follows the
// last non-zero movement direction even when both axes are blocked, letting the
// beam turn in place against a wall. Reports whether the sonar is in motion.
func (g *Game) moveSonar(dx, dy float64) bool {
	if dx == 0 && dy == 0 {
		return false
	}
	nextX := math.Max(sonarRad, math.Min(float64(w-sonarRad-1), g.sx+dx))
	if !g.isWall(int(nextX), int(g.sy)) {
		g.sx = nextX
	}
	nextY := math.Max(sonarRad, math.Min(float64(h-sonarRad-1), g.sy+dy))
	if !g.isWall(int(g.sx), int(nextY)) {
		g.sy = nextY
	}
	length := math.Hypot(dx, dy)
	g.headingX = dx / length
	g.headingY = dy / length
	return true
}

// movementVector selects either manual or automatic movement direction.
func (g *Game) movementVector() (float64, float64) {
	if g.autoWalk {
		if time.Now().After(g.autoWalkDeadline) {
			g.autoWalk = false
			return 0, 0
		}
		return g.autoWalkVector()
	}
	return g.manualMovementVector()
}

// manualMovementVector returns WASD-based input movement scaled by moveSpeed.
func (g *Game) manualMovementVector() (float64, float64) {
	dx, dy := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		dy -= moveSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		dy += moveSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		dx -= moveSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		dx += moveSpeed
	}
	if dx != 0 && dy != 0 {
		dx *= 0.7071
		dy *= 0.7071
	}
	return dx, dy
}

// autoWalkVector returns a pseudo-random, collision-aware movement vector.
func (g *Game) autoWalkVector() (float64, float64) {
	for attempts := 0; attempts < 5; attempts++ {
		if g.autoWalkFrameCount <= 0 {
			g.randomizeAutoWalkDirection()
		}
		nextX := g.sx + g.autoWalkDirX*moveSpeed
		nextY := g.sy + g.autoWalkDirY*moveSpeed
		if nextX > float64(sonarRad) && nextX < float64(w-sonarRad-1) &&
			nextY > float64(sonarRad) && nextY < float64(h-sonarRad-1) &&
			!g.isWall(int(nextX), int(nextY)) {
			g.autoWalkFrameCount--
			return g.autoWalkDirX * moveSpeed, g.autoWalkDirY * moveSpeed
		}
		g.autoWalkFrameCount = 0
	}
	return 0, 0
}

// randomizeAutoWalkDirection chooses a new heading for automatic walking.
func (g *Game) randomizeAutoWalkDirection() {
	angle := g.autoWalkRand.Float64() * 2 * math.Pi
	g.autoWalkDirX = math.Cos(angle)
	g.autoWalkDirY = math.Sin(angle)
	g.autoWalkFrameCount = 20 + g.autoWalkRand.Intn(50)
}

// handleDebugControls processes debug overlay hotkeys.
func (g *Game) handleDebugControls() {
	if !*debugFlag {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.adjustFrontMultiplier(-frontMultiplierStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.adjustFrontMultiplier(frontMultiplierStep)
	}
}

// adjustFrontMultiplier clamps the ping front speed multiplier within bounds.
func (g *Game) adjustFrontMultiplier(delta int) {
	g.frontMultiplier += delta
	if g.frontMultiplier < minFrontMultiplier {
		g.frontMultiplier = minFrontMultiplier
	} else if g.frontMultiplier > maxFrontMultiplier {
		g.frontMultiplier = maxFrontMultiplier
	}
}
