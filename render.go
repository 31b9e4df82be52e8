package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Draw renders the echo field, active ray fronts, walls, the sonar marker, and
// optional overlays.
func (g *Game) Draw(screen *ebiten.Image) {
	pixels := g.pixelBuf
	if g.gpuSolver == nil {
		pixels = g.colorizeField()
	}
	if len(pixels) == w*h*4 {
		if *occludeFOVFlag && len(g.visibleStamp) == w*h {
			for i := range g.visibleStamp {
				if g.visibleStamp[i] == g.visibleGen {
					continue
				}
				base := i * 4
				pixels[base] = 0
				pixels[base+1] = 0
				pixels[base+2] = 0
				pixels[base+3] = 255
			}
		}
		if g.gpuSolver == nil && *showWallsFlag && len(g.wallGrid) == w*h {
			for i, wall := range g.wallGrid {
				if !wall {
					continue
				}
				base := i * 4
				pixels[base] = 30
				pixels[base+1] = 40
				pixels[base+2] = 80
				pixels[base+3] = 255
			}
		}
		screen.WritePixels(pixels)
	}

	if *showRaysFlag {
		g.drawRayFronts(screen)
	}

	for _, offset := range sonarFootprint {
		cx := int(g.sx) + offset.dx
		cy := int(g.sy) + offset.dy
		if cx >= 0 && cx < w && cy >= 0 && cy < h {
			screen.Set(cx, cy, color.RGBA{255, 0, 0, 255})
		}
	}
	g.drawBeamIndicators(screen, int(g.sx), int(g.sy))

	if *debugFlag {
		fps := ebiten.ActualFPS()
		tps := ebiten.ActualTPS()
		if tps < 0 {
			tps = 0
		}
		simMS := g.lastSimDuration.Seconds() * 1000
		debugMsg := fmt.Sprintf("FPS: %.1f (%.1f TPS)\nPings: %d, last cascade: %d paths\nFront: %.0f px/tick (mult %dx, +/-)\nSim: %.2f ms",
			fps, tps, len(g.pings), g.lastRayCount, frontSpeed*float64(g.frontMultiplier), g.frontMultiplier, simMS)
		ebitenutil.DebugPrint(screen, debugMsg)
	}
}

// Layout reports the logical screen size used by Ebiten.
func (g *Game) Layout(_, _ int) (int, int) { return w, h }

// colorizeField converts the energy buffer into grayscale-blue RGBA pixels on
// the CPU path.
func (g *Game) colorizeField() []byte {
	if len(g.pixelBuf) != w*h*4 {
		g.pixelBuf = make([]byte, w*h*4)
	}
	img := g.pixelBuf
	for i, e := range g.field.energy {
		v := e
		if v > 1 {
			v = 1
		}
		intensity := byte(v * 255)
		img[i*4] = intensity
		img[i*4+1] = intensity
		img[i*4+2] = byte(math.Min(255, float64(intensity)*1.2))
		img[i*4+3] = 255
	}
	return img
}

// drawRayFronts overlays the portion of each cascade path the expanding front
// has revealed, brightness scaled by the ray's remaining energy.
func (g *Game) drawRayFronts(screen *ebiten.Image) {
	for _, p := range g.pings {
		for i := range p.cascade.paths {
			path := &p.cascade.paths[i]
			if path.startDist >= p.front {
				continue
			}
			visible := math.Min(path.endDist, p.front) - path.startDist
			from := path.source.vector.origin
			to := path.source.vector.pointAt(visible)
			level := path.source.energy / g.gen.tuning.initialEnergy
			if level > 1 {
				level = 1
			} else if level < 0.05 {
				level = 0.05
			}
			clr := color.RGBA{0, byte(90 + 140*level), byte(60 + 80*level), 160}
			if path.returning {
				clr = color.RGBA{byte(120 + 120*level), byte(120 + 100*level), 0, 160}
			}
			drawLine(screen, int(from.x), int(from.y), int(to.x), int(to.y), clr)
		}
	}
}

// drawBeamIndicators renders the sonar's field-of-view edge markers.
func (g *Game) drawBeamIndicators(screen *ebiten.Image, cx, cy int) {
	heading := math.Atan2(g.headingY, g.headingX)
	half := toRadians(*fovDegreesFlag) / 2
	const indicatorLen = 24
	for _, edge := range [2]float64{heading - half, heading + half} {
		ex := clampCoord(cx+int(math.Cos(edge)*indicatorLen), 0, w-1)
		ey := clampCoord(cy+int(math.Sin(edge)*indicatorLen), 0, h-1)
		drawLine(screen, cx, cy, ex, ey, color.RGBA{0, 255, 200, 200})
	}
}

// drawLine plots a line segment using Bresenham's integer algorithm.
func drawLine(screen *ebiten.Image, x0, y0, x1, y1 int, clr color.Color) {
	plotGridLine(x0, y0, x1, y1, func(x, y int) {
		if x >= 0 && x < w && y >= 0 && y < h {
			screen.Set(x, y, clr)
		}
	})
}
