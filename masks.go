package main

// rebuildInteriorMask recalculates the worker masks describing non-wall cells.
// Wall cells hold no echo energy, so decay work skips over them.
func (g *Game) rebuildInteriorMask() {
	if g.workerCount < 1 {
		g.workerCount = 1
	}
	rows := make([]rowMask, 0, h)
	for y := 0; y < h; y++ {
		base := y * w
		spans := make([]span, 0, 8)
		in := false
		start := 0
		for x := 0; x < w; x++ {
			blocked := len(g.wallGrid) == w*h && g.wallGrid[base+x]
			if !blocked && !in {
				in = true
				start = x
			}
			if (blocked || x == w-1) && in {
				end := x - 1
				if x == w-1 && !blocked {
					end = x
				}
				if end >= start {
					spans = append(spans, span{start: start, end: end})
				}
				in = false
			}
		}
		if len(spans) == 0 {
			continue
		}
		rows = append(rows, rowMask{y: y, spans: spans})
	}
	g.workerMasks = assignRowMasks(g.workerCount, rows)
	g.maskDirty = false
}
