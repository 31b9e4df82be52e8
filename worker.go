package main

import "sync"

// span represents an inclusive column range inside a row mask.
type span struct{ start, end int }

// rowMask groups contiguous spans for a single row that requires computation.
type rowMask struct {
	y     int
	spans []span
}

// workerMask collects the row masks assigned to a worker goroutine.
type workerMask struct {
	rows []rowMask
}

// decayWorkerLoop applies the per-tick field decay for rows assigned to the
// worker. Workers idle on the condition variable between ticks.
func (g *Game) decayWorkerLoop(index int) {
	lastStep := 0
	g.workerMu.Lock()
	for {
		for g.workerStep == lastStep {
			g.workerCond.Wait()
		}
		lastStep = g.workerStep
		var mask workerMask
		if index < len(g.workerMasks) {
			mask = g.workerMasks[index]
		}
		g.workerMu.Unlock()

		if len(mask.rows) > 0 {
			decayMask(g.field, &mask)
		}

		g.workerMu.Lock()
		g.workerPending--
		if g.workerPending == 0 {
			g.workerCond.Broadcast()
		}
	}
}

// decayMask fades the field cells covered by the worker mask.
func decayMask(field *echoField, mask *workerMask) {
	width := field.width
	damp := fieldDamp32
	for _, row := range mask.rows {
		rowBase := row.y * width
		cells := field.energy[rowBase : rowBase+width]
		for _, sp := range row.spans {
			start := sp.start
			if start < 0 {
				start = 0
			}
			end := sp.end
			if end > width-1 {
				end = width - 1
			}
			for x := start; x <= end; x++ {
				cells[x] *= damp
			}
		}
	}
}

// assignRowMasks distributes row masks across worker goroutines in round robin
// fashion.
func assignRowMasks(workerCount int, rows []rowMask) []workerMask {
	if workerCount < 1 {
		workerCount = 1
	}
	masks := make([]workerMask, workerCount)
	for idx, row := range rows {
		workerIdx := idx % workerCount
		masks[workerIdx].rows = append(masks[workerIdx].rows, row)
	}
	return masks
}

// startWorkers launches the background goroutines that execute CPU field decay.
func (g *Game) startWorkers() {
	if g.workersStarted {
		return
	}
	if g.workerCount < 1 {
		g.workerCount = 1
	}
	if g.workerCond == nil {
		g.workerCond = sync.NewCond(&g.workerMu)
	}
	g.workersStarted = true
	for i := 0; i < g.workerCount; i++ {
		go g.decayWorkerLoop(i)
	}
}

// stepFieldCPU executes one CPU decay tick, synchronizing worker goroutines.
func (g *Game) stepFieldCPU() {
	g.workerMu.Lock()
	g.workerPending = g.workerCount
	g.workerStep++
	g.workerCond.Broadcast()
	for g.workerPending > 0 {
		g.workerCond.Wait()
	}
	g.workerMu.Unlock()
	g.field.dirty = true
}
