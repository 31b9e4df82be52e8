package main

import "testing"

func TestEchoFieldDeposit(t *testing.T) {
	f := newEchoField(16, 16)
	f.deposit(3, 4, 0.25)
	f.deposit(3, 4, 0.25)
	if got := f.read(3, 4); absFloat(float64(got)-0.5) > 1e-6 {
		t.Fatalf("cell holds %.6f, want 0.5", got)
	}
	if !f.wasModified() {
		t.Fatal("deposit did not mark the buffer dirty")
	}

	f.deposit(3, 4, 5)
	if got := f.read(3, 4); got != 1 {
		t.Fatalf("cell holds %.6f, want clamped to 1", got)
	}

	// Out-of-bounds deposits are dropped, not wrapped.
	f.clearDirty()
	f.deposit(-1, 4, 0.5)
	f.deposit(16, 4, 0.5)
	f.deposit(3, 16, 0.5)
	if f.wasModified() {
		t.Fatal("out-of-bounds deposit dirtied the buffer")
	}
}

func TestEchoFieldZeroCell(t *testing.T) {
	f := newEchoField(8, 8)
	f.deposit(2, 2, 0.7)
	f.clearDirty()
	f.zeroCell(2, 2)
	if got := f.read(2, 2); got != 0 {
		t.Fatalf("cell holds %.6f after zeroCell", got)
	}
	if !f.wasModified() {
		t.Fatal("zeroCell did not mark the buffer dirty")
	}
}

func TestDecayMaskFadesOnlyCoveredSpans(t *testing.T) {
	f := newEchoField(10, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 10; x++ {
			f.energy[y*10+x] = 1
		}
	}
	mask := workerMask{rows: []rowMask{
		{y: 1, spans: []span{{start: 2, end: 4}, {start: 7, end: 8}}},
	}}
	decayMask(f, &mask)

	for x := 0; x < 10; x++ {
		covered := (x >= 2 && x <= 4) || (x >= 7 && x <= 8)
		got := f.read(x, 1)
		if covered && got != fieldDamp32 {
			t.Fatalf("covered cell (%d, 1) holds %.6f, want %.6f", x, got, fieldDamp32)
		}
		if !covered && got != 1 {
			t.Fatalf("uncovered cell (%d, 1) decayed to %.6f", x, got)
		}
	}
	for x := 0; x < 10; x++ {
		if f.read(x, 0) != 1 || f.read(x, 2) != 1 {
			t.Fatalf("row outside the mask decayed at column %d", x)
		}
	}
}

func TestDecayMaskClampsSpanBounds(t *testing.T) {
	f := newEchoField(5, 1)
	for x := 0; x < 5; x++ {
		f.energy[x] = 1
	}
	mask := workerMask{rows: []rowMask{{y: 0, spans: []span{{start: -3, end: 9}}}}}
	decayMask(f, &mask)
	for x := 0; x < 5; x++ {
		if got := f.read(x, 0); got != fieldDamp32 {
			t.Fatalf("cell %d holds %.6f, want %.6f", x, got, fieldDamp32)
		}
	}
}

func TestAssignRowMasksRoundRobin(t *testing.T) {
	rows := make([]rowMask, 7)
	for i := range rows {
		rows[i].y = i
	}
	masks := assignRowMasks(3, rows)
	if len(masks) != 3 {
		t.Fatalf("got %d masks, want 3", len(masks))
	}
	counts := []int{3, 2, 2}
	for i, mask := range masks {
		if len(mask.rows) != counts[i] {
			t.Fatalf("worker %d holds %d rows, want %d", i, len(mask.rows), counts[i])
		}
		for j, row := range mask.rows {
			if row.y != j*3+i {
				t.Fatalf("worker %d row %d is y=%d", i, j, row.y)
			}
		}
	}
	if got := assignRowMasks(0, rows); len(got) != 1 {
		t.Fatalf("zero workers produced %d masks, want 1", len(got))
	}
}

func TestRebuildInteriorMaskSkipsWallCells(t *testing.T) {
	g := &Game{workerCount: 2}
	g.wallGrid = make([]bool, w*h)
	// A vertical wall splits row 5 into two spans.
	for y := 0; y < h; y++ {
		g.wallGrid[y*w+100] = true
	}
	g.maskDirty = true
	g.rebuildInteriorMask()

	if g.maskDirty {
		t.Fatal("rebuild left the dirty flag set")
	}
	covered := make([]bool, w*h)
	for _, mask := range g.workerMasks {
		for _, row := range mask.rows {
			for _, sp := range row.spans {
				for x := sp.start; x <= sp.end; x++ {
					idx := row.y*w + x
					if g.wallGrid[idx] {
						t.Fatalf("span covers wall cell (%d, %d)", x, row.y)
					}
					if covered[idx] {
						t.Fatalf("cell (%d, %d) covered twice", x, row.y)
					}
					covered[idx] = true
				}
			}
		}
	}
	for i := range covered {
		if !covered[i] && !g.wallGrid[i] {
			t.Fatalf("interior cell (%d, %d) not covered by any span", i%w, i/w)
		}
	}
}
