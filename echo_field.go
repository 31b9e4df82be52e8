package main

// echoField stores the persistent energy buffer that ray splats accumulate
// into. The buffer decays every tick so old pings fade out.
type echoField struct {
	width, height int
	energy        []float32
	dirty         bool
}

// newEchoField allocates a field with a properly sized buffer.
func newEchoField(width, height int) *echoField {
	return &echoField{
		width:  width,
		height: height,
		energy: make([]float32, width*height),
	}
}

// deposit adds energy to a cell and marks the host buffer dirty so GPU copies
// resynchronize.
func (f *echoField) deposit(x, y int, value float32) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	idx := y*f.width + x
	f.energy[idx] += value
	if f.energy[idx] > 1 {
		f.energy[idx] = 1
	}
	f.dirty = true
}

// read returns the energy stored at the given cell.
func (f *echoField) read(x, y int) float32 {
	return f.energy[y*f.width+x]
}

// zeroCell clears a single cell, used when cells become walls.
func (f *echoField) zeroCell(x, y int) {
	f.energy[y*f.width+x] = 0
	f.dirty = true
}

// wasModified reports whether the host buffer changed since clearDirty.
func (f *echoField) wasModified() bool { return f.dirty }

// clearDirty acknowledges that the device copy matches the host buffer.
func (f *echoField) clearDirty() { f.dirty = false }
