package render

// DepthBuffer stores the nearest view-space depth seen at each pixel.
type DepthBuffer struct {
	width, height int
	far           float64
	z             []float64
}

// NewDepthBuffer creates a depth buffer with every pixel at far.
func NewDepthBuffer(width, height int, far float64) *DepthBuffer {
	d := &DepthBuffer{
		width:  width,
		height: height,
		far:    far,
		z:      make([]float64, width*height),
	}
	d.Clear()
	return d
}

// Clear resets every pixel to the far distance.
func (d *DepthBuffer) Clear() {
	n := len(d.z)
	if n == 0 {
		return
	}
	d.z[0] = d.far
	for i := 1; i < n; i *= 2 {
		copy(d.z[i:], d.z[:i])
	}
}

// Width returns the buffer width.
func (d *DepthBuffer) Width() int { return d.width }

// Height returns the buffer height.
func (d *DepthBuffer) Height() int { return d.height }

// Far returns the value an untouched pixel holds.
func (d *DepthBuffer) Far() float64 { return d.far }

// At returns the depth at (x, y), or far when out of range.
func (d *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return d.far
	}
	return d.z[y*d.width+x]
}

// Set stores z at (x, y). Out-of-range writes are ignored.
func (d *DepthBuffer) Set(x, y int, z float64) {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return
	}
	d.z[y*d.width+x] = z
}

// TestAndSet stores z at (x, y) and reports true if z is nearer than the
// stored depth. Otherwise the buffer is unchanged.
func (d *DepthBuffer) TestAndSet(x, y int, z float64) bool {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return false
	}
	i := y*d.width + x
	if z < d.z[i] {
		d.z[i] = z
		return true
	}
	return false
}

// Range returns the nearest stored depth and whether any pixel was written.
func (d *DepthBuffer) Range() (near float64, ok bool) {
	near = d.far
	for _, z := range d.z {
		if z < near {
			near, ok = z, true
		}
	}
	return near, ok
}
