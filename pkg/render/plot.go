package render

// PlotFunc draws the graph of f across the framebuffer. f is sampled once
// per pixel column and should return values in [-1, 1]; -1 maps to row 0
// and 1 to the last row. Samples outside that range are clamped.
// Consecutive samples are joined with Bresenham lines.
func (fb *Framebuffer) PlotFunc(f func(x int) float32, color Color) {
	row := func(x int) int {
		v := f(x)
		if v != v { // NaN
			v = 0
		}
		t := (clamp1(v) + 1) / 2
		return int(t * float32(fb.Height-1))
	}

	prev := Pt(0, row(0))
	fb.DrawLineClipped(prev, prev, color)
	for x := 1; x < fb.Width; x++ {
		cur := Pt(x, row(x))
		fb.DrawLineClipped(prev, cur, color)
		prev = cur
	}
}
