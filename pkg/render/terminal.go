package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// upperHalf is drawn with the top pixel as foreground and the bottom pixel
// as background, packing two framebuffer rows into one terminal row.
const upperHalf = "▀"

// Draw paints the framebuffer onto a terminal screen.
// The framebuffer height should be 2x the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= fb.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: upperHalf,
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(x, topY)),
					Bg: cellColor(fb.GetPixel(x, botY)),
				},
			})
		}
	}
}

// TerminalSize returns the framebuffer size that fills a cols x rows
// terminal area with half-block cells.
func TerminalSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// cellColor maps fully transparent pixels to the terminal default.
func cellColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
