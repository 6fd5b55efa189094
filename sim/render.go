// render.go - packs cell state into pixels for the outer world's
// rasterizer. Purely informational per spec.md §6: nothing here is load
// bearing for simulation correctness, only for the optional driver in
// cmd/codeselection. Grounded on original_source/.../cell_state.rs
// draw_to_image and world.rs draw_to_image/get_image_size.

package sim

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ImageSize returns the pixel dimensions of the full rendered world: one
// CanvasSize tile (7x7) per cell.
func (w *World) ImageSize() AreaSize {
	return w.size.Scale(CanvasSize)
}

// drawCellToImage packs one cell's registers and memory into its
// CanvasSize tile at offset. Registers 0-5 fill the first two pixels,
// registers 6-7 fill the third pixel's R,G (B=0), then memory fills the
// rest in groups of three bytes as R,G,B; any leftover sub-pixels in the
// 49-pixel tile that the 8 registers + 43 memory triples don't reach are
// left at the image's zero value.
func drawCellToImage(img *image.RGBA, cell CellState, offset RelativePosition) {
	pixelIndex := 0

	setPixel := func(r, g, b byte) {
		pos := CanvasSize.IndexToCoords(pixelIndex).Add(offset)
		img.Set(pos.X, pos.Y, color.RGBA{R: r, G: g, B: b, A: 255})
		pixelIndex++
	}

	setPixel(cell.Registers[0], cell.Registers[1], cell.Registers[2])
	setPixel(cell.Registers[3], cell.Registers[4], cell.Registers[5])
	setPixel(cell.Registers[6], cell.Registers[7], 0)

	for i := 0; i < MemorySize/3+1; i++ {
		base := i * 3
		var r, g, b byte
		if base < MemorySize {
			r = cell.Memory[base]
		}
		if base+1 < MemorySize {
			g = cell.Memory[base+1]
		}
		if base+2 < MemorySize {
			b = cell.Memory[base+2]
		}
		setPixel(r, g, b)
	}
}

// DrawToImage renders the whole world into img, which must already be
// sized to ImageSize(). Two single-pixel corner markers (top-left red,
// bottom-right green) are stamped last, matching the original's debug
// aid for orienting the canvas regardless of window scaling.
func (w *World) DrawToImage(img *image.RGBA) {
	for index, cell := range w.cells {
		pos := w.size.IndexToCoords(index)
		cellPos := CanvasSize.Mul(pos)
		drawCellToImage(img, cell, cellPos)
	}

	imgSize := w.ImageSize()
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(imgSize.Width-1, imgSize.Height-1, color.RGBA{G: 255, A: 255})
}

// ScaleTo nearest-neighbour scales src into a freshly allocated RGBA of
// the requested size, the Go-idiomatic replacement for macroquad's
// draw_texture_ex(..., DrawTextureParams{dest_size, ...}) destination
// scaling used by the original app_state.rs.
func ScaleTo(src *image.RGBA, size AreaSize) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
