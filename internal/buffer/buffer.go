// Package buffer provides the row-addressable pixel buffers used as
// scratch space during scanline rendering and as the final output
// destination.
package buffer

import "github.com/agg-go/scanraster/internal/color"

// ScratchBuffer is a single row-block of linear premultiplied pixels, one
// row per y position requested in a RenderSlice.
type ScratchBuffer struct {
	Width int
	Rows  [][]color.Pixel
}

// NewScratchBuffer allocates a block of rows rows wide width pixels.
func NewScratchBuffer(width, rows int) *ScratchBuffer {
	b := &ScratchBuffer{Width: width, Rows: make([][]color.Pixel, rows)}
	for i := range b.Rows {
		b.Rows[i] = make([]color.Pixel, width)
	}
	return b
}

// Zero clears every row to transparent black.
func (b *ScratchBuffer) Zero() {
	for _, row := range b.Rows {
		clear(row)
	}
}

// Row returns the i-th row's pixel slice.
func (b *ScratchBuffer) Row(i int) []color.Pixel { return b.Rows[i] }

// OutputBuffer is the destination 8-bit pre-multiplied RGBA buffer,
// width*height*4 bytes, rows top-to-bottom.
type OutputBuffer struct {
	Width, Height int
	Pix           []byte
}

func NewOutputBuffer(width, height int) *OutputBuffer {
	return &OutputBuffer{Width: width, Height: height, Pix: make([]byte, width*height*4)}
}

// RowBytes returns the byte slice for output row y.
func (b *OutputBuffer) RowBytes(y int) []byte {
	stride := b.Width * 4
	return b.Pix[y*stride : y*stride+stride]
}

// Stride is the number of bytes per output row.
func (b *OutputBuffer) Stride() int { return b.Width * 4 }
