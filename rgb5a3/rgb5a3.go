/*
Package rgb5a3 implements the console's packed RGB5A3 texel format.

Each texel is a big endian 16-bit value. If the top bit is set the texel is
fully opaque with five bits per color channel, otherwise three bits of alpha
precede four bits per color channel:

	1RRRRRGGGGGBBBBB
	0AAARRRRGGGGBBBB

Conversion is always to and from color.NRGBA. Color information is kept
separate from alpha so the red, green and blue bits of a fully transparent
texel survive a round trip; the renderer samples them when filtering at
texel edges.
*/
package rgb5a3

import (
	"image/color"
)

const (
	opaqueBit = 0x8000

	// Alpha at or above this is stored as RGB555
	opaqueThreshold = 238
)

// Color is a single RGB5A3 texel.
type Color uint16

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return FromNative(uint16(c)).RGBA()
}

// Model converts any color to a Color.
var Model = color.ModelFunc(model)

func model(c color.Color) color.Color {
	if c, ok := c.(Color); ok {
		return c
	}
	return Color(ToNative(color.NRGBAModel.Convert(c).(color.NRGBA)))
}

func to4(c uint8) uint16 {
	return (uint16(c) + 8) / 17
}

func to5(c uint8) uint16 {
	return ((uint16(c) + 4) << 2) / 33
}

func exact4(c uint8) bool {
	return c%17 == 0
}

// ToNative packs c. The color channels are quantized independently of
// alpha, so a zero alpha never zeroes the color.
func ToNative(c color.NRGBA) uint16 {
	switch {
	case c.A == 0xff && exact4(c.R) && exact4(c.G) && exact4(c.B):
		// Representable exactly with the maximum 3-bit alpha
		return 7<<12 | to4(c.R)<<8 | to4(c.G)<<4 | to4(c.B)
	case c.A >= opaqueThreshold:
		return opaqueBit | to5(c.R)<<10 | to5(c.G)<<5 | to5(c.B)
	default:
		a := ((uint16(c.A) + 18) << 1) / 73
		return a<<12 | to4(c.R)<<8 | to4(c.G)<<4 | to4(c.B)
	}
}

func from3(v uint16) uint8 {
	return uint8(v<<5 | v<<2 | v>>1)
}

func from4(v uint16) uint8 {
	return uint8(v * 17)
}

func from5(v uint16) uint8 {
	return uint8(v<<3 | v>>2)
}

// FromNative unpacks v.
func FromNative(v uint16) color.NRGBA {
	if v&opaqueBit != 0 {
		return color.NRGBA{
			R: from5(v >> 10 & 0x1f),
			G: from5(v >> 5 & 0x1f),
			B: from5(v & 0x1f),
			A: 0xff,
		}
	}
	return color.NRGBA{
		R: from4(v >> 8 & 0x0f),
		G: from4(v >> 4 & 0x0f),
		B: from4(v & 0x0f),
		A: from3(v >> 12 & 0x07),
	}
}

// Quantize returns c as it will look after a round trip through the native
// format.
func Quantize(c color.NRGBA) color.NRGBA {
	return FromNative(ToNative(c))
}
