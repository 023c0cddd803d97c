package rgb5a3

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToNative(t *testing.T) {
	tests := []struct {
		name string
		in   color.NRGBA
		out  uint16
	}{
		{"transparent black", color.NRGBA{0, 0, 0, 0}, 0x0000},
		{"transparent white", color.NRGBA{0xff, 0xff, 0xff, 0}, 0x0fff},
		{"half alpha red", color.NRGBA{0xff, 0, 0, 0x80}, 0x4f00},
		{"opaque white", color.NRGBA{0xff, 0xff, 0xff, 0xff}, 0x7fff},
		{"opaque grey", color.NRGBA{0x80, 0x80, 0x80, 0xff}, 0x8000 | 16<<10 | 16<<5 | 16},
		{"nearly opaque", color.NRGBA{0xff, 0, 0, 0xf0}, 0x8000 | 31<<10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.out, ToNative(tt.in))
		})
	}
}

func TestAlphaPreservation(t *testing.T) {
	for r := 0; r < 256; r += 3 {
		for g := 0; g < 256; g += 5 {
			for b := 0; b < 256; b += 7 {
				in := color.NRGBA{uint8(r), uint8(g), uint8(b), 0}
				out := FromNative(ToNative(in))
				want := color.NRGBA{
					uint8((r + 8) / 17 * 17),
					uint8((g + 8) / 17 * 17),
					uint8((b + 8) / 17 * 17),
					0,
				}
				require.Equal(t, want, out, "input %v", in)
			}
		}
	}
}

func TestNativeStable(t *testing.T) {
	// Decoding any texel and encoding it again must not drift
	for v := 0; v < 0x10000; v++ {
		c := FromNative(uint16(v))
		require.Equal(t, c, FromNative(ToNative(c)), "texel %#04x", v)
	}
}

func TestQuantizeBounded(t *testing.T) {
	for v := 0; v < 256; v++ {
		c := color.NRGBA{uint8(v), uint8(v), uint8(v), uint8(v)}
		q := Quantize(c)
		assert.InDelta(t, int(c.R), int(q.R), 9)
		assert.InDelta(t, int(c.A), int(q.A), 37)
	}
}

func TestModel(t *testing.T) {
	c := Model.Convert(color.NRGBA{0x11, 0x22, 0x33, 0x00})
	require.IsType(t, Color(0), c)
	assert.Equal(t, Color(0x0123), c)
	assert.Equal(t, c, Model.Convert(c))
}

func TestTextureRoundTrip(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 8, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 8; x++ {
			m.SetNRGBA(x, y, Quantize(color.NRGBA{uint8(x * 30), uint8(y * 20), uint8(x * y), uint8(x * 32)}))
		}
	}

	b := new(bytes.Buffer)
	require.NoError(t, EncodeTexture(b, m))
	assert.Equal(t, TextureSize(8, 12), b.Len())

	out, err := DecodeTexture(bytes.NewReader(b.Bytes()), 8, 12)
	require.NoError(t, err)
	assert.Equal(t, m.Pix, out.Pix)
}

func TestTextureBlockOrder(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	m.SetNRGBA(4, 0, color.NRGBA{0xff, 0xff, 0xff, 0xff})

	b := new(bytes.Buffer)
	require.NoError(t, EncodeTexture(b, m))

	// The second block starts after the sixteen texels of the first
	assert.Equal(t, []byte{0x7f, 0xff}, b.Bytes()[32:34])
}

func TestTextureErrors(t *testing.T) {
	_, err := DecodeTexture(bytes.NewReader(make([]byte, 10)), 4, 4)
	assert.Equal(t, errNotEnough, err)

	_, err = DecodeTexture(bytes.NewReader(make([]byte, 34)), 4, 4)
	assert.Equal(t, errTooMuch, err)

	_, err = DecodeTexture(bytes.NewReader(nil), 3, 4)
	assert.Equal(t, errDimensions, err)

	assert.Equal(t, errDimensions, EncodeTexture(new(bytes.Buffer), image.NewNRGBA(image.Rect(0, 0, 5, 4))))
}
