package rgb5a3

import (
	"errors"
	"image"
	"image/color"
	"io"
)

const (
	blockWidth  = 4
	blockHeight = 4
	texelBytes  = 2
)

var (
	errNotEnough  = errors.New("rgb5a3: not enough texture data")
	errTooMuch    = errors.New("rgb5a3: too much texture data")
	errDimensions = errors.New("rgb5a3: texture dimensions must be a multiple of 4")
)

// TextureSize returns the number of bytes used by a w by h texture.
func TextureSize(w, h int) int {
	return w * h * texelBytes
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r     io.Reader
	image *image.NRGBA

	// One row of blocks
	tmp []byte
}

func (d *decoder) decode(r io.Reader, w, h int) error {
	if w%blockWidth != 0 || h%blockHeight != 0 || w <= 0 || h <= 0 {
		return errDimensions
	}

	d.r = r
	d.image = image.NewNRGBA(image.Rect(0, 0, w, h))
	d.tmp = make([]byte, w*blockHeight*texelBytes)

	for by := 0; by < h; by += blockHeight {
		if err := readFull(d.r, d.tmp); err != nil {
			if err == io.ErrUnexpectedEOF {
				return errNotEnough
			}
			return err
		}

		i := 0
		for bx := 0; bx < w; bx += blockWidth {
			for y := 0; y < blockHeight; y++ {
				for x := 0; x < blockWidth; x++ {
					v := uint16(d.tmp[i])<<8 | uint16(d.tmp[i+1])
					d.image.SetNRGBA(bx+x, by+y, FromNative(v))
					i += texelBytes
				}
			}
		}
	}

	var extra [1]byte
	if n, err := r.Read(extra[:]); n != 0 || (err != nil && err != io.EOF) {
		if err != nil && err != io.EOF {
			return err
		}
		return errTooMuch
	}

	return nil
}

// DecodeTexture reads a w by h texture stored in 4 by 4 texel blocks.
func DecodeTexture(r io.Reader, w, h int) (*image.NRGBA, error) {
	var d decoder
	if err := d.decode(r, w, h); err != nil {
		return nil, err
	}
	return d.image, nil
}

type encoder struct {
	w io.Writer
}

func nrgbaAt(m image.Image, x, y int) color.NRGBA {
	if n, ok := m.(*image.NRGBA); ok {
		return n.NRGBAAt(x, y)
	}
	return color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
}

func (e *encoder) encode(m image.Image) error {
	b := m.Bounds()
	tmp := make([]byte, b.Dx()*blockHeight*texelBytes)

	for by := b.Min.Y; by < b.Max.Y; by += blockHeight {
		i := 0
		for bx := b.Min.X; bx < b.Max.X; bx += blockWidth {
			for y := 0; y < blockHeight; y++ {
				for x := 0; x < blockWidth; x++ {
					v := ToNative(nrgbaAt(m, bx+x, by+y))
					tmp[i] = byte(v >> 8)
					tmp[i+1] = byte(v)
					i += texelBytes
				}
			}
		}
		if _, err := e.w.Write(tmp); err != nil {
			return err
		}
	}

	return nil
}

// EncodeTexture writes m to w as an RGB5A3 texture in 4 by 4 texel blocks.
// Images other than *image.NRGBA are converted texel by texel, which cannot
// recover color that a premultiplied source has already discarded.
func EncodeTexture(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Dx()%blockWidth != 0 || b.Dy()%blockHeight != 0 || b.Empty() {
		return errDimensions
	}

	e := encoder{w: w}

	return e.encode(m)
}
