package tga

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

const headerSize = 18

// First 12 header bytes of the two supported containers: no image ID, no
// color map, zero origin, image type 2 (raw truecolor) or 10 (RLE truecolor).
var (
	sigUncompressed = [12]byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	sigRLE          = [12]byte{0, 0, 10, 0, 0, 0, 0, 0, 0, 0, 0, 0}
)

// Sentinel causes carried by DecodeError.
var (
	ErrSignature  = errors.New("header matches neither uncompressed nor RLE truecolor")
	ErrBitDepth   = errors.New("bit depth is not 24 or 32")
	ErrDimensions = errors.New("zero width or height")
	ErrTruncated  = errors.New("pixel data truncated")
)

// DecodeError reports a malformed or unsupported image container. Image
// loading must be aborted when it is returned.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Reason == "" {
		return "tga: " + e.Err.Error()
	}
	return fmt.Sprintf("tga: %v (%s)", e.Err, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErr(err error, format string, args ...any) *DecodeError {
	return &DecodeError{Err: err, Reason: fmt.Sprintf(format, args...)}
}

// Decode reads an entire TGA stream and decodes it.
func Decode(r io.Reader) (*Image, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("tga: read: %w", err)
	}
	return DecodeBytes(buf.Bytes())
}

// DecodeBytes decodes an uncompressed or run-length-encoded 24/32-bit TGA.
func DecodeBytes(data []byte) (*Image, error) {
	if len(data) < headerSize {
		return nil, decodeErr(ErrTruncated, "header is %d bytes, need %d", len(data), headerSize)
	}

	var sig [12]byte
	copy(sig[:], data[:12])
	rle := false
	switch sig {
	case sigUncompressed:
	case sigRLE:
		rle = true
	default:
		return nil, &DecodeError{Err: ErrSignature}
	}

	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bits := int(data[16])
	descriptor := data[17]

	if bits != 24 && bits != 32 {
		return nil, decodeErr(ErrBitDepth, "got %d", bits)
	}
	if width == 0 || height == 0 {
		return nil, decodeErr(ErrDimensions, "%dx%d", width, height)
	}

	img := &Image{
		Width:  width,
		Height: height,
		Format: Format(bits / 8),
		Origin: BottomLeft,
	}
	if descriptor&0x20 != 0 {
		img.Origin = TopLeft
	}

	r := &reader{data: data, off: headerSize}
	var err error
	if rle {
		img.Pix, err = r.readRLE(width*height, img.BytesPerPixel())
	} else {
		img.Pix, err = r.readRaw(width*height, img.BytesPerPixel())
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

type reader struct {
	data []byte
	off  int
}

func (r *reader) remaining() int {
	return len(r.data) - r.off
}

// pixel returns the next stored pixel (B,G,R[,A]) without copying.
func (r *reader) pixel(bpp int) ([]byte, error) {
	if r.remaining() < bpp {
		return nil, decodeErr(ErrTruncated, "need %d bytes at offset %d", bpp, r.off)
	}
	p := r.data[r.off : r.off+bpp]
	r.off += bpp
	return p, nil
}

func (r *reader) readRaw(pixels, bpp int) ([]byte, error) {
	need := pixels * bpp
	if r.remaining() < need {
		return nil, decodeErr(ErrTruncated, "need %d bytes of pixel data, have %d", need, r.remaining())
	}
	out := make([]byte, need)
	for i := 0; i < pixels; i++ {
		p, _ := r.pixel(bpp)
		putPixel(out[i*bpp:], p)
	}
	return out, nil
}

// readRLE expands packets until exactly pixels have been written. A packet
// that would run past the end is cut at the boundary.
func (r *reader) readRLE(pixels, bpp int) ([]byte, error) {
	// A packet takes at least 1+bpp bytes and yields at most 128 pixels.
	if most := r.remaining() / (1 + bpp) * 128; pixels > most {
		return nil, decodeErr(ErrTruncated, "%d bytes of packets cannot hold %d pixels", r.remaining(), pixels)
	}
	out := make([]byte, pixels*bpp)
	cur := 0
	for cur < pixels {
		if r.remaining() < 1 {
			return nil, decodeErr(ErrTruncated, "missing packet header after %d of %d pixels", cur, pixels)
		}
		header := int(r.data[r.off])
		r.off++

		if header < 128 {
			count := min(header+1, pixels-cur)
			for i := 0; i < count; i++ {
				p, err := r.pixel(bpp)
				if err != nil {
					return nil, err
				}
				putPixel(out[cur*bpp:], p)
				cur++
			}
			continue
		}

		count := min(header-127, pixels-cur)
		p, err := r.pixel(bpp)
		if err != nil {
			return nil, err
		}
		for i := 0; i < count; i++ {
			putPixel(out[cur*bpp:], p)
			cur++
		}
	}
	return out, nil
}

// putPixel stores a B,G,R(,A) source pixel as R,G,B(,A).
func putPixel(dst, src []byte) {
	dst[0] = src[2]
	dst[1] = src[1]
	dst[2] = src[0]
	if len(src) == 4 {
		dst[3] = src[3]
	}
}
