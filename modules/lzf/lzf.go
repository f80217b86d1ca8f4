// Package lzf decodes the storage engine's LZF framing: a pass-through
// marker byte, a variable-length uncompressed-size header, and a raw
// LZF-compressed payload (the same wire format as Perl's Compress::LZF).
package lzf

import (
	"errors"
	"sync"
)

var (
	// ErrMalformedHeader is returned when the frame is empty, the header
	// runs past the end of the input, or the decoded uncompressed size is
	// zero.
	ErrMalformedHeader = errors.New("lzf: malformed frame header")
	// ErrDecompress is returned when the compressed payload is corrupt:
	// a back-reference points outside the output written so far, or the
	// payload ends mid-literal-run or mid-match.
	ErrDecompress = errors.New("lzf: corrupt compressed payload")
)

// HeaderLength parses the variable-length uncompressed-size header at the
// start of a non-passthrough frame. It returns the number of header bytes
// consumed and the uncompressed size they encode.
//
//	HeaderLength([]byte{0xC4, 0x9B}) == (2, 283)
func HeaderLength(raw []byte) (headerSize int, uncompressedSize int, err error) {
	if len(raw) == 0 {
		return 0, 0, ErrMalformedHeader
	}
	lower := raw[0]
	csize := len(raw)
	start := 1
	mask := byte(0x80)
	for mask != 0 && csize > start && lower&mask != 0 {
		if mask == 0x80 {
			mask >>= 2
		} else {
			mask >>= 1
		}
		start++
	}
	if mask == 0 || csize < start {
		return 0, 0, ErrMalformedHeader
	}
	usize := int(lower & (mask - 1))
	for i := 1; i < start; i++ {
		usize = (usize << 6) | int(raw[i]&0x3f)
	}
	if usize == 0 {
		return 0, 0, ErrMalformedHeader
	}
	return start, usize, nil
}

var bufPool = sync.Pool{
	New: func() any { return make([]byte, 0, 4096) },
}

// Decode decodes one LZF-framed value produced by the external pipeline.
func Decode(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if raw[0] == 0x00 {
		out := make([]byte, len(raw)-1)
		copy(out, raw[1:])
		return out, nil
	}
	headerSize, usize, err := HeaderLength(raw)
	if err != nil {
		return nil, err
	}
	pooled := bufPool.Get().([]byte)[:0]
	out, err := decompressInto(pooled, raw[headerSize:], usize)
	if err != nil {
		bufPool.Put(pooled[:0]) //nolint:staticcheck // returning original backing array for reuse
		return nil, err
	}
	result := make([]byte, len(out))
	copy(result, out)
	bufPool.Put(out[:0])
	return result, nil
}

// decompressInto runs the raw LZF (LibLZF-compatible) decoder, appending
// to dst and growing it as needed, until exactly usize bytes have been
// produced.
func decompressInto(dst []byte, src []byte, usize int) ([]byte, error) {
	if cap(dst) < usize {
		grown := make([]byte, 0, usize)
		dst = append(grown, dst...)
	}
	ip := 0
	for ip < len(src) {
		ctrl := int(src[ip])
		ip++
		if ctrl < 32 {
			// Literal run of ctrl+1 bytes.
			n := ctrl + 1
			if ip+n > len(src) {
				return nil, ErrDecompress
			}
			dst = append(dst, src[ip:ip+n]...)
			ip += n
			continue
		}
		// Back-reference: length and distance.
		length := ctrl >> 5
		if length == 7 {
			if ip >= len(src) {
				return nil, ErrDecompress
			}
			length += int(src[ip])
			ip++
		}
		length += 2
		if ip >= len(src) {
			return nil, ErrDecompress
		}
		ref := len(dst) - ((ctrl & 0x1f) << 8) - 1 - int(src[ip])
		ip++
		if ref < 0 {
			return nil, ErrDecompress
		}
		for ; length > 0; length-- {
			if ref >= len(dst) {
				return nil, ErrDecompress
			}
			dst = append(dst, dst[ref])
			ref++
		}
	}
	if len(dst) != usize {
		return nil, ErrDecompress
	}
	return dst, nil
}
