// Package shalist packs and unpacks the concatenated-twenty-byte-hash
// list encoding used as the value of SHA-list relations (blob→commits,
// commit→children, project→commits, file→commits, author→commits).
package shalist

import (
	"encoding/hex"
	"fmt"
)

// Unpack splits a raw value into its 20-byte chunks, hex-encoding each.
// An empty or nil input yields an empty (never nil-panicking) slice.
func Unpack(raw []byte) ([]string, error) {
	if len(raw)%20 != 0 {
		return nil, fmt.Errorf("shalist: length %d is not a multiple of 20", len(raw))
	}
	if len(raw) == 0 {
		return []string{}, nil
	}
	out := make([]string, len(raw)/20)
	for i := range out {
		out[i] = hex.EncodeToString(raw[i*20 : i*20+20])
	}
	return out, nil
}

// UnpackBinary splits a raw value into its raw 20-byte chunks.
func UnpackBinary(raw []byte) ([][20]byte, error) {
	if len(raw)%20 != 0 {
		return nil, fmt.Errorf("shalist: length %d is not a multiple of 20", len(raw))
	}
	out := make([][20]byte, len(raw)/20)
	for i := range out {
		copy(out[i][:], raw[i*20:i*20+20])
	}
	return out, nil
}

// Pack concatenates a list of 40-hex SHAs into their 20-byte binary form.
// Pack(Unpack(x)) == x for any well-formed x.
func Pack(hexSHAs []string) ([]byte, error) {
	out := make([]byte, 0, len(hexSHAs)*20)
	for _, s := range hexSHAs {
		b, err := hex.DecodeString(s)
		if err != nil || len(b) != 20 {
			return nil, fmt.Errorf("shalist: %q is not a 40-hex SHA", s)
		}
		out = append(out, b...)
	}
	return out, nil
}
