// Package isotemplate post-processes ISO 19794-2 minutiae templates read
// from the scanner.
package isotemplate

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// VendorID is written as the CBEFF product identifier owner.
	VendorID uint16 = 49
	// SubformatID is written as the CBEFF product identifier type.
	SubformatID uint16 = 263

	shortHeaderLimit = 65535
)

// ErrTruncated reports a template too short to hold the record header.
var ErrTruncated = errors.New("template shorter than record header")

// HeaderOffset returns the position shift of the product identifier fields:
// records over 65535 bytes use a six byte length field instead of two.
func HeaderOffset(size int) int {
	if size > shortHeaderLimit {
		return 6
	}
	return 2
}

// Adapt returns a copy of tpl with the product identifier fields set to
// VendorID and SubformatID and the capture equipment field cleared.
func Adapt(tpl []byte) ([]byte, error) {
	off := HeaderOffset(len(tpl))
	if off+14 > len(tpl) {
		return nil, fmt.Errorf("%w: %d bytes, need %d", ErrTruncated, len(tpl), off+14)
	}
	out := append([]byte(nil), tpl...)
	binary.BigEndian.PutUint16(out[off+8:], VendorID)
	binary.BigEndian.PutUint16(out[off+10:], SubformatID)
	out[off+12] = 0
	out[off+13] = 0
	return out, nil
}
