// Package qr adapts a QR symbol encoder to the module-matrix form the
// geometry layer consumes.
package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Matrix is a square grid of QR modules. true is a dark module.
type Matrix [][]bool

// Encode returns the module matrix for payload at the minimum symbol version
// that fits, error correction level H. The quiet zone is stripped; the token
// margin around the relief provides it physically.
func Encode(payload string) (Matrix, error) {
	if payload == "" {
		return nil, fmt.Errorf("qr: empty payload")
	}

	code, err := qrcode.New(payload, qrcode.Highest)
	if err != nil {
		return nil, fmt.Errorf("qr: encode %q: %w", payload, err)
	}
	code.DisableBorder = true

	m := Matrix(code.Bitmap())
	if len(m) == 0 || len(m[0]) != len(m) {
		return nil, fmt.Errorf("qr: encoder returned non-square matrix for %q", payload)
	}
	return m, nil
}

// Size returns the module count per side.
func (m Matrix) Size() int { return len(m) }

// Rows implements the relief grid contract.
func (m Matrix) Rows() int { return len(m) }

// Cols implements the relief grid contract.
func (m Matrix) Cols() int { return len(m) }

// At reports whether the module at column x, row y (row 0 on top) is dark.
func (m Matrix) At(x, y int) bool { return m[y][x] }

// Equal reports whether two matrices hold identical modules.
func (m Matrix) Equal(other Matrix) bool {
	if len(m) != len(other) {
		return false
	}
	for y := range m {
		if len(m[y]) != len(other[y]) {
			return false
		}
		for x := range m[y] {
			if m[y][x] != other[y][x] {
				return false
			}
		}
	}
	return true
}
