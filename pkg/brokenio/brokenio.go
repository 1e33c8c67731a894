// Package brokenio wraps a reader so it fails on purpose. Real read
// errors (full disks, dropped mounts) are hard to provoke in a test,
// so we make our own. The wrapped reader delivers n bytes and then
// returns the error you gave it, every time, no randomness.
package brokenio

import (
	"io"
)

// BrknRdr wraps a reader and breaks after a set number of bytes.
type BrknRdr struct {
	rdrOrig io.Reader
	errOut  error
	nLeft   int
}

// NewReader returns a reader which passes through the first n bytes
// and then keeps returning err.
func NewReader(rIn io.Reader, n int, err error) *BrknRdr {
	return &BrknRdr{rdrOrig: rIn, nLeft: n, errOut: err}
}

// Read hands out data until the budget is used up.
func (r *BrknRdr) Read(p []byte) (int, error) {
	if r.nLeft <= 0 {
		return 0, r.errOut
	}
	if len(p) > r.nLeft {
		p = p[:r.nLeft]
	}
	n, err := r.rdrOrig.Read(p)
	r.nLeft -= n
	return n, err
}
