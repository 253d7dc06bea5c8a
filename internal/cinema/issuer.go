package cinema

import "sync/atomic"

// Issuer hands out ticket ids.  The first id is 1 and every call to
// Next returns a value greater than all values returned before it.
// The zero value is ready to use.
type Issuer struct {
	issued atomic.Uint64
}

// NewIssuer returns an issuer whose first id is 1.
func NewIssuer() *Issuer { return &Issuer{} }

// Next returns a fresh ticket id.
func (i *Issuer) Next() uint64 {
	return i.issued.Add(1)
}

// Peek returns the id the next call to Next will hand out, if no other
// caller gets there first.
func (i *Issuer) Peek() uint64 {
	return i.issued.Load() + 1
}
