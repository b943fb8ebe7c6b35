// Package digest computes the SHA3-256 document digest used by the
// signature subsystem (spec §3, §4.8).
package digest

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Size is the length in bytes of a digest produced by New.
const Size = 32

// Digest is a streaming SHA3-256 accumulator. The zero value is ready to use.
// It is not safe for concurrent use by multiple goroutines — callers needing
// one per-parse instance already get that for free since parsing itself is
// single-threaded (spec §5).
type Digest struct {
	h interface {
		Write(p []byte) (int, error)
		Sum(b []byte) []byte
	}
}

// New returns a fresh Digest, ready to accept bytes via Update.
func New() *Digest {
	return &Digest{h: sha3.New256()}
}

// Update feeds additional bytes into the digest.
func (d *Digest) Update(b []byte) {
	_, _ = d.h.Write(b)
}

// Sum returns the final 32-byte SHA3-256 digest over everything written so
// far. Calling Sum does not prevent further Update calls, matching the
// streaming update()/digest() contract in §4.8.
func (d *Digest) Sum() [Size]byte {
	var out [Size]byte
	copy(out[:], d.h.Sum(nil))
	return out
}

// Hex returns the lowercase hex encoding of Sum(), the form used when a
// digest needs to be embedded in a signature payload (§4.7).
func (d *Digest) Hex() string {
	sum := d.Sum()
	return hex.EncodeToString(sum[:])
}
