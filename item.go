package memcadm

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// NoExpire means the item never expires.
// Expiration values up to 30 days are relative seconds; larger values are
// absolute unix timestamps (server-side convention).
const NoExpire = 0

// DisplayLimit is the maximum number of value bytes rendered by
// DisplayValue before truncation kicks in.
const DisplayLimit = 320

// notASCIIPlaceholder replaces values whose leading byte would corrupt
// terminal output.
const notASCIIPlaceholder = "(Not ASCII)"

// Item is one cache entry. It is a value object: freely copyable, built per
// command invocation from a get reply or by a caller intending to store,
// and never cached across calls.
type Item struct {
	Key    string
	Value  []byte
	Flags  uint32
	Expire int32

	// CAS is the server-assigned version token, present only when the
	// item was read with a CAS-aware get.
	CAS    uint64
	HasCAS bool

	// Found indicates whether the key was found in cache.
	Found bool
}

// NewItem builds an item for a storage operation.
func NewItem(key string, value []byte, expire int32, flags uint32) Item {
	return Item{
		Key:    key,
		Value:  value,
		Flags:  flags,
		Expire: expire,
		Found:  true,
	}
}

// Size returns the byte length of the value.
func (i Item) Size() int {
	return len(i.Value)
}

// Printable reports whether the value is safe to print raw: the leading
// byte must be in the printable-ASCII-or-whitespace range. This is a
// display heuristic only; the value bytes themselves are never altered.
func (i Item) Printable() bool {
	if len(i.Value) == 0 {
		return true
	}
	b := i.Value[0]
	return (b >= 32 && b < 127) || b == '\t' || b == '\n' || b == '\r'
}

// DisplayValue renders the value for interactive output, keeping it
// bounded: values longer than DisplayLimit are cut to the first
// DisplayLimit-1 bytes plus a truncation marker, and values that are not
// printable are replaced with a fixed placeholder. Use Size for the real
// length and Value for the untouched bytes.
func (i Item) DisplayValue() string {
	if !i.Printable() {
		return notASCIIPlaceholder
	}
	if len(i.Value) > DisplayLimit {
		return string(i.Value[:DisplayLimit-1]) + "..."
	}
	return string(i.Value)
}

// Digest returns a short stable content hash of the value, shown alongside
// the placeholder so binary values can still be compared at a glance.
func (i Item) Digest() string {
	return fmt.Sprintf("%016x", xxh3.Hash(i.Value))
}
