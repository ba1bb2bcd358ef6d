package utils

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// GenerateID returns an opaque globally-unique id prefixed by entity kind,
// e.g. "ts_1b4e28ba-...". The prefix is there to aid debugging.
func GenerateID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// GenerateBookingReference returns a short human-facing code like "BR83921".
// The space is small, so uniqueness is enforced by the storage layer and
// callers regenerate on collision.
func GenerateBookingReference() string {
	var b [4]byte
	rand.Read(b[:])
	n := binary.BigEndian.Uint32(b[:]) % 100000
	return fmt.Sprintf("BR%05d", n)
}
