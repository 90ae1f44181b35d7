// Package memory provides in-memory implementations of the repository ports,
// backed by the shared listing engine. They are used by the service test
// suites and as a storage backend for local development; semantics (unique
// email, compare-and-set status writes) mirror the mongo implementations.
package memory

import (
	"crypto/rand"
	"fmt"
)

// newID returns a random 12-byte hex identifier.
func newID() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("memory: id generation failed: %v", err))
	}
	return fmt.Sprintf("%x", b)
}
