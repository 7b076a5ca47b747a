package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a ULID string. ULIDs sort lexicographically by creation time,
// which keeps them usable as DynamoDB partition keys and stable sort tiebreakers.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
