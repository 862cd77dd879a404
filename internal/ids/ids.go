// Package ids mints the record identifiers used as primary keys for
// accounts, enterprises and leads. ULIDs keep inserts roughly append-ordered
// in the btree and sort by creation time without a separate column.
package ids

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu sync.Mutex
	// Monotonic entropy guarantees strictly increasing ids within the same
	// millisecond; the mutex serializes readers because the source is not
	// safe for concurrent use.
	source = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// New returns a fresh ULID string.
func New() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), source).String()
}
