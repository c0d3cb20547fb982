package core

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"weektrack/pkg/domain"
)

// IDGenerator produces identifiers that do not repeat within a process.
type IDGenerator func() domain.ID

// NewTimeOrderedID returns a UUIDv7: a millisecond timestamp, a monotonic
// sequence for IDs minted within the same millisecond, and random bits.
func NewTimeOrderedID() domain.ID {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does.
		return domain.ID(uuid.NewString())
	}
	return domain.ID(id.String())
}

// SequentialIDs returns a deterministic counter-based generator, mostly for tests.
func SequentialIDs(prefix string) IDGenerator {
	var n atomic.Int64
	return func() domain.ID {
		return domain.ID(fmt.Sprintf("%s%d", prefix, n.Add(1)))
	}
}
