package determinism

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// GenerateSeed creates a deterministic uint64 seed from a task ID and
// attempt slot. The seed is derived from a SHA-256 hash of the inputs,
// so reruns of the same slot replay the same seed while sibling slots
// diverge.
// The returned value is guaranteed to be <= math.MaxInt64 to ensure
// compatibility with LLM APIs that use signed int64 for seeds.
func GenerateSeed(taskID string, attemptIndex int) uint64 {
	input := fmt.Sprintf("%s|%d", taskID, attemptIndex)

	hash := sha256.Sum256([]byte(input))

	seed := binary.BigEndian.Uint64(hash[:8])

	// Mask off the high bit to keep the value in int64 range.
	seed = seed & 0x7FFFFFFFFFFFFFFF

	return seed
}
