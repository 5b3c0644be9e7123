// Package descriptor implements the 24-byte binary risk descriptor format.
// A descriptor is the canonical serialized form of a classification decision:
// it carries the risk tier, capability flags, a non-authoritative command
// fingerprint, advisory performance hints and a trailing CRC-16 integrity
// checksum. Descriptors are immutable values; re-classification produces a
// new descriptor rather than mutating an existing one.
package descriptor

import (
	"hash/fnv"

	"github.com/tcpguard/tcpguard/internal/risktypes"
)

// Size is the fixed serialized size of a descriptor in bytes.
// Every encoded descriptor is exactly this long, regardless of content.
const Size = 24

// Magic identifies the descriptor format family. The four bytes spell "TCPD".
var Magic = [4]byte{'T', 'C', 'P', 'D'}

// Version is the current descriptor format version. The checksum algorithm
// (CRC-16/ARC over all bytes preceding the checksum field) is bound to this
// version; changing the algorithm requires a version bump.
const Version uint16 = 1

// Descriptor is the in-memory representation of a 24-byte risk record.
//
// Fingerprint is a non-cryptographic FNV-1a hash of the normalized command
// text. Collisions are acceptable: it exists for cache keys and debugging,
// and equality must never be treated as proof of identical commands.
type Descriptor struct {
	Version     uint16
	Fingerprint uint32
	Tier        risktypes.RiskTier
	Flags       risktypes.CapabilityFlags
	Perf        risktypes.PerformanceHint
}

// New returns a descriptor for the given normalized command text at the
// current format version.
func New(normalized string, tier risktypes.RiskTier, flags risktypes.CapabilityFlags, perf risktypes.PerformanceHint) Descriptor {
	return Descriptor{
		Version:     Version,
		Fingerprint: Fingerprint(normalized),
		Tier:        tier,
		Flags:       flags,
		Perf:        perf,
	}
}

// Fingerprint computes the 32-bit FNV-1a hash of the normalized command text.
func Fingerprint(normalized string) uint32 {
	h := fnv.New32a()
	// Write on fnv never returns an error.
	_, _ = h.Write([]byte(normalized))
	return h.Sum32()
}
