// Package risktypes defines the shared risk vocabulary used by the
// classifier, the chain aggregator and the descriptor codec: the ordered
// risk tier enum, the capability flag bitset, and the advisory performance
// hint carried in serialized descriptors.
package risktypes

import (
	"errors"
	"fmt"
	"strings"
)

// RiskTier represents the danger level of a command. The ordering is
// significant: escalation logic compares tiers numerically, never by name.
type RiskTier uint8

// Risk tier constants, ordered from least to most dangerous.
const (
	// RiskTierSafe indicates commands with no known harmful effect
	RiskTierSafe RiskTier = iota

	// RiskTierLow indicates commands with minimal security risk
	RiskTierLow

	// RiskTierMedium indicates commands with moderate security risk.
	// Unknown commands classify here; they never default to Safe.
	RiskTierMedium

	// RiskTierHigh indicates commands that require review before execution
	RiskTierHigh

	// RiskTierCritical indicates commands that should be blocked outright
	RiskTierCritical
)

// NumTiers is the number of defined risk tiers (valid wire values are 0..NumTiers-1).
const NumTiers = 5

// String representations for each risk tier.
const (
	SafeTierString     = "safe"
	LowTierString      = "low"
	MediumTierString   = "medium"
	HighTierString     = "high"
	CriticalTierString = "critical"
)

// ErrInvalidRiskTier is returned when parsing an unrecognized risk tier string
var ErrInvalidRiskTier = errors.New("invalid risk tier")

// String returns a string representation of RiskTier
func (t RiskTier) String() string {
	switch t {
	case RiskTierSafe:
		return SafeTierString
	case RiskTierLow:
		return LowTierString
	case RiskTierMedium:
		return MediumTierString
	case RiskTierHigh:
		return HighTierString
	case RiskTierCritical:
		return CriticalTierString
	default:
		return fmt.Sprintf("risktier(%d)", uint8(t))
	}
}

// Valid reports whether the tier is one of the five defined values.
func (t RiskTier) Valid() bool {
	return t < NumTiers
}

// ParseRiskTier converts a string to RiskTier for user configuration.
// Matching is case-insensitive.
func ParseRiskTier(s string) (RiskTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case SafeTierString:
		return RiskTierSafe, nil
	case LowTierString:
		return RiskTierLow, nil
	case MediumTierString:
		return RiskTierMedium, nil
	case HighTierString:
		return RiskTierHigh, nil
	case CriticalTierString:
		return RiskTierCritical, nil
	default:
		return RiskTierSafe, fmt.Errorf("%w: %q", ErrInvalidRiskTier, s)
	}
}

// MaxTier returns the higher of two risk tiers
func MaxTier(a, b RiskTier) RiskTier {
	if a > b {
		return a
	}
	return b
}

// Escalate raises the tier by one level, saturating at Critical
func (t RiskTier) Escalate() RiskTier {
	if t >= RiskTierCritical {
		return RiskTierCritical
	}
	return t + 1
}

// CapabilityFlags is a bitset of independent boolean command properties.
// Flags are additive and order-independent; a command may carry zero or many.
type CapabilityFlags uint32

// Capability flag constants
const (
	// CapRequiresSudo is set when the command invokes sudo/doas wrappers
	CapRequiresSudo CapabilityFlags = 1 << iota

	// CapRequiresRoot is set when the command only works as uid 0
	CapRequiresRoot

	// CapDestructive is set for delete/erase/wipe operations
	CapDestructive

	// CapNetworkAccess is set for commands that talk to the network
	CapNetworkAccess

	// CapFileModification is set for commands that write the filesystem
	CapFileModification

	// CapSystemModification is set for commands that alter system state
	CapSystemModification

	// CapPrivilegeEscalation is set for commands that change privilege level
	CapPrivilegeEscalation

	// CapDataExfiltration is set for commands that can ship data to external services
	CapDataExfiltration
)

// capabilityNames maps each flag bit to its canonical name, in bit order.
var capabilityNames = []struct {
	flag CapabilityFlags
	name string
}{
	{CapRequiresSudo, "requires_sudo"},
	{CapRequiresRoot, "requires_root"},
	{CapDestructive, "destructive"},
	{CapNetworkAccess, "network_access"},
	{CapFileModification, "file_modification"},
	{CapSystemModification, "system_modification"},
	{CapPrivilegeEscalation, "privilege_escalation"},
	{CapDataExfiltration, "data_exfiltration"},
}

// ErrInvalidCapability is returned when parsing an unrecognized capability name
var ErrInvalidCapability = errors.New("invalid capability flag")

// Has reports whether all bits in flag are set
func (f CapabilityFlags) Has(flag CapabilityFlags) bool {
	return f&flag == flag
}

// Union returns the combination of both flag sets
func (f CapabilityFlags) Union(other CapabilityFlags) CapabilityFlags {
	return f | other
}

// Names returns the canonical names of all set flags, in bit order
func (f CapabilityFlags) Names() []string {
	names := make([]string, 0, len(capabilityNames))
	for _, entry := range capabilityNames {
		if f.Has(entry.flag) {
			names = append(names, entry.name)
		}
	}
	return names
}

// String returns a comma-separated list of set flag names, or "none"
func (f CapabilityFlags) String() string {
	if f == 0 {
		return "none"
	}
	return strings.Join(f.Names(), ",")
}

// ParseCapability converts a canonical flag name to its bit value
func ParseCapability(name string) (CapabilityFlags, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, entry := range capabilityNames {
		if entry.name == needle {
			return entry.flag, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCapability, name)
}

// PerformanceHint carries advisory resource estimates for a command.
// These fields are informational only and never participate in risk decisions.
type PerformanceHint struct {
	ExecTimeMillis uint16 // Estimated execution time in milliseconds
	MemoryMB       uint16 // Estimated peak memory in megabytes
	OutputKB       uint16 // Estimated output size in kilobytes
}
