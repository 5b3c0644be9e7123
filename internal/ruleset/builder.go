package ruleset

import (
	"fmt"

	"github.com/tcpguard/tcpguard/internal/risktypes"
)

// ProfileDef binds a risk profile to the command names it covers.
type ProfileDef struct {
	commands []string
	profile  Profile
}

// Commands returns the command names this definition covers.
func (d ProfileDef) Commands() []string { return d.commands }

// Profile returns the profile shared by the covered commands.
func (d ProfileDef) Profile() Profile { return d.profile }

// ProfileBuilder provides a fluent API for defining command risk profiles.
// Each risk factor contributes its capability flag and raises the base tier
// to at least its own level.
//
// Example usage:
//
//	NewProfile("sudo", "su", "doas").
//	    PrivilegeRisk(risktypes.RiskTierCritical, "Allows execution with elevated privileges").
//	    Build()
//
//	NewProfile("git").
//	    ConditionalNetwork(risktypes.RiskTierMedium, "clone", "fetch", "pull", "push").
//	    Build()
type ProfileBuilder struct {
	commands []string
	profile  Profile
	reason   string
}

// NewProfile creates a new profile builder for the given commands.
func NewProfile(commands ...string) *ProfileBuilder {
	return &ProfileBuilder{commands: commands}
}

func (b *ProfileBuilder) addFactor(tier risktypes.RiskTier, flags risktypes.CapabilityFlags, reason string) *ProfileBuilder {
	b.profile.Tier = risktypes.MaxTier(b.profile.Tier, tier)
	b.profile.Flags |= flags
	if b.reason == "" {
		b.reason = reason
	}
	return b
}

// PrivilegeRisk records privilege escalation risk (sudo, su, doas).
func (b *ProfileBuilder) PrivilegeRisk(tier risktypes.RiskTier, reason string) *ProfileBuilder {
	return b.addFactor(tier, risktypes.CapPrivilegeEscalation|risktypes.CapRequiresSudo, reason)
}

// DestructionRisk records destructive operation risk (rm, dd, mkfs).
func (b *ProfileBuilder) DestructionRisk(tier risktypes.RiskTier, reason string) *ProfileBuilder {
	return b.addFactor(tier, risktypes.CapDestructive, reason)
}

// NetworkRisk records unconditional network operation risk (curl, ssh).
func (b *ProfileBuilder) NetworkRisk(tier risktypes.RiskTier, reason string) *ProfileBuilder {
	return b.addFactor(tier, risktypes.CapNetworkAccess, reason)
}

// DataExfilRisk records data exfiltration risk to external services.
func (b *ProfileBuilder) DataExfilRisk(tier risktypes.RiskTier, reason string) *ProfileBuilder {
	return b.addFactor(tier, risktypes.CapDataExfiltration, reason)
}

// SystemModRisk records system modification risk (systemctl, sysctl).
func (b *ProfileBuilder) SystemModRisk(tier risktypes.RiskTier, reason string) *ProfileBuilder {
	return b.addFactor(tier, risktypes.CapSystemModification, reason)
}

// FileModRisk records filesystem write risk (chmod, mv, tee).
func (b *ProfileBuilder) FileModRisk(tier risktypes.RiskTier, reason string) *ProfileBuilder {
	return b.addFactor(tier, risktypes.CapFileModification, reason)
}

// RequiresRoot marks the command as only functional as uid 0.
func (b *ProfileBuilder) RequiresRoot() *ProfileBuilder {
	b.profile.Flags |= risktypes.CapRequiresRoot
	return b
}

// ConditionalNetwork records network risk that applies only when the first
// argument matches one of the listed subcommands. With no subcommands the
// network contribution is decided per-invocation from argument shape.
func (b *ProfileBuilder) ConditionalNetwork(tier risktypes.RiskTier, subcommands ...string) *ProfileBuilder {
	b.profile.NetworkTier = tier
	b.profile.NetworkSubcommands = subcommands
	return b
}

// Perf attaches advisory resource estimates.
func (b *ProfileBuilder) Perf(execMillis, memoryMB, outputKB uint16) *ProfileBuilder {
	b.profile.Perf = risktypes.PerformanceHint{
		ExecTimeMillis: execMillis,
		MemoryMB:       memoryMB,
		OutputKB:       outputKB,
	}
	return b
}

// Reason overrides the profile's audit reason. Without it the reason of the
// first recorded risk factor is used.
func (b *ProfileBuilder) Reason(reason string) *ProfileBuilder {
	b.reason = reason
	return b
}

// Build finalizes the profile definition. Defining a profile with no
// commands is a programming error and panics at init time.
func (b *ProfileBuilder) Build() ProfileDef {
	if len(b.commands) == 0 {
		panic("ruleset: profile defined with no commands")
	}
	p := b.profile
	p.Reason = b.reason
	return ProfileDef{commands: b.commands, profile: p}
}

func errorWithCommand(err error, command string) error {
	return fmt.Errorf("%w: %q", err, command)
}
