package ruleset

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/tcpguard/tcpguard/internal/risktypes"
)

// Loader errors
var (
	// ErrMissingVersion is returned when the document has no version field
	ErrMissingVersion = errors.New("rule table must declare a version")
)

// tableSpec is the TOML document shape for an external rule table.
type tableSpec struct {
	Version          string        `toml:"version"`
	Profiles         []profileSpec `toml:"profiles"`
	ArgumentPatterns []argSpec     `toml:"argument_patterns"`
	KeywordPatterns  []keywordSpec `toml:"keyword_patterns"`
	Alternatives     []altSpec     `toml:"alternatives"`
}

type profileSpec struct {
	Commands           []string  `toml:"commands"`
	Tier               string    `toml:"tier"`
	Flags              []string  `toml:"flags"`
	Reason             string    `toml:"reason"`
	NetworkTier        string    `toml:"network_tier"`
	NetworkSubcommands []string  `toml:"network_subcommands"`
	Performance        *perfSpec `toml:"performance"`
}

type perfSpec struct {
	ExecTimeMillis uint16 `toml:"exec_time_ms"`
	MemoryMB       uint16 `toml:"memory_mb"`
	OutputKB       uint16 `toml:"output_kb"`
}

type argSpec struct {
	Patterns []string `toml:"patterns"`
	Tier     string   `toml:"tier"`
	Flags    []string `toml:"flags"`
	Reason   string   `toml:"reason"`
}

type keywordSpec struct {
	Keywords []string `toml:"keywords"`
	Tier     string   `toml:"tier"`
	Flags    []string `toml:"flags"`
	Reason   string   `toml:"reason"`
}

type altSpec struct {
	Command   string `toml:"command"`
	Threshold string `toml:"threshold"`
	Template  string `toml:"template"`
}

// Load parses and validates a TOML rule table document. Unknown fields are
// rejected so typos in rule files surface as load errors rather than
// silently weakened tables.
func Load(content []byte) (*Table, error) {
	var spec tableSpec
	decoder := toml.NewDecoder(bytes.NewReader(content))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing rule table: %w", err)
	}
	if spec.Version == "" {
		return nil, ErrMissingVersion
	}

	defs := make([]ProfileDef, 0, len(spec.Profiles))
	for i, p := range spec.Profiles {
		def, err := p.toDef()
		if err != nil {
			return nil, fmt.Errorf("profiles[%d]: %w", i, err)
		}
		defs = append(defs, def)
	}

	args := make([]ArgumentPattern, 0, len(spec.ArgumentPatterns))
	for i, a := range spec.ArgumentPatterns {
		tier, flags, err := parseTierFlags(a.Tier, a.Flags)
		if err != nil {
			return nil, fmt.Errorf("argument_patterns[%d]: %w", i, err)
		}
		args = append(args, ArgumentPattern{
			Substrings: a.Patterns,
			Tier:       tier,
			Flags:      flags,
			Reason:     a.Reason,
		})
	}

	keywords := make([]KeywordPattern, 0, len(spec.KeywordPatterns))
	for i, k := range spec.KeywordPatterns {
		tier, flags, err := parseTierFlags(k.Tier, k.Flags)
		if err != nil {
			return nil, fmt.Errorf("keyword_patterns[%d]: %w", i, err)
		}
		keywords = append(keywords, KeywordPattern{
			Keywords: k.Keywords,
			Tier:     tier,
			Flags:    flags,
			Reason:   k.Reason,
		})
	}

	alts := make([]AlternativeRule, 0, len(spec.Alternatives))
	for i, a := range spec.Alternatives {
		threshold := risktypes.RiskTierHigh
		if a.Threshold != "" {
			parsed, err := risktypes.ParseRiskTier(a.Threshold)
			if err != nil {
				return nil, fmt.Errorf("alternatives[%d]: %w", i, err)
			}
			threshold = parsed
		}
		alts = append(alts, AlternativeRule{
			Command:   a.Command,
			Threshold: threshold,
			Template:  a.Template,
		})
	}

	return NewTable(spec.Version, defs, args, keywords, alts)
}

func (p profileSpec) toDef() (ProfileDef, error) {
	tier, flags, err := parseTierFlags(p.Tier, p.Flags)
	if err != nil {
		return ProfileDef{}, err
	}

	profile := Profile{
		Tier:               tier,
		Flags:              flags,
		Reason:             p.Reason,
		NetworkSubcommands: p.NetworkSubcommands,
	}
	if p.NetworkTier != "" {
		networkTier, err := risktypes.ParseRiskTier(p.NetworkTier)
		if err != nil {
			return ProfileDef{}, err
		}
		profile.NetworkTier = networkTier
	}
	if p.Performance != nil {
		profile.Perf = risktypes.PerformanceHint{
			ExecTimeMillis: p.Performance.ExecTimeMillis,
			MemoryMB:       p.Performance.MemoryMB,
			OutputKB:       p.Performance.OutputKB,
		}
	}

	return ProfileDef{commands: p.Commands, profile: profile}, nil
}

func parseTierFlags(tierName string, flagNames []string) (risktypes.RiskTier, risktypes.CapabilityFlags, error) {
	tier := risktypes.RiskTierSafe
	if tierName != "" {
		parsed, err := risktypes.ParseRiskTier(tierName)
		if err != nil {
			return 0, 0, err
		}
		tier = parsed
	}

	var flags risktypes.CapabilityFlags
	for _, name := range flagNames {
		flag, err := risktypes.ParseCapability(name)
		if err != nil {
			return 0, 0, err
		}
		flags |= flag
	}
	return tier, flags, nil
}
