// Package ruleset defines the versioned classification rule tables consumed
// by the risk classifier and the safe-alternative generator. A rule table is
// data, not code: it is built either from the compiled-in defaults or loaded
// from a TOML document, validated once, and then treated as immutable. The
// Store provides atomic table swaps so concurrent classifications always
// operate on a consistent snapshot.
package ruleset

import (
	"errors"
	"sort"

	"github.com/tcpguard/tcpguard/internal/risktypes"
)

// Validation errors for rule tables
var (
	// ErrNoCommands is returned when a profile lists no command names
	ErrNoCommands = errors.New("profile must list at least one command")

	// ErrDuplicateCommand is returned when two profiles claim the same command
	ErrDuplicateCommand = errors.New("command appears in multiple profiles")

	// ErrEmptyPattern is returned when an argument pattern has no substrings
	ErrEmptyPattern = errors.New("argument pattern must list at least one substring")

	// ErrEmptyKeywords is returned when a keyword pattern has no keywords
	ErrEmptyKeywords = errors.New("keyword pattern must list at least one keyword")

	// ErrEmptyTemplate is returned when an alternative rule has no rewrite template
	ErrEmptyTemplate = errors.New("alternative rule must have a rewrite template")

	// ErrDuplicateAlternative is returned when two alternative rules target the same command
	ErrDuplicateAlternative = errors.New("command appears in multiple alternative rules")
)

// Profile is the static risk profile of a single base command.
type Profile struct {
	// Tier is the base risk tier of the command itself, independent of
	// arguments. Argument and keyword patterns may raise it, never lower it.
	Tier risktypes.RiskTier

	// Flags are the capability flags inherent to the command.
	Flags risktypes.CapabilityFlags

	// Reason is the human-readable explanation recorded in audit output.
	Reason string

	// Perf carries advisory resource estimates for the command.
	Perf risktypes.PerformanceHint

	// NetworkTier and NetworkSubcommands describe conditional network
	// behavior: when NetworkSubcommands is non-empty, the network risk and
	// the NetworkAccess flag apply only when the first argument matches one
	// of the listed subcommands (e.g. git fetch/pull/push).
	NetworkTier        risktypes.RiskTier
	NetworkSubcommands []string
}

// ArgumentPattern flags known-dangerous argument combinations. A pattern
// matches when every listed substring appears somewhere in the normalized
// command text; a match escalates the tier by at least one level and never
// below the pattern's own tier.
type ArgumentPattern struct {
	Substrings []string
	Tier       risktypes.RiskTier
	Flags      risktypes.CapabilityFlags
	Reason     string
}

// KeywordPattern matches caller-supplied documentation text (man page or
// help output). Keyword matches only ever raise the tier derived from the
// command itself.
type KeywordPattern struct {
	Keywords []string
	Tier     risktypes.RiskTier
	Flags    risktypes.CapabilityFlags
	Reason   string
}

// AlternativeRule maps a dangerous base command to a lower-risk textual
// substitute. The template may reference {args}, {quarantine} and
// {timestamp} placeholders.
type AlternativeRule struct {
	Command   string
	Threshold risktypes.RiskTier
	Template  string
}

// Table is an immutable classification rule table. Construct one with
// NewTable (or the TOML loader) and never mutate it afterwards; replace it
// wholesale through a Store when rules change.
type Table struct {
	version          string
	profiles         map[string]Profile
	argumentPatterns []ArgumentPattern
	keywordPatterns  []KeywordPattern
	alternatives     map[string]AlternativeRule
}

// Version returns the rule table version string.
func (t *Table) Version() string { return t.version }

// Profile looks up the risk profile for a base command. Matching is
// case-sensitive: command names are case-sensitive on POSIX systems.
func (t *Table) Profile(baseCommand string) (Profile, bool) {
	p, ok := t.profiles[baseCommand]
	return p, ok
}

// Commands returns the sorted list of commands the table has profiles for.
func (t *Table) Commands() []string {
	commands := make([]string, 0, len(t.profiles))
	for cmd := range t.profiles {
		commands = append(commands, cmd)
	}
	sort.Strings(commands)
	return commands
}

// ArgumentPatterns returns the dangerous argument patterns in table order.
func (t *Table) ArgumentPatterns() []ArgumentPattern { return t.argumentPatterns }

// KeywordPatterns returns the documentation keyword patterns in table order.
func (t *Table) KeywordPatterns() []KeywordPattern { return t.keywordPatterns }

// Alternative looks up the safe-alternative rule for a base command.
func (t *Table) Alternative(baseCommand string) (AlternativeRule, bool) {
	r, ok := t.alternatives[baseCommand]
	return r, ok
}

// NewTable assembles and validates an immutable rule table from its parts.
// The defs slice is expanded so each listed command gets its own profile
// entry; a command claimed by two profiles is a configuration error.
func NewTable(version string, defs []ProfileDef, args []ArgumentPattern, keywords []KeywordPattern, alts []AlternativeRule) (*Table, error) {
	profiles := make(map[string]Profile)
	for _, def := range defs {
		if len(def.commands) == 0 {
			return nil, ErrNoCommands
		}
		for _, cmd := range def.commands {
			if _, exists := profiles[cmd]; exists {
				return nil, errorWithCommand(ErrDuplicateCommand, cmd)
			}
			profiles[cmd] = def.profile
		}
	}

	for _, p := range args {
		if len(p.Substrings) == 0 {
			return nil, ErrEmptyPattern
		}
	}
	for _, k := range keywords {
		if len(k.Keywords) == 0 {
			return nil, ErrEmptyKeywords
		}
	}

	alternatives := make(map[string]AlternativeRule, len(alts))
	for _, a := range alts {
		if a.Template == "" {
			return nil, errorWithCommand(ErrEmptyTemplate, a.Command)
		}
		if _, exists := alternatives[a.Command]; exists {
			return nil, errorWithCommand(ErrDuplicateAlternative, a.Command)
		}
		alternatives[a.Command] = a
	}

	return &Table{
		version:          version,
		profiles:         profiles,
		argumentPatterns: args,
		keywordPatterns:  keywords,
		alternatives:     alternatives,
	}, nil
}
