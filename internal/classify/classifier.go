// Package classify maps a single command (name, arguments and optional
// documentation text) to a risk descriptor using the static rule tables from
// the ruleset package. Classification is a pure function of its inputs and
// the rule table snapshot it runs against: no I/O, no process spawning, no
// shared mutable state.
package classify

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tcpguard/tcpguard/internal/descriptor"
	"github.com/tcpguard/tcpguard/internal/risktypes"
	"github.com/tcpguard/tcpguard/internal/ruleset"
)

// ErrInvalidCommandEncoding is returned for input that is not well-formed
// UTF-8. Classification never fails for any other reason.
var ErrInvalidCommandEncoding = errors.New("command is not valid UTF-8")

// Result is the outcome of classifying one command.
type Result struct {
	// Descriptor is the canonical decision record for the command.
	Descriptor descriptor.Descriptor

	// Reasons lists the human-readable explanations of every rule that
	// contributed to the decision, for logging and audit. It is not part
	// of the binary format.
	Reasons []string

	// Normalized is the normalized form the decision was derived from.
	Normalized NormalizedCommand
}

// Classifier evaluates commands against the rule table held by a Store.
// It is safe for concurrent use; each call takes its own table snapshot.
type Classifier struct {
	store *ruleset.Store
}

// New creates a classifier backed by the given rule store. A nil store is
// replaced with one holding the compiled-in default table.
func New(store *ruleset.Store) *Classifier {
	if store == nil {
		store = ruleset.NewStore(nil)
	}
	return &Classifier{store: store}
}

// Snapshot returns the current rule table. Callers that classify several
// related commands (e.g. the segments of one chain) should take a single
// snapshot and use Evaluate so all segments see the same rules.
func (c *Classifier) Snapshot() *ruleset.Table {
	return c.store.Snapshot()
}

// Classify evaluates a single command with optional documentation text
// (man page or help output, fetched by the caller beforehand).
func (c *Classifier) Classify(command, doc string) (Result, error) {
	return ClassifyWith(c.store.Snapshot(), command, doc)
}

// ClassifyWith evaluates a command against an explicit rule table snapshot.
func ClassifyWith(table *ruleset.Table, command, doc string) (Result, error) {
	if !utf8.ValidString(command) {
		return Result{}, fmt.Errorf("%w: command", ErrInvalidCommandEncoding)
	}
	if !utf8.ValidString(doc) {
		return Result{}, fmt.Errorf("%w: documentation", ErrInvalidCommandEncoding)
	}
	return evaluate(table, Normalize(command), doc), nil
}

// evaluate implements the matching precedence: exact base-command profile,
// then dangerous argument patterns (escalate at least one level), then
// documentation keywords (raise only), with unknown commands defaulting to
// MediumRisk. Unknown must never default to Safe.
func evaluate(table *ruleset.Table, norm NormalizedCommand, doc string) Result {
	tier := risktypes.RiskTierMedium
	var flags risktypes.CapabilityFlags
	var perf risktypes.PerformanceHint
	var reasons []string

	switch profile, ok := table.Profile(norm.Base); {
	case norm.Base == "":
		reasons = append(reasons, "empty command, deny-by-default")
	case ok:
		tier = profile.Tier
		flags = profile.Flags
		perf = profile.Perf
		if profile.Reason != "" {
			reasons = append(reasons, profile.Reason)
		}
		if networkTriggered(profile, norm.Args) {
			tier = risktypes.MaxTier(tier, profile.NetworkTier)
			flags |= risktypes.CapNetworkAccess
			reasons = append(reasons, "network operation detected from arguments")
		}
	default:
		reasons = append(reasons, "unknown command, deny-by-default")
	}

	for _, pattern := range table.ArgumentPatterns() {
		if !matchesArguments(pattern, norm) {
			continue
		}
		// A dangerous argument escalates by at least one level and never
		// below the pattern's own tier.
		tier = risktypes.MaxTier(tier.Escalate(), pattern.Tier)
		flags |= pattern.Flags
		if pattern.Reason != "" {
			reasons = append(reasons, pattern.Reason)
		}
	}

	if doc != "" {
		docLower := strings.ToLower(doc)
		for _, pattern := range table.KeywordPatterns() {
			if !matchesKeywords(pattern, docLower) {
				continue
			}
			tier = risktypes.MaxTier(tier, pattern.Tier)
			flags |= pattern.Flags
			if pattern.Reason != "" {
				reasons = append(reasons, pattern.Reason)
			}
		}
	}

	flags |= vocabularyFlags(norm)

	return Result{
		Descriptor: descriptor.New(norm.Joined, tier, flags, perf),
		Reasons:    reasons,
		Normalized: norm,
	}
}

// networkTriggered decides whether a conditional-network profile applies to
// this invocation: either the first argument is a known network subcommand,
// or an argument looks like a remote endpoint (URL or user@host:path).
func networkTriggered(profile ruleset.Profile, args []string) bool {
	if profile.NetworkTier == risktypes.RiskTierSafe && len(profile.NetworkSubcommands) == 0 {
		return false
	}
	if len(profile.NetworkSubcommands) > 0 && len(args) > 0 {
		for _, sub := range profile.NetworkSubcommands {
			if args[0] == sub {
				return true
			}
		}
	}
	for _, arg := range args {
		if strings.Contains(arg, "://") {
			return true
		}
		if at := strings.IndexByte(arg, '@'); at > 0 && strings.IndexByte(arg[at:], ':') > 0 {
			return true
		}
	}
	return false
}

// matchesArguments reports whether every substring of the pattern appears
// in the normalized command text (base command and arguments).
func matchesArguments(pattern ruleset.ArgumentPattern, norm NormalizedCommand) bool {
	for _, sub := range pattern.Substrings {
		if !strings.Contains(norm.Joined, sub) {
			return false
		}
	}
	return true
}

// matchesKeywords reports whether any keyword appears in the (lowercased)
// documentation text.
func matchesKeywords(pattern ruleset.KeywordPattern, docLower string) bool {
	for _, keyword := range pattern.Keywords {
		if strings.Contains(docLower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// vocabularyFlags derives capability flags from the command vocabulary
// itself, independent of risk tier: any token naming a privilege wrapper
// sets RequiresSudo, delete vocabulary sets Destructive.
func vocabularyFlags(norm NormalizedCommand) risktypes.CapabilityFlags {
	var flags risktypes.CapabilityFlags
	for _, token := range append([]string{norm.Base}, norm.Args...) {
		switch token {
		case "sudo", "su", "doas":
			flags |= risktypes.CapRequiresSudo | risktypes.CapPrivilegeEscalation
		case "rm", "rmdir", "unlink", "shred", "wipe", "delete", "erase", "purge":
			flags |= risktypes.CapDestructive
		}
	}
	return flags
}
