// Package alternative deterministically proposes lower-risk substitutes for
// dangerous commands: a rewrite (e.g. quarantine-move instead of delete)
// when a rule matches, or a human-readable block message when none does.
// Given the same descriptor, command text and timestamp the output is
// byte-for-byte reproducible, so decisions can be audited after the fact.
package alternative

import (
	"fmt"
	"strings"
	"time"

	"github.com/tcpguard/tcpguard/internal/classify"
	"github.com/tcpguard/tcpguard/internal/descriptor"
	"github.com/tcpguard/tcpguard/internal/risktypes"
	"github.com/tcpguard/tcpguard/internal/ruleset"
)

// DefaultQuarantineDir is used when the caller does not supply one. The
// per-call timestamp component keeps concurrent rewrites from colliding.
const DefaultQuarantineDir = "/var/tmp/tcpguard/quarantine"

// timestampLayout names quarantine subdirectories; second granularity is
// combined with the caller-chosen base directory for uniqueness.
const timestampLayout = "20060102T150405Z"

// Kind distinguishes the two return shapes of Suggest. Callers must never
// execute a block message.
type Kind int

const (
	// KindRewrite means Text is an executable lower-risk substitute command
	KindRewrite Kind = iota

	// KindBlock means Text is an explanation of why the command was refused
	KindBlock
)

// Suggestion is a proposed substitute or a block explanation.
type Suggestion struct {
	Kind Kind
	Text string
}

// Options parameterize suggestion generation.
type Options struct {
	// QuarantineDir is the base directory for quarantine-move rewrites.
	// Empty selects DefaultQuarantineDir.
	QuarantineDir string

	// Now is the timestamp used in rewrite templates. The caller supplies
	// it so the result is reproducible; the zero value selects wall time.
	Now time.Time
}

// Suggest proposes a safe alternative for a classified command.
//
// Below HighRisk it returns nil: no substitution is offered. At HighRisk or
// above it returns a template rewrite when the rule table has one for the
// base command and the tier meets the rule's threshold, otherwise a block
// message.
func Suggest(table *ruleset.Table, d descriptor.Descriptor, original string, opts Options) *Suggestion {
	if d.Tier < risktypes.RiskTierHigh {
		return nil
	}

	norm := classify.Normalize(original)
	if rule, ok := table.Alternative(norm.Base); ok && d.Tier >= rule.Threshold {
		return &Suggestion{
			Kind: KindRewrite,
			Text: expand(rule.Template, norm, opts),
		}
	}

	base := norm.Base
	if base == "" {
		base = "command"
	}
	return &Suggestion{
		Kind: KindBlock,
		Text: fmt.Sprintf("blocked: %s poses %s risk (%s) and has no known safe alternative; manual review required",
			base, d.Tier, d.Flags),
	}
}

func expand(template string, norm classify.NormalizedCommand, opts Options) string {
	quarantine := opts.QuarantineDir
	if quarantine == "" {
		quarantine = DefaultQuarantineDir
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	// Strip option-looking tokens so a rewrite like the rm quarantine move
	// receives only the operand paths.
	operands := make([]string, 0, len(norm.Args))
	for _, arg := range norm.Args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		operands = append(operands, arg)
	}

	return strings.NewReplacer(
		"{quarantine}", quarantine,
		"{timestamp}", now.UTC().Format(timestampLayout),
		"{args}", strings.Join(operands, " "),
	).Replace(template)
}
