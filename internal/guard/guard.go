// Package guard is the decision facade callers interact with: it wires the
// chain parser, classifier, decision cache, safe-alternative generator and
// audit logging behind one Evaluate call. The guard itself performs no
// process execution, network I/O or file access; it only turns a command
// string into an auditable decision.
package guard

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tcpguard/tcpguard/internal/alternative"
	"github.com/tcpguard/tcpguard/internal/audit"
	"github.com/tcpguard/tcpguard/internal/cache"
	"github.com/tcpguard/tcpguard/internal/chain"
	"github.com/tcpguard/tcpguard/internal/classify"
	"github.com/tcpguard/tcpguard/internal/descriptor"
	"github.com/tcpguard/tcpguard/internal/risktypes"
	"github.com/tcpguard/tcpguard/internal/ruleset"
)

// Decision is the outcome of evaluating one command chain.
type Decision struct {
	// ID uniquely identifies this decision in audit logs.
	ID ulid.ULID

	// Command is the raw input that was evaluated.
	Command string

	// Evaluation holds the chain-level descriptor and the per-segment
	// audit trail. On a parse failure it carries the deny-by-default
	// Critical descriptor and no segments.
	Evaluation *chain.Evaluation

	// Suggestion is a safe alternative or block message for decisions at
	// HighRisk and above, nil otherwise.
	Suggestion *alternative.Suggestion

	// Blocked reports whether the caller should refuse to execute.
	Blocked bool

	// Err records the parse or encoding error behind a deny, if any.
	Err error

	// Duration is how long the evaluation took.
	Duration time.Duration
}

// Descriptor returns the chain-level descriptor for the decision.
func (d *Decision) Descriptor() descriptor.Descriptor {
	return d.Evaluation.Descriptor
}

// Guard evaluates command chains against the active rule table.
// It is safe for concurrent use.
type Guard struct {
	store         *ruleset.Store
	classifier    *classify.Classifier
	cache         *cache.DecisionCache
	auditor       *audit.Logger
	quarantineDir string
	blockAt       risktypes.RiskTier
}

// Option configures a Guard.
type Option func(*Guard)

// WithAuditLogger sets the audit logger for decisions.
func WithAuditLogger(logger *audit.Logger) Option {
	return func(g *Guard) { g.auditor = logger }
}

// WithQuarantineDir sets the base directory used in quarantine rewrites.
func WithQuarantineDir(dir string) Option {
	return func(g *Guard) { g.quarantineDir = dir }
}

// WithBlockThreshold sets the tier at which decisions are blocked.
// The default blocks at Critical; HighRisk decisions get a suggestion but
// are left to the caller's judgement.
func WithBlockThreshold(tier risktypes.RiskTier) Option {
	return func(g *Guard) { g.blockAt = tier }
}

// New creates a guard over the given rule store. A nil store selects the
// compiled-in default table.
func New(store *ruleset.Store, opts ...Option) *Guard {
	if store == nil {
		store = ruleset.NewStore(nil)
	}
	classifier := classify.New(store)
	g := &Guard{
		store:      store,
		classifier: classifier,
		cache:      cache.New(classifier),
		blockAt:    risktypes.RiskTierCritical,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Evaluate turns a raw command chain into a decision.
//
// A chain parse failure or invalid encoding never surfaces as a usable
// Safe result: the returned decision carries a Critical descriptor, is
// marked blocked, and records the underlying error.
func (g *Guard) Evaluate(ctx context.Context, raw string) *Decision {
	start := time.Now()
	table := g.store.Snapshot()

	decision := &Decision{
		ID:      ulid.Make(),
		Command: raw,
	}

	eval, err := g.evaluateChain(table, raw)
	if err != nil {
		decision.Err = err
		decision.Evaluation = denyEvaluation(raw)
	} else {
		decision.Evaluation = eval
	}

	decision.Suggestion = alternative.Suggest(table, decision.Evaluation.Descriptor, raw, alternative.Options{
		QuarantineDir: g.quarantineDir,
	})
	decision.Blocked = decision.Err != nil || decision.Evaluation.Descriptor.Tier >= g.blockAt
	decision.Duration = time.Since(start)

	if g.auditor != nil {
		g.auditor.LogDecision(ctx, auditRecord(decision))
	}
	return decision
}

// evaluateChain classifies the chain, serving single-segment chains from
// the decision cache. Multi-segment chains classify each segment directly;
// their segment results come from the same table snapshot either way.
func (g *Guard) evaluateChain(table *ruleset.Table, raw string) (*chain.Evaluation, error) {
	texts, operators, err := chain.Split(raw)
	if err != nil {
		return nil, err
	}

	if len(texts) == 1 && len(operators) == 0 {
		result, err := g.cache.GetOrClassify(texts[0], "")
		if err != nil {
			return nil, err
		}
		return chain.Aggregate([]chain.Segment{{Raw: texts[0], Result: result}}, nil), nil
	}

	segments := make([]chain.Segment, 0, len(texts))
	for _, text := range texts {
		result, err := classify.ClassifyWith(table, text, "")
		if err != nil {
			return nil, err
		}
		segments = append(segments, chain.Segment{Raw: text, Result: result})
	}
	return chain.Aggregate(segments, operators), nil
}

// RuleStore exposes the underlying store for rule reloads.
func (g *Guard) RuleStore() *ruleset.Store {
	return g.store
}

// SwapRules atomically installs a new rule table and drops cached
// decisions for the old one.
func (g *Guard) SwapRules(ctx context.Context, table *ruleset.Table) {
	oldVersion := g.store.Snapshot().Version()
	g.store.Swap(table)
	g.cache.Purge()
	if g.auditor != nil {
		g.auditor.LogRuleSwap(ctx, oldVersion, table.Version())
	}
}

// denyEvaluation is the deny-by-default result for unparseable input.
func denyEvaluation(raw string) *chain.Evaluation {
	return &chain.Evaluation{
		Descriptor: descriptor.New(raw, risktypes.RiskTierCritical, 0, risktypes.PerformanceHint{}),
		Score:      float64(risktypes.RiskTierCritical),
	}
}

func auditRecord(d *Decision) audit.Record {
	rec := audit.Record{
		DecisionID: d.ID.String(),
		Command:    d.Command,
		Descriptor: d.Evaluation.Descriptor,
		Score:      d.Evaluation.Score,
		Blocked:    d.Blocked,
		Duration:   d.Duration,
	}
	if d.Err != nil {
		rec.ParseError = d.Err.Error()
	}
	if d.Suggestion != nil {
		rec.Suggestion = d.Suggestion.Text
	}
	for _, seg := range d.Evaluation.Segments {
		rec.Segments = append(rec.Segments, audit.SegmentRecord{
			Text:    seg.Raw,
			Tier:    seg.Result.Descriptor.Tier.String(),
			Flags:   seg.Result.Descriptor.Flags.String(),
			Reasons: seg.Result.Reasons,
		})
	}
	for _, op := range d.Evaluation.Operators {
		rec.Operators = append(rec.Operators, op.String())
	}
	return rec
}
