// Package audit provides structured audit logging for command risk
// decisions. Every evaluated chain can be logged with enough detail to
// reconstruct the decision afterwards: the serialized descriptor, the
// per-segment tiers, matched rule reasons and the suggestion offered.
package audit

import (
	"context"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/tcpguard/tcpguard/internal/descriptor"
	"github.com/tcpguard/tcpguard/internal/redaction"
)

// Logger provides structured audit logging functionality. Command text is
// passed through credential redaction before it is written, so audit
// entries never persist embedded secrets.
type Logger struct {
	logger   *slog.Logger
	redactor *redaction.Config
}

// NewLogger creates an audit logger writing through the given slog logger.
// A nil logger uses slog.Default().
func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger, redactor: redaction.DefaultConfig()}
}

// SegmentRecord is the audit view of one chain segment.
type SegmentRecord struct {
	Text    string
	Tier    string
	Flags   string
	Reasons []string
}

// Record is the audit view of one chain-level decision.
type Record struct {
	DecisionID string
	Command    string
	Descriptor descriptor.Descriptor
	Segments   []SegmentRecord
	Operators  []string
	Score      float64
	Blocked    bool
	Suggestion string
	Duration   time.Duration
	ParseError string
}

// LogDecision logs a completed risk decision with a full audit trail.
// Blocked decisions log at Warn so they stand out in default log output.
func (a *Logger) LogDecision(ctx context.Context, rec Record) {
	encoded := descriptor.Encode(rec.Descriptor)

	attrs := []slog.Attr{
		slog.String("audit_type", "risk_decision"),
		slog.String("decision_id", rec.DecisionID),
		slog.String("command", a.redactor.RedactCommand(rec.Command)),
		slog.String("risk_tier", rec.Descriptor.Tier.String()),
		slog.String("capability_flags", rec.Descriptor.Flags.String()),
		slog.String("descriptor", hex.EncodeToString(encoded[:])),
		slog.Uint64("fingerprint", uint64(rec.Descriptor.Fingerprint)),
		slog.Int("segment_count", len(rec.Segments)),
		slog.Int("operator_count", len(rec.Operators)),
		slog.Float64("aggregate_score", rec.Score),
		slog.Bool("blocked", rec.Blocked),
		slog.Int64("decision_duration_us", rec.Duration.Microseconds()),
	}

	if rec.Suggestion != "" {
		attrs = append(attrs, slog.String("suggestion", a.redactor.RedactCommand(rec.Suggestion)))
	}
	if rec.ParseError != "" {
		attrs = append(attrs, slog.String("parse_error", rec.ParseError))
	}
	for i, seg := range rec.Segments {
		attrs = append(attrs, slog.Group("segment",
			slog.Int("index", i),
			slog.String("text", a.redactor.RedactCommand(seg.Text)),
			slog.String("tier", seg.Tier),
			slog.String("flags", seg.Flags),
		))
	}

	level := slog.LevelInfo
	message := "Command risk decision"
	if rec.Blocked {
		level = slog.LevelWarn
		message = "Command blocked by risk decision"
	}
	a.logger.LogAttrs(ctx, level, message, attrs...)
}

// LogRuleSwap logs an atomic rule-table reload.
func (a *Logger) LogRuleSwap(ctx context.Context, oldVersion, newVersion string) {
	a.logger.LogAttrs(ctx, slog.LevelInfo, "Rule table swapped",
		slog.String("audit_type", "rule_swap"),
		slog.String("old_version", oldVersion),
		slog.String("new_version", newVersion),
	)
}
