package chain

import (
	"strings"

	"github.com/tcpguard/tcpguard/internal/classify"
	"github.com/tcpguard/tcpguard/internal/descriptor"
	"github.com/tcpguard/tcpguard/internal/risktypes"
	"github.com/tcpguard/tcpguard/internal/ruleset"
)

// Segment is one command of a chain together with its classification.
type Segment struct {
	Raw    string
	Result classify.Result
}

// Evaluation is the chain-level decision: one aggregate descriptor plus the
// ordered per-segment descriptors for audit trails.
type Evaluation struct {
	Descriptor descriptor.Descriptor
	Segments   []Segment
	Operators  []Operator

	// Score is the multiplied aggregate used to derive the tier, retained
	// for audit output.
	Score float64
}

// Re-quantization thresholds mapping the multiplied score back onto a risk
// tier. The mapping is the identity on unmultiplied single-segment scores
// (ordinals 0..4), which is what makes single-segment chains classify
// identically to direct classification.
const (
	scoreLow      = 1.0
	scoreMedium   = 2.0
	scoreHigh     = 3.0
	scoreCritical = 4.0
)

func quantize(score float64) risktypes.RiskTier {
	switch {
	case score < scoreLow:
		return risktypes.RiskTierSafe
	case score < scoreMedium:
		return risktypes.RiskTierLow
	case score < scoreHigh:
		return risktypes.RiskTierMedium
	case score < scoreCritical:
		return risktypes.RiskTierHigh
	default:
		return risktypes.RiskTierCritical
	}
}

// Evaluate parses a compound command string, classifies every segment
// against a single rule table snapshot, and aggregates the results. A parse
// failure aborts the whole chain; the caller must treat it as a deny.
func Evaluate(table *ruleset.Table, raw string) (*Evaluation, error) {
	texts, operators, err := Split(raw)
	if err != nil {
		return nil, err
	}

	segments := make([]Segment, 0, len(texts))
	for _, text := range texts {
		result, err := classify.ClassifyWith(table, text, "")
		if err != nil {
			return nil, err
		}
		segments = append(segments, Segment{Raw: text, Result: result})
	}

	return Aggregate(segments, operators), nil
}

// Aggregate combines per-segment classifications with operator multipliers.
//
// The aggregate starts from the most dangerous segment tier, is multiplied
// once per operator, and is re-quantized onto the tier scale. Capability
// flags are unioned across all segments and never dropped. An empty chain
// aggregates to Safe with no flags; a single segment with no operators
// passes its descriptor through untouched.
func Aggregate(segments []Segment, operators []Operator) *Evaluation {
	if len(segments) == 0 {
		return &Evaluation{
			Descriptor: descriptor.New("", risktypes.RiskTierSafe, 0, risktypes.PerformanceHint{}),
		}
	}
	if len(segments) == 1 && len(operators) == 0 {
		return &Evaluation{
			Descriptor: segments[0].Result.Descriptor,
			Segments:   segments,
			Score:      float64(segments[0].Result.Descriptor.Tier),
		}
	}

	var (
		maxTier risktypes.RiskTier
		flags   risktypes.CapabilityFlags
		perf    risktypes.PerformanceHint
	)
	for _, seg := range segments {
		maxTier = risktypes.MaxTier(maxTier, seg.Result.Descriptor.Tier)
		flags |= seg.Result.Descriptor.Flags
		perf.ExecTimeMillis = saturatingAdd(perf.ExecTimeMillis, seg.Result.Descriptor.Perf.ExecTimeMillis)
		perf.OutputKB = saturatingAdd(perf.OutputKB, seg.Result.Descriptor.Perf.OutputKB)
		if seg.Result.Descriptor.Perf.MemoryMB > perf.MemoryMB {
			perf.MemoryMB = seg.Result.Descriptor.Perf.MemoryMB
		}
	}

	score := float64(maxTier)
	for _, op := range operators {
		score *= op.Multiplier()
	}

	return &Evaluation{
		Descriptor: descriptor.New(normalizedText(segments, operators), quantize(score), flags, perf),
		Segments:   segments,
		Operators:  operators,
		Score:      score,
	}
}

// normalizedText rebuilds the canonical chain text the fingerprint is
// computed over: normalized segments joined by their operators.
func normalizedText(segments []Segment, operators []Operator) string {
	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteByte(' ')
			b.WriteString(operators[i-1].String())
			b.WriteByte(' ')
		}
		b.WriteString(seg.Result.Normalized.Joined)
	}
	// Trailing background/sequence terminator.
	if len(operators) == len(segments) {
		b.WriteByte(' ')
		b.WriteString(operators[len(operators)-1].String())
	}
	return b.String()
}

func saturatingAdd(a, b uint16) uint16 {
	if sum := uint32(a) + uint32(b); sum <= 0xffff {
		return uint16(sum)
	}
	return 0xffff
}
