// Package chain splits compound shell expressions into ordered
// (segment, operator) sequences and aggregates per-segment risk into one
// chain-level decision. Aggregation is a strict extension of single-command
// classification: a chain of one segment and no operators produces a
// bit-identical descriptor to classifying the segment directly.
package chain

import (
	"errors"
	"fmt"
	"strings"
)

// Operator joins two adjacent chain segments. Operator i joins segment i
// and segment i+1; a trailing Background or Sequence operator terminates
// the chain instead.
type Operator int

// Chain operators, in declaration order And, Or, Pipe, Sequence, Background.
const (
	OpAnd        Operator = iota // &&
	OpOr                         // ||
	OpPipe                       // |
	OpSequence                   // ;
	OpBackground                 // &
)

// Multiplier returns the operator's fixed risk multiplier. Escalation
// strength is ordered Sequence > Pipe > And > Or > Background: sequential
// execution of unconditional commands is riskier than a short-circuited
// AND. The constants are fixed; they are not runtime-tunable.
func (o Operator) Multiplier() float64 {
	switch o {
	case OpSequence:
		return 2.0
	case OpPipe:
		return 1.5
	case OpAnd:
		return 1.3
	case OpOr:
		return 1.2
	case OpBackground:
		return 1.1
	default:
		return 1.0
	}
}

// String returns the shell token for the operator.
func (o Operator) String() string {
	switch o {
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpPipe:
		return "|"
	case OpSequence:
		return ";"
	case OpBackground:
		return "&"
	default:
		return fmt.Sprintf("operator(%d)", int(o))
	}
}

// Parse errors. Any of these aborts evaluation of the whole chain; callers
// must treat a failed parse as a deny, never as a partial result.
var (
	// ErrEmptyChain is returned for empty or whitespace-only input
	ErrEmptyChain = errors.New("empty command chain")

	// ErrMalformedChain is returned when two operators are adjacent (e.g. "&&&&")
	ErrMalformedChain = errors.New("malformed chain: adjacent operators")

	// ErrEmptyOperatorBoundary is returned when an operator has no segment
	// on a side that requires one (leading operator, or trailing &&/||/|)
	ErrEmptyOperatorBoundary = errors.New("operator is missing a command on one side")
)

// Split divides a raw shell-like string into segments and the operators
// joining them, preserving order. Operator characters inside single or
// double quotes are literal text. The scanner recognizes exactly the five
// chain operators; everything else stays inside the current segment.
func Split(raw string) ([]string, []Operator, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil, ErrEmptyChain
	}

	var (
		segments  []string
		operators []Operator
		buf       strings.Builder
		inSingle  bool
		inDouble  bool
		escaped   bool
	)

	// endSegment closes the segment preceding op (or the final segment when
	// op < 0) and enforces the boundary rules.
	endSegment := func(op Operator, atEnd bool) error {
		segment := strings.TrimSpace(buf.String())
		buf.Reset()

		if segment == "" {
			switch {
			case atEnd && len(operators) > 0:
				// Trailing & and ; are ordinary shell (background job,
				// sequence terminator); trailing &&, || and | dangle.
				last := operators[len(operators)-1]
				if last == OpBackground || last == OpSequence {
					return nil
				}
				return fmt.Errorf("%w: trailing %q", ErrEmptyOperatorBoundary, last.String())
			case len(operators) > 0:
				return fmt.Errorf("%w: %q next to %q", ErrMalformedChain,
					operators[len(operators)-1].String(), op.String())
			default:
				return fmt.Errorf("%w: leading %q", ErrEmptyOperatorBoundary, op.String())
			}
		}
		segments = append(segments, segment)
		return nil
	}

	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if escaped {
			buf.WriteRune(ch)
			escaped = false
			continue
		}

		switch {
		case ch == '\\' && !inSingle:
			buf.WriteRune(ch)
			escaped = true
		case ch == '\'' && !inDouble:
			inSingle = !inSingle
			buf.WriteRune(ch)
		case ch == '"' && !inSingle:
			inDouble = !inDouble
			buf.WriteRune(ch)
		case (ch == '&' || ch == '|' || ch == ';') && !inSingle && !inDouble:
			op := OpSequence
			switch ch {
			case '&':
				if i+1 < len(runes) && runes[i+1] == '&' {
					op = OpAnd
					i++
				} else {
					op = OpBackground
				}
			case '|':
				if i+1 < len(runes) && runes[i+1] == '|' {
					op = OpOr
					i++
				} else {
					op = OpPipe
				}
			}
			if err := endSegment(op, false); err != nil {
				return nil, nil, err
			}
			operators = append(operators, op)
		default:
			buf.WriteRune(ch)
		}
	}

	if err := endSegment(0, true); err != nil {
		return nil, nil, err
	}
	return segments, operators, nil
}
