package classify

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// NormalizedCommand is the canonical form of a single command: whitespace
// trimmed, quote-aware tokenization applied, base command separated from
// arguments.
type NormalizedCommand struct {
	Raw    string   // original input, untrimmed
	Base   string   // first token; empty for blank input
	Args   []string // remaining tokens
	Joined string   // tokens rejoined with single spaces
}

// Normalize trims and tokenizes a command string. Tokenization is
// quote-aware so `echo "a b"` yields two tokens; if the input is not valid
// shell quoting (e.g. an unterminated quote) it falls back to whitespace
// splitting rather than failing, since classification must stay total.
func Normalize(command string) NormalizedCommand {
	trimmed := strings.TrimSpace(command)

	tokens, err := shellquote.Split(trimmed)
	if err != nil {
		tokens = strings.Fields(trimmed)
	}

	norm := NormalizedCommand{
		Raw:    command,
		Joined: strings.Join(tokens, " "),
	}
	if len(tokens) > 0 {
		norm.Base = tokens[0]
		norm.Args = tokens[1:]
	}
	return norm
}
