// Package terminal provides helpers for detecting terminal capabilities and
// determining whether CLI output should be colored: interactive detection,
// CI environment detection, and the NO_COLOR/CLICOLOR conventions.
package terminal

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ciEnvVars contains common CI environment variables
var ciEnvVars = []string{
	"CI",                     // Generic CI indicator
	"CONTINUOUS_INTEGRATION", // Generic CI indicator
	"GITHUB_ACTIONS",         // GitHub Actions
	"TRAVIS",                 // Travis CI
	"CIRCLECI",               // Circle CI
	"JENKINS_URL",            // Jenkins
	"GITLAB_CI",              // GitLab CI
	"BUILDKITE",              // Buildkite
	"DRONE",                  // Drone CI
	"TF_BUILD",               // Azure DevOps
}

// Options controls capability detection.
type Options struct {
	// ForceColor enables color regardless of environment (e.g. --color flag)
	ForceColor bool
	// DisableColor disables color regardless of environment (e.g. --no-color flag)
	DisableColor bool
}

// Capabilities reports what the current output environment supports.
type Capabilities interface {
	IsInteractive() bool
	SupportsColor() bool
}

type defaultCapabilities struct {
	opts Options
}

// NewCapabilities creates a Capabilities instance with the given options.
func NewCapabilities(opts Options) Capabilities {
	return &defaultCapabilities{opts: opts}
}

// IsInteractive returns true when stdout is a terminal and the process is
// not running under a CI environment.
func (c *defaultCapabilities) IsInteractive() bool {
	if isCIEnvironment() {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// SupportsColor applies the conventional priority order: explicit command
// line flags first, then CLICOLOR_FORCE, then NO_COLOR, then CLICOLOR,
// then terminal auto-detection.
func (c *defaultCapabilities) SupportsColor() bool {
	switch {
	case c.opts.DisableColor:
		return false
	case c.opts.ForceColor:
		return true
	case isTruthy(os.Getenv("CLICOLOR_FORCE")):
		return true
	case os.Getenv("NO_COLOR") != "":
		return false
	}

	if !c.IsInteractive() {
		return false
	}
	if cliColor := os.Getenv("CLICOLOR"); cliColor != "" {
		return isTruthy(cliColor)
	}

	termEnv := os.Getenv("TERM")
	return termEnv != "" && termEnv != "dumb"
}

func isCIEnvironment() bool {
	for _, name := range ciEnvVars {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// isTruthy checks if a string value should be considered "true".
// Supports: "1", "true", "yes" (case insensitive).
func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
