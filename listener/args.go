package listener

import (
	"regexp"
	"strings"
)

// Arguments is the text trailing a command token.
type Arguments struct {
	// Parameter is Raw split on single spaces. Empty Raw gives an empty list.
	Parameter []string
	// Raw is the untouched trailing text.
	Raw string
}

// ParseArguments extracts the argument group of pattern from text. In slash
// mode the argument text is the second capture group (the first holds the
// optional @botname mention), otherwise it is the first.
//
// It reports false when the pattern does not match or has no such group; the
// caller then treats the invocation as carrying no arguments.
func ParseArguments(pattern *regexp.Regexp, text string, slashMode bool) (Arguments, bool) {
	if pattern == nil {
		return Arguments{}, false
	}
	group := 1
	if slashMode {
		group = 2
	}

	loc := pattern.FindStringSubmatchIndex(text)
	if len(loc) < 2*(group+1) || loc[2*group] < 0 {
		return Arguments{}, false
	}
	raw := text[loc[2*group]:loc[2*group+1]]
	return Arguments{Parameter: SplitParameters(raw), Raw: raw}, true
}

// SplitParameters splits raw on single spaces.
func SplitParameters(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, " ")
}
