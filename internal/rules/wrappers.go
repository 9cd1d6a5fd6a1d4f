package rules

import "strings"

// Benign prefix commands that change execution context without being the
// real action. Stripping them exposes the actual command head, so
// `sudo env VAR=1 git reset --hard` is judged as `git reset --hard`.
var wrapperCommands = map[string]bool{
	"sudo":    true,
	"doas":    true,
	"env":     true,
	"command": true,
	"builtin": true,
	"nice":    true,
	"nohup":   true,
	"time":    true,
	"stdbuf":  true,
}

// Wrapper flags whose value arrives as the following token (sudo -u root,
// env -u PATH, nice -n 10).
var wrapperValueFlags = map[string]bool{
	"-u": true,
	"-g": true,
	"-n": true,
}

// StripWrappers removes recognized wrapper prefixes and leading NAME=value
// assignments, leaving the token list positioned at the actual command head.
// Each round consumes at least one token, so the loop is bounded by the
// token count even on adversarial input.
func StripWrappers(tokens []string) []string {
	for len(tokens) > 0 {
		// Leading environment assignments (FOO=1 git ...).
		if isAssignment(tokens[0]) {
			tokens = tokens[1:]
			continue
		}
		if !wrapperCommands[normalizeCmdToken(tokens[0])] {
			return tokens
		}
		tokens = consumeWrapperArgs(tokens[1:])
	}
	return tokens
}

// consumeWrapperArgs drops a wrapper's own options, `--`, and assignment
// arguments, stopping at the first token that could be the wrapped command.
func consumeWrapperArgs(tokens []string) []string {
	for len(tokens) > 0 {
		tok := tokens[0]
		switch {
		case tok == "--" || isAssignment(tok):
			tokens = tokens[1:]
		case strings.HasPrefix(tok, "-") && tok != "-":
			if wrapperValueFlags[tok] && len(tokens) > 1 {
				tokens = tokens[2:]
			} else {
				tokens = tokens[1:]
			}
		default:
			return tokens
		}
	}
	return tokens
}

// isAssignment reports whether tok looks like a NAME=value shell assignment.
func isAssignment(tok string) bool {
	eq := strings.IndexByte(tok, '=')
	if eq <= 0 {
		return false
	}
	c := tok[0]
	if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
		return false
	}
	for _, r := range tok[:eq] {
		if r != '_' && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
