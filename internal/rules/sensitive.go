package rules

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

const reasonSensitiveRead = "Reading sensitive files is not allowed. This path may contain credentials or API keys."

// Commands that read file contents.
var readCommands = map[string]bool{
	"cat":     true,
	"less":    true,
	"more":    true,
	"head":    true,
	"tail":    true,
	"bat":     true,
	"batcat":  true,
	"view":    true,
	"strings": true,
	"xxd":     true,
	"hexdump": true,
	"od":      true,
	"tac":     true,
	"nl":      true,
}

// Home-relative directories whose entire contents are off limits.
var defaultSensitiveDirs = []string{
	".ssh",
	".config/gh",
	".gemini",
	".config/opencode",
	".cursor",
	".codex",
}

// Home-relative files that are off limits by exact match. Note that other
// files sharing a parent directory (e.g. .claude/settings.json) stay
// readable.
var defaultSensitiveFiles = []string{
	".api_keys",
	".gitconfig",
	".claude/.credentials.json",
	".claude/.claude.json",
}

// SensitiveMatcher matches home-relative paths against the protected set
// using compiled glob patterns: each directory entry contributes itself and
// an entry/** pattern, each file entry itself only.
type SensitiveMatcher struct {
	globs []glob.Glob
}

// NewSensitiveMatcher compiles the protected path set. extraDirs and
// extraFiles come from user configuration and extend the defaults.
func NewSensitiveMatcher(extraDirs, extraFiles []string) (*SensitiveMatcher, error) {
	var patterns []string
	for _, d := range append(append([]string{}, defaultSensitiveDirs...), extraDirs...) {
		d = strings.Trim(d, "/")
		if d == "" {
			continue
		}
		patterns = append(patterns, d, d+"/**")
	}
	for _, f := range append(append([]string{}, defaultSensitiveFiles...), extraFiles...) {
		f = strings.Trim(f, "/")
		if f == "" {
			continue
		}
		patterns = append(patterns, f)
	}

	m := &SensitiveMatcher{globs: make([]glob.Glob, 0, len(patterns))}
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("sensitive pattern %q: %w", p, err)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// Match reports whether a home-relative path is protected.
func (m *SensitiveMatcher) Match(rel string) bool {
	if rel == "" {
		return false
	}
	for _, g := range m.globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// analyzeSensitiveRead checks a file-reading command for access to protected
// paths. cmd is the normalized command head; args are the remaining tokens.
func (a *Analyzer) analyzeSensitiveRead(cmd string, args []string) string {
	if !readCommands[cmd] {
		return ""
	}
	for _, target := range extractFileTargets(args) {
		rel, underHome := normalizeHomePath(target)
		if underHome && a.sensitive.Match(rel) {
			return reasonSensitiveRead
		}
	}
	return ""
}

// Read-command flags that consume a following value argument.
var readValueFlags = map[string]bool{
	"-n":      true,
	"-c":      true,
	"-q":      true,
	"--bytes": true,
	"--lines": true,
}

// extractFileTargets pulls the file path arguments out of a read command's
// tokens, skipping flags. Everything after a literal `--` is a path even if
// it is flag-shaped.
func extractFileTargets(args []string) []string {
	var targets []string
	afterDoubleDash := false
	skipNext := false

	for _, tok := range args {
		switch {
		case skipNext:
			skipNext = false
		case afterDoubleDash:
			targets = append(targets, tok)
		case tok == "--":
			afterDoubleDash = true
		case strings.HasPrefix(tok, "-") && tok != "-":
			if readValueFlags[tok] {
				skipNext = true
			}
		default:
			targets = append(targets, tok)
		}
	}
	return targets
}

// normalizeHomePath collapses the equivalent home spellings (~/, $HOME/,
// ${HOME}/, /home/<user>/) to one home-relative form. Paths not under home
// are never sensitive under this engine.
func normalizeHomePath(p string) (rel string, underHome bool) {
	switch {
	case p == "~" || p == "$HOME" || p == "${HOME}":
		return "", true
	case strings.HasPrefix(p, "~/"):
		return cleanRel(p[2:]), true
	case strings.HasPrefix(p, "$HOME/"):
		return cleanRel(p[len("$HOME/"):]), true
	case strings.HasPrefix(p, "${HOME}/"):
		return cleanRel(p[len("${HOME}/"):]), true
	case strings.HasPrefix(p, "/home/"):
		parts := strings.Split(p, "/")
		if len(parts) >= 3 {
			rest := strings.Join(parts[3:], "/")
			if rest == "" {
				return "", true
			}
			return cleanRel(rest), true
		}
	}
	return "", false
}

func cleanRel(p string) string {
	cleaned := path.Clean(p)
	if cleaned == "." {
		return ""
	}
	return cleaned
}
