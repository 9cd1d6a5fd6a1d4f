// Package rules implements the command-safety analysis pipeline: segment
// splitting, tokenization, wrapper and interpreter unwrapping with bounded
// recursion, the git / delete / sensitive-read rule engines, and the textual
// fallback heuristics used when structured parsing is impossible.
package rules

import (
	"regexp"
	"strings"

	"github.com/AgentShepherd/safetynet/internal/logger"
)

var log = logger.New("rules")

const (
	reasonRecursionLimit    = "Command analysis recursion limit reached."
	reasonUnparsableSegment = "Unable to parse shell command safely."
	reasonUnparsableWrapper = "Unable to parse shell -c wrapper safely."
	reasonInterpreterOneLiner = "Cannot safely analyze interpreter one-liners."
)

// Shells whose -c argument is shell code we can analyze recursively.
var shellHeads = map[string]bool{
	"bash": true,
	"sh":   true,
	"zsh":  true,
	"dash": true,
	"ksh":  true,
}

// Interpreters whose -c/-e argument is foreign code; it only gets the
// textual heuristic, never shell re-tokenization.
var interpreterHeads = map[string]bool{
	"python":  true,
	"python3": true,
	"node":    true,
	"ruby":    true,
	"perl":    true,
}

var cwdChangeCommands = map[string]bool{
	"cd":    true,
	"pushd": true,
	"popd":  true,
}

// tmpdirAssignRE detects a segment redefining TMPDIR inline, which would
// otherwise let the command move the delete safe zone wherever it likes.
var tmpdirAssignRE = regexp.MustCompile(`\bTMPDIR=`)

// cwdChangeFallbackRE recognizes directory-changing builtins in segments the
// tokenizer rejected, including grouped forms like `( cd ..; ... )`.
var cwdChangeFallbackRE = regexp.MustCompile(`(?i)^\s*(?:\$\(\s*)?[({]*\s*(?:command\s+|builtin\s+)?(?:cd|pushd|popd)(?:\s|$)`)

// Analyzer holds the compiled, immutable policy for one process invocation.
// All mutable analysis state lives in Context values, so a single Analyzer
// is safe to reuse and re-running the same command always yields the same
// verdict.
type Analyzer struct {
	sensitive          *SensitiveMatcher
	safeDeletePrefixes []string
}

// Options extend the built-in policy from user configuration.
type Options struct {
	ExtraSensitiveDirs      []string
	ExtraSensitiveFiles     []string
	ExtraSafeDeletePrefixes []string
}

// NewAnalyzer compiles the policy. Pattern compilation errors surface here,
// never during analysis.
func NewAnalyzer(opts Options) (*Analyzer, error) {
	sensitive, err := NewSensitiveMatcher(opts.ExtraSensitiveDirs, opts.ExtraSensitiveFiles)
	if err != nil {
		return nil, err
	}

	prefixes := append([]string{}, defaultSafeDeletePrefixes...)
	for _, p := range opts.ExtraSafeDeletePrefixes {
		p = strings.TrimSpace(p)
		if p == "" || !strings.HasPrefix(p, "/") {
			continue
		}
		if !strings.HasSuffix(p, "/") {
			p += "/"
		}
		prefixes = append(prefixes, p)
	}

	return &Analyzer{sensitive: sensitive, safeDeletePrefixes: prefixes}, nil
}

// AnalyzeCommand runs the full pipeline over one command line: normalize,
// split into segments, analyze each in order, and thread the cwd-known state
// across segments. The first violation wins.
func (a *Analyzer) AnalyzeCommand(command string, ctx Context) Verdict {
	command = NormalizeInput(command)
	if strings.TrimSpace(command) == "" {
		return Allow
	}

	effective := ctx
	for _, segment := range SplitCommands(command) {
		if v := a.analyzeSegment(segment, effective); v.Blocked {
			return v
		}
		// Once a segment changes directory, the working directory of every
		// later segment is unknown; it never becomes known again.
		if effective.CwdKnown && segmentChangesCwd(segment) {
			effective.CwdKnown = false
			effective.Cwd = ""
		}
	}
	return Allow
}

func (a *Analyzer) analyzeSegment(segment string, ctx Context) Verdict {
	tokens, err := Tokenize(segment)
	if err != nil {
		log.Debug("tokenization failed, using textual fallback: %v", err)
		if ctx.Strict {
			return Deny(segment, reasonUnparsableSegment+strictSuffix)
		}
		if reason := DangerousInText(segment); reason != "" {
			return Deny(segment, reason)
		}
		return Allow
	}
	if len(tokens) == 0 {
		return Allow
	}

	tokens = StripWrappers(tokens)
	if len(tokens) == 0 {
		return Allow
	}
	head := normalizeCmdToken(tokens[0])

	// Shell re-invocation: analyze the inline script recursively, with the
	// depth ceiling checked before the call so wrapper-in-wrapper chains
	// terminate in a deny instead of a hang.
	if shellHeads[head] {
		if script, ok := extractInlineScript(tokens); ok {
			if ctx.Depth >= maxRecursionDepth {
				return Deny(segment, reasonRecursionLimit)
			}
			sub := ctx
			sub.Depth++
			if v := a.AnalyzeCommand(script, sub); v.Blocked {
				return v
			}
		} else if ctx.Strict && hasShellInlineFlag(tokens) {
			return Deny(segment, reasonUnparsableWrapper+strictSuffix)
		}
	}

	// Interpreter one-liners hide rm/git in foreign syntax; scan the code
	// textually and refuse it entirely in strict mode.
	if interpreterHeads[head] {
		if code, ok := extractInlineCode(tokens); ok {
			if reason := DangerousInText(code); reason != "" {
				return Deny(segment, reason)
			}
			if ctx.Strict {
				return Deny(segment, reasonInterpreterOneLiner+strictSuffix)
			}
		}
	}

	allowTmpdirVar := !tmpdirAssignRE.MatchString(segment)

	if head == "busybox" && len(tokens) >= 2 && normalizeCmdToken(tokens[1]) == "rm" {
		return a.removeVerdict(segment, tokens[2:], allowTmpdirVar, ctx)
	}
	if head == "git" {
		if reason := AnalyzeGit(append([]string{"git"}, tokens[1:]...)); reason != "" {
			return Deny(segment, reason)
		}
		return Allow
	}
	if head == "rm" {
		return a.removeVerdict(segment, tokens[1:], allowTmpdirVar, ctx)
	}

	if reason := a.analyzeSensitiveRead(head, tokens[1:]); reason != "" {
		return Deny(segment, reason)
	}

	// Embedded command scan: destructive commands hidden behind a benign
	// head via command substitution, find -exec, xargs, and friends.
	for i := 1; i < len(tokens); i++ {
		cmd := normalizeCmdToken(tokens[i])
		if cmd == "rm" {
			if reason := a.analyzeRemove(append([]string{"rm"}, tokens[i+1:]...), allowTmpdirVar, ctx); reason != "" {
				return Deny(segment, reason)
			}
		}
		if cmd == "git" {
			if reason := AnalyzeGit(append([]string{"git"}, tokens[i+1:]...)); reason != "" {
				return Deny(segment, reason)
			}
		}
		if reason := a.analyzeSensitiveRead(cmd, tokens[i+1:]); reason != "" {
			return Deny(segment, reason)
		}
	}

	// Substitution bodies survive tokenization as opaque text the engines
	// cannot always reassemble; the textual pass catches those.
	if reason := DangerousInText(segment); reason != "" {
		return Deny(segment, reason)
	}
	return Allow
}

func (a *Analyzer) removeVerdict(segment string, args []string, allowTmpdirVar bool, ctx Context) Verdict {
	if reason := a.analyzeRemove(append([]string{"rm"}, args...), allowTmpdirVar, ctx); reason != "" {
		return Deny(segment, reason)
	}
	return Allow
}

// extractInlineScript finds the inline script of a shell -c invocation,
// handling `-c 'cmd'`, `-lc 'cmd'`, and `--norc -c 'cmd'` forms.
func extractInlineScript(tokens []string) (string, bool) {
	for i := 1; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "--" {
			return "", false
		}
		if tok == "-c" || isCombinedShellC(tok) {
			if i+1 < len(tokens) {
				return tokens[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// hasShellInlineFlag reports whether a -c form is present at all, even when
// its argument could not be extracted.
func hasShellInlineFlag(tokens []string) bool {
	for i := 1; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "--" {
			return false
		}
		if tok == "-c" || isCombinedShellC(tok) {
			return true
		}
	}
	return false
}

// isCombinedShellC matches combined short options that include -c alongside
// the common shell flags, like -lc or -lic.
func isCombinedShellC(tok string) bool {
	if !strings.HasPrefix(tok, "-") || len(tok) < 3 || strings.HasPrefix(tok, "--") {
		return false
	}
	hasC := false
	for _, r := range tok[1:] {
		switch r {
		case 'c':
			hasC = true
		case 'l', 'i', 's':
			// common shell flags, fine in combination
		default:
			return false
		}
	}
	return hasC
}

// extractInlineCode finds the -c/-e code argument of an interpreter
// invocation (python -c, node -e, ...).
func extractInlineCode(tokens []string) (string, bool) {
	for i := 1; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "--" {
			return "", false
		}
		if tok == "-c" || tok == "-e" {
			if i+1 < len(tokens) {
				return tokens[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// segmentChangesCwd reports whether a segment's command is a
// directory-changing builtin, looking through grouping punctuation and
// wrappers. Unparsable segments fall back to a regex sniff.
func segmentChangesCwd(segment string) bool {
	tokens, err := Tokenize(segment)
	if err == nil {
		for len(tokens) > 0 && (tokens[0] == "{" || tokens[0] == "(" || tokens[0] == "$(") {
			tokens = tokens[1:]
		}
		tokens = StripWrappers(tokens)
		if len(tokens) == 0 {
			return false
		}
		return cwdChangeCommands[normalizeCmdToken(tokens[0])]
	}
	return cwdChangeFallbackRE.MatchString(segment)
}
