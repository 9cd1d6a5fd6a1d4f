package rules

import (
	"path"
	"strings"
)

const (
	reasonRemoveRecursiveForce = "rm -rf is destructive. List files first, then delete individually."
	reasonRemoveUnknownCwd     = "rm -rf on a relative path cannot be verified after a directory change. Use an explicit temp path."
)

// defaultSafeDeletePrefixes are the scratch locations where recursive-force
// deletes are tolerated. Entries keep their trailing slash so the prefix
// check cannot match a sibling like /tmpfoo, and so the zone roots
// themselves stay protected.
var defaultSafeDeletePrefixes = []string{
	"/tmp/",
	"/var/tmp/",
	"/private/tmp/",
	"/dev/shm/",
}

// analyzeRemove implements the recursive-force delete rule: deny when -r/-R
// and -f appear together (any order, combined short forms included) against
// a target outside the temp safe zone. allowTmpdirVar is false when the
// segment sets TMPDIR= itself, closing the loophole of redefining the safe
// zone inline.
func (a *Analyzer) analyzeRemove(tokens []string, allowTmpdirVar bool, ctx Context) string {
	recursive, force, targets := parseRemoveArgs(tokens[1:])
	if !recursive || !force || len(targets) == 0 {
		return ""
	}

	for _, target := range targets {
		switch a.classifyDeleteTarget(target, allowTmpdirVar, ctx) {
		case deleteTargetSafe:
			// fine
		case deleteTargetAmbiguous:
			// Tolerated normally ($TMPDIR expansion, relative path under a
			// known temp cwd); strict mode refuses to guess.
			if ctx.Strict {
				return reasonRemoveRecursiveForce + strictSuffix
			}
		case deleteTargetUnknownCwd:
			return reasonRemoveUnknownCwd
		default:
			return reasonRemoveRecursiveForce
		}
	}
	return ""
}

// parseRemoveArgs scans rm arguments for the recursive and force flags and
// collects target paths. Everything after a literal `--` is a target even if
// it is flag-shaped.
func parseRemoveArgs(args []string) (recursive, force bool, targets []string) {
	afterDoubleDash := false
	for _, tok := range args {
		if afterDoubleDash {
			targets = append(targets, tok)
			continue
		}
		switch {
		case tok == "--":
			afterDoubleDash = true
		case tok == "--recursive":
			recursive = true
		case tok == "--force":
			force = true
		case strings.HasPrefix(tok, "--"):
			// Other long options (--verbose, --one-file-system) are inert.
		case strings.HasPrefix(tok, "-") && len(tok) > 1:
			for _, r := range tok[1:] {
				switch r {
				case 'r', 'R':
					recursive = true
				case 'f':
					force = true
				}
			}
		default:
			targets = append(targets, tok)
		}
	}
	return recursive, force, targets
}

type deleteTargetClass int

const (
	deleteTargetUnsafe deleteTargetClass = iota
	deleteTargetSafe
	deleteTargetAmbiguous
	deleteTargetUnknownCwd
)

// classifyDeleteTarget decides whether one rm target stays inside the safe
// zone. Unresolvable forms (variables, home paths) are unsafe; forms that
// need an assumption to resolve are ambiguous.
func (a *Analyzer) classifyDeleteTarget(target string, allowTmpdirVar bool, ctx Context) deleteTargetClass {
	if target == "" {
		return deleteTargetUnsafe
	}

	// $TMPDIR-rooted targets are safe only while the segment has not
	// redefined TMPDIR, and only as an assumption about the environment.
	for _, prefix := range []string{"$TMPDIR", "${TMPDIR}"} {
		if target == prefix || strings.HasPrefix(target, prefix+"/") {
			if !allowTmpdirVar || target == prefix {
				return deleteTargetUnsafe
			}
			return deleteTargetAmbiguous
		}
	}

	// Any other variable, substitution, or home reference cannot be resolved
	// without executing the shell.
	if strings.ContainsAny(target, "$`") || strings.HasPrefix(target, "~") {
		return deleteTargetUnsafe
	}

	if strings.HasPrefix(target, "/") {
		if a.underSafePrefix(path.Clean(target)) {
			if ctx.Strict && strings.ContainsAny(target, "*?[") {
				return deleteTargetAmbiguous
			}
			return deleteTargetSafe
		}
		return deleteTargetUnsafe
	}

	// Relative target: only resolvable against a known cwd, and only safe
	// when that cwd already lives inside the safe zone.
	if !ctx.CwdKnown {
		return deleteTargetUnknownCwd
	}
	joined := path.Join(strings.TrimRight(ctx.Cwd, "/"), target)
	if a.underSafePrefix(joined) {
		return deleteTargetAmbiguous
	}
	return deleteTargetUnsafe
}

// underSafePrefix reports whether a cleaned absolute path is strictly inside
// one of the safe delete prefixes.
func (a *Analyzer) underSafePrefix(cleaned string) bool {
	for _, prefix := range a.safeDeletePrefixes {
		if strings.HasPrefix(cleaned, prefix) && len(cleaned) > len(prefix) {
			return true
		}
	}
	return false
}
