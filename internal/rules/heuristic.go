package rules

import (
	"regexp"
	"strings"
)

const reasonBranchForceDelete = "git branch -D force-deletes without merge check. Use -d for safety."

// removeRecursiveForceRE spots `rm` (optionally path-prefixed) followed,
// before the next statement boundary, by a recursive+force flag combination
// in either order, combined or long form. RE2 has no lookbehind, so the
// guard against matching inside a longer word is a leading character class.
var removeRecursiveForceRE = regexp.MustCompile(
	`(?:^|[^\w/\\])(?:/[^\s'";|&]+/)?rm\b[^\n;|&]*` +
		`(?:\s-(?:[a-z]*r[a-z]*f|[a-z]*f[a-z]*r)\b` +
		`|\s-r\b[^\n;|&]*\s-f\b` +
		`|\s-f\b[^\n;|&]*\s-r\b` +
		`|\s--recursive\b[^\n;|&]*\s--force\b` +
		`|\s--force\b[^\n;|&]*\s--recursive\b)`)

var (
	gitPushShortForceRE = regexp.MustCompile(`\bgit\s+push\s+-f\b`)
	gitRestoreRE        = regexp.MustCompile(`\bgit\s+restore\b`)
)

// DangerousInText is the last-resort matcher for text that structured
// analysis cannot reach: untokenizable segments, interpreter one-liner code,
// and substitution bodies. It is intentionally coarser than the rule
// engines. Returns the deny reason, or "" when nothing matches.
func DangerousInText(text string) string {
	t := strings.ToLower(text)

	if removeRecursiveForceRE.MatchString(t) {
		return reasonRemoveRecursiveForce
	}

	if strings.Contains(t, "git reset --hard") {
		return reasonGitResetHard
	}
	if strings.Contains(t, "git reset --merge") {
		return reasonGitResetMerge
	}
	if strings.Contains(t, "git clean -f") || strings.Contains(t, "git clean --force") {
		return reasonGitCleanForce
	}
	if (strings.Contains(t, "git push --force") || gitPushShortForceRE.MatchString(t)) &&
		!strings.Contains(t, "--force-with-lease") {
		return reasonGitPushForce
	}
	// The -D/-d distinction is case-sensitive, so this one checks the
	// original text.
	if strings.Contains(text, "git branch -D") && !strings.Contains(text, "git branch -d") {
		return reasonBranchForceDelete
	}
	if strings.Contains(t, "git stash drop") {
		return reasonGitStashDrop
	}
	if strings.Contains(t, "git stash clear") {
		return reasonGitStashClear
	}
	if strings.Contains(t, "git checkout --") {
		return reasonGitCheckoutDoubleDash
	}
	if gitRestoreRE.MatchString(t) &&
		!strings.Contains(t, "--staged") && !strings.Contains(t, "--help") && !strings.Contains(t, "--version") {
		if strings.Contains(t, "--worktree") {
			return reasonGitRestoreWorktree
		}
		return reasonGitRestore
	}

	return ""
}
