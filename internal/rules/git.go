package rules

import "strings"

// Deny reasons for the git engine. Worded as guidance: every message names a
// safe alternative where one exists.
const (
	reasonGitCheckoutDoubleDash = "git checkout -- discards uncommitted changes permanently. Use 'git stash' first."
	reasonGitCheckoutRefDD      = "git checkout <ref> -- <path> overwrites working tree. Use 'git stash' first."
	reasonGitCheckoutBranch     = "git checkout <branch> switches branches. Branch switching is not allowed."
	reasonGitCheckoutCreate     = "git checkout -b creates a new branch. Branch creation is not allowed."
	reasonGitSwitch             = "git switch changes branches. Branch switching is not allowed."
	reasonGitSwitchCreate       = "git switch -c creates a new branch. Branch creation is not allowed."
	reasonGitRestore            = "git restore discards uncommitted changes. Use 'git stash' or 'git diff' first."
	reasonGitRestoreWorktree    = "git restore --worktree discards uncommitted changes permanently."
	reasonGitResetHard          = "git reset --hard destroys uncommitted changes. Use 'git stash' first."
	reasonGitResetMerge         = "git reset --merge can lose uncommitted changes."
	reasonGitCleanForce         = "git clean -f removes untracked files permanently. Review with 'git clean -n' first."
	reasonGitPushForce          = "Force push can destroy remote history. Use --force-with-lease if necessary."
	reasonGitBranchDelete       = "git branch -d deletes a branch. Branch deletion is not allowed."
	reasonGitBranchCreate       = "git branch <name> creates a new branch. Branch creation is not allowed."
	reasonGitStashDrop          = "git stash drop permanently deletes stashed changes. List stashes first with 'git stash list'."
	reasonGitStashClear         = "git stash clear permanently deletes ALL stashed changes."
	reasonGitRebase             = "git rebase rewrites commit history. Rebase is not allowed."
	reasonGitCommitAmend        = "git commit --amend rewrites commit history. Amend is not allowed."
	reasonGitTagDelete          = "git tag -d deletes a tag. Tag deletion is not allowed."
)

// AnalyzeGit applies the per-subcommand git policy. tokens[0] must be "git";
// an empty reason means allow.
func AnalyzeGit(tokens []string) string {
	sub, rest := gitSubcommandAndRest(tokens)
	if sub == "" {
		return ""
	}
	sub = strings.ToLower(sub)

	restLower := make([]string, len(rest))
	for i, t := range rest {
		restLower[i] = strings.ToLower(t)
	}
	short := shortOpts(rest)

	switch sub {
	case "checkout":
		// `--` discards working tree changes regardless of what follows.
		if idx := indexOf(rest, "--"); idx >= 0 {
			if idx == 0 {
				return reasonGitCheckoutDoubleDash
			}
			return reasonGitCheckoutRefDD
		}
		if contains(restLower, "-b") || contains(restLower, "--orphan") {
			return reasonGitCheckoutCreate
		}
		// A positional argument (including bare "-") is a branch switch.
		for _, t := range rest {
			if !strings.HasPrefix(t, "-") || t == "-" {
				return reasonGitCheckoutBranch
			}
		}
		return ""

	case "switch":
		if contains(restLower, "-h") || contains(restLower, "--help") {
			return ""
		}
		if contains(restLower, "-c") || contains(restLower, "--create") {
			return reasonGitSwitchCreate
		}
		return reasonGitSwitch

	case "restore":
		if contains(restLower, "-h") || contains(restLower, "--help") || contains(restLower, "--version") {
			return ""
		}
		if contains(restLower, "--worktree") {
			return reasonGitRestoreWorktree
		}
		if contains(restLower, "--staged") {
			return ""
		}
		return reasonGitRestore

	case "reset":
		if contains(restLower, "--hard") {
			return reasonGitResetHard
		}
		if contains(restLower, "--merge") {
			return reasonGitResetMerge
		}
		return ""

	case "clean":
		if contains(restLower, "--force") || short['f'] {
			return reasonGitCleanForce
		}
		return ""

	case "push":
		hasLease := false
		for _, t := range restLower {
			if strings.HasPrefix(t, "--force-with-lease") {
				hasLease = true
				break
			}
		}
		hasForce := contains(restLower, "--force") || short['f']
		// The bare --force is unsafe even when a lease flag is also present:
		// the real force still reaches the remote.
		if hasForce && !hasLease {
			return reasonGitPushForce
		}
		if contains(restLower, "--force") && hasLease {
			return reasonGitPushForce
		}
		if short['f'] && hasLease {
			return reasonGitPushForce
		}
		return ""

	case "branch":
		if contains(rest, "-D") || short['D'] || contains(rest, "-d") || short['d'] {
			return reasonGitBranchDelete
		}
		// Bare listing or flag-only invocations are fine.
		allFlags := true
		for _, t := range rest {
			if !strings.HasPrefix(t, "-") {
				allFlags = false
				break
			}
		}
		if len(rest) == 0 || allFlags {
			return ""
		}
		return reasonGitBranchCreate

	case "stash":
		if len(restLower) == 0 {
			return ""
		}
		switch restLower[0] {
		case "drop":
			return reasonGitStashDrop
		case "clear":
			return reasonGitStashClear
		}
		return ""

	case "rebase":
		if contains(restLower, "-h") || contains(restLower, "--help") {
			return ""
		}
		return reasonGitRebase

	case "commit":
		if contains(restLower, "--amend") {
			return reasonGitCommitAmend
		}
		return ""

	case "tag":
		if contains(restLower, "-d") || contains(restLower, "--delete") || short['d'] {
			return reasonGitTagDelete
		}
		return ""
	}

	return ""
}

// Git global options that consume the following token as their value.
var gitOptsWithValue = map[string]bool{
	"-c":            true,
	"-C":            true,
	"--exec-path":   true,
	"--git-dir":     true,
	"--namespace":   true,
	"--super-prefix": true,
	"--work-tree":   true,
}

// Git global options that stand alone.
var gitOptsNoValue = map[string]bool{
	"-p":                   true,
	"-P":                   true,
	"-h":                   true,
	"--help":               true,
	"--no-pager":           true,
	"--paginate":           true,
	"--version":            true,
	"--bare":               true,
	"--no-replace-objects": true,
	"--literal-pathspecs":  true,
	"--noglob-pathspecs":   true,
	"--icase-pathspecs":    true,
}

// gitSubcommandAndRest walks past git's global options (including
// attached-value short forms like -Crepo and --git-dir=path) to find the
// subcommand. Returns "" when no subcommand is present.
func gitSubcommandAndRest(tokens []string) (string, []string) {
	if len(tokens) == 0 || strings.ToLower(tokens[0]) != "git" {
		return "", nil
	}

	i := 1
	for i < len(tokens) {
		tok := tokens[i]
		if tok == "--" {
			i++
			break
		}
		if !strings.HasPrefix(tok, "-") || tok == "-" {
			break
		}
		switch {
		case gitOptsNoValue[tok]:
			i++
		case gitOptsWithValue[tok]:
			i += 2
		case strings.HasPrefix(tok, "--"):
			// --opt=value carries its value attached; unknown long options
			// are assumed flag-like.
			i++
		default:
			// Short option, possibly with an attached value (-Crepo, -cx=y).
			i++
		}
	}

	if i >= len(tokens) {
		return "", nil
	}
	return tokens[i], tokens[i+1:]
}

// shortOpts collects the letters of single-dash option clusters, preserving
// case so -D and -d stay distinct. "-nf" contributes both 'n' and 'f'.
func shortOpts(tokens []string) map[rune]bool {
	set := make(map[rune]bool)
	for _, tok := range tokens {
		if !strings.HasPrefix(tok, "-") || strings.HasPrefix(tok, "--") || len(tok) < 2 {
			continue
		}
		letters := tok[1:]
		alpha := true
		for _, r := range letters {
			if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
				alpha = false
				break
			}
		}
		if !alpha {
			continue
		}
		for _, r := range letters {
			set[r] = true
		}
	}
	return set
}

func contains(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}

func indexOf(tokens []string, want string) int {
	for i, t := range tokens {
		if t == want {
			return i
		}
	}
	return -1
}
