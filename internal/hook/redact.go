package hook

import (
	"regexp"
	"strings"
)

// maxExcerptLen caps the command and segment excerpts echoed back in a deny
// reason.
const maxExcerptLen = 300

// Commands often carry secrets inline (exports, curl headers, URL
// credentials). They must not be echoed back verbatim: deny reasons end up
// in transcripts and logs.
var (
	// KEY=VALUE assignments whose key names a secret.
	secretAssignRE = regexp.MustCompile(
		`(?i)\b([A-Z0-9_]*(?:TOKEN|SECRET|PASSWORD|PASS|KEY|CREDENTIAL)[A-Z0-9_]*)=(\S+)`)

	// Authorization header values, e.g. curl -H "Authorization: Bearer ...".
	authHeaderRE = regexp.MustCompile(`(?i)(authorization\s*:\s*)(\S+)`)

	// user:password@ credentials embedded in URLs.
	urlCredRE = regexp.MustCompile(`(?i)(https?://)([^\s/:@]+):([^\s@]+)@`)

	// GitHub token formats (ghp_, gho_, ghu_, ghs_, ghr_).
	ghTokenRE = regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{20,}\b`)
)

// redactSecrets masks credential-bearing fragments of a command line.
func redactSecrets(text string) string {
	text = secretAssignRE.ReplaceAllString(text, "${1}=<redacted>")
	text = authHeaderRE.ReplaceAllString(text, "${1}<redacted>")
	text = urlCredRE.ReplaceAllString(text, "${1}<redacted>:<redacted>@")
	text = ghTokenRE.ReplaceAllString(text, "<redacted>")
	return text
}

// formatSafeExcerpt renders one labeled, redacted, length-capped excerpt
// line for a deny reason. Empty text yields nothing.
func formatSafeExcerpt(label, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = redactSecrets(text)
	if runes := []rune(text); len(runes) > maxExcerptLen {
		text = string(runes[:maxExcerptLen]) + "…"
	}
	return label + ": " + text + "\n\n"
}
