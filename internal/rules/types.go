package rules

// Verdict is the outcome of analyzing one command line. The zero value is
// Allow; a blocked verdict always carries a human-readable reason and the
// exact source text of the segment that triggered it.
type Verdict struct {
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason,omitempty"`
	Segment string `json:"segment,omitempty"`
}

// Allow is the non-blocking verdict.
var Allow = Verdict{}

// Deny builds a blocking verdict for the given segment.
func Deny(segment, reason string) Verdict {
	return Verdict{Blocked: true, Reason: reason, Segment: segment}
}

// Context carries per-invocation analysis state. It is passed by value
// through every recursive call: Depth only ever grows along an unwrap chain,
// and CwdKnown, once false, never reverts within the same analysis.
type Context struct {
	// Depth counts nested shell re-invocations unwrapped so far.
	Depth int

	// Cwd is the caller-supplied working directory. CwdKnown goes false the
	// moment an earlier segment runs cd/pushd/popd.
	Cwd      string
	CwdKnown bool

	// Strict fails closed on anything the analyzer cannot confidently parse.
	Strict bool
}

// maxRecursionDepth is the hard ceiling on shell unwrap recursion. Hitting it
// produces a deny, never a silent allow.
const maxRecursionDepth = 5

const strictSuffix = " [strict mode - disable with: unset SAFETY_NET_STRICT]"
