// Package hook adapts the analysis core to the host tool's pre-execution
// hook protocol: it decodes the JSON tool-call envelope from stdin, applies
// the malformed-input policy, and renders deny verdicts as the response
// envelope on stdout. Allow produces no output at all.
package hook

import (
	"encoding/json"
	"strings"

	"github.com/AgentShepherd/safetynet/internal/logger"
	"github.com/AgentShepherd/safetynet/internal/rules"
)

var log = logger.New("hook")

// hookEventName is the only event this hook handles.
const hookEventName = "PreToolUse"

// toolName is the host tool whose commands we classify. Calls for any other
// tool carry nothing to analyze and pass through.
const toolName = "Bash"

// Response is the host tool's output envelope. It is only ever produced for
// a deny; an allow is communicated by printing nothing.
type Response struct {
	HookSpecificOutput Output `json:"hookSpecificOutput"`
}

// Output carries the decision and its human-readable reason.
type Output struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason"`
}

// Decide runs the whole decision operation over one raw input envelope.
// A nil response means allow.
//
// Malformed-input policy: unparsable or non-object envelopes and bad
// tool_input are allowed in normal mode and denied in strict mode
// (fail-closed); a non-Bash tool or blank command is always allowed, since
// there is nothing to analyze.
func Decide(input []byte, analyzer *rules.Analyzer, strict bool) *Response {
	var raw any
	if err := json.Unmarshal(input, &raw); err != nil {
		log.Debug("unparsable envelope: %v", err)
		if strict {
			return denyResponse(invalidInputReason("Invalid hook input."))
		}
		return nil
	}

	envelope, ok := raw.(map[string]any)
	if !ok {
		if strict {
			return denyResponse(invalidInputReason("Invalid hook input structure."))
		}
		return nil
	}

	if name, _ := envelope["tool_name"].(string); name != toolName {
		return nil
	}

	toolInput, ok := envelope["tool_input"].(map[string]any)
	if !ok {
		if strict {
			return denyResponse(invalidInputReason("Invalid hook input structure."))
		}
		return nil
	}

	command, ok := toolInput["command"].(string)
	if !ok || strings.TrimSpace(command) == "" {
		return nil
	}

	cwd := ""
	if s, ok := envelope["cwd"].(string); ok {
		cwd = strings.TrimSpace(s)
	}

	verdict := analyzer.AnalyzeCommand(command, rules.Context{
		Cwd:      cwd,
		CwdKnown: cwd != "",
		Strict:   strict,
	})
	if !verdict.Blocked {
		return nil
	}

	log.Info("denied: %s", verdict.Reason)
	return denyResponse(denyReason(verdict, command))
}

// denyReason assembles the human-readable reason: the rule message plus
// redacted excerpts of the full command and the offending segment.
func denyReason(v rules.Verdict, command string) string {
	var sb strings.Builder
	sb.WriteString("BLOCKED by safetynet\n\nReason: ")
	sb.WriteString(v.Reason)
	sb.WriteString("\n\n")
	sb.WriteString(formatSafeExcerpt("Command", command))
	sb.WriteString(formatSafeExcerpt("Segment", v.Segment))
	sb.WriteString("If this operation is truly needed, ask the user for explicit permission and have them run the command manually.")
	return sb.String()
}

func invalidInputReason(detail string) string {
	return "BLOCKED by safetynet\n\nReason: " + detail
}

func denyResponse(reason string) *Response {
	return &Response{
		HookSpecificOutput: Output{
			HookEventName:            hookEventName,
			PermissionDecision:       "deny",
			PermissionDecisionReason: reason,
		},
	}
}
