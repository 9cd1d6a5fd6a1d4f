package rules

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// SplitCommands breaks a raw command line into its top-level segments: one
// per shell statement, with `&&`, `||`, `|` and `|&` chains flattened into
// their parts. Segment text is sliced straight from the input by AST offsets
// so a deny can quote the exact source. Operators inside quotes, subshells,
// groups, and substitutions are not split points; those constructs stay
// within a single segment for the tokenizer and embedded scan to handle.
//
// If the line cannot be parsed at all (unterminated grouping and the like),
// the whole line is returned as one segment and downstream tokenization
// failure routes it to the textual fallback.
func SplitCommands(line string) []string {
	parser := syntax.NewParser(syntax.KeepComments(false), syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(strings.NewReader(line), "")
	if err != nil {
		return []string{line}
	}

	var segments []string
	var walk func(st *syntax.Stmt)
	walk = func(st *syntax.Stmt) {
		if bc, ok := st.Cmd.(*syntax.BinaryCmd); ok {
			switch bc.Op {
			case syntax.AndStmt, syntax.OrStmt, syntax.Pipe, syntax.PipeAll:
				walk(bc.X)
				walk(bc.Y)
				return
			}
		}
		seg := sliceSegment(line, st)
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	for _, st := range file.Stmts {
		walk(st)
	}

	if len(segments) == 0 {
		return []string{line}
	}
	return segments
}

// sliceSegment extracts the raw source text of one statement, dropping the
// trailing background/terminator punctuation the statement node may cover.
func sliceSegment(line string, st *syntax.Stmt) string {
	start := int(st.Pos().Offset())
	end := int(st.End().Offset())
	if start < 0 || start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	seg := line[start:end]
	seg = strings.TrimRight(seg, " \t")
	seg = strings.TrimSuffix(seg, "&")
	seg = strings.TrimSuffix(seg, ";")
	return strings.TrimSpace(seg)
}
