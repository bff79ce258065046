// SPDX-License-Identifier: MIT

package project

// Tool is an external integration that is toggled on or off and persisted as
// an entry of the generic tools list.
type Tool string

const (
	// ToolClangAnalyzer runs the clang static analyzer alongside the check.
	ToolClangAnalyzer Tool = "clang-analyzer"
	// ToolClangTidy runs clang-tidy alongside the check.
	ToolClangTidy Tool = "clang-tidy"
)

// knownTools is the fixed order in which enabled tools are listed.
var knownTools = []Tool{ToolClangAnalyzer, ToolClangTidy}

// KnownTools returns every tool this package understands, in canonical order.
func KnownTools() []Tool {
	out := make([]Tool, len(knownTools))
	copy(out, knownTools)
	return out
}

// ParseTool matches a persisted tool name. Unknown names report false.
func ParseTool(name string) (Tool, bool) {
	for _, t := range knownTools {
		if string(t) == name {
			return t, true
		}
	}
	return "", false
}

// String implements fmt.Stringer.
func (t Tool) String() string { return string(t) }
