// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldPath      = "path"
	FieldElement   = "element"
	FieldTool      = "tool"
	FieldOp        = "op"
	FieldCommand   = "command"
)
