// Package codegen renders a compiled program as standalone Go source: the
// same matcher the VM interprets, compiled ahead of time into a function
// built from labeled instruction blocks and gotos.
package codegen

import "fmt"

// Identifier names used in generated code.
const (
	InputName           = "input"
	RunesName           = "runes"
	InputLenName        = "l"
	OffsetName          = "offset"
	StartName           = "start"
	StackName           = "stack"
	NextInstructionName = "nextInstruction"
	StepSelectName      = "StepSelect"
	TryFallbackName     = "TryFallback"
	VisitedName         = "visited"
)

// InstructionName returns the label name for an instruction address.
func InstructionName(id uint32) string {
	return fmt.Sprintf("Ins%d", id)
}
