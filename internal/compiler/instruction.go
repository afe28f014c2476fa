package compiler

import (
	"fmt"
	"strings"
)

// OpCode identifies an instruction of the matching VM.
type OpCode uint8

const (
	// OpChar consumes one input character if it equals Inst.R.
	OpChar OpCode = iota
	// OpAny consumes one input character of any value.
	OpAny
	// OpMatch accepts: the current thread has reached a valid end state.
	OpMatch
	// OpJump transfers control to Inst.X.
	OpJump
	// OpSplit tries Inst.X first and retries from Inst.Y at the same
	// input position when that path fails. The order is significant:
	// it encodes greedy, leftmost-biased matching.
	OpSplit
)

// Inst is a single VM instruction. R is used by OpChar; X is the primary
// target of OpJump and OpSplit; Y is OpSplit's alternative target.
type Inst struct {
	Op OpCode
	R  rune
	X  uint32
	Y  uint32
}

func (i Inst) String() string {
	switch i.Op {
	case OpChar:
		return fmt.Sprintf("char %q", i.R)
	case OpAny:
		return "any"
	case OpMatch:
		return "match"
	case OpJump:
		return fmt.Sprintf("jmp %d", i.X)
	case OpSplit:
		return fmt.Sprintf("split %d, %d", i.X, i.Y)
	}
	return "?"
}

// Program is a compiled instruction sequence. It is read-only after
// compilation and safe to execute concurrently; every run owns its own
// backtracking state.
type Program struct {
	Insts []Inst
}

// String renders the program as an addressed instruction listing.
func (p *Program) String() string {
	var sb strings.Builder
	for pc, inst := range p.Insts {
		fmt.Fprintf(&sb, "%04d %s\n", pc, inst)
	}
	return sb.String()
}
