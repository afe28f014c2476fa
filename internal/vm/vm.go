// Package vm interprets compiled instruction sequences against input
// strings. Execution is backtracking: alternatives suspended at each split
// are kept on an explicit stack of saved (pc, cursor) pairs and resumed
// when the current path fails. A bit vector over (pc, cursor) states makes
// zero-width loops terminate, and an optional step ceiling turns runaway
// executions into a distinct error instead of a silent hang.
package vm

import (
	"errors"

	"github.com/regexvm/regexvm/internal/compiler"
	"github.com/regexvm/regexvm/internal/overflow"
)

// ErrStepLimit is returned when a machine exceeds its configured step
// ceiling. It is an execution resource error, not a match verdict.
var ErrStepLimit = errors.New("vm: step limit exceeded")

// errBadAddress reports a jump or split target outside the program. A
// well-formed compiler output never triggers it.
var errBadAddress = errors.New("vm: instruction address out of range")

// Machine executes one program. The program is read-only; a single Machine
// may be used for many runs, and distinct Machines may share a program
// concurrently because all mutable state is per-run.
type Machine struct {
	prog *compiler.Program

	// StepLimit caps the number of executed instructions per run when
	// non-zero. Exceeding it fails the run with ErrStepLimit.
	StepLimit uint64
}

// New creates a machine for the given program.
func New(prog *compiler.Program) *Machine {
	return &Machine{prog: prog}
}

// thread is one suspended alternative: resume at pc with the input cursor
// at sp.
type thread struct {
	pc uint32
	sp int
}

// exec runs the program with the cursor starting at start. When full is
// set, the accept instruction only succeeds with the whole input consumed;
// otherwise it succeeds immediately, leaving trailing input unread. On
// success end is the cursor position one past the last consumed character.
func (m *Machine) exec(input []rune, start int, full bool) (end int, matched bool, err error) {
	insts := m.prog.Insts
	n := len(insts)

	// One bit per (pc, cursor) state, set when a split is taken.
	// Revisiting a state means a zero-width loop came back around or the
	// path already failed from here; either way it is dead.
	visited := make([]uint32, (n*(len(input)+1)+31)/32)

	var (
		stack []thread
		steps uint64
	)
	pc := uint32(0)
	sp := start

	for {
		if m.StepLimit > 0 {
			if err := overflow.Inc(&steps); err != nil || steps > m.StepLimit {
				return 0, false, ErrStepLimit
			}
		}

		if pc >= uint32(n) {
			return 0, false, errBadAddress
		}

		ok := false
		inst := insts[pc]
		switch inst.Op {
		case compiler.OpChar:
			if sp < len(input) && input[sp] == inst.R {
				pc++
				sp++
				ok = true
			}
		case compiler.OpAny:
			if sp < len(input) {
				pc++
				sp++
				ok = true
			}
		case compiler.OpMatch:
			if !full || sp == len(input) {
				return sp, true, nil
			}
			// Accepted with input left over while a full match is
			// required: fail the path so the stack can explore
			// alternatives that consume more.
		case compiler.OpJump:
			pc = inst.X
			ok = true
		case compiler.OpSplit:
			idx := int(pc)*(len(input)+1) + sp
			word, bit := idx/32, uint32(1)<<(idx%32)
			if visited[word]&bit == 0 {
				visited[word] |= bit
				stack = append(stack, thread{pc: inst.Y, sp: sp})
				pc = inst.X
				ok = true
			}
		}
		if ok {
			continue
		}

		// Current path failed; resume the most recent suspended
		// alternative, or report no match once none remain.
		if len(stack) == 0 {
			return 0, false, nil
		}
		last := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		pc = last.pc
		sp = last.sp
	}
}

// Match reports whether the program matches the input starting at
// position 0. Reaching the accept instruction succeeds immediately;
// trailing input is allowed.
func (m *Machine) Match(input []rune) (bool, error) {
	_, ok, err := m.exec(input, 0, false)
	return ok, err
}

// MatchFull reports whether the program matches the entire input: the
// accept state must be reached with every input character consumed.
func (m *Machine) MatchFull(input []rune) (bool, error) {
	_, ok, err := m.exec(input, 0, true)
	return ok, err
}

// Search performs an unanchored search: it retries the program at every
// start offset and returns the first success as a [start, end) character
// span. ok is false when no offset matches.
func (m *Machine) Search(input []rune) (start, end int, ok bool, err error) {
	for i := 0; i <= len(input); i++ {
		e, matched, err := m.exec(input, i, false)
		if err != nil {
			return 0, 0, false, err
		}
		if matched {
			return i, e, true, nil
		}
	}
	return 0, 0, false, nil
}
