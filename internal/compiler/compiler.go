// Package compiler turns a parsed pattern into a flat instruction sequence
// for the backtracking VM. Jump and split targets are plain indices into
// the sequence, computed after the referenced block has been emitted, and
// every program-counter advance goes through the overflow guard.
package compiler

import (
	"go.uber.org/zap"

	"github.com/regexvm/regexvm/internal/overflow"
	"github.com/regexvm/regexvm/internal/parser"
)

// Generator is a tree-walking code generator. The zero value is not usable;
// construct one with NewGenerator.
type Generator struct {
	pc    uint32
	insts []Inst
	log   *zap.Logger
}

// NewGenerator creates a code generator. A nil logger disables the debug
// output of compilation decisions.
func NewGenerator(log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{log: log}
}

// Compile walks the AST and produces the instruction sequence using a
// default generator.
func Compile(ast parser.Node) (*Program, error) {
	return NewGenerator(nil).Compile(ast)
}

// Compile walks the AST and produces the instruction sequence. The emitted
// program always terminates with an OpMatch instruction.
func (g *Generator) Compile(ast parser.Node) (*Program, error) {
	g.pc = 0
	g.insts = nil

	if err := g.genExpr(ast); err != nil {
		return nil, err
	}
	if _, err := g.emit(Inst{Op: OpMatch}); err != nil {
		return nil, err
	}

	g.log.Debug("compiled pattern",
		zap.Int("instructions", len(g.insts)))

	return &Program{Insts: g.insts}, nil
}

// emit appends one instruction and advances the program counter through
// the overflow guard. It returns the instruction's address.
func (g *Generator) emit(inst Inst) (uint32, error) {
	addr := g.pc
	g.insts = append(g.insts, inst)
	if err := overflow.Inc(&g.pc); err != nil {
		return 0, &CodeGenError{Kind: PCOverflow, Err: err}
	}
	return addr, nil
}

func (g *Generator) genExpr(n parser.Node) error {
	switch n := n.(type) {
	case *parser.Char:
		_, err := g.emit(Inst{Op: OpChar, R: n.R})
		return err
	case *parser.Dot:
		_, err := g.emit(Inst{Op: OpAny})
		return err
	case *parser.Seq:
		return g.genSeq(n)
	case *parser.Or:
		return g.genOr(n)
	case *parser.Plus:
		return g.genPlus(n)
	case *parser.Star:
		return g.genStar(n)
	case *parser.Question:
		return g.genQuestion(n)
	}
	return nil
}

// genSeq emits each child's block in order. An empty sequence emits
// nothing and matches the empty string.
func (g *Generator) genSeq(n *parser.Seq) error {
	for _, sub := range n.Subs {
		if err := g.genExpr(sub); err != nil {
			return err
		}
	}
	return nil
}

// genOr emits
//
//	split L, R
//	L: <left block>
//	   jmp end
//	R: <right block>
//	end:
//
// so a failure anywhere in the left block backtracks into the right one.
func (g *Generator) genOr(n *parser.Or) error {
	splitAddr, err := g.emit(Inst{Op: OpSplit})
	if err != nil {
		return err
	}
	g.insts[splitAddr].X = g.pc
	if err := g.genExpr(n.Left); err != nil {
		return &CodeGenError{Kind: FailOr, Err: err}
	}
	jmpAddr, err := g.emit(Inst{Op: OpJump})
	if err != nil {
		return err
	}
	g.insts[splitAddr].Y = g.pc
	if err := g.genExpr(n.Right); err != nil {
		return &CodeGenError{Kind: FailOr, Err: err}
	}
	g.insts[jmpAddr].X = g.pc
	return nil
}

// genStar emits
//
//	A: split body, end
//	body: <inner block>
//	      jmp A
//	end:
//
// Greedy: the body is attempted before giving up.
func (g *Generator) genStar(n *parser.Star) error {
	splitAddr, err := g.emit(Inst{Op: OpSplit})
	if err != nil {
		return err
	}
	g.insts[splitAddr].X = g.pc
	if err := g.genExpr(n.Sub); err != nil {
		return &CodeGenError{Kind: FailStar, Err: err}
	}
	if _, err := g.emit(Inst{Op: OpJump, X: splitAddr}); err != nil {
		return err
	}
	g.insts[splitAddr].Y = g.pc
	return nil
}

// genPlus emits one mandatory copy of the inner block followed by a
// star-shaped split back to it:
//
//	body: <inner block>
//	      split body, end
//	end:
func (g *Generator) genPlus(n *parser.Plus) error {
	body := g.pc
	if err := g.genExpr(n.Sub); err != nil {
		return &CodeGenError{Kind: FailPlus, Err: err}
	}
	splitAddr, err := g.emit(Inst{Op: OpSplit, X: body})
	if err != nil {
		return err
	}
	g.insts[splitAddr].Y = g.pc
	return nil
}

// genQuestion emits
//
//	split body, end
//	body: <inner block>
//	end:
//
// Greedy: taking the branch is preferred over skipping it.
func (g *Generator) genQuestion(n *parser.Question) error {
	splitAddr, err := g.emit(Inst{Op: OpSplit})
	if err != nil {
		return err
	}
	g.insts[splitAddr].X = g.pc
	if err := g.genExpr(n.Sub); err != nil {
		return &CodeGenError{Kind: FailQuestion, Err: err}
	}
	g.insts[splitAddr].Y = g.pc
	return nil
}
