package codegen

import (
	"fmt"
	"go/format"
	"os"

	"github.com/dave/jennifer/jen"
	"go.uber.org/zap"

	"github.com/regexvm/regexvm/internal/compiler"
)

// Config describes one code-emission run.
type Config struct {
	// Pattern is the source pattern, recorded in the generated header.
	Pattern string
	// Name is the prefix for the generated type and its methods.
	Name string
	// Package is the package name of the generated file.
	Package string
	// OutputFile is the path the generated source is written to.
	OutputFile string
	// Program is the compiled instruction sequence to render.
	Program *compiler.Program
	// Logger receives debug output; nil disables it.
	Logger *zap.Logger
}

// Emitter renders one program into one Go source file.
type Emitter struct {
	cfg  Config
	file *jen.File
	log  *zap.Logger

	// needsBacktracking is true when the program contains at least one
	// split, which is what requires the stack and the visited bits.
	needsBacktracking bool
}

// New creates an emitter for the given configuration.
func New(cfg Config) *Emitter {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	e := &Emitter{
		cfg:  cfg,
		file: jen.NewFile(cfg.Package),
		log:  log,
	}
	for _, inst := range cfg.Program.Insts {
		if inst.Op == compiler.OpSplit {
			e.needsBacktracking = true
			break
		}
	}
	return e
}

// method starts a method declaration on the generated matcher type.
func (e *Emitter) method(name string) *jen.Statement {
	return e.file.Func().
		Params(jen.Id(e.cfg.Name)).
		Id(name)
}

// Emit generates the Go source and writes it, gofmt-formatted, to the
// output file.
func (e *Emitter) Emit() error {
	e.log.Debug("emitting matcher",
		zap.String("name", e.cfg.Name),
		zap.Int("instructions", len(e.cfg.Program.Insts)),
		zap.Bool("backtracking", e.needsBacktracking))

	e.file.Comment(fmt.Sprintf("Code generated by regexvm for pattern: %s", e.cfg.Pattern))
	e.file.Comment("DO NOT EDIT.")
	e.file.Line()

	e.file.Type().Id(e.cfg.Name).Struct()
	e.file.Line()

	e.file.Var().Id("Compiled" + e.cfg.Name).Op("=").Id(e.cfg.Name).Values()
	e.file.Line()

	matchCode, err := e.generateMatchFunction()
	if err != nil {
		return fmt.Errorf("failed to generate match function: %w", err)
	}
	e.method("MatchString").
		Params(jen.Id(InputName).String()).
		Params(jen.Bool()).
		Block(matchCode...)

	findCode, err := e.generateFindFunction()
	if err != nil {
		return fmt.Errorf("failed to generate find function: %w", err)
	}
	e.method("FindStringIndex").
		Params(jen.Id(InputName).String()).
		Params(jen.Index().Int()).
		Block(findCode...)

	if err := e.file.Save(e.cfg.OutputFile); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return formatFile(e.cfg.OutputFile)
}

// generateMatchFunction renders the anchored entry point: match at offset
// 0, trailing input allowed.
func (e *Emitter) generateMatchFunction() ([]jen.Code, error) {
	code := e.generatePrologue(false)

	// fallback: resume a suspended alternative or report no match
	fallback := []jen.Code{jen.Id(TryFallbackName).Op(":")}
	if e.needsBacktracking {
		fallback = append(fallback,
			jen.If(jen.Len(jen.Id(StackName)).Op(">").Lit(0)).Block(
				jen.Id("last").Op(":=").Id(StackName).Index(jen.Len(jen.Id(StackName)).Op("-").Lit(1)),
				jen.Id(OffsetName).Op("=").Id("last").Index(jen.Lit(0)),
				jen.Id(NextInstructionName).Op("=").Id("last").Index(jen.Lit(1)),
				jen.Id(StackName).Op("=").Id(StackName).Index(jen.Empty(), jen.Len(jen.Id(StackName)).Op("-").Lit(1)),
				jen.Goto().Id(StepSelectName),
			),
			jen.Return(jen.False()),
		)
	} else {
		fallback = append(fallback, jen.Return(jen.False()))
	}
	code = append(code, fallback...)

	code = append(code, e.generateStepSelector()...)

	insts, err := e.generateInstructions(jen.Return(jen.True()))
	if err != nil {
		return nil, err
	}
	return append(code, insts...), nil
}

// generateFindFunction renders the unanchored entry point: retry at every
// start offset, returning the first [start, end) span or nil.
func (e *Emitter) generateFindFunction() ([]jen.Code, error) {
	code := e.generatePrologue(true)

	// retry at the next start offset once all alternatives at the
	// current one are exhausted
	retry := []jen.Code{
		jen.If(jen.Id(InputLenName).Op(">").Id(StartName)).Block(
			append([]jen.Code{
				jen.Id(StartName).Op("++"),
				jen.Id(OffsetName).Op("=").Id(StartName),
			},
				append(e.generateStateReset(),
					jen.Id(NextInstructionName).Op("=").Lit(0),
					jen.Goto().Id(StepSelectName),
				)...,
			)...,
		),
		jen.Return(jen.Nil()),
	}

	fallback := []jen.Code{jen.Id(TryFallbackName).Op(":")}
	if e.needsBacktracking {
		fallback = append(fallback,
			jen.If(jen.Len(jen.Id(StackName)).Op(">").Lit(0)).Block(
				jen.Id("last").Op(":=").Id(StackName).Index(jen.Len(jen.Id(StackName)).Op("-").Lit(1)),
				jen.Id(OffsetName).Op("=").Id("last").Index(jen.Lit(0)),
				jen.Id(NextInstructionName).Op("=").Id("last").Index(jen.Lit(1)),
				jen.Id(StackName).Op("=").Id(StackName).Index(jen.Empty(), jen.Len(jen.Id(StackName)).Op("-").Lit(1)),
				jen.Goto().Id(StepSelectName),
			),
		)
	}
	fallback = append(fallback, retry...)
	code = append(code, fallback...)

	code = append(code, e.generateStepSelector()...)

	insts, err := e.generateInstructions(
		jen.Return(jen.Index().Int().Values(jen.Id(StartName), jen.Id(OffsetName))),
	)
	if err != nil {
		return nil, err
	}
	return append(code, insts...), nil
}

// generatePrologue declares the run state shared by both entry points.
func (e *Emitter) generatePrologue(withStart bool) []jen.Code {
	code := []jen.Code{
		jen.Id(RunesName).Op(":=").Index().Rune().Call(jen.Id(InputName)),
		jen.Id(InputLenName).Op(":=").Len(jen.Id(RunesName)),
	}
	if withStart {
		code = append(code, jen.Id(StartName).Op(":=").Lit(0))
	}
	code = append(code, jen.Id(OffsetName).Op(":=").Lit(0))

	if e.needsBacktracking {
		numInst := len(e.cfg.Program.Insts)
		code = append(code,
			jen.Id(StackName).Op(":=").Make(jen.Index().Index(jen.Lit(2)).Int(), jen.Lit(0), jen.Lit(32)),
			jen.Id(VisitedName).Op(":=").Make(
				jen.Index().Uint32(),
				jen.Parens(jen.Lit(numInst).Op("*").Parens(jen.Id(InputLenName).Op("+").Lit(1)).Op("+").Lit(31)).Op("/").Lit(32),
			),
		)
	}

	return append(code,
		jen.Id(NextInstructionName).Op(":=").Lit(0),
		jen.Goto().Id(StepSelectName),
	)
}

// generateStateReset clears the backtracking state between start offsets.
func (e *Emitter) generateStateReset() []jen.Code {
	if !e.needsBacktracking {
		return nil
	}
	return []jen.Code{
		jen.Id(StackName).Op("=").Id(StackName).Index(jen.Empty(), jen.Lit(0)),
		jen.For(jen.Id("i").Op(":=").Range().Id(VisitedName)).Block(
			jen.Id(VisitedName).Index(jen.Id("i")).Op("=").Lit(0),
		),
	}
}

// generateStepSelector renders the instruction dispatch switch.
func (e *Emitter) generateStepSelector() []jen.Code {
	cases := []jen.Code{}
	for i := range e.cfg.Program.Insts {
		cases = append(cases,
			jen.Case(jen.Lit(i)).Block(jen.Goto().Id(InstructionName(uint32(i)))),
		)
	}
	return []jen.Code{
		jen.Id(StepSelectName).Op(":"),
		jen.Switch(jen.Id(NextInstructionName)).Block(cases...),
	}
}

// generateInstructions renders one labeled block per instruction. onMatch
// is the statement executed when the accept instruction is reached.
func (e *Emitter) generateInstructions(onMatch jen.Code) ([]jen.Code, error) {
	var code []jen.Code
	for i, inst := range e.cfg.Program.Insts {
		instCode, err := e.generateInstruction(uint32(i), inst, onMatch)
		if err != nil {
			return nil, fmt.Errorf("failed to generate instruction %d: %w", i, err)
		}
		code = append(code, instCode...)
	}
	return code, nil
}

func (e *Emitter) generateInstruction(id uint32, inst compiler.Inst, onMatch jen.Code) ([]jen.Code, error) {
	label := jen.Id(InstructionName(id)).Op(":")

	switch inst.Op {
	case compiler.OpMatch:
		return []jen.Code{
			label,
			jen.Block(onMatch),
		}, nil

	case compiler.OpChar:
		return []jen.Code{
			label,
			jen.Block(
				jen.If(jen.Id(InputLenName).Op("<=").Id(OffsetName)).Block(
					jen.Goto().Id(TryFallbackName),
				),
			),
			jen.Block(
				jen.If(jen.Id(RunesName).Index(jen.Id(OffsetName)).Op("!=").LitRune(inst.R)).Block(
					jen.Goto().Id(TryFallbackName),
				),
				jen.Id(OffsetName).Op("++"),
				jen.Goto().Id(InstructionName(id+1)),
			),
		}, nil

	case compiler.OpAny:
		return []jen.Code{
			label,
			jen.Block(
				jen.If(jen.Id(InputLenName).Op("<=").Id(OffsetName)).Block(
					jen.Goto().Id(TryFallbackName),
				),
				jen.Id(OffsetName).Op("++"),
				jen.Goto().Id(InstructionName(id+1)),
			),
		}, nil

	case compiler.OpJump:
		return []jen.Code{
			label,
			jen.Block(
				jen.Goto().Id(InstructionName(inst.X)),
			),
		}, nil

	case compiler.OpSplit:
		// Bit-vector check over (instruction, offset) states kills
		// zero-width loops in the generated matcher the same way the
		// interpreting VM does.
		return []jen.Code{
			label,
			jen.Block(
				jen.Id("idx").Op(":=").Lit(int(id)).Op("*").Parens(jen.Id(InputLenName).Op("+").Lit(1)).Op("+").Id(OffsetName),
				jen.List(jen.Id("word"), jen.Id("bit")).Op(":=").
					Id("idx").Op("/").Lit(32).Op(",").
					Uint32().Call(jen.Lit(1)).Op("<<").Parens(jen.Id("idx").Op("%").Lit(32)),
				jen.If(jen.Id(VisitedName).Index(jen.Id("word")).Op("&").Id("bit").Op("!=").Lit(0)).Block(
					jen.Goto().Id(TryFallbackName),
				),
				jen.Id(VisitedName).Index(jen.Id("word")).Op("|=").Id("bit"),
				jen.Id(StackName).Op("=").Append(
					jen.Id(StackName),
					jen.Index(jen.Lit(2)).Int().Values(jen.Id(OffsetName), jen.Lit(int(inst.Y))),
				),
				jen.Goto().Id(InstructionName(inst.X)),
			),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported opcode: %v", inst.Op)
	}
}

// formatFile runs the written file through gofmt.
func formatFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	formatted, err := format.Source(src)
	if err != nil {
		return err
	}
	return os.WriteFile(path, formatted, 0644)
}
