// Package regexvm compiles a small regular-expression dialect into
// programs for a backtracking virtual machine and matches them against
// strings. The dialect supports literal characters, `.`, concatenation,
// alternation, grouping, and the `+`, `*`, `?` repetition operators.
//
// A compiled Regexp is immutable and safe for concurrent use.
package regexvm

import (
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/regexvm/regexvm/internal/codegen"
	"github.com/regexvm/regexvm/internal/compiler"
	"github.com/regexvm/regexvm/internal/logger"
	"github.com/regexvm/regexvm/internal/parser"
	"github.com/regexvm/regexvm/internal/vm"
)

// Regexp is a compiled pattern.
type Regexp struct {
	expr string
	prog *compiler.Program

	// StepLimit, when non-zero, caps the number of VM steps per match
	// attempt. Exceeding it makes the erroring entry points return
	// vm.ErrStepLimit and the boolean ones report no match.
	StepLimit uint64
}

// Compile parses and compiles a pattern.
func Compile(pattern string) (*Regexp, error) {
	ast, err := parser.Parse(pattern)
	if err != nil {
		return nil, xerrors.Errorf("parse %q: %w", pattern, err)
	}
	prog, err := compiler.Compile(ast)
	if err != nil {
		return nil, xerrors.Errorf("compile %q: %w", pattern, err)
	}
	return &Regexp{expr: pattern, prog: prog}, nil
}

// MustCompile is like Compile but panics on error. It simplifies safe
// initialization of package-level variables holding compiled patterns.
func MustCompile(pattern string) *Regexp {
	re, err := Compile(pattern)
	if err != nil {
		panic("regexvm: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// String returns the source pattern.
func (re *Regexp) String() string {
	return re.expr
}

// Program returns the compiled instruction listing, for diagnostics.
func (re *Regexp) Program() string {
	return re.prog.String()
}

func (re *Regexp) machine() *vm.Machine {
	m := vm.New(re.prog)
	m.StepLimit = re.StepLimit
	return m
}

// MatchString reports whether the pattern matches s starting at position
// 0. Trailing input is allowed.
func (re *Regexp) MatchString(s string) bool {
	ok, err := re.machine().Match([]rune(s))
	return err == nil && ok
}

// MatchFullString reports whether the pattern matches all of s.
func (re *Regexp) MatchFullString(s string) bool {
	ok, err := re.machine().MatchFull([]rune(s))
	return err == nil && ok
}

// FindStringIndex returns the leftmost match of the pattern in s as a
// two-element [start, end) slice of character offsets, or nil if there is
// no match.
func (re *Regexp) FindStringIndex(s string) []int {
	start, end, ok, err := re.machine().Search([]rune(s))
	if err != nil || !ok {
		return nil
	}
	return []int{start, end}
}

// FindString returns the text of the leftmost match of the pattern in s.
// It returns the empty string both for no match and for an empty match;
// use FindStringIndex to tell the two apart.
func (re *Regexp) FindString(s string) string {
	runes := []rune(s)
	start, end, ok, err := re.machine().Search(runes)
	if err != nil || !ok {
		return ""
	}
	return string(runes[start:end])
}

// Options configures code emission for a pattern.
type Options struct {
	// Pattern is the regular expression to compile.
	Pattern string

	// Name is the prefix for generated identifiers (e.g. "Email"
	// generates "EmailMatchString").
	Name string

	// OutputFile is the path where generated code will be written.
	OutputFile string

	// Package is the Go package name for the generated code.
	Package string

	// Verbose enables debug logging of emission decisions.
	Verbose bool

	// Logger overrides the logger used for debug output. Nil with
	// Verbose unset means silent.
	Logger *zap.Logger
}

// Validate checks if the options are valid.
func (o Options) Validate() error {
	if o.Pattern == "" {
		return xerrors.New("pattern cannot be empty")
	}
	if o.Name == "" {
		return xerrors.New("name cannot be empty")
	}
	if o.OutputFile == "" {
		return xerrors.New("output file cannot be empty")
	}
	if o.Package == "" {
		return xerrors.New("package cannot be empty")
	}
	return nil
}

// Generate compiles the pattern and writes a standalone Go matcher for it:
// a `<Name>MatchString` / `<Name>FindStringIndex` pair equivalent to the
// VM's behavior, compiled ahead of time.
func Generate(opts Options) error {
	if err := opts.Validate(); err != nil {
		return xerrors.Errorf("invalid options: %w", err)
	}

	if opts.Logger == nil && opts.Verbose {
		opts.Logger = logger.NewConsoleLogger(true)
	}

	ast, err := parser.Parse(opts.Pattern)
	if err != nil {
		return xerrors.Errorf("failed to parse pattern: %w", err)
	}
	prog, err := compiler.NewGenerator(opts.Logger).Compile(ast)
	if err != nil {
		return xerrors.Errorf("failed to compile pattern: %w", err)
	}

	e := codegen.New(codegen.Config{
		Pattern:    opts.Pattern,
		Name:       opts.Name,
		Package:    opts.Package,
		OutputFile: opts.OutputFile,
		Program:    prog,
		Logger:     opts.Logger,
	})
	if err := e.Emit(); err != nil {
		return xerrors.Errorf("failed to generate code: %w", err)
	}
	return nil
}
