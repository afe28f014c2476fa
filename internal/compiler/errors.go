package compiler

// CodeGenErrorKind identifies where code generation failed.
type CodeGenErrorKind uint8

const (
	// PCOverflow reports that an address computation exceeded the
	// representable program-counter range.
	PCOverflow CodeGenErrorKind = iota
	// FailOr wraps a failure inside an alternation's sub-compilation.
	FailOr
	// FailStar wraps a failure inside a star's sub-compilation.
	FailStar
	// FailPlus wraps a failure inside a plus's sub-compilation.
	FailPlus
	// FailQuestion wraps a failure inside a question's sub-compilation.
	FailQuestion
)

func (k CodeGenErrorKind) String() string {
	switch k {
	case PCOverflow:
		return "program counter overflow"
	case FailOr:
		return "or"
	case FailStar:
		return "star"
	case FailPlus:
		return "plus"
	case FailQuestion:
		return "question"
	}
	return "unknown"
}

// CodeGenError is a fatal compilation failure. Kind distinguishes a direct
// program-counter overflow from a failure propagated out of a combinator's
// sub-compilation; Err holds the propagated cause, if any. Nothing partial
// is usable after a CodeGenError.
type CodeGenError struct {
	Kind CodeGenErrorKind
	Err  error
}

func (e *CodeGenError) Error() string {
	if e.Err != nil {
		return "codegen: " + e.Kind.String() + ": " + e.Err.Error()
	}
	return "codegen: " + e.Kind.String()
}

func (e *CodeGenError) Unwrap() error {
	return e.Err
}
